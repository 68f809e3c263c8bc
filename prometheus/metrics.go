// Package prometheus implements isocert.Metrics with Prometheus collectors.
package prometheus

import (
	"net/http"
	"time"

	"github.com/fwojciec/isocert"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ isocert.Metrics = (*Metrics)(nil)

// Metrics provides observability for search aggregation.
type Metrics struct {
	registry *prometheus.Registry

	// Lookup latency by source family
	SourceLatency *prometheus.HistogramVec

	// Records contributed by source family
	SourceRecords *prometheus.CounterVec

	// Failed lookups by source family and error kind
	SourceFailures *prometheus.CounterVec

	// Cache lookups by result: "hit" or "miss"
	CacheLookups *prometheus.CounterVec
}

// New creates a new Metrics instance registered on its own registry, which
// also carries the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		SourceLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "isocert_source_duration_seconds",
			Help:    "Duration of certification lookups by source family",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8},
		}, []string{"family"}),

		SourceRecords: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "isocert_source_records_total",
			Help: "Total records returned by source family",
		}, []string{"family"}),

		SourceFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "isocert_source_failures_total",
			Help: "Total failed lookups by source family and error kind",
		}, []string{"family", "kind"}),

		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "isocert_cache_lookups_total",
			Help: "Total cache lookups by result",
		}, []string{"result"}),
	}
}

// ObserveSource records one family lookup.
func (m *Metrics) ObserveSource(family isocert.SourceFamily, d time.Duration, records int, err error) {
	if m == nil {
		return
	}
	m.SourceLatency.WithLabelValues(string(family)).Observe(d.Seconds())
	m.SourceRecords.WithLabelValues(string(family)).Add(float64(records))
	if err != nil {
		m.SourceFailures.WithLabelValues(string(family), isocert.KindOf(err)).Inc()
	}
}

// ObserveCacheLookup records a cache hit or miss.
func (m *Metrics) ObserveCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an http.Handler exposing the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
