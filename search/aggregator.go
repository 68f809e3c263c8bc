// Package search implements the lookup pipeline: the cache gate in front of
// the aggregation engine, the aggregation engine itself and the LLM lookup.
package search

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/isocert"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const tracerName = "github.com/fwojciec/isocert/search"

// Ensure Aggregator implements isocert.Aggregator at compile time.
var _ isocert.Aggregator = (*Aggregator)(nil)

// Aggregator merges certification records from the relational store, the
// scraper pool and the LLM lookup into one ranked list.
//
// The relational lookup runs first without a deadline. The scraper pool and
// the LLM lookup then run concurrently under one shared deadline; when it
// expires their context is canceled and whatever they have not returned is
// discarded. No source failure fails the aggregation.
type Aggregator struct {
	Relational isocert.CertificationFinder
	Scrapers   isocert.ScraperPool
	LLM        isocert.CertificationFinder

	// Timeout bounds the scraper and LLM lookups. Zero uses LocalTimeout.
	Timeout time.Duration

	Logger  *slog.Logger
	Metrics isocert.Metrics
	Tracer  trace.Tracer
}

// familyResult is the outcome of one source family before the downgrade
// policy is applied.
type familyResult struct {
	records []*isocert.Certification
	err     error
}

// Aggregate returns the merged certifications for companyName. An empty
// list is a valid result. The returned error is always nil; it exists so
// that decorators and alternative implementations can report failures.
func (a *Aggregator) Aggregate(ctx context.Context, companyName string) ([]*isocert.Certification, error) {
	ctx, span := a.tracer().Start(ctx, "search.Aggregate",
		trace.WithAttributes(attribute.String("company", companyName)))
	defer span.End()

	relational := a.lookup(ctx, isocert.FamilyRelational, func(ctx context.Context) ([]*isocert.Certification, error) {
		if a.Relational == nil {
			return nil, nil
		}
		return a.Relational.FindCertifications(ctx, companyName)
	})

	raceCtx, cancel := context.WithTimeout(ctx, a.timeout())
	defer cancel()

	var scraped, llm familyResult
	var g errgroup.Group
	g.Go(func() error {
		scraped = a.lookup(raceCtx, isocert.FamilyScraped, func(ctx context.Context) ([]*isocert.Certification, error) {
			if a.Scrapers == nil {
				return nil, nil
			}
			raws, err := race(ctx, func(ctx context.Context) ([]*isocert.RawCertification, error) {
				return a.Scrapers.FetchAll(ctx, companyName)
			})
			return isocert.ConvertRaw(raws), err
		})
		return nil
	})
	g.Go(func() error {
		llm = a.lookup(raceCtx, isocert.FamilyLLM, func(ctx context.Context) ([]*isocert.Certification, error) {
			if a.LLM == nil {
				return nil, nil
			}
			return race(ctx, func(ctx context.Context) ([]*isocert.Certification, error) {
				return a.LLM.FindCertifications(ctx, companyName)
			})
		})
		return nil
	})
	_ = g.Wait()

	var records []*isocert.Certification
	records = append(records, downgrade(isocert.FamilyRelational, relational)...)
	records = append(records, downgrade(isocert.FamilyScraped, scraped)...)
	records = append(records, downgrade(isocert.FamilyLLM, llm)...)

	merged := isocert.MergeCertifications(records)
	span.SetAttributes(attribute.Int("results", len(merged)))
	return merged, nil
}

// downgrade turns a family result into its contribution to the merge. A
// failed family contributes nothing, except the scraper pool: its error
// only names the scrapers that failed, so the findings of the others stay.
func downgrade(family isocert.SourceFamily, r familyResult) []*isocert.Certification {
	if r.err != nil && family != isocert.FamilyScraped {
		return nil
	}
	return r.records
}

// lookup runs one family inside a span, then logs and records the outcome.
func (a *Aggregator) lookup(ctx context.Context, family isocert.SourceFamily, fn func(context.Context) ([]*isocert.Certification, error)) familyResult {
	ctx, span := a.tracer().Start(ctx, "search."+string(family))
	defer span.End()

	begin := time.Now()
	records, err := fn(ctx)
	d := time.Since(begin)
	if err != nil {
		err = isocert.NewSourceError(family, "", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		a.logger().Warn("source failed",
			"family", string(family),
			"kind", isocert.KindOf(err),
			"records", len(records),
			"duration", d,
			"err", err,
		)
	} else {
		a.logger().Debug("source",
			"family", string(family),
			"records", len(records),
			"duration", d,
		)
	}
	span.SetAttributes(attribute.Int("records", len(records)))
	if a.Metrics != nil {
		a.Metrics.ObserveSource(family, d, len(records), err)
	}

	return familyResult{records: records, err: err}
}

// race runs fn and returns its result, or ctx.Err() as soon as ctx is done.
// fn receives ctx so it can stop cooperatively; a result it produces after
// the deadline is dropped.
func race[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				var zero T
				ch <- result{v: zero, err: fmt.Errorf("source panicked: %v", r)}
			}
		}()
		v, err := fn(ctx)
		ch <- result{v: v, err: err}
	}()

	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (a *Aggregator) timeout() time.Duration {
	if a.Timeout <= 0 {
		return LocalTimeout
	}
	return a.Timeout
}

func (a *Aggregator) tracer() trace.Tracer {
	if a.Tracer == nil {
		return otel.Tracer(tracerName)
	}
	return a.Tracer
}

func (a *Aggregator) logger() *slog.Logger {
	if a.Logger == nil {
		return discardLogger
	}
	return a.Logger
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
