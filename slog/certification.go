package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/isocert"
)

var _ isocert.CertificationFinder = (*LoggingCertificationFinder)(nil)

// LoggingCertificationFinder wraps a CertificationFinder with logging.
type LoggingCertificationFinder struct {
	next   isocert.CertificationFinder
	name   string
	logger *slog.Logger
}

// NewLoggingCertificationFinder creates a new LoggingCertificationFinder.
// name identifies the finder in log lines, e.g. "sqlite" or "llm".
func NewLoggingCertificationFinder(next isocert.CertificationFinder, name string, logger *slog.Logger) *LoggingCertificationFinder {
	return &LoggingCertificationFinder{next: next, name: name, logger: logger}
}

// FindCertifications delegates to the wrapped finder and logs the outcome.
func (f *LoggingCertificationFinder) FindCertifications(ctx context.Context, companyName string) (certs []*isocert.Certification, err error) {
	defer func(begin time.Time) {
		f.logger.Info("find certifications",
			"finder", f.name,
			"company", companyName,
			"count", len(certs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FindCertifications(ctx, companyName)
}
