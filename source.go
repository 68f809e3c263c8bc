package isocert

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// SourceFamily is a class of origin for candidate records.
type SourceFamily string

// Source families in merge order.
const (
	FamilyRelational SourceFamily = "relational"
	FamilyScraped    SourceFamily = "scraped"
	FamilyLLM        SourceFamily = "llm"
)

// Source error kinds.
const (
	KindTimeout     = "timeout"
	KindUnavailable = "unavailable"
	KindBadData     = "bad_data"
)

// SourceError describes why one source contributed nothing.
type SourceError struct {
	Family SourceFamily
	Source string
	Kind   string
	Err    error
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	name := string(e.Family)
	if e.Source != "" {
		name += "/" + e.Source
	}
	return fmt.Sprintf("%s: %s: %v", name, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *SourceError) Unwrap() error { return e.Err }

// NewSourceError wraps err, classifying it with KindOf unless it already
// carries a kind.
func NewSourceError(family SourceFamily, source string, err error) *SourceError {
	return &SourceError{Family: family, Source: source, Kind: KindOf(err), Err: err}
}

// KindOf classifies err. Deadline and cancellation errors are timeouts,
// EINVALID application errors are bad data, everything else is treated as
// the source being unavailable.
func KindOf(err error) string {
	var se *SourceError
	switch {
	case errors.As(err, &se):
		return se.Kind
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return KindTimeout
	case ErrorCode(err) == EINVALID:
		return KindBadData
	default:
		return KindUnavailable
	}
}

// Metrics records observations about source lookups and the cache.
type Metrics interface {
	// ObserveSource records one family lookup. err is nil on success.
	ObserveSource(family SourceFamily, d time.Duration, records int, err error)

	// ObserveCacheLookup records a cache hit or miss.
	ObserveCacheLookup(hit bool)
}
