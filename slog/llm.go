package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/isocert"
)

var _ isocert.LLM = (*LoggingLLM)(nil)

// LoggingLLM wraps an LLM with logging. Prompts are not logged.
type LoggingLLM struct {
	next   isocert.LLM
	logger *slog.Logger
}

// NewLoggingLLM creates a new LoggingLLM.
func NewLoggingLLM(next isocert.LLM, logger *slog.Logger) *LoggingLLM {
	return &LoggingLLM{next: next, logger: logger}
}

// Complete delegates to the wrapped LLM and logs the response size.
func (l *LoggingLLM) Complete(ctx context.Context, system, prompt string) (text string, err error) {
	defer func(begin time.Time) {
		l.logger.Info("llm completion",
			"prompt_bytes", len(prompt),
			"response_bytes", len(text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.Complete(ctx, system, prompt)
}
