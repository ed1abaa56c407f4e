package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/koomastudio/postvault"
)

// Ensure LoggingExtractor implements postvault.Extractor.
var _ postvault.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with logging of every attempt,
// including soft failures, which never surface as errors.
type LoggingExtractor struct {
	next   postvault.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next postvault.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// ExtractInput delegates to the wrapped extractor and logs the outcome.
func (e *LoggingExtractor) ExtractInput(ctx context.Context, input string) (candidate *postvault.Candidate, err error) {
	defer func(begin time.Time) {
		e.logger.Info("extract input",
			"strategy", strategyName(candidate),
			"matched", candidate != nil,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.ExtractInput(ctx, input)
}

// ExtractDocument delegates to the wrapped extractor and logs the outcome.
func (e *LoggingExtractor) ExtractDocument(src postvault.DocumentSource) (candidate *postvault.Candidate, err error) {
	defer func(begin time.Time) {
		e.logger.Info("extract document",
			"strategy", strategyName(candidate),
			"matched", candidate != nil,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.ExtractDocument(src)
}

func strategyName(candidate *postvault.Candidate) string {
	if candidate == nil {
		return "(none)"
	}
	return string(candidate.Strategy)
}
