package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/html2md"
)

// Ensure LoggingExtractor implements html2md.Extractor.
var _ html2md.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor and records whether the quality gate
// fell back to the cleaned body.
type LoggingExtractor struct {
	next   html2md.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next html2md.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the outcome.
func (e *LoggingExtractor) Extract(rawHTML, baseURL string) (result *html2md.ExtractResult, err error) {
	defer func(begin time.Time) {
		var fallback bool
		var words int
		if result != nil {
			fallback = result.Fallback
			words = result.WordCount
		}
		e.logger.Info("extract",
			"url", baseURL,
			"fallback", fallback,
			"words", words,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(rawHTML, baseURL)
}
