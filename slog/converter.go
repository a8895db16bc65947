package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/html2md"
)

// Ensure LoggingConverter implements html2md.Converter.
var _ html2md.Converter = (*LoggingConverter)(nil)

// LoggingConverter wraps a Converter with debug logging.
type LoggingConverter struct {
	next   html2md.Converter
	logger *slog.Logger
}

// NewLoggingConverter creates a new LoggingConverter.
func NewLoggingConverter(next html2md.Converter, logger *slog.Logger) *LoggingConverter {
	return &LoggingConverter{next: next, logger: logger}
}

// Convert delegates to the wrapped converter and logs input and output sizes.
func (c *LoggingConverter) Convert(html string, opts html2md.ConversionOptions) (markdown string, err error) {
	defer func(begin time.Time) {
		c.logger.Debug("convert",
			"bytes_in", len(html),
			"bytes_out", len(markdown),
			"tables", !opts.StripTables,
			"links", !opts.StripLinks,
			"images", !opts.StripImages,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Convert(html, opts)
}
