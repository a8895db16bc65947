package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/html2md"
)

var _ html2md.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher logs every fetch at Info, or at Warn when it fails.
type LoggingFetcher struct {
	next   html2md.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher wraps next.
func NewLoggingFetcher(next html2md.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch records the requested URL, where it ended up and how large the page was.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (doc *html2md.SourceDocument, err error) {
	defer func(begin time.Time) {
		attrs := []slog.Attr{slog.String("url", url), slog.Duration("duration", time.Since(begin))}
		if doc != nil {
			attrs = append(attrs, slog.String("final_url", doc.BaseURL), slog.Int("bytes", len(doc.HTML)))
		}
		if err != nil {
			attrs = append(attrs, slog.Any("err", err))
		}
		f.logger.LogAttrs(ctx, outcome(err), "fetch", attrs...)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close closes the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
