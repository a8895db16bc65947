package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/html2md"
)

var _ html2md.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService logs each sitemap discovery.
type LoggingSitemapService struct {
	next   html2md.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService wraps next.
func NewLoggingSitemapService(next html2md.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs records how many URLs survived and which filter was applied.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *html2md.URLFilter) (urls []string, err error) {
	defer func(begin time.Time) {
		attrs := []slog.Attr{
			slog.String("url", baseURL),
			slog.Int("count", len(urls)),
			slog.Duration("duration", time.Since(begin)),
		}
		if filter != nil {
			attrs = append(attrs, slog.Group("filter",
				slog.Int("include", len(filter.Include)),
				slog.Int("exclude", len(filter.Exclude)),
			))
		}
		if err != nil {
			attrs = append(attrs, slog.Any("err", err))
		}
		s.logger.LogAttrs(ctx, outcome(err), "sitemap discovery", attrs...)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL, filter)
}
