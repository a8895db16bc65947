package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/html2md"
)

// Ensure LoggingCache implements html2md.DocumentCache.
var _ html2md.DocumentCache = (*LoggingCache)(nil)

// LoggingCache wraps a DocumentCache and records hits and misses.
type LoggingCache struct {
	next   html2md.DocumentCache
	logger *slog.Logger
}

// NewLoggingCache creates a new LoggingCache.
func NewLoggingCache(next html2md.DocumentCache, logger *slog.Logger) *LoggingCache {
	return &LoggingCache{next: next, logger: logger}
}

// FindDocument delegates to the wrapped cache. A miss is not logged as an
// error.
func (c *LoggingCache) FindDocument(ctx context.Context, req *html2md.ConversionRequest) (doc *html2md.MarkdownDocument, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", req.Source.BaseURL,
			"hit", err == nil,
			"duration", time.Since(begin),
		}
		if err != nil && html2md.ErrorCode(err) != html2md.ENOTFOUND {
			attrs = append(attrs, "err", err)
		}
		c.logger.Debug("cache lookup", attrs...)
	}(time.Now())
	return c.next.FindDocument(ctx, req)
}

// SaveDocument delegates to the wrapped cache.
func (c *LoggingCache) SaveDocument(ctx context.Context, req *html2md.ConversionRequest, doc *html2md.MarkdownDocument) (err error) {
	defer func(begin time.Time) {
		c.logger.Debug("cache save",
			"url", req.Source.BaseURL,
			"tokens", doc.Tokens,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.SaveDocument(ctx, req, doc)
}
