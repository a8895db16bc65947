package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/html2md"
	"github.com/fwojciec/html2md/mock"
	h2mslog "github.com/fwojciec/html2md/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingCache(t *testing.T) {
	t.Parallel()

	req := &html2md.ConversionRequest{Source: html2md.SourceDocument{HTML: "<p>x</p>", BaseURL: "https://example.com/x"}}

	t.Run("logs miss without error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.DocumentCache{
			FindDocumentFn: func(ctx context.Context, req *html2md.ConversionRequest) (*html2md.MarkdownDocument, error) {
				return nil, html2md.Errorf(html2md.ENOTFOUND, "not cached")
			},
		}

		_, err := h2mslog.NewLoggingCache(inner, logger).FindDocument(context.Background(), req)

		assert.Equal(t, html2md.ENOTFOUND, html2md.ErrorCode(err))
		output := buf.String()
		assert.Contains(t, output, "msg=\"cache lookup\"")
		assert.Contains(t, output, "hit=false")
		assert.NotContains(t, output, "err=")
	})

	t.Run("logs save", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.DocumentCache{
			SaveDocumentFn: func(ctx context.Context, req *html2md.ConversionRequest, doc *html2md.MarkdownDocument) error {
				return nil
			},
		}
		doc := html2md.NewMarkdownDocument("", "https://example.com/x", "12345678")

		err := h2mslog.NewLoggingCache(inner, logger).SaveDocument(context.Background(), req, doc)

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "msg=\"cache save\"")
		assert.Contains(t, output, "tokens=2")
	})
}
