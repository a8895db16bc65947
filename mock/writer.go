package mock

import (
	"context"

	"github.com/fwojciec/html2md"
)

var (
	_ html2md.DocumentWriter = (*DocumentWriter)(nil)
	_ html2md.DocumentCache  = (*DocumentCache)(nil)
)

// DocumentWriter is a mock implementation of html2md.DocumentWriter.
type DocumentWriter struct {
	WriteDocumentFn func(ctx context.Context, doc *html2md.MarkdownDocument) error
}

func (w *DocumentWriter) WriteDocument(ctx context.Context, doc *html2md.MarkdownDocument) error {
	return w.WriteDocumentFn(ctx, doc)
}

// DocumentCache is a mock implementation of html2md.DocumentCache.
type DocumentCache struct {
	FindDocumentFn func(ctx context.Context, req *html2md.ConversionRequest) (*html2md.MarkdownDocument, error)
	SaveDocumentFn func(ctx context.Context, req *html2md.ConversionRequest, doc *html2md.MarkdownDocument) error
}

func (c *DocumentCache) FindDocument(ctx context.Context, req *html2md.ConversionRequest) (*html2md.MarkdownDocument, error) {
	return c.FindDocumentFn(ctx, req)
}

func (c *DocumentCache) SaveDocument(ctx context.Context, req *html2md.ConversionRequest, doc *html2md.MarkdownDocument) error {
	return c.SaveDocumentFn(ctx, req, doc)
}
