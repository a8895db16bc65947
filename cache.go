package html2md

import "context"

// ConversionRequest identifies one pipeline run: a document, the options it
// is rendered with, and its token budget (0 for none).
type ConversionRequest struct {
	Source    SourceDocument
	Options   ConversionOptions
	MaxTokens int
}

// DocumentCache stores converted documents keyed by the request that
// produced them. It lives beside the pipeline, never inside it.
type DocumentCache interface {
	// FindDocument returns the cached result for req.
	// Returns ENOTFOUND if no result is cached.
	FindDocument(ctx context.Context, req *ConversionRequest) (*MarkdownDocument, error)

	// SaveDocument caches doc as the result of req, replacing any
	// previous entry.
	SaveDocument(ctx context.Context, req *ConversionRequest, doc *MarkdownDocument) error
}
