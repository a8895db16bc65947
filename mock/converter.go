package mock

import "github.com/fwojciec/html2md"

var _ html2md.Converter = (*Converter)(nil)

// Converter is a mock implementation of html2md.Converter.
type Converter struct {
	ConvertFn func(html string, opts html2md.ConversionOptions) (string, error)
}

func (c *Converter) Convert(html string, opts html2md.ConversionOptions) (string, error) {
	return c.ConvertFn(html, opts)
}

var _ html2md.DocumentConverter = (*DocumentConverter)(nil)

// DocumentConverter is a mock implementation of html2md.DocumentConverter.
type DocumentConverter struct {
	ConvertFn func(src html2md.SourceDocument, opts html2md.ConversionOptions, maxTokens int) (*html2md.MarkdownDocument, error)
}

func (c *DocumentConverter) Convert(src html2md.SourceDocument, opts html2md.ConversionOptions, maxTokens int) (*html2md.MarkdownDocument, error) {
	return c.ConvertFn(src, opts, maxTokens)
}
