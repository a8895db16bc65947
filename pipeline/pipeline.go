package pipeline

import (
	"strings"

	"github.com/fwojciec/html2md"
)

// Ensure Pipeline implements html2md.DocumentConverter at compile time.
var _ html2md.DocumentConverter = (*Pipeline)(nil)

// Pipeline runs Extractor → Converter → Clean → Truncate over one document.
// It holds no per-document state and is safe for concurrent use.
type Pipeline struct {
	Extractor html2md.Extractor
	Converter html2md.Converter
}

// New creates a Pipeline from its two pluggable stages.
func New(extractor html2md.Extractor, converter html2md.Converter) *Pipeline {
	return &Pipeline{Extractor: extractor, Converter: converter}
}

// Convert turns src into Markdown. When maxTokens is positive the body is
// truncated to roughly that many estimated tokens.
//
// The document title, when known, is prepended as a level-one heading unless
// the body already starts with one.
func (p *Pipeline) Convert(src html2md.SourceDocument, opts html2md.ConversionOptions, maxTokens int) (*html2md.MarkdownDocument, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	extracted, err := p.Extractor.Extract(src.HTML, src.BaseURL)
	if err != nil {
		return nil, err
	}

	markdown, err := p.Converter.Convert(extracted.ContentHTML, opts)
	if err != nil {
		return nil, err
	}

	markdown = html2md.Clean(markdown)

	if extracted.Title != "" && !strings.HasPrefix(markdown, "# ") {
		markdown = strings.TrimSpace("# " + extracted.Title + "\n\n" + markdown)
	}

	if maxTokens > 0 {
		markdown = html2md.Truncate(markdown, maxTokens)
	}

	return html2md.NewMarkdownDocument(extracted.Title, src.BaseURL, markdown), nil
}
