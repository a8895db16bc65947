package html2md

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert renders an HTML fragment as Markdown under opts.
	// Returns ERENDER if the rendering engine fails.
	Convert(html string, opts ConversionOptions) (string, error)
}

// DocumentConverter runs the whole conversion pipeline over one document.
type DocumentConverter interface {
	// Convert extracts, converts, cleans and, when maxTokens is positive,
	// truncates src.
	Convert(src SourceDocument, opts ConversionOptions, maxTokens int) (*MarkdownDocument, error)
}
