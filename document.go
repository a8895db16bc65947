package html2md

import (
	"context"
	"net/url"
	"strings"
)

// DefaultBaseURL is used to resolve relative links when the caller has no
// better base, e.g. when HTML arrives on stdin.
const DefaultBaseURL = "http://localhost/"

// SourceDocument is a raw HTML document together with the URL it was
// retrieved from.
type SourceDocument struct {
	HTML    string
	BaseURL string
}

// Validate returns an error if the document cannot enter the pipeline.
func (d *SourceDocument) Validate() error {
	if strings.TrimSpace(d.HTML) == "" {
		return Errorf(EINVALID, "empty HTML input")
	}
	if d.BaseURL != "" {
		if _, err := url.Parse(d.BaseURL); err != nil {
			return Errorf(EINVALID, "invalid base URL %q", d.BaseURL)
		}
	}
	return nil
}

// ConversionOptions controls how the converter renders tables, links and
// images.
type ConversionOptions struct {
	// StripTables renders table cells as bullet list items instead of
	// pipe tables.
	StripTables bool `json:"stripTables"`

	// StripLinks renders links as their text, discarding the URL.
	StripLinks bool `json:"stripLinks"`

	// StripImages drops every image.
	StripImages bool `json:"stripImages"`
}

// MarkdownDocument is the final output of the pipeline. Its JSON form is
// the envelope returned to callers that ask for JSON output.
type MarkdownDocument struct {
	Title     string `json:"title"`
	SourceURL string `json:"url"`
	Body      string `json:"markdown"`
	Tokens    int    `json:"tokens"`

	// ModelTokens is an optional count from a real tokenizer. It is
	// reported only and never used for truncation.
	ModelTokens int `json:"modelTokens,omitempty"`
}

// NewMarkdownDocument returns a document whose token estimate is derived
// from body.
func NewMarkdownDocument(title, sourceURL, body string) *MarkdownDocument {
	return &MarkdownDocument{
		Title:     title,
		SourceURL: sourceURL,
		Body:      body,
		Tokens:    EstimateTokens(body),
	}
}

// DocumentWriter writes converted documents to storage.
type DocumentWriter interface {
	WriteDocument(ctx context.Context, doc *MarkdownDocument) error
}
