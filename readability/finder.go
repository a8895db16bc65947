// Package readability finds article content with go-readability.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/html2md"
	"github.com/go-shiori/go-readability"
)

// Ensure Finder implements html2md.CandidateFinder at compile time.
var _ html2md.CandidateFinder = (*Finder)(nil)

// Finder wraps go-readability to locate the main content of a page.
type Finder struct{}

// NewFinder creates a new Finder.
func NewFinder() *Finder {
	return &Finder{}
}

// FindCandidate runs readability over rawHTML. Relative links in the
// returned content are resolved against baseURL. Returns nil when
// readability finds no content.
func (f *Finder) FindCandidate(rawHTML, baseURL string) (*html2md.Candidate, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, html2md.Errorf(html2md.EINVALID, "empty HTML input")
	}
	if baseURL == "" {
		baseURL = html2md.DefaultBaseURL
	}

	pageURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, html2md.Errorf(html2md.EINVALID, "invalid base URL %q", baseURL)
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), pageURL)
	if err != nil {
		return nil, err
	}
	if article.Node == nil || strings.TrimSpace(article.Content) == "" {
		return nil, nil
	}

	return &html2md.Candidate{
		Title:       strings.TrimSpace(article.Title),
		ContentHTML: article.Content,
		TextContent: article.TextContent,
	}, nil
}
