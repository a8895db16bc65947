// Package trafilatura finds article content with go-trafilatura.
package trafilatura

import (
	"net/url"
	"strings"

	"github.com/fwojciec/html2md"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

var _ html2md.CandidateFinder = (*Finder)(nil)

// Finder locates the main content of a page with trafilatura. Links, images
// and tables are kept in the candidate; the converter decides what to strip.
type Finder struct {
	// Comments keeps user comment sections in the content.
	Comments bool

	// Fallback lets trafilatura compare its result with readability and
	// dom-distiller output and keep the better one.
	Fallback bool
}

// NewFinder returns a Finder with comments dropped and fallback enabled.
func NewFinder() *Finder {
	return &Finder{Fallback: true}
}

func (f *Finder) options(baseURL string) (trafilatura.Options, error) {
	opts := trafilatura.Options{
		ExcludeComments: !f.Comments,
		EnableFallback:  f.Fallback,
		IncludeLinks:    true,
		IncludeImages:   true,
	}
	if baseURL == "" {
		return opts, nil
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return opts, html2md.Errorf(html2md.EINVALID, "invalid base URL %q", baseURL)
	}
	opts.OriginalURL = u
	return opts, nil
}

// FindCandidate returns nil when trafilatura finds no content node.
func (f *Finder) FindCandidate(rawHTML, baseURL string) (*html2md.Candidate, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, html2md.Errorf(html2md.EINVALID, "empty HTML input")
	}
	opts, err := f.options(baseURL)
	if err != nil {
		return nil, err
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, html2md.WrapError(err, html2md.EPARSE, "trafilatura extraction")
	}
	if result == nil || result.ContentNode == nil {
		return nil, nil
	}

	var b strings.Builder
	if err := html.Render(&b, result.ContentNode); err != nil {
		return nil, html2md.WrapError(err, html2md.EINTERNAL, "rendering content")
	}

	return &html2md.Candidate{
		Title:       strings.TrimSpace(result.Metadata.Title),
		ContentHTML: b.String(),
		TextContent: result.ContentText,
	}, nil
}
