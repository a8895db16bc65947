// Package pipeline wires the four conversion stages into a single
// HTML-to-Markdown run.
package pipeline

import (
	"strings"

	"github.com/fwojciec/html2md"
)

// Ensure Extractor implements html2md.Extractor at compile time.
var _ html2md.Extractor = (*Extractor)(nil)

// Extractor chooses the main content of a document. It trusts the
// CandidateFinder only when the candidate has enough words and otherwise
// falls back to the noise-stripped body from the BodyCleaner.
type Extractor struct {
	Finder  html2md.CandidateFinder
	Cleaner html2md.BodyCleaner

	// MinWords overrides html2md.MinContentWords when positive.
	MinWords int
}

// NewExtractor creates an Extractor with the default quality threshold.
func NewExtractor(finder html2md.CandidateFinder, cleaner html2md.BodyCleaner) *Extractor {
	return &Extractor{Finder: finder, Cleaner: cleaner}
}

// Extract implements html2md.Extractor. A failing or empty candidate is not
// an error: the fallback body is returned with Fallback set.
func (e *Extractor) Extract(rawHTML, baseURL string) (*html2md.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, html2md.Errorf(html2md.EINVALID, "empty HTML input")
	}
	if baseURL == "" {
		baseURL = html2md.DefaultBaseURL
	}

	minWords := e.MinWords
	if minWords <= 0 {
		minWords = html2md.MinContentWords
	}

	var words int
	cand, err := e.Finder.FindCandidate(rawHTML, baseURL)
	if err == nil && cand != nil {
		words = html2md.WordCount(cand.TextContent)
		if words >= minWords {
			title := cand.Title
			if title == "" {
				title = headTitle(rawHTML)
			}
			return &html2md.ExtractResult{
				Title:       title,
				ContentHTML: cand.ContentHTML,
				WordCount:   words,
			}, nil
		}
	}

	body, err := e.Cleaner.CleanBody(rawHTML, baseURL)
	if err != nil {
		return nil, err
	}

	return &html2md.ExtractResult{
		Title:       body.Title,
		ContentHTML: body.BodyHTML,
		WordCount:   words,
		Fallback:    true,
	}, nil
}
