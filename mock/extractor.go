package mock

import "github.com/fwojciec/html2md"

var (
	_ html2md.Extractor       = (*Extractor)(nil)
	_ html2md.CandidateFinder = (*CandidateFinder)(nil)
	_ html2md.BodyCleaner     = (*BodyCleaner)(nil)
)

// Extractor is a mock implementation of html2md.Extractor.
type Extractor struct {
	ExtractFn func(rawHTML, baseURL string) (*html2md.ExtractResult, error)
}

func (e *Extractor) Extract(rawHTML, baseURL string) (*html2md.ExtractResult, error) {
	return e.ExtractFn(rawHTML, baseURL)
}

// CandidateFinder is a mock implementation of html2md.CandidateFinder.
type CandidateFinder struct {
	FindCandidateFn func(rawHTML, baseURL string) (*html2md.Candidate, error)
}

func (f *CandidateFinder) FindCandidate(rawHTML, baseURL string) (*html2md.Candidate, error) {
	return f.FindCandidateFn(rawHTML, baseURL)
}

// BodyCleaner is a mock implementation of html2md.BodyCleaner.
type BodyCleaner struct {
	CleanBodyFn func(rawHTML, baseURL string) (*html2md.CleanedBody, error)
}

func (c *BodyCleaner) CleanBody(rawHTML, baseURL string) (*html2md.CleanedBody, error) {
	return c.CleanBodyFn(rawHTML, baseURL)
}
