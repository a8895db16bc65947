package html2md

import "strings"

// MinContentWords is the number of words a content candidate needs before
// it is trusted over the cleaned full body.
const MinContentWords = 30

// ExtractResult holds the content region chosen from an HTML page.
type ExtractResult struct {
	// Title is the candidate's title, or the document <title>.
	Title string

	// ContentHTML is the chosen content region as an HTML fragment.
	ContentHTML string

	// WordCount is the number of words in the candidate's text.
	// Zero when no candidate was found.
	WordCount int

	// Fallback reports whether the candidate was discarded in favor of
	// the noise-stripped document body.
	Fallback bool
}

// Extractor isolates the main content of an HTML document.
type Extractor interface {
	// Extract parses rawHTML, resolving relative links against baseURL,
	// and returns the main content region. Returns EPARSE if the document
	// cannot be parsed.
	Extract(rawHTML, baseURL string) (*ExtractResult, error)
}

// Candidate is the subtree a CandidateFinder believes to be the article body.
type Candidate struct {
	Title       string
	ContentHTML string
	TextContent string
}

// CandidateFinder runs a readability-style algorithm over a document.
type CandidateFinder interface {
	// FindCandidate returns the most likely article body, or nil when the
	// algorithm finds nothing.
	FindCandidate(rawHTML, baseURL string) (*Candidate, error)
}

// CleanedBody is a document body with structural noise removed.
type CleanedBody struct {
	// Title is the text of the document's <title> element.
	Title string

	// BodyHTML is the inner HTML of <body> after noise removal.
	BodyHTML string
}

// BodyCleaner strips the noise denylist from a full document body.
type BodyCleaner interface {
	CleanBody(rawHTML, baseURL string) (*CleanedBody, error)
}

// WordCount returns the number of whitespace-delimited words in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
