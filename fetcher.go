package html2md

import "context"

// Fetcher retrieves HTML documents from URLs.
// Implementations may use browser automation to handle JavaScript-rendered content.
type Fetcher interface {
	// Fetch retrieves the document at url. The returned BaseURL is the
	// final URL after redirects, used to resolve relative links.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*SourceDocument, error)

	// Close releases resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
