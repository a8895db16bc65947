// Package http provides net/http implementations of html2md.Fetcher and
// html2md.SitemapService for pages that do not need JavaScript rendering.
package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/html2md"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for a single page request.
const DefaultFetchTimeout = 15 * time.Second

// UserAgent identifies html2md to the sites it fetches.
const UserAgent = "html2md/1.0 (agent-friendly HTML converter)"

// MaxBodyBytes is the default cap on response size. Larger pages are
// rejected rather than cut short.
const MaxBodyBytes = 20 << 20

const acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"

// Ensure Fetcher implements html2md.Fetcher at compile time.
var _ html2md.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML documents over plain HTTP.
type Fetcher struct {
	client   *http.Client
	timeout  time.Duration
	maxBytes int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithClient sets the HTTP client used for requests. The Fetcher works on a
// copy with the fetch timeout applied, so c itself is left unchanged.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// WithMaxBodyBytes sets the largest response body accepted, in bytes.
// Defaults to MaxBodyBytes.
func WithMaxBodyBytes(n int64) Option {
	return func(f *Fetcher) {
		f.maxBytes = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:  DefaultFetchTimeout,
		maxBytes: MaxBodyBytes,
	}
	for _, opt := range opts {
		opt(f)
	}

	var client http.Client
	if f.client != nil {
		client = *f.client
	}
	client.Timeout = f.timeout
	f.client = &client

	return f
}

// Fetch retrieves the document at url as UTF-8. Non-2xx responses and
// content types that are not HTML, XML or text are reported as EFETCH. The
// returned BaseURL is the URL of the final response after redirects.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*html2md.SourceDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, html2md.Errorf(html2md.EINVALID, "invalid URL %q", url)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, html2md.WrapError(err, html2md.EFETCH, "timeout: request exceeded %s for %s", f.timeout, url)
		}
		return nil, html2md.WrapError(err, html2md.EFETCH, "network error fetching %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, html2md.Errorf(html2md.EFETCH, "HTTP %s — %s", resp.Status, url)
	}

	ct := resp.Header.Get("Content-Type")
	if !isTextual(ct) {
		return nil, html2md.Errorf(html2md.EFETCH, "non-HTML content type: %s — use a different tool for binary content", ct)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, html2md.WrapError(err, html2md.EFETCH, "reading %s", url)
	}
	if int64(len(raw)) > f.maxBytes {
		return nil, html2md.Errorf(html2md.EFETCH, "response exceeds %d bytes: %s", f.maxBytes, url)
	}

	// Pages are decoded to UTF-8 using the Content-Type charset, a <meta>
	// declaration or content sniffing, in that order.
	r, err := charset.NewReader(bytes.NewReader(raw), ct)
	if err != nil {
		return nil, html2md.WrapError(err, html2md.EFETCH, "decoding %s", url)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, html2md.WrapError(err, html2md.EFETCH, "decoding %s", url)
	}

	return &html2md.SourceDocument{
		HTML:    string(body),
		BaseURL: resp.Request.URL.String(),
	}, nil
}

// isTextual reports whether a Content-Type can hold markup.
func isTextual(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "html") || strings.Contains(ct, "xml") || strings.Contains(ct, "text")
}

// Close is a no-op.
func (f *Fetcher) Close() error {
	return nil
}
