// Package rod provides a Fetcher that renders pages in headless Chrome, for
// documents whose content only exists after JavaScript runs.
package rod

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fwojciec/html2md"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Fetcher implements html2md.Fetcher at compile time.
var _ html2md.Fetcher = (*Fetcher)(nil)

// DefaultFetchTimeout bounds a single page render.
const DefaultFetchTimeout = 30 * time.Second

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager  *BrowserManager
	timeout  time.Duration
	maxPages int64
	closed   atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-page render timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRecycleAfter sets how many pages the browser renders before it is
// replaced with a fresh instance.
func WithRecycleAfter(n int64) Option {
	return func(f *Fetcher) {
		f.maxPages = n
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:  DefaultFetchTimeout,
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager(WithMaxPages(f.maxPages))
	if err != nil {
		return nil, err
	}
	f.manager = manager

	return f, nil
}

// Fetch navigates to the URL, waits for the page to load and returns the
// rendered HTML. The returned BaseURL is the page URL after any redirects.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*html2md.SourceDocument, error) {
	if f.closed.Load() {
		return nil, html2md.Errorf(html2md.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	browser, release, err := f.manager.Acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, html2md.WrapError(err, html2md.ERENDER, "failed to open page")
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return nil, renderError(ctx, err, url)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, renderError(ctx, err, url)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, renderError(ctx, err, url)
	}

	finalURL := url
	if info, err := page.Info(); err == nil && info.URL != "" {
		finalURL = info.URL
	}

	return &html2md.SourceDocument{HTML: html, BaseURL: finalURL}, nil
}

// renderError prefers the context error so callers can match
// context.Canceled and context.DeadlineExceeded.
func renderError(ctx context.Context, err error, url string) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return html2md.WrapError(ctxErr, html2md.ERENDER, "rendering %s", url)
	}
	return html2md.WrapError(err, html2md.ERENDER, "rendering %s", url)
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}
