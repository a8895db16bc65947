package mock

import (
	"context"

	"github.com/fwojciec/html2md"
)

var (
	_ html2md.Fetcher       = (*Fetcher)(nil)
	_ html2md.DomainLimiter = (*DomainLimiter)(nil)
)

// Fetcher is a mock implementation of html2md.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*html2md.SourceDocument, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*html2md.SourceDocument, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

// DomainLimiter is a mock implementation of html2md.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
