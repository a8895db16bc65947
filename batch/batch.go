// Package batch converts many documents concurrently. It coordinates
// fetching, rate limiting, de-duplication, caching and model token counts
// around a single-document html2md.DocumentConverter.
package batch

import (
	"context"
	"log/slog"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/fwojciec/html2md"
	"github.com/fwojciec/html2md/bloom"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of documents converted at once.
const DefaultConcurrency = 3

// dedupFalsePositiveRate is the acceptable chance of skipping a unique URL.
const dedupFalsePositiveRate = 0.001

// Runner converts documents with optional caching and token counting.
// Only Converter is required; Fetcher is required by Run.
type Runner struct {
	Fetcher   html2md.Fetcher
	Converter html2md.DocumentConverter
	Cache     html2md.DocumentCache
	Tokens    html2md.TokenCounter
	Limiter   html2md.DomainLimiter
	Logger    *slog.Logger

	Options   html2md.ConversionOptions
	MaxTokens int

	Concurrency int
	RetryDelays []time.Duration
}

// Result holds the outcome for one URL.
type Result struct {
	URL      string
	Document *html2md.MarkdownDocument
	Cached   bool
	Err      error
}

// ProgressEvent reports progress during a batch run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress. It is never
// called concurrently.
type ProgressFunc func(event ProgressEvent)

// ConvertSource converts one document that is already in hand. A cached
// result for the same document, options and budget is returned without
// running the converter; cached reports whether that happened.
func (r *Runner) ConvertSource(ctx context.Context, src html2md.SourceDocument) (doc *html2md.MarkdownDocument, cached bool, err error) {
	req := &html2md.ConversionRequest{Source: src, Options: r.Options, MaxTokens: r.MaxTokens}

	if r.Cache != nil {
		if hit, err := r.Cache.FindDocument(ctx, req); err == nil {
			doc, cached = hit, true
		}
	}

	if doc == nil {
		doc, err = r.Converter.Convert(src, r.Options, r.MaxTokens)
		if err != nil {
			return nil, false, err
		}
		if r.Cache != nil {
			// A failed save only costs a future cache miss.
			_ = r.Cache.SaveDocument(ctx, req, doc)
		}
	}

	if r.Tokens != nil {
		n, err := r.Tokens.CountTokens(ctx, doc.Body)
		if err != nil {
			return nil, false, html2md.WrapError(err, html2md.EINTERNAL, "counting model tokens")
		}
		doc.ModelTokens = n
	}

	return doc, cached, nil
}

// Run fetches and converts urls concurrently. Duplicate URLs, ignoring
// fragments, are converted once; results follow the order in which each
// URL first appears. A failing URL is reported in its Result and does not
// stop the others. The returned error is non-nil only if ctx ends the run.
func (r *Runner) Run(ctx context.Context, urls []string, progress ProgressFunc) ([]Result, error) {
	unique := dedupe(urls)
	total := len(unique)

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	type indexed struct {
		position int
		result   Result
	}
	resultCh := make(chan indexed, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, u := range unique {
			g.Go(func() error {
				resultCh <- indexed{position: i, result: r.process(gctx, u)}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	results := make([]Result, total)
	var completed atomic.Int64
	for res := range resultCh {
		results[res.position] = res.result
		n := int(completed.Add(1))
		if progress == nil {
			continue
		}
		event := ProgressEvent{Type: ProgressCompleted, Completed: n, Total: total, URL: res.result.URL}
		if res.result.Err != nil {
			event.Type = ProgressFailed
			event.Error = res.result.Err
		}
		progress(event)
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// process fetches and converts a single URL.
func (r *Runner) process(ctx context.Context, rawURL string) Result {
	result := Result{URL: rawURL}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		result.Err = html2md.Errorf(html2md.EINVALID, "invalid URL %q", rawURL)
		return result
	}

	if r.Limiter != nil {
		if err := r.Limiter.Wait(ctx, u.Host); err != nil {
			result.Err = err
			return result
		}
	}

	retrier := &Retrier{Delays: r.RetryDelays, Logger: r.Logger}
	if retrier.Delays == nil {
		retrier.Delays = DefaultRetryDelays()
	}
	src, err := retrier.Fetch(ctx, rawURL, r.Fetcher.Fetch)
	if err != nil {
		result.Err = err
		return result
	}

	result.Document, result.Cached, result.Err = r.ConvertSource(ctx, *src)
	return result
}

// dedupe drops repeated URLs, keeping first occurrences in order.
func dedupe(urls []string) []string {
	filter := bloom.NewFilter(uint(max(len(urls), 64)), dedupFalsePositiveRate)
	unique := make([]string, 0, len(urls))
	for _, u := range urls {
		if filter.AddNew(u) {
			unique = append(unique, u)
		}
	}
	return unique
}
