package batch_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/html2md"
	"github.com/fwojciec/html2md/batch"
	"github.com/fwojciec/html2md/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoFetcher() *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (*html2md.SourceDocument, error) {
			return &html2md.SourceDocument{HTML: "<p>" + url + "</p>", BaseURL: url}, nil
		},
	}
}

func bodyConverter() *mock.DocumentConverter {
	return &mock.DocumentConverter{
		ConvertFn: func(src html2md.SourceDocument, opts html2md.ConversionOptions, maxTokens int) (*html2md.MarkdownDocument, error) {
			return html2md.NewMarkdownDocument("", src.BaseURL, src.HTML), nil
		},
	}
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	t.Run("returns results in input order", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*html2md.SourceDocument, error) {
				if url == "https://example.com/a" {
					time.Sleep(20 * time.Millisecond)
				}
				return &html2md.SourceDocument{HTML: "<p>" + url + "</p>", BaseURL: url}, nil
			},
		}
		r := &batch.Runner{Fetcher: fetcher, Converter: bodyConverter(), Concurrency: 3, RetryDelays: noDelays}
		urls := []string{"https://example.com/a", "https://example.com/b", "https://example.com/c"}

		results, err := r.Run(context.Background(), urls, nil)

		require.NoError(t, err)
		require.Len(t, results, 3)
		for i, u := range urls {
			assert.Equal(t, u, results[i].URL)
			require.NoError(t, results[i].Err)
			assert.Equal(t, "<p>"+u+"</p>", results[i].Document.Body)
		}
	})

	t.Run("skips duplicate URLs", func(t *testing.T) {
		t.Parallel()

		var fetches atomic.Int32
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*html2md.SourceDocument, error) {
				fetches.Add(1)
				return &html2md.SourceDocument{HTML: "<p>x</p>", BaseURL: url}, nil
			},
		}
		r := &batch.Runner{Fetcher: fetcher, Converter: bodyConverter(), RetryDelays: noDelays}

		results, err := r.Run(context.Background(), []string{
			"https://example.com/a",
			"https://example.com/a#section",
			"https://example.com/b",
			"https://example.com/a",
		}, nil)

		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "https://example.com/a", results[0].URL)
		assert.Equal(t, "https://example.com/b", results[1].URL)
		assert.Equal(t, int32(2), fetches.Load())
	})

	t.Run("reports failures per URL", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*html2md.SourceDocument, error) {
				if url == "https://example.com/bad" {
					return nil, html2md.Errorf(html2md.EFETCH, "HTTP 500")
				}
				return &html2md.SourceDocument{HTML: "<p>ok</p>", BaseURL: url}, nil
			},
		}
		r := &batch.Runner{Fetcher: fetcher, Converter: bodyConverter(), RetryDelays: noDelays}

		results, err := r.Run(context.Background(), []string{"https://example.com/bad", "https://example.com/good"}, nil)

		require.NoError(t, err)
		assert.Equal(t, html2md.EFETCH, html2md.ErrorCode(results[0].Err))
		assert.Nil(t, results[0].Document)
		require.NoError(t, results[1].Err)
	})

	t.Run("rejects URLs without a host", func(t *testing.T) {
		t.Parallel()

		r := &batch.Runner{Fetcher: &mock.Fetcher{}, Converter: bodyConverter()}

		results, err := r.Run(context.Background(), []string{"not-a-url"}, nil)

		require.NoError(t, err)
		assert.Equal(t, html2md.EINVALID, html2md.ErrorCode(results[0].Err))
	})

	t.Run("waits on limiter per host", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var hosts []string
		limiter := &mock.DomainLimiter{
			WaitFn: func(ctx context.Context, domain string) error {
				mu.Lock()
				defer mu.Unlock()
				hosts = append(hosts, domain)
				return nil
			},
		}
		r := &batch.Runner{Fetcher: echoFetcher(), Converter: bodyConverter(), Limiter: limiter, Concurrency: 1}

		_, err := r.Run(context.Background(), []string{"https://a.example/x", "https://b.example/y"}, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"a.example", "b.example"}, hosts)
	})

	t.Run("bounds concurrency", func(t *testing.T) {
		t.Parallel()

		var current, peak atomic.Int32
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*html2md.SourceDocument, error) {
				n := current.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				current.Add(-1)
				return &html2md.SourceDocument{HTML: "<p>x</p>", BaseURL: url}, nil
			},
		}
		r := &batch.Runner{Fetcher: fetcher, Converter: bodyConverter(), Concurrency: 2}
		urls := []string{
			"https://example.com/1", "https://example.com/2", "https://example.com/3",
			"https://example.com/4", "https://example.com/5", "https://example.com/6",
		}

		_, err := r.Run(context.Background(), urls, nil)

		require.NoError(t, err)
		assert.LessOrEqual(t, peak.Load(), int32(2))
	})

	t.Run("emits progress events", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*html2md.SourceDocument, error) {
				if url == "https://example.com/bad" {
					return nil, html2md.Errorf(html2md.EINVALID, "bad")
				}
				return &html2md.SourceDocument{HTML: "<p>x</p>", BaseURL: url}, nil
			},
		}
		r := &batch.Runner{Fetcher: fetcher, Converter: bodyConverter()}
		var events []batch.ProgressEvent

		_, err := r.Run(context.Background(), []string{"https://example.com/ok", "https://example.com/bad"}, func(e batch.ProgressEvent) {
			events = append(events, e)
		})

		require.NoError(t, err)
		require.Len(t, events, 4)
		assert.Equal(t, batch.ProgressStarted, events[0].Type)
		assert.Equal(t, 2, events[0].Total)
		assert.Equal(t, batch.ProgressFinished, events[3].Type)

		var completed, failed int
		for _, e := range events[1:3] {
			switch e.Type {
			case batch.ProgressCompleted:
				completed++
			case batch.ProgressFailed:
				failed++
				assert.Error(t, e.Error)
			}
		}
		assert.Equal(t, 1, completed)
		assert.Equal(t, 1, failed)
		assert.Equal(t, 2, events[2].Completed)
	})

	t.Run("returns context error when canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*html2md.SourceDocument, error) {
				return nil, ctx.Err()
			},
		}
		r := &batch.Runner{Fetcher: fetcher, Converter: bodyConverter(), RetryDelays: noDelays}

		_, err := r.Run(ctx, []string{"https://example.com/a"}, nil)

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRunner_ConvertSource(t *testing.T) {
	t.Parallel()

	src := html2md.SourceDocument{HTML: "<p>hello</p>", BaseURL: "https://example.com/"}

	t.Run("passes options and budget to converter", func(t *testing.T) {
		t.Parallel()

		var gotOpts html2md.ConversionOptions
		var gotMax int
		conv := &mock.DocumentConverter{
			ConvertFn: func(src html2md.SourceDocument, opts html2md.ConversionOptions, maxTokens int) (*html2md.MarkdownDocument, error) {
				gotOpts, gotMax = opts, maxTokens
				return html2md.NewMarkdownDocument("", src.BaseURL, "hello"), nil
			},
		}
		r := &batch.Runner{Converter: conv, Options: html2md.ConversionOptions{StripLinks: true}, MaxTokens: 50}

		doc, cached, err := r.ConvertSource(context.Background(), src)

		require.NoError(t, err)
		assert.False(t, cached)
		assert.Equal(t, "hello", doc.Body)
		assert.True(t, gotOpts.StripLinks)
		assert.Equal(t, 50, gotMax)
	})

	t.Run("returns cached document without converting", func(t *testing.T) {
		t.Parallel()

		cache := &mock.DocumentCache{
			FindDocumentFn: func(ctx context.Context, req *html2md.ConversionRequest) (*html2md.MarkdownDocument, error) {
				assert.Equal(t, "<p>hello</p>", req.Source.HTML)
				assert.Equal(t, 7, req.MaxTokens)
				return html2md.NewMarkdownDocument("T", req.Source.BaseURL, "cached"), nil
			},
		}
		conv := &mock.DocumentConverter{
			ConvertFn: func(src html2md.SourceDocument, opts html2md.ConversionOptions, maxTokens int) (*html2md.MarkdownDocument, error) {
				t.Fatal("converter must not run on a cache hit")
				return nil, nil
			},
		}
		r := &batch.Runner{Converter: conv, Cache: cache, MaxTokens: 7}

		doc, cached, err := r.ConvertSource(context.Background(), src)

		require.NoError(t, err)
		assert.True(t, cached)
		assert.Equal(t, "cached", doc.Body)
	})

	t.Run("saves converted document on miss", func(t *testing.T) {
		t.Parallel()

		var saved *html2md.MarkdownDocument
		cache := &mock.DocumentCache{
			FindDocumentFn: func(ctx context.Context, req *html2md.ConversionRequest) (*html2md.MarkdownDocument, error) {
				return nil, html2md.Errorf(html2md.ENOTFOUND, "not cached")
			},
			SaveDocumentFn: func(ctx context.Context, req *html2md.ConversionRequest, doc *html2md.MarkdownDocument) error {
				saved = doc
				return nil
			},
		}
		r := &batch.Runner{Converter: bodyConverter(), Cache: cache}

		doc, cached, err := r.ConvertSource(context.Background(), src)

		require.NoError(t, err)
		assert.False(t, cached)
		assert.Same(t, doc, saved)
	})

	t.Run("ignores cache save failures", func(t *testing.T) {
		t.Parallel()

		cache := &mock.DocumentCache{
			FindDocumentFn: func(ctx context.Context, req *html2md.ConversionRequest) (*html2md.MarkdownDocument, error) {
				return nil, html2md.Errorf(html2md.ENOTFOUND, "not cached")
			},
			SaveDocumentFn: func(ctx context.Context, req *html2md.ConversionRequest, doc *html2md.MarkdownDocument) error {
				return errors.New("disk full")
			},
		}
		r := &batch.Runner{Converter: bodyConverter(), Cache: cache}

		_, _, err := r.ConvertSource(context.Background(), src)

		require.NoError(t, err)
	})

	t.Run("adds model token count", func(t *testing.T) {
		t.Parallel()

		tokens := &mock.TokenCounter{
			CountTokensFn: func(ctx context.Context, text string) (int, error) {
				return 42, nil
			},
		}
		r := &batch.Runner{Converter: bodyConverter(), Tokens: tokens}

		doc, _, err := r.ConvertSource(context.Background(), src)

		require.NoError(t, err)
		assert.Equal(t, 42, doc.ModelTokens)
	})

	t.Run("fails when token counting fails", func(t *testing.T) {
		t.Parallel()

		tokens := &mock.TokenCounter{
			CountTokensFn: func(ctx context.Context, text string) (int, error) {
				return 0, errors.New("unknown model")
			},
		}
		r := &batch.Runner{Converter: bodyConverter(), Tokens: tokens}

		_, _, err := r.ConvertSource(context.Background(), src)

		require.Error(t, err)
		assert.Contains(t, html2md.ErrorMessage(err), "unknown model")
	})

	t.Run("propagates converter errors", func(t *testing.T) {
		t.Parallel()

		conv := &mock.DocumentConverter{
			ConvertFn: func(src html2md.SourceDocument, opts html2md.ConversionOptions, maxTokens int) (*html2md.MarkdownDocument, error) {
				return nil, html2md.Errorf(html2md.ERENDER, "render failed")
			},
		}
		r := &batch.Runner{Converter: conv}

		_, _, err := r.ConvertSource(context.Background(), src)

		assert.Equal(t, html2md.ERENDER, html2md.ErrorCode(err))
	})
}
