package batch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fwojciec/html2md"
)

// FetchFunc fetches one URL.
type FetchFunc func(ctx context.Context, url string) (*html2md.SourceDocument, error)

// DefaultRetryDelays returns the backoff between fetch attempts: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
}

// Retrier repeats failed fetches, waiting Delays[i] before retry i+1.
// Invalid requests and context errors are returned at once.
type Retrier struct {
	Delays []time.Duration
	Logger *slog.Logger
}

// Fetch calls fetch until it succeeds or the delays run out, returning the
// last error.
func (r *Retrier) Fetch(ctx context.Context, url string, fetch FetchFunc) (*html2md.SourceDocument, error) {
	for attempt := 1; ; attempt++ {
		doc, err := fetch(ctx, url)
		if err == nil {
			return doc, nil
		}
		if attempt > len(r.Delays) || permanent(err) {
			return nil, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		if r.Logger != nil {
			r.Logger.Warn("retry", "url", url, "attempt", attempt+1, "err", err)
		}
		if err := sleep(ctx, r.Delays[attempt-1]); err != nil {
			return nil, err
		}
	}
}

func permanent(err error) bool {
	return html2md.ErrorCode(err) == html2md.EINVALID ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
