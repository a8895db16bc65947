package batch

import (
	"context"
	"strings"
	"sync"

	"github.com/fwojciec/html2md"
	"golang.org/x/time/rate"
)

var _ html2md.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter gives every host its own token bucket. A batch that spans
// several sites only waits on the host it is about to hit.
type DomainLimiter struct {
	every rate.Limit

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

// NewDomainLimiter allows rps requests per second to each host, with no
// burst. Zero or a negative rps turns limiting off.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{every: rate.Limit(rps), buckets: map[string]*rate.Limiter{}}
}

// Wait blocks until a request to domain may proceed or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if d.every <= 0 {
		return ctx.Err()
	}
	return d.bucket(strings.ToLower(domain)).Wait(ctx)
}

func (d *DomainLimiter) bucket(host string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()

	b := d.buckets[host]
	if b == nil {
		b = rate.NewLimiter(d.every, 1)
		d.buckets[host] = b
	}
	return b
}
