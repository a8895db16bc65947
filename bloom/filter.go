// Package bloom tracks which URLs a batch run has already accepted.
package bloom

import (
	"net/url"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter remembers page URLs in a Bloom filter. URLs are normalized before
// hashing, so "https://Example.com/a#top" and "https://example.com/a" are
// the same page. A small fraction of new URLs may be reported as seen.
//
// Filter is safe for concurrent use.
type Filter struct {
	mu    sync.Mutex
	bits  *bloom.BloomFilter
	added uint
}

// NewFilter sizes a filter for n URLs at the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{bits: bloom.NewWithEstimates(n, fpRate)}
}

// AddNew records the URL and reports whether it was new.
func (f *Filter) AddNew(rawURL string) bool {
	key := NormalizeURL(rawURL)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.bits.TestAndAddString(key) {
		return false
	}
	f.added++
	return true
}

// Len returns how many URLs AddNew accepted.
func (f *Filter) Len() uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.added
}

// NormalizeURL drops the fragment and lowercases scheme and host. Values
// that do not parse are returned trimmed but otherwise unchanged.
func NormalizeURL(rawURL string) string {
	raw := strings.TrimSpace(rawURL)
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Fragment = ""
	u.RawFragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	return u.String()
}
