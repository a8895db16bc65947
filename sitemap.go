package html2md

import (
	"context"
	"regexp"
	"slices"
)

// SitemapService discovers page URLs from website sitemaps, so a whole site
// section can be converted in one batch.
type SitemapService interface {
	// DiscoverURLs finds all URLs from a site's sitemap, checking
	// robots.txt first and falling back to /sitemap.xml. Sitemap indexes
	// are resolved recursively. A nil filter returns every URL.
	DiscoverURLs(ctx context.Context, baseURL string, filter *URLFilter) ([]string, error)
}

// URLFilter selects URLs by pattern.
type URLFilter struct {
	// Include patterns - if set, a URL must match at least one.
	Include []*regexp.Regexp

	// Exclude patterns - applied after Include.
	Exclude []*regexp.Regexp
}

// NewURLFilter compiles include and exclude patterns. It returns nil when
// both lists are empty, which matches every URL.
func NewURLFilter(include, exclude []string) (*URLFilter, error) {
	if len(include) == 0 && len(exclude) == 0 {
		return nil, nil
	}
	inc, err := compilePatterns("include", include)
	if err != nil {
		return nil, err
	}
	exc, err := compilePatterns("exclude", exclude)
	if err != nil {
		return nil, err
	}
	return &URLFilter{Include: inc, Exclude: exc}, nil
}

func compilePatterns(kind string, patterns []string) ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid %s pattern %q: %v", kind, p, err)
		}
		res = append(res, re)
	}
	return res, nil
}

// Match reports whether url passes the filter. A nil filter matches all.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}
	matches := func(re *regexp.Regexp) bool { return re.MatchString(url) }
	if len(f.Include) > 0 && !slices.ContainsFunc(f.Include, matches) {
		return false
	}
	return !slices.ContainsFunc(f.Exclude, matches)
}
