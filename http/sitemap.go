package http

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/html2md"
)

// DefaultMaxSitemapDepth limits how many sitemap indexes may be nested.
const DefaultMaxSitemapDepth = 4

// Ensure SitemapService implements html2md.SitemapService.
var _ html2md.SitemapService = (*SitemapService)(nil)

// SitemapService discovers URLs from website sitemaps via HTTP.
type SitemapService struct {
	client   *http.Client
	maxDepth int
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client, maxDepth: DefaultMaxSitemapDepth}
}

// DiscoverURLs returns the page URLs listed in the site's sitemaps, in
// sitemap order and without duplicates. It returns an empty slice when the
// site publishes no sitemap.
//
// A baseURL with a path, e.g. https://example.com/docs/, scopes the result
// to pages under that path. The filter is applied after scoping.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *html2md.URLFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, html2md.Errorf(html2md.EINVALID, "invalid sitemap URL %q", baseURL)
	}
	scope := pathScope(base.Path)

	root := &url.URL{Scheme: base.Scheme, Host: base.Host}
	locations, err := s.sitemapLocations(ctx, root)
	if err != nil {
		return nil, err
	}

	w := &sitemapWalk{svc: s, visited: make(map[string]bool), seen: make(map[string]bool)}
	for _, loc := range locations {
		if err := w.walk(ctx, loc, 0); err != nil {
			return nil, err
		}
	}

	urls := []string{}
	for _, u := range w.pages {
		if inScope(u, scope) && filter.Match(u) {
			urls = append(urls, u)
		}
	}
	return urls, nil
}

// pathScope normalizes a base path into a prefix that ends at a path
// boundary, so /docs matches /docs/intro but not /documentation.
func pathScope(p string) string {
	if p == "" || p == "/" {
		return ""
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

func inScope(rawURL, scope string) bool {
	if scope == "" {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.HasPrefix(u.Path, scope) || u.Path+"/" == scope
}

// sitemapLocations reads Sitemap: directives from robots.txt and falls back
// to /sitemap.xml when there are none.
func (s *SitemapService) sitemapLocations(ctx context.Context, root *url.URL) ([]string, error) {
	robots := root.ResolveReference(&url.URL{Path: "/robots.txt"}).String()
	if locs, err := s.robotsSitemaps(ctx, robots); err == nil && len(locs) > 0 {
		return locs, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fallback := root.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()
	ok, err := s.exists(ctx, fallback)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, nil
	}
	if !ok {
		return nil, nil
	}
	return []string{fallback}, nil
}

func (s *SitemapService) robotsSitemaps(ctx context.Context, robotsURL string) ([]string, error) {
	body, err := s.get(ctx, robotsURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	const directive = "sitemap:"
	var locs []string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) > len(directive) && strings.EqualFold(line[:len(directive)], directive) {
			if loc := strings.TrimSpace(line[len(directive):]); loc != "" {
				locs = append(locs, loc)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, html2md.WrapError(err, html2md.EFETCH, "reading robots.txt")
	}
	return locs, nil
}

// sitemapWalk collects page URLs across a tree of sitemaps.
type sitemapWalk struct {
	svc     *SitemapService
	visited map[string]bool
	seen    map[string]bool
	pages   []string
}

func (w *sitemapWalk) walk(ctx context.Context, loc string, depth int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.visited[loc] || depth > w.svc.maxDepth {
		return nil
	}
	w.visited[loc] = true

	body, err := w.svc.get(ctx, loc)
	if err != nil {
		return err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return html2md.WrapError(err, html2md.EPARSE, "parsing sitemap %s", loc)
	}
	root := doc.Root()
	if root == nil {
		return html2md.Errorf(html2md.EPARSE, "empty sitemap %s", loc)
	}

	switch root.Tag {
	case "sitemapindex":
		for _, child := range locs(root, "sitemap") {
			if err := w.walk(ctx, child, depth+1); err != nil {
				return err
			}
		}
	default:
		for _, page := range locs(root, "url") {
			if !w.seen[page] {
				w.seen[page] = true
				w.pages = append(w.pages, page)
			}
		}
	}
	return nil
}

// locs returns the trimmed <loc> text of every child element named tag.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if v := strings.TrimSpace(loc.Text()); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (s *SitemapService) get(ctx context.Context, target string) (io.ReadCloser, error) {
	resp, err := s.do(ctx, http.MethodGet, target)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, html2md.Errorf(html2md.EFETCH, "HTTP %s — %s", resp.Status, target)
	}
	return resp.Body, nil
}

func (s *SitemapService) exists(ctx context.Context, target string) (bool, error) {
	resp, err := s.do(ctx, http.MethodHead, target)
	if err != nil {
		return false, err
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}

func (s *SitemapService) do(ctx context.Context, method, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, html2md.Errorf(html2md.EINVALID, "invalid URL %q", target)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, html2md.WrapError(err, html2md.EFETCH, "fetching %s", target)
	}
	return resp, nil
}
