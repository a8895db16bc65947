// Package goquery strips page noise and finds documentation-site content using goquery.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/html2md"
)

// Ensure Cleaner implements html2md.BodyCleaner at compile time.
var _ html2md.BodyCleaner = (*Cleaner)(nil)

// NoiseSelectors lists the elements removed from a document body before it
// is used as fallback content.
var NoiseSelectors = []string{
	"script", "style", "noscript", "nav", "header", "footer",
	"aside", "form", "iframe", "svg", "button", "input", "select",
	"textarea", `[role="banner"]`, `[role="navigation"]`, `[role="complementary"]`,
	`[role="contentinfo"]`, ".cookie-banner", ".ad", ".advertisement",
}

// Cleaner strips structural noise from a full document body.
type Cleaner struct{}

// NewCleaner creates a new Cleaner.
func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// CleanBody parses rawHTML, removes every element matching NoiseSelectors,
// resolves relative href and src attributes against baseURL, and returns the
// inner HTML of <body>.
func (c *Cleaner) CleanBody(rawHTML, baseURL string) (*html2md.CleanedBody, error) {
	if baseURL == "" {
		baseURL = html2md.DefaultBaseURL
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, html2md.Errorf(html2md.EINVALID, "invalid base URL %q", baseURL)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, html2md.WrapError(err, html2md.EPARSE, "failed to parse HTML")
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	body := doc.Find("body").First()
	for _, sel := range NoiseSelectors {
		body.Find(sel).Remove()
	}

	resolveAttr(body, "a[href]", "href", base)
	resolveAttr(body, "img[src]", "src", base)

	bodyHTML, err := body.Html()
	if err != nil {
		return nil, html2md.WrapError(err, html2md.EPARSE, "failed to render body")
	}

	return &html2md.CleanedBody{
		Title:    title,
		BodyHTML: strings.TrimSpace(bodyHTML),
	}, nil
}

// resolveAttr rewrites attr on every element matching selector to an
// absolute URL. Values that do not parse, and non-HTTP schemes, are left as-is.
func resolveAttr(sel *goquery.Selection, selector, attr string, base *url.URL) {
	sel.Find(selector).Each(func(_ int, s *goquery.Selection) {
		val, _ := s.Attr(attr)
		if val == "" || isNonHTTPLink(val) {
			return
		}
		ref, err := url.Parse(strings.TrimSpace(val))
		if err != nil {
			return
		}
		s.SetAttr(attr, base.ResolveReference(ref).String())
	})
}

// isNonHTTPLink reports whether href uses a scheme that must not be resolved
// against the page URL.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
