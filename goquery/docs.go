package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/html2md"
)

// Ensure DocsFinder implements html2md.CandidateFinder at compile time.
var _ html2md.CandidateFinder = (*DocsFinder)(nil)

// contentSelectors lists, per framework, the elements that hold the rendered
// page body. The first selector with a match wins.
var contentSelectors = map[Framework][]string{
	FrameworkDocusaurus: {".theme-doc-markdown", "article", "main"},
	FrameworkMkDocs:     {".md-content__inner", ".md-content", `[role="main"]`},
	FrameworkSphinx:     {`[itemprop="articleBody"]`, `[role="main"]`, "div.body", "div.document"},
	FrameworkVitePress:  {".vp-doc", ".VPDoc", "main"},
	FrameworkVuePress:   {".theme-default-content", "main"},
	FrameworkGitBook:    {"main"},
	FrameworkNextra:     {"article", "main"},
}

// chromeSelectors are framework widgets that live inside the content
// container but carry no page text.
var chromeSelectors = []string{
	"a.headerlink", "a.hash-link", "a.header-anchor", ".md-source-file",
	".theme-doc-toc-mobile", ".theme-doc-footer", ".theme-doc-breadcrumbs",
	".pagination-nav", ".VPDocFooter", ".page-nav", ".page-edit",
	".md-content__button", ".nextra-breadcrumb",
}

// DocsFinder locates page content on sites built with a known documentation
// generator. Pages from unrecognized generators are handed to Next.
type DocsFinder struct {
	Detector *Detector

	// Next handles pages whose framework is unknown. When nil those pages
	// yield no candidate.
	Next html2md.CandidateFinder
}

// NewDocsFinder creates a DocsFinder that delegates to next for pages it
// does not recognize.
func NewDocsFinder(next html2md.CandidateFinder) *DocsFinder {
	return &DocsFinder{
		Detector: NewDetector(),
		Next:     next,
	}
}

// FindCandidate detects the documentation framework of rawHTML and returns
// its content container with navigation widgets removed and relative links
// resolved against baseURL.
func (f *DocsFinder) FindCandidate(rawHTML, baseURL string) (*html2md.Candidate, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, html2md.Errorf(html2md.EINVALID, "empty HTML input")
	}
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

	content := f.contentFor(doc)
	if content == nil {
		if f.Next == nil {
			return nil, nil
		}
		return f.Next.FindCandidate(rawHTML, baseURL)
	}

	for _, sel := range chromeSelectors {
		content.Find(sel).Remove()
	}

	title := strings.TrimSpace(content.Find("h1").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	for _, sel := range NoiseSelectors {
		// Docusaurus wraps the page heading in <header>.
		if sel == "header" {
			continue
		}
		content.Find(sel).Remove()
	}
	resolveAttr(content, "a[href]", "href", base)
	resolveAttr(content, "img[src]", "src", base)

	contentHTML, err := content.Html()
	if err != nil {
		return nil, html2md.WrapError(err, html2md.EPARSE, "failed to render content")
	}

	return &html2md.Candidate{
		Title:       title,
		ContentHTML: strings.TrimSpace(contentHTML),
		TextContent: content.Text(),
	}, nil
}

// contentFor returns the content container for doc, or nil when the
// framework is unknown or none of its selectors match.
func (f *DocsFinder) contentFor(doc *goquery.Document) *goquery.Selection {
	detector := f.Detector
	if detector == nil {
		detector = NewDetector()
	}
	framework := detector.DetectDocument(doc)
	if framework == FrameworkUnknown {
		return nil
	}
	for _, sel := range contentSelectors[framework] {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			return s
		}
	}
	return nil
}
