package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Framework identifies the documentation generator that produced a page.
type Framework string

// Documentation frameworks recognized by Detector.
const (
	FrameworkUnknown    Framework = ""
	FrameworkDocusaurus Framework = "docusaurus"
	FrameworkMkDocs     Framework = "mkdocs"
	FrameworkSphinx     Framework = "sphinx"
	FrameworkVitePress  Framework = "vitepress"
	FrameworkVuePress   Framework = "vuepress"
	FrameworkGitBook    Framework = "gitbook"
	FrameworkNextra     Framework = "nextra"
)

// generatorNames maps substrings of <meta name="generator"> to frameworks.
// VitePress is listed before VuePress.
var generatorNames = []struct {
	substr    string
	framework Framework
}{
	{"sphinx", FrameworkSphinx},
	{"gitbook", FrameworkGitBook},
	{"docusaurus", FrameworkDocusaurus},
	{"mkdocs", FrameworkMkDocs},
	{"vitepress", FrameworkVitePress},
	{"vuepress", FrameworkVuePress},
	{"nextra", FrameworkNextra},
}

// marker recognizes a framework from page structure. A page matches when
// any selector in anyOf is present, when every selector in allOf is
// present, or when match reports true.
type marker struct {
	framework Framework
	anyOf     []string
	allOf     []string
	match     func(doc *goquery.Document) bool
}

// markers are tried in order after the generator tag. VitePress comes
// before VuePress because it reuses some VuePress class names.
var markers = []marker{
	{
		framework: FrameworkDocusaurus,
		anyOf:     []string{"#__docusaurus_skipToContent_fallback", ".theme-doc-sidebar-container"},
		allOf:     []string{"[data-rh]", "[data-theme]"},
	},
	{
		framework: FrameworkMkDocs,
		anyOf:     []string{"[data-md-color-scheme]", "[data-md-component]", ".md-nav--primary"},
	},
	{
		framework: FrameworkSphinx,
		anyOf:     []string{".toctree-wrapper", ".wy-nav-side", ".wy-menu-vertical", ".sphinxsidebar"},
	},
	{
		framework: FrameworkVitePress,
		anyOf:     []string{"#VPContent", ".VPDoc", ".VPDocAsideOutline"},
	},
	{
		framework: FrameworkVuePress,
		anyOf:     []string{".theme-default-content", ".sidebar-links", ".vuepress-navbar"},
	},
	{
		framework: FrameworkGitBook,
		anyOf:     []string{"[data-testid='space.sidebar']", "[data-testid='page.desktopTableOfContents']"},
		match:     hasGitBookClasses,
	},
	{
		framework: FrameworkNextra,
		anyOf:     []string{".nextra-navbar", ".nextra-sidebar", ".nextra-toc"},
	},
}

func (m marker) matches(doc *goquery.Document) bool {
	for _, sel := range m.anyOf {
		if doc.Find(sel).Length() > 0 {
			return true
		}
	}
	if len(m.allOf) > 0 {
		all := true
		for _, sel := range m.allOf {
			if doc.Find(sel).Length() == 0 {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return m.match != nil && m.match(doc)
}

// Detector identifies documentation frameworks from HTML content using the
// generator meta tag and framework-specific classes, IDs and attributes.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect parses html and returns the framework that produced it, or
// FrameworkUnknown.
func (d *Detector) Detect(html string) Framework {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return FrameworkUnknown
	}
	return d.DetectDocument(doc)
}

// DetectDocument is Detect for an already parsed document.
func (d *Detector) DetectDocument(doc *goquery.Document) Framework {
	if f := detectGenerator(doc); f != FrameworkUnknown {
		return f
	}
	for _, m := range markers {
		if m.matches(doc) {
			return m.framework
		}
	}
	return FrameworkUnknown
}

// detectGenerator reads the last generator meta tag.
func detectGenerator(doc *goquery.Document) Framework {
	generator := strings.ToLower(doc.Find("meta[name='generator']").Last().AttrOr("content", ""))
	if generator == "" {
		return FrameworkUnknown
	}
	for _, g := range generatorNames {
		if strings.Contains(generator, g.substr) {
			return g.framework
		}
	}
	return FrameworkUnknown
}

// hasGitBookClasses reports whether the <html> element carries at least two
// of GitBook's theme classes.
func hasGitBookClasses(doc *goquery.Document) bool {
	class := doc.Find("html").AttrOr("class", "")
	n := 0
	for _, c := range []string{"circular-corners", "theme-clean", "tint"} {
		if strings.Contains(class, c) {
			n++
		}
	}
	return n >= 2
}
