package html2md

import (
	"regexp"
	"strings"
	"unicode"
)

// ctaPatterns matches social and newsletter call-to-action lines. A line
// whose trimmed text matches any pattern is dropped.
var ctaPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)share (on|to|via) (twitter|facebook|linkedin|instagram|reddit|whatsapp)`),
	regexp.MustCompile(`(?i)tweet this`),
	regexp.MustCompile(`(?i)share this (post|article|story|page)`),
	regexp.MustCompile(`(?i)follow (us|me) on (twitter|facebook|instagram|linkedin)`),
	regexp.MustCompile(`(?i)subscribe to (our|my|the) newsletter`),
	regexp.MustCompile(`(?i)sign up for (our|my|the) newsletter`),
	regexp.MustCompile(`(?i)get (updates|articles|posts) (in your inbox|by email|via email)`),
	regexp.MustCompile(`(?i)join [\d,k+]+ (readers|subscribers)`),
	regexp.MustCompile(`(?i)sponsored by|advertisement|ad choices`),
}

var (
	commentRe    = regexp.MustCompile(`(?s)<!--.*?-->`)
	emptyLinkRe  = regexp.MustCompile(`\[\]\([^)]*\)`)
	invisibleRe  = regexp.MustCompile(`[\x{00AD}\x{200B}-\x{200F}\x{FEFF}]`)
	emptyHeading = regexp.MustCompile(`(?m)^#{1,6}[ \t]*$`)
	noiseLineRe  = regexp.MustCompile(`(?m)^[\s*_\-=]{0,3}$`)
	blankRunRe   = regexp.MustCompile(`\n{3,}`)

	// Segments may not contain brackets or parens, so Markdown links and
	// URLs with slashes never look like a trail. Separators never span lines.
	breadcrumbRe = regexp.MustCompile(`(?m)^(\S[^\[(\n]*?[ \t]*[›»][ \t]*)+\S[^\[(\n]*$`)
)

// Clean removes residual boilerplate from converted Markdown and normalizes
// whitespace. Each step runs on the output of the previous one.
func Clean(markdown string) string {
	md := StripHTMLComments(markdown)
	md = RemoveEmptyLinks(md)
	md = RemoveInvisibles(md)
	md = RemoveCTALines(md)
	md = RemoveBreadcrumbs(md)
	md = RemoveEmptyHeadings(md)
	md = RemoveNoiseLines(md)
	md = CollapseBlankLines(md)
	return TrimLines(md)
}

// StripHTMLComments removes <!-- ... --> comments, including multi-line ones.
func StripHTMLComments(md string) string {
	return commentRe.ReplaceAllString(md, "")
}

// RemoveEmptyLinks removes links with no text, e.g. "[](https://x.y)".
func RemoveEmptyLinks(md string) string {
	return emptyLinkRe.ReplaceAllString(md, "")
}

// RemoveInvisibles deletes soft hyphens, zero-width and directional marks,
// and byte order marks, and turns non-breaking spaces into regular spaces.
func RemoveInvisibles(md string) string {
	md = invisibleRe.ReplaceAllString(md, "")
	return strings.ReplaceAll(md, "\u00a0", " ")
}

// RemoveCTALines drops call-to-action lines. Blank lines are kept.
func RemoveCTALines(md string) string {
	lines := strings.Split(md, "\n")
	kept := lines[:0]
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || !isCTA(trimmed) {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func isCTA(line string) bool {
	for _, re := range ctaPatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// RemoveBreadcrumbs blanks out breadcrumb trails such as
// "Home › Blog › Article".
func RemoveBreadcrumbs(md string) string {
	return breadcrumbRe.ReplaceAllString(md, "")
}

// RemoveEmptyHeadings blanks out heading markers with no text.
func RemoveEmptyHeadings(md string) string {
	return emptyHeading.ReplaceAllString(md, "")
}

// RemoveNoiseLines blanks out lines of at most three characters made only
// of '*', '_', '-', '=' and whitespace.
func RemoveNoiseLines(md string) string {
	return noiseLineRe.ReplaceAllString(md, "")
}

// CollapseBlankLines reduces runs of three or more newlines to two.
func CollapseBlankLines(md string) string {
	return blankRunRe.ReplaceAllString(md, "\n\n")
}

// TrimLines trims trailing whitespace from every line, then trims the
// document as a whole.
func TrimLines(md string) string {
	lines := strings.Split(md, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
