package batch

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ShortenURL fits rawURL into width runes for a progress line. The scheme
// is dropped first; if that is not enough the start of the host is replaced
// with "…" so the page path stays visible.
func ShortenURL(rawURL string, width int) string {
	if width <= 0 {
		return ""
	}
	s := rawURL
	if i := strings.Index(s, "://"); i >= 0 && utf8.RuneCountInString(s) > width {
		s = s[i+3:]
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return "…" + string(r[len(r)-width+1:])
}

// FormatTokens renders a token count for people: "~850 tokens", "~12k tokens".
func FormatTokens(tokens int) string {
	if tokens < 1000 {
		return fmt.Sprintf("~%d tokens", tokens)
	}
	return fmt.Sprintf("~%dk tokens", (tokens+500)/1000)
}

// FormatSummary describes a finished run, e.g.
// "converted 3/4 documents (~12k tokens), 1 failed".
func FormatSummary(results []Result) string {
	var ok, tokens int
	for _, r := range results {
		if r.Err == nil && r.Document != nil {
			ok++
			tokens += r.Document.Tokens
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "converted %d/%d documents (%s)", ok, len(results), FormatTokens(tokens))
	if failed := len(results) - ok; failed > 0 {
		fmt.Fprintf(&b, ", %d failed", failed)
	}
	return b.String()
}
