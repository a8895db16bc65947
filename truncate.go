package html2md

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"
)

// TruncationNoteReserve is the number of tokens held back from the body
// budget for the truncation note.
const TruncationNoteReserve = 20

var headingLineRe = regexp.MustCompile(`^#{1,6}\s`)

// EstimateTokens approximates the token count of text as one token per four
// UTF-16 code units, rounded up. Truncation depends on this exact heuristic.
func EstimateTokens(text string) int {
	n := 0
	for _, r := range text {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return (n + 3) / 4
}

// HeadingLines returns the ATX heading lines of markdown in document order.
func HeadingLines(markdown string) []string {
	var headings []string
	for _, line := range strings.Split(markdown, "\n") {
		if headingLineRe.MatchString(line) {
			headings = append(headings, line)
		}
	}
	return headings
}

// Truncate shrinks markdown to fit roughly maxTokens estimated tokens.
//
// All heading lines are kept and moved to the top, followed by as many
// non-heading lines as the remaining budget allows, in document order, and a
// note saying how many tokens were cut. Lines are never split.
func Truncate(markdown string, maxTokens int) string {
	total := EstimateTokens(markdown)
	if total <= maxTokens {
		return markdown
	}

	lines := strings.Split(markdown, "\n")
	headingBlock := strings.Join(HeadingLines(markdown), "\n")
	headingTokens := EstimateTokens(headingBlock)

	budget := maxTokens - headingTokens - TruncationNoteReserve
	if budget <= 0 {
		return headingBlock + truncationNote(total-headingTokens)
	}

	var body []string
	for _, line := range lines {
		if headingLineRe.MatchString(line) {
			continue
		}
		cost := EstimateTokens(line + "\n")
		if budget-cost < 0 {
			break
		}
		body = append(body, line)
		budget -= cost
	}

	var b strings.Builder
	b.WriteString(headingBlock)
	if len(body) > 0 {
		b.WriteString("\n\n")
		b.WriteString(strings.Join(body, "\n"))
	}
	b.WriteString(truncationNote(max(1, total-maxTokens)))

	return strings.TrimSpace(b.String())
}

func truncationNote(remaining int) string {
	return "\n\n[truncated — " + strconv.Itoa(remaining) + " more tokens]"
}
