package html2md_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/html2md"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateTokens(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, html2md.EstimateTokens(""))
	assert.Equal(t, 1, html2md.EstimateTokens("abcd"))
	assert.Equal(t, 2, html2md.EstimateTokens("abcde"))
	assert.Equal(t, 1, html2md.EstimateTokens("é"))

	// Characters outside the BMP count as two UTF-16 code units.
	assert.Equal(t, 1, html2md.EstimateTokens("😀"))
	assert.Equal(t, 2, html2md.EstimateTokens("😀😀😀"))
}

func TestHeadingLines(t *testing.T) {
	t.Parallel()

	md := "# One\ntext\n## Two\n####### seven\n#no-space\n###### Six"

	assert.Equal(t, []string{"# One", "## Two", "###### Six"}, html2md.HeadingLines(md))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	t.Run("returns input unchanged when within budget", func(t *testing.T) {
		t.Parallel()

		md := "# Title\n\nShort body."

		assert.Equal(t, md, html2md.Truncate(md, 100))
	})

	t.Run("keeps only headings when budget is exhausted", func(t *testing.T) {
		t.Parallel()

		md := "# Title\n" + strings.Repeat("word ", 400)

		got := html2md.Truncate(md, 10)

		assert.Equal(t, "# Title\n\n[truncated — 500 more tokens]", got)
	})

	t.Run("admits whole lines while budget allows", func(t *testing.T) {
		t.Parallel()

		lines := make([]string, 100)
		for i := range lines {
			lines[i] = "abcdefghijklmno"
		}
		md := "# H\n" + strings.Join(lines, "\n")

		// heading costs 1, reserve 20, leaves 20 for 4-token lines.
		got := html2md.Truncate(md, 41)

		want := "# H\n\n" + strings.Join(lines[:5], "\n") + "\n\n[truncated — 360 more tokens]"
		assert.Equal(t, want, got)
	})

	t.Run("preserves every heading in order", func(t *testing.T) {
		t.Parallel()

		var b strings.Builder
		for i := 0; i < 20; i++ {
			b.WriteString("## Section ")
			b.WriteString(strings.Repeat("x", i))
			b.WriteString("\n\n")
			b.WriteString(strings.Repeat("Body text for the section. ", 10))
			b.WriteString("\n\n")
		}
		md := b.String()
		headings := html2md.HeadingLines(md)
		headingTokens := html2md.EstimateTokens(strings.Join(headings, "\n"))

		for _, maxTokens := range []int{headingTokens + 21, headingTokens + 100, headingTokens + 500} {
			got := html2md.Truncate(md, maxTokens)

			assert.Equal(t, headings, html2md.HeadingLines(got))
			assert.Contains(t, got, "[truncated — ")
		}
	})

	t.Run("body respects computed budget", func(t *testing.T) {
		t.Parallel()

		md := "# Title\n\n" + strings.Repeat("A line of body text that repeats.\n", 200)
		maxTokens := 120

		got := html2md.Truncate(md, maxTokens)

		idx := strings.Index(got, "\n\n[truncated")
		require.NotEqual(t, -1, idx)
		preNote := got[:idx]
		body := strings.TrimPrefix(preNote, "# Title\n\n")
		cost := 0
		for _, line := range strings.Split(body, "\n") {
			cost += html2md.EstimateTokens(line + "\n")
		}
		budget := maxTokens - html2md.EstimateTokens("# Title") - html2md.TruncationNoteReserve
		assert.LessOrEqual(t, cost, budget)
		assert.LessOrEqual(t, html2md.EstimateTokens(got), maxTokens)
	})

	t.Run("reports at least one remaining token", func(t *testing.T) {
		t.Parallel()

		// 101 chars is 26 tokens; a budget of 25 leaves 1 over.
		md := "# T\n" + strings.Repeat("a", 97)

		got := html2md.Truncate(md, 25)

		assert.True(t, strings.HasSuffix(got, "[truncated — 1 more tokens]"), got)
	})
}
