package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/html2md"
	"github.com/fwojciec/html2md/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const releaseNotes = `<!DOCTYPE html>
<html>
<head>
<title>Release 2.4 | Widget Blog</title>
<meta property="og:title" content="Release 2.4">
</head>
<body>
<nav><a href="/">Home</a> <a href="/blog">Blog</a></nav>
<article>
<h1>Release 2.4</h1>
<p>Widget 2.4 ships a rewritten scheduler that halves queue latency for large deployments.</p>
<p>Read the <a href="/docs/upgrade">upgrade guide</a> before rolling it out to production clusters.</p>
<p><img src="/img/latency.png" alt="Latency chart"></p>
<p>Operators running more than one region should also review the new replication defaults.</p>
</article>
<section id="comments"><h3>Comments</h3><p>Great release, thanks team!</p></section>
<footer><p>Copyright 2024 Widget Corp</p><p>Privacy | Terms</p></footer>
</body>
</html>`

func TestFinder_FindCandidate(t *testing.T) {
	t.Parallel()

	t.Run("keeps the article and drops the footer", func(t *testing.T) {
		t.Parallel()

		cand, err := trafilatura.NewFinder().FindCandidate(releaseNotes, "https://blog.example.com/release-2-4")

		require.NoError(t, err)
		require.NotNil(t, cand)
		assert.Contains(t, cand.ContentHTML, "rewritten scheduler")
		assert.Contains(t, cand.TextContent, "replication defaults")
		assert.NotContains(t, cand.ContentHTML, "Copyright 2024 Widget Corp")
	})

	t.Run("keeps links for the converter", func(t *testing.T) {
		t.Parallel()

		cand, err := trafilatura.NewFinder().FindCandidate(releaseNotes, "https://blog.example.com/release-2-4")

		require.NoError(t, err)
		require.NotNil(t, cand)
		assert.Contains(t, cand.ContentHTML, "<a ")
		assert.Contains(t, cand.ContentHTML, "upgrade guide")
	})

	t.Run("reads the page title from metadata", func(t *testing.T) {
		t.Parallel()

		cand, err := trafilatura.NewFinder().FindCandidate(releaseNotes, "")

		require.NoError(t, err)
		require.NotNil(t, cand)
		assert.Contains(t, cand.Title, "Release 2.4")
	})

	t.Run("rejects bad input", func(t *testing.T) {
		t.Parallel()

		f := trafilatura.NewFinder()

		_, err := f.FindCandidate("  \n", "")
		assert.Equal(t, html2md.EINVALID, html2md.ErrorCode(err))

		_, err = f.FindCandidate(releaseNotes, "not a url")
		assert.Equal(t, html2md.EINVALID, html2md.ErrorCode(err))
	})
}
