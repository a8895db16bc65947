package pipeline_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/fwojciec/html2md"
	"github.com/fwojciec/html2md/mock"
	"github.com/fwojciec/html2md/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("uses candidate with enough words", func(t *testing.T) {
		t.Parallel()

		finder := &mock.CandidateFinder{
			FindCandidateFn: func(rawHTML, baseURL string) (*html2md.Candidate, error) {
				return &html2md.Candidate{
					Title:       "Article",
					ContentHTML: "<p>" + words(30) + "</p>",
					TextContent: words(30),
				}, nil
			},
		}
		cleaner := &mock.BodyCleaner{
			CleanBodyFn: func(rawHTML, baseURL string) (*html2md.CleanedBody, error) {
				t.Fatal("cleaner must not be called")
				return nil, nil
			},
		}

		result, err := pipeline.NewExtractor(finder, cleaner).Extract("<html></html>", "https://example.com/")

		require.NoError(t, err)
		assert.Equal(t, "Article", result.Title)
		assert.Equal(t, 30, result.WordCount)
		assert.False(t, result.Fallback)
		assert.Contains(t, result.ContentHTML, "<p>word")
	})

	t.Run("falls back when candidate is too short", func(t *testing.T) {
		t.Parallel()

		finder := &mock.CandidateFinder{
			FindCandidateFn: func(rawHTML, baseURL string) (*html2md.Candidate, error) {
				return &html2md.Candidate{ContentHTML: "<p>short</p>", TextContent: words(29)}, nil
			},
		}
		cleaner := &mock.BodyCleaner{
			CleanBodyFn: func(rawHTML, baseURL string) (*html2md.CleanedBody, error) {
				return &html2md.CleanedBody{Title: "Page", BodyHTML: "<p>body</p>"}, nil
			},
		}

		result, err := pipeline.NewExtractor(finder, cleaner).Extract("<html></html>", "")

		require.NoError(t, err)
		assert.True(t, result.Fallback)
		assert.Equal(t, 29, result.WordCount)
		assert.Equal(t, "Page", result.Title)
		assert.Equal(t, "<p>body</p>", result.ContentHTML)
	})

	t.Run("falls back when finder fails", func(t *testing.T) {
		t.Parallel()

		finder := &mock.CandidateFinder{
			FindCandidateFn: func(rawHTML, baseURL string) (*html2md.Candidate, error) {
				return nil, errors.New("boom")
			},
		}
		cleaner := &mock.BodyCleaner{
			CleanBodyFn: func(rawHTML, baseURL string) (*html2md.CleanedBody, error) {
				return &html2md.CleanedBody{BodyHTML: "<p>body</p>"}, nil
			},
		}

		result, err := pipeline.NewExtractor(finder, cleaner).Extract("<html></html>", "")

		require.NoError(t, err)
		assert.True(t, result.Fallback)
		assert.Equal(t, 0, result.WordCount)
	})

	t.Run("falls back when finder finds nothing", func(t *testing.T) {
		t.Parallel()

		finder := &mock.CandidateFinder{
			FindCandidateFn: func(rawHTML, baseURL string) (*html2md.Candidate, error) {
				return nil, nil
			},
		}
		cleaner := &mock.BodyCleaner{
			CleanBodyFn: func(rawHTML, baseURL string) (*html2md.CleanedBody, error) {
				return &html2md.CleanedBody{BodyHTML: "<p>body</p>"}, nil
			},
		}

		result, err := pipeline.NewExtractor(finder, cleaner).Extract("<html></html>", "")

		require.NoError(t, err)
		assert.True(t, result.Fallback)
	})

	t.Run("passes default base URL", func(t *testing.T) {
		t.Parallel()

		var gotBase string
		finder := &mock.CandidateFinder{
			FindCandidateFn: func(rawHTML, baseURL string) (*html2md.Candidate, error) {
				gotBase = baseURL
				return &html2md.Candidate{Title: "T", TextContent: words(40)}, nil
			},
		}

		_, err := pipeline.NewExtractor(finder, &mock.BodyCleaner{}).Extract("<html></html>", "")

		require.NoError(t, err)
		assert.Equal(t, html2md.DefaultBaseURL, gotBase)
	})

	t.Run("respects MinWords override", func(t *testing.T) {
		t.Parallel()

		finder := &mock.CandidateFinder{
			FindCandidateFn: func(rawHTML, baseURL string) (*html2md.Candidate, error) {
				return &html2md.Candidate{Title: "T", TextContent: words(5)}, nil
			},
		}
		extractor := pipeline.NewExtractor(finder, &mock.BodyCleaner{})
		extractor.MinWords = 5

		result, err := extractor.Extract("<html></html>", "")

		require.NoError(t, err)
		assert.False(t, result.Fallback)
	})

	t.Run("uses document title when candidate has none", func(t *testing.T) {
		t.Parallel()

		finder := &mock.CandidateFinder{
			FindCandidateFn: func(rawHTML, baseURL string) (*html2md.Candidate, error) {
				return &html2md.Candidate{TextContent: words(40)}, nil
			},
		}
		cleaner := &mock.BodyCleaner{
			CleanBodyFn: func(rawHTML, baseURL string) (*html2md.CleanedBody, error) {
				t.Fatal("body cleaner should not run for an accepted candidate")
				return nil, nil
			},
		}

		for _, tc := range []struct {
			html string
			want string
		}{
			{"<html><head><title>From Head</title></head><body></body></html>", "From Head"},
			{"<html><head><title>\n  Spaced\n  Title </title></head></html>", "Spaced Title"},
			{"<title>Fish &amp; Chips</title><p>x</p>", "Fish & Chips"},
			{"<html><head></head><body><svg><title>Icon</title></svg></body></html>", ""},
			{"<html><body><p>no head</p></body></html>", ""},
		} {
			result, err := pipeline.NewExtractor(finder, cleaner).Extract(tc.html, "")

			require.NoError(t, err)
			assert.Equal(t, tc.want, result.Title, tc.html)
			assert.False(t, result.Fallback)
		}
	})

	t.Run("returns cleaner error", func(t *testing.T) {
		t.Parallel()

		finder := &mock.CandidateFinder{
			FindCandidateFn: func(rawHTML, baseURL string) (*html2md.Candidate, error) {
				return nil, nil
			},
		}
		cleaner := &mock.BodyCleaner{
			CleanBodyFn: func(rawHTML, baseURL string) (*html2md.CleanedBody, error) {
				return nil, html2md.Errorf(html2md.EPARSE, "bad html")
			},
		}

		_, err := pipeline.NewExtractor(finder, cleaner).Extract("<html></html>", "")

		require.Error(t, err)
		assert.Equal(t, html2md.EPARSE, html2md.ErrorCode(err))
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := pipeline.NewExtractor(&mock.CandidateFinder{}, &mock.BodyCleaner{}).Extract("  ", "")

		assert.Equal(t, html2md.EINVALID, html2md.ErrorCode(err))
	})
}
