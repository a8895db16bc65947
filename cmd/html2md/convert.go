package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/fwojciec/html2md"
	"github.com/fwojciec/html2md/batch"
)

// ConvertCmd converts documents from exactly one input source: a local
// file, stdin, or a list of URLs optionally extended by a sitemap.
type ConvertCmd struct {
	URLs    []string
	File    string
	Stdin   bool
	Sitemap string
	Filter  *html2md.URLFilter
	JSON    bool
}

// Run executes the convert command.
func (c *ConvertCmd) Run(deps *Dependencies) error {
	switch {
	case c.File != "":
		return c.runFile(deps)
	case c.Stdin:
		return c.runStdin(deps)
	}
	return c.runURLs(deps)
}

func (c *ConvertCmd) runFile(deps *Dependencies) error {
	data, err := os.ReadFile(c.File)
	if errors.Is(err, os.ErrNotExist) {
		return html2md.Errorf(html2md.ENOTFOUND, "file not found: %s", c.File)
	} else if err != nil {
		return html2md.WrapError(err, html2md.EINVALID, "reading %s", c.File)
	}

	abs, err := filepath.Abs(c.File)
	if err != nil {
		abs = c.File
	}
	base := &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}

	return c.convertSource(deps, html2md.SourceDocument{HTML: string(data), BaseURL: base.String()})
}

func (c *ConvertCmd) runStdin(deps *Dependencies) error {
	data, err := io.ReadAll(deps.Stdin)
	if err != nil {
		return html2md.WrapError(err, html2md.EINVALID, "reading stdin")
	}

	base := html2md.DefaultBaseURL
	if len(c.URLs) > 0 {
		base = c.URLs[0]
	}

	return c.convertSource(deps, html2md.SourceDocument{HTML: string(data), BaseURL: base})
}

func (c *ConvertCmd) convertSource(deps *Dependencies, src html2md.SourceDocument) error {
	doc, _, err := deps.Runner.ConvertSource(deps.Ctx, src)
	if err != nil {
		return err
	}
	return c.emit(deps, []*html2md.MarkdownDocument{doc})
}

func (c *ConvertCmd) runURLs(deps *Dependencies) error {
	urls := append([]string(nil), c.URLs...)

	if c.Sitemap != "" {
		found, err := deps.Sitemaps.DiscoverURLs(deps.Ctx, c.Sitemap, c.Filter)
		if err != nil {
			return err
		}
		if len(found) == 0 {
			return html2md.Errorf(html2md.ENOTFOUND, "no URLs found in sitemap for %s", c.Sitemap)
		}
		urls = append(urls, found...)
	}

	var progress batch.ProgressFunc
	if len(urls) > 1 {
		progress = func(e batch.ProgressEvent) {
			switch e.Type {
			case batch.ProgressCompleted:
				fmt.Fprintf(deps.Stderr, "\r[%d/%d] %s", e.Completed, e.Total, batch.ShortenURL(e.URL, 60))
			case batch.ProgressFailed:
				fmt.Fprintf(deps.Stderr, "\rskip %s: %s\n", e.URL, errorText(e.Error))
			case batch.ProgressFinished:
				// Clear progress line
				fmt.Fprintf(deps.Stderr, "\r%80s\r", "")
			}
		}
	}

	results, err := deps.Runner.Run(deps.Ctx, urls, progress)
	if err != nil {
		return err
	}
	if len(results) == 1 && results[0].Err != nil {
		return results[0].Err
	}

	docs := make([]*html2md.MarkdownDocument, 0, len(results))
	for _, r := range results {
		if r.Err == nil {
			docs = append(docs, r.Document)
		}
	}

	if err := c.emit(deps, docs); err != nil {
		return err
	}

	if len(results) > 1 {
		fmt.Fprintln(deps.Stderr, batch.FormatSummary(results))
	}
	if len(docs) == 0 {
		return html2md.Errorf(html2md.EFETCH, "all %d documents failed", len(results))
	}
	return nil
}

// emit writes docs to the output directory when one is configured, else to
// stdout as markdown or JSON.
func (c *ConvertCmd) emit(deps *Dependencies, docs []*html2md.MarkdownDocument) error {
	if len(docs) == 0 {
		return nil
	}

	if deps.Writer != nil {
		for _, doc := range docs {
			path, err := deps.Writer.Path(doc)
			if err != nil {
				return err
			}
			if err := deps.Writer.WriteDocument(deps.Ctx, doc); err != nil {
				return html2md.WrapError(err, html2md.EINTERNAL, "writing %s", path)
			}
			fmt.Fprintln(deps.Stdout, path)
		}
		return nil
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if len(docs) == 1 {
			return enc.Encode(docs[0])
		}
		return enc.Encode(docs)
	}

	for i, doc := range docs {
		if i > 0 {
			fmt.Fprint(deps.Stdout, "\n---\n\n")
		}
		fmt.Fprintln(deps.Stdout, doc.Body)
	}
	return nil
}
