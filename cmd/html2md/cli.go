package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/html2md"
	"github.com/fwojciec/html2md/batch"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Runner   *batch.Runner
	Sitemaps html2md.SitemapService

	// Writer is set when documents go to a directory instead of stdout.
	Writer OutputWriter
}

// OutputWriter stores documents and reports where each one went.
type OutputWriter interface {
	html2md.DocumentWriter
	Path(doc *html2md.MarkdownDocument) (string, error)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	URLs []string `arg:"" optional:"" name:"url" help:"URLs to fetch and convert"`

	File  string `short:"f" placeholder:"PATH" help:"Convert a local HTML file"`
	Stdin bool   `help:"Read HTML from stdin; the first URL, if any, is the base URL"`

	MaxTokens int  `short:"m" default:"0" help:"Truncate output to roughly this many tokens (0 disables)"`
	NoTables  bool `help:"Render table cells as list items"`
	NoLinks   bool `help:"Keep link text, drop link targets"`
	NoImages  bool `help:"Drop images entirely"`
	JSON      bool `short:"j" name:"json" help:"Print a JSON envelope instead of plain markdown"`
	Render    bool `short:"r" help:"Render pages in headless Chrome before converting"`
	Verbose   bool `short:"v" help:"Log pipeline steps to stderr"`

	Extractor string        `default:"readability" enum:"readability,trafilatura,docs" help:"Content finder (readability, trafilatura, docs)"`
	Timeout   time.Duration `short:"t" default:"15s" env:"HTML2MD_TIMEOUT" help:"Fetch timeout per page"`

	Cache          string        `placeholder:"PATH" env:"HTML2MD_CACHE" help:"SQLite file caching converted documents"`
	CacheTTL       time.Duration `name:"cache-ttl" default:"0s" help:"Expire cached documents older than this (0 keeps them)"`
	TokenizerModel string        `placeholder:"MODEL" help:"Also count tokens with this Gemini tokenizer model"`

	Sitemap string   `short:"s" placeholder:"URL" help:"Convert every page listed in the site's sitemap"`
	Include []string `short:"i" sep:"none" help:"Only sitemap URLs matching this regex (repeatable)"`
	Exclude []string `short:"x" sep:"none" help:"Skip sitemap URLs matching this regex (repeatable)"`

	Out         string  `short:"o" placeholder:"DIR" help:"Write each document as a markdown file under DIR"`
	Concurrency int     `short:"c" default:"3" help:"Concurrent fetch limit"`
	RPS         float64 `name:"rps" default:"1" help:"Requests per second per domain (0 disables)"`
	Retries     int     `default:"3" help:"Fetch retries, waiting 1s, 2s, then 4s (at most 3)"`
}

// Options returns the conversion switches selected on the command line.
func (c *CLI) Options() html2md.ConversionOptions {
	return html2md.ConversionOptions{
		StripTables: c.NoTables,
		StripLinks:  c.NoLinks,
		StripImages: c.NoImages,
	}
}

// RetryDelays returns the backoff schedule for the requested retry count.
func (c *CLI) RetryDelays() []time.Duration {
	delays := batch.DefaultRetryDelays()
	return delays[:min(c.Retries, len(delays))]
}

// Check rejects flag combinations that cannot be satisfied.
func (c *CLI) Check() error {
	switch {
	case c.MaxTokens < 0:
		return html2md.Errorf(html2md.EINVALID, "--max-tokens must not be negative")
	case c.Retries < 0:
		return html2md.Errorf(html2md.EINVALID, "--retries must not be negative")
	case c.File != "" && c.Stdin:
		return html2md.Errorf(html2md.EINVALID, "--file and --stdin cannot be combined")
	case (c.File != "" || c.Stdin) && c.Sitemap != "":
		return html2md.Errorf(html2md.EINVALID, "--sitemap cannot be combined with --file or --stdin")
	case c.File != "" && len(c.URLs) > 0:
		return html2md.Errorf(html2md.EINVALID, "--file does not take URL arguments")
	case c.Stdin && len(c.URLs) > 1:
		return html2md.Errorf(html2md.EINVALID, "--stdin takes at most one base URL")
	case c.File == "" && !c.Stdin && c.Sitemap == "" && len(c.URLs) == 0:
		return html2md.Errorf(html2md.EINVALID, "no input: give a URL, --file, --stdin or --sitemap")
	}
	return nil
}
