package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/html2md"
	"github.com/fwojciec/html2md/batch"
	"github.com/fwojciec/html2md/fs"
	"github.com/fwojciec/html2md/gemini"
	"github.com/fwojciec/html2md/goquery"
	"github.com/fwojciec/html2md/htmltomarkdown"
	h2mhttp "github.com/fwojciec/html2md/http"
	"github.com/fwojciec/html2md/pipeline"
	"github.com/fwojciec/html2md/readability"
	"github.com/fwojciec/html2md/rod"
	h2mslog "github.com/fwojciec/html2md/slog"
	"github.com/fwojciec/html2md/sqlite"
	"github.com/fwojciec/html2md/trafilatura"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "html2md: %s\n", errorText(err))
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Stdin is read by --stdin. Set before calling Run().
	Stdin io.Reader

	// SQLite database backing the conversion cache, when enabled.
	DB *sqlite.DB

	// Fetcher used for URL inputs, when any.
	Fetcher html2md.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Stdin: os.Stdin,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var errs []error
	if m.Fetcher != nil {
		errs = append(errs, m.Fetcher.Close())
	}
	if m.DB != nil {
		errs = append(errs, m.DB.Close())
	}
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("html2md"),
		kong.Description("Convert HTML pages to clean, token-bounded markdown"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle no arguments
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return html2md.Errorf(html2md.EINVALID, "no input: give a URL, --file, --stdin or --sitemap")
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}
	if err := cli.Check(); err != nil {
		return err
	}

	filter, err := html2md.NewURLFilter(cli.Include, cli.Exclude)
	if err != nil {
		return err
	}

	logger := newLogger(stderr, cli.Verbose)
	defer m.Close()

	runner, err := m.newRunner(ctx, cli, logger, stderr)
	if err != nil {
		return err
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
		Runner: runner,
	}
	if cli.Sitemap != "" {
		client := &http.Client{Timeout: cli.Timeout}
		deps.Sitemaps = h2mslog.NewLoggingSitemapService(h2mhttp.NewSitemapService(client), logger)
	}
	if cli.Out != "" {
		deps.Writer = fs.NewWriter(cli.Out)
	}

	cmd := &ConvertCmd{
		URLs:    cli.URLs,
		File:    cli.File,
		Stdin:   cli.Stdin,
		Sitemap: cli.Sitemap,
		Filter:  filter,
		JSON:    cli.JSON,
	}

	return cmd.Run(deps)
}

// newRunner wires the conversion pipeline and the collaborators selected on
// the command line into a batch.Runner.
func (m *Main) newRunner(ctx context.Context, cli *CLI, logger *slog.Logger, stderr io.Writer) (*batch.Runner, error) {
	extractor := pipeline.NewExtractor(newFinder(cli.Extractor), goquery.NewCleaner())
	converter := htmltomarkdown.NewConverter()

	runner := &batch.Runner{
		Converter: pipeline.New(
			h2mslog.NewLoggingExtractor(extractor, logger),
			h2mslog.NewLoggingConverter(converter, logger),
		),
		Limiter:     batch.NewDomainLimiter(cli.RPS),
		Logger:      logger,
		Options:     cli.Options(),
		MaxTokens:   cli.MaxTokens,
		Concurrency: cli.Concurrency,
		RetryDelays: cli.RetryDelays(),
	}

	if cli.Cache != "" {
		m.DB = sqlite.NewDB(cli.Cache)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintln(stderr, "Hint: Set HTML2MD_CACHE to use a different cache path")
			return nil, err
		}

		cache := sqlite.NewDocumentCache(m.DB)
		cache.TTL = cli.CacheTTL
		if cache.TTL > 0 {
			n, err := cache.Prune(ctx)
			if err != nil {
				return nil, err
			}
			logger.Info("cache prune", "removed", n)
		}
		runner.Cache = h2mslog.NewLoggingCache(cache, logger)
	}

	if cli.TokenizerModel != "" {
		counter, err := gemini.NewTokenCounter(cli.TokenizerModel)
		if err != nil {
			return nil, err
		}
		runner.Tokens = counter
	}

	if cli.File == "" && !cli.Stdin {
		fetcher, err := newFetcher(cli, stderr)
		if err != nil {
			return nil, err
		}
		m.Fetcher = fetcher
		runner.Fetcher = h2mslog.NewLoggingFetcher(fetcher, logger)
	}

	return runner, nil
}

func newFinder(name string) html2md.CandidateFinder {
	switch name {
	case "trafilatura":
		return trafilatura.NewFinder()
	case "docs":
		return goquery.NewDocsFinder(readability.NewFinder())
	}
	return readability.NewFinder()
}

func newFetcher(cli *CLI, stderr io.Writer) (html2md.Fetcher, error) {
	if !cli.Render {
		return h2mhttp.NewFetcher(h2mhttp.WithTimeout(cli.Timeout)), nil
	}

	fetcher, err := rod.NewFetcher(rod.WithFetchTimeout(cli.Timeout))
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
		return nil, err
	}
	return fetcher, nil
}

// newLogger logs to w when verbose, and discards everything otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// errorText returns the message of an application error, or the full text
// of any other error.
func errorText(err error) string {
	var e *html2md.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
