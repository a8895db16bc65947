// Package htmltomarkdown renders HTML fragments as Markdown using
// html-to-markdown.
package htmltomarkdown

import (
	"bytes"
	"strings"

	"github.com/JohannesKaufmann/dom"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/html2md"
	"golang.org/x/net/html"
)

// Ensure Converter implements html2md.Converter at compile time.
var _ html2md.Converter = (*Converter)(nil)

// RemovedTags are dropped from the output regardless of options.
var RemovedTags = []string{
	"script", "style", "nav", "footer", "aside", "form", "noscript",
	"iframe", "svg", "button", "input", "select", "textarea",
}

var tableTags = []string{"thead", "tbody", "tfoot", "tr"}

// Converter wraps html-to-markdown to convert HTML to Markdown.
// A new engine is built per call, so Converter is safe for concurrent use.
type Converter struct{}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	return &Converter{}
}

// Convert renders html as Markdown under opts. Empty input yields empty
// output.
func (c *Converter) Convert(html string, opts html2md.ConversionOptions) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}

	result, err := newEngine(opts).ConvertString(html)
	if err != nil {
		return "", html2md.WrapError(err, html2md.ERENDER, "failed to render markdown")
	}

	return result, nil
}

// newEngine builds an html-to-markdown converter with the fixed base rules
// and the rules selected by opts.
func newEngine(opts html2md.ConversionOptions) *converter.Converter {
	plugins := []converter.Plugin{
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(
			commonmark.WithHeadingStyle(commonmark.HeadingStyleATX),
			commonmark.WithHorizontalRule("---"),
			commonmark.WithBulletListMarker("-"),
			commonmark.WithCodeBlockFence("```"),
			commonmark.WithEmDelimiter("_"),
			commonmark.WithStrongDelimiter("**"),
		),
	}
	if !opts.StripTables {
		plugins = append(plugins, table.NewTablePlugin())
	}

	conv := converter.NewConverter(converter.WithPlugins(plugins...))

	for _, tag := range RemovedTags {
		conv.Register.TagType(tag, converter.TagTypeRemove, converter.PriorityEarly)
	}

	conv.Register.RendererFor("img", converter.TagTypeInline, renderImage(opts.StripImages), converter.PriorityEarly)

	if opts.StripLinks {
		conv.Register.RendererFor("a", converter.TagTypeInline, renderChildren, converter.PriorityEarly)
	}

	if opts.StripTables {
		conv.Register.RendererFor("table", converter.TagTypeBlock, renderTable, converter.PriorityEarly)
		for _, tag := range tableTags {
			conv.Register.RendererFor(tag, converter.TagTypeBlock, renderChildren, converter.PriorityEarly)
		}
		conv.Register.RendererFor("th", converter.TagTypeBlock, renderCell, converter.PriorityEarly)
		conv.Register.RendererFor("td", converter.TagTypeBlock, renderCell, converter.PriorityEarly)
	}

	return conv
}

// renderImage writes "[image: alt]" for images with alt text and nothing
// otherwise.
func renderImage(strip bool) converter.HandleRenderFunc {
	return func(ctx converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
		if strip {
			return converter.RenderSuccess
		}
		alt := strings.TrimSpace(dom.GetAttributeOr(n, "alt", ""))
		if alt == "" {
			return converter.RenderSuccess
		}
		w.WriteString("[image: " + alt + "]")
		return converter.RenderSuccess
	}
}

func renderChildren(ctx converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
	ctx.RenderChildNodes(ctx, w, n)
	return converter.RenderSuccess
}

func renderTable(ctx converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
	var buf bytes.Buffer
	ctx.RenderChildNodes(ctx, &buf, n)

	w.WriteString("\n\n")
	w.Write(buf.Bytes())
	w.WriteString("\n\n")
	return converter.RenderSuccess
}

// renderCell writes a table cell as a bullet item. Empty cells are skipped.
func renderCell(ctx converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
	var buf bytes.Buffer
	ctx.RenderChildNodes(ctx, &buf, n)

	content := strings.TrimSpace(buf.String())
	if content == "" {
		return converter.RenderSuccess
	}
	w.WriteString("- " + content + "\n")
	return converter.RenderSuccess
}
