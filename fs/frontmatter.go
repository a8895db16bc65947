package fs

import (
	"bytes"

	"github.com/fwojciec/html2md"
	"gopkg.in/yaml.v3"
)

type frontmatter struct {
	Source      string `yaml:"source"`
	Title       string `yaml:"title"`
	Tokens      int    `yaml:"tokens"`
	ModelTokens int    `yaml:"modelTokens,omitempty"`
}

// FormatDocument renders doc as a Markdown file with YAML frontmatter.
func FormatDocument(doc *html2md.MarkdownDocument) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")

	enc := yaml.NewEncoder(&buf)
	err := enc.Encode(frontmatter{
		Source:      doc.SourceURL,
		Title:       doc.Title,
		Tokens:      doc.Tokens,
		ModelTokens: doc.ModelTokens,
	})
	if err == nil {
		err = enc.Close()
	}
	if err != nil {
		return nil, html2md.WrapError(err, html2md.EINTERNAL, "encoding frontmatter")
	}

	buf.WriteString("---\n\n")
	buf.WriteString(doc.Body)
	buf.WriteString("\n")
	return buf.Bytes(), nil
}
