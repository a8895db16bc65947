// Package fs writes converted documents to a directory tree.
package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fwojciec/html2md"
)

var _ html2md.DocumentWriter = (*Writer)(nil)

// Writer stores each document under baseDir at the path its source URL maps
// to. Existing files are replaced.
type Writer struct {
	baseDir string
}

// NewWriter returns a Writer rooted at baseDir.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// Path returns the file doc is written to.
func (w *Writer) Path(doc *html2md.MarkdownDocument) (string, error) {
	if doc.SourceURL == "" {
		return "", html2md.Errorf(html2md.EINVALID, "document has no source URL")
	}
	rel, err := URLToPath(doc.SourceURL)
	if err != nil {
		return "", err
	}
	return filepath.Join(w.baseDir, filepath.FromSlash(rel)), nil
}

// WriteDocument writes doc through a temporary file in the target directory,
// so readers never observe a partial document.
func (w *Writer) WriteDocument(ctx context.Context, doc *html2md.MarkdownDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := w.Path(doc)
	if err != nil {
		return err
	}
	data, err := FormatDocument(doc)
	if err != nil {
		return err
	}

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return html2md.WrapError(err, html2md.EINTERNAL, "creating %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".html2md-*")
	if err != nil {
		return html2md.WrapError(err, html2md.EINTERNAL, "writing %s", target)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return html2md.WrapError(err, html2md.EINTERNAL, "writing %s", target)
	}
	if err := tmp.Close(); err != nil {
		return html2md.WrapError(err, html2md.EINTERNAL, "writing %s", target)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return html2md.WrapError(err, html2md.EINTERNAL, "writing %s", target)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return html2md.WrapError(err, html2md.EINTERNAL, "writing %s", target)
	}
	return nil
}
