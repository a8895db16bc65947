package fs

import (
	"net/url"
	"path"
	"slices"
	"strings"

	"github.com/fwojciec/html2md"
)

// URLToPath maps a document URL to a slash-separated path relative to the
// output directory:
//
//	https://example.com/docs/api/users  docs/api/users.md
//	https://example.com/docs/           docs/index.md
//	file:///tmp/page.html               tmp/page.md
//
// Query and fragment are ignored. URLs with ".." segments are EINVALID.
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", html2md.Errorf(html2md.EINVALID, "invalid document URL %q", rawURL)
	}
	if slices.Contains(strings.Split(u.Path, "/"), "..") {
		return "", html2md.Errorf(html2md.EINVALID, "path traversal in %q", rawURL)
	}

	p := strings.TrimPrefix(u.Path, "/")
	if p == "" || strings.HasSuffix(p, "/") {
		return path.Join(p, "index.md"), nil
	}
	if ext := path.Ext(p); ext == ".html" || ext == ".htm" {
		p = strings.TrimSuffix(p, ext)
	}
	return path.Clean(p) + ".md", nil
}
