package pipeline

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// headTitle returns the text of the first <title> element. It stops at
// <body>, so only the head is scanned.
func headTitle(rawHTML string) string {
	z := html.NewTokenizer(strings.NewReader(rawHTML))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			name, _ := z.TagName()
			switch atom.Lookup(name) {
			case atom.Body:
				return ""
			case atom.Title:
				var b strings.Builder
				for z.Next() == html.TextToken {
					b.Write(z.Text())
				}
				return strings.Join(strings.Fields(b.String()), " ")
			}
		}
	}
}
