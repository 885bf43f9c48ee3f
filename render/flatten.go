package render

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// skipTags are elements whose subtree never contributes visible text.
var skipTags = map[string]struct{}{
	"script":   {},
	"style":    {},
	"noscript": {},
	"template": {},
	"iframe":   {},
	"head":     {},
	"svg":      {},
}

var hiddenStyleRe = regexp.MustCompile(`(?i)display\s*:\s*none|visibility\s*:\s*hidden`)

// FlattenHTML extracts the visible text of an HTML document into a single
// string, one trimmed text node per line. It is the static counterpart of
// the live innerText capture used for browser-backed snapshots: script,
// style and head content is skipped, as are elements hidden by inline
// style. Regex-based metric extraction runs against this string, so chunks
// are separated by newlines rather than joined.
func FlattenHTML(rawHTML string) string {
	root, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}

	var buf strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if _, skip := skipTags[n.Data]; skip {
				return
			}
			for _, attr := range n.Attr {
				if attr.Key == "style" && hiddenStyleRe.MatchString(attr.Val) {
					return
				}
				if attr.Key == "hidden" {
					return
				}
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				if buf.Len() > 0 {
					buf.WriteByte('\n')
				}
				buf.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return buf.String()
}
