package gemini

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// CompactHTML strips scripts, styles, inline SVG and comments from a page and
// returns at most limit bytes of the remaining markup. Dropping those nodes
// leaves more room in the sample for the structure a planner needs to see.
func CompactHTML(page string, limit int) string {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return truncate(page, limit)
	}
	prune(doc)

	var sb strings.Builder
	if err := html.Render(&sb, doc); err != nil {
		return truncate(page, limit)
	}
	return truncate(sb.String(), limit)
}

func prune(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch {
		case c.Type == html.CommentNode:
			n.RemoveChild(c)
		case c.Type == html.ElementNode && (c.DataAtom == atom.Script || c.DataAtom == atom.Style ||
			c.DataAtom == atom.Svg || c.DataAtom == atom.Noscript || c.DataAtom == atom.Link):
			n.RemoveChild(c)
		default:
			prune(c)
		}
		c = next
	}
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
