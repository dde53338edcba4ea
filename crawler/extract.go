package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// CollectTextExcludingQuotes gathers the text fragments under sel, skipping
// everything inside blockquote subtrees (quoted posts must not leak into the
// sentiment input). Each fragment is trimmed, empty fragments are dropped,
// and the rest are joined with single spaces.
//
// goquery has no "text except descendant selector" primitive, so this walks
// the raw node tree.
func CollectTextExcludingQuotes(sel *goquery.Selection) string {
	var fragments []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "blockquote" {
			return
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				fragments = append(fragments, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(fragments, " ")
}
