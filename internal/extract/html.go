package extract

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// extractHTML returns the visible text of an HTML document. Script, style,
// and head content is skipped; block boundaries become newlines so text from
// adjacent elements does not run together.
func extractHTML(content []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return "", err
	}
	var b strings.Builder
	collectText(doc, &b)
	return strings.TrimSpace(b.String()), nil
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript", "head", "title":
			return
		}
	}
	if n.Type == html.TextNode {
		if text := strings.TrimSpace(n.Data); text != "" {
			b.WriteString(text)
			b.WriteByte(' ')
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
	if n.Type == html.ElementNode && isBlockElement(n.Data) {
		b.WriteByte('\n')
	}
}

func isBlockElement(tag string) bool {
	switch tag {
	case "p", "div", "br", "li", "tr", "h1", "h2", "h3", "h4", "h5", "h6",
		"article", "section", "header", "footer", "blockquote", "pre", "table":
		return true
	}
	return false
}
