package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// segmentedText joins the text nodes under sel with newlines, skipping
// script and style content and blank segments.
func segmentedText(sel *goquery.Selection) string {
	var segments []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				segments = append(segments, t)
			}
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(segments, "\n")
}

// footnotes returns the text of the first node matching selector, or nil
// when the block is absent or empty.
func footnotes(doc *goquery.Document, selector string) *string {
	block := doc.Find(selector).First()
	if block.Length() == 0 {
		return nil
	}
	text := segmentedText(block)
	if text == "" {
		return nil
	}
	return &text
}
