package parser

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const headerSelector = ".text_center"

// Header is the page heading: "<title> [<year>]".
type Header struct {
	Year  int
	Title string
}

// ReadHeader locates the centered page heading and reads the served year
// and title from it.
func ReadHeader(doc *goquery.Document) (Header, error) {
	node := doc.Find(headerSelector).First()
	if node.Length() == 0 {
		return Header{}, &StructureError{Element: "header", Detail: headerSelector + " not found"}
	}
	return parseHeading(strings.TrimSpace(node.Text()))
}

func parseHeading(text string) (Header, error) {
	open := strings.LastIndex(text, "[")
	if open < 0 {
		return Header{}, &StructureError{Element: "header year", Detail: "no bracketed year in " + strconv.Quote(text)}
	}
	rest := text[open+1:]
	end := strings.Index(rest, "]")
	if end < 0 {
		return Header{}, &StructureError{Element: "header year", Detail: "unterminated bracket in " + strconv.Quote(text)}
	}

	year, err := strconv.Atoi(strings.TrimSpace(rest[:end]))
	if err != nil {
		return Header{}, &StructureError{Element: "header year", Detail: "non-numeric year in " + strconv.Quote(text)}
	}

	title, _, _ := strings.Cut(text, "[")
	return Header{Year: year, Title: strings.TrimSpace(title)}, nil
}
