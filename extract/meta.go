package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Open Graph properties consulted by the resolver.
const (
	ogTitle         = "og:title"
	ogImage         = "og:image"
	ogPriceAmount   = "og:price:amount"
	ogPriceCurrency = "og:price:currency"
)

// parseDoc builds a goquery document from raw HTML. goquery's parser is
// lenient; a nil document is returned only for input it cannot tokenize at
// all, and callers treat that as "no metadata".
func parseDoc(rawHTML string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}
	return doc
}

// MetaContent returns the content of the first <meta> tag whose property or
// name attribute equals prop. Attribute order within the tag does not matter.
// Returns "" when no such tag carries a non-empty content.
func MetaContent(doc *goquery.Document, prop string) string {
	if doc == nil {
		return ""
	}

	var content string
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		p, _ := s.Attr("property")
		if p == "" {
			p, _ = s.Attr("name")
		}
		if p != prop {
			return true
		}
		if c, ok := s.Attr("content"); ok && c != "" {
			content = c
			return false
		}
		return true
	})
	return content
}

// DocTitle returns the trimmed text of the document <title>.
func DocTitle(doc *goquery.Document) string {
	if doc == nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
