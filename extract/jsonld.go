package extract

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ysmood/gson"

	"github.com/wishhunt/wishsense/models"
)

// maxProductDepth bounds the recursive search for a Product node. One level
// of @graph/array wrapping is the documented case; a little headroom covers
// arrays of graphs without risking runaway recursion on hostile input.
const maxProductDepth = 3

// ProductHint is the partial record carried by an embedded structured-data
// (JSON-LD) Product node. It lives for one request and is discarded after
// the resolver merges it.
type ProductHint struct {
	Name     string
	Price    *float64
	Currency string
	Image    string
	Size     string
}

// FindProduct scans every application/ld+json script body in the document,
// parses each as an untyped tree, and returns a hint built from the first
// node whose @type equals or contains "Product". Parse failures on
// individual blocks are swallowed; scanning continues with the next block.
// Returns nil when no block parses and matches.
func FindProduct(doc *goquery.Document) *ProductHint {
	if doc == nil {
		return nil
	}

	var hint *ProductHint
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var tree any
		if err := json.Unmarshal([]byte(s.Text()), &tree); err != nil {
			return true // bad block, try the next one
		}
		node := findProductNode(tree, 0)
		if node == nil {
			return true
		}
		hint = buildHint(gson.New(node))
		return false
	})
	return hint
}

// findProductNode walks an untyped JSON tree looking for a Product-typed
// object, descending through array and @graph wrappers up to maxProductDepth.
func findProductNode(v any, depth int) map[string]any {
	if depth > maxProductDepth {
		return nil
	}
	switch t := v.(type) {
	case map[string]any:
		if isProductType(t["@type"]) {
			return t
		}
		if graph, ok := t["@graph"]; ok {
			return findProductNode(graph, depth+1)
		}
	case []any:
		for _, item := range t {
			if node := findProductNode(item, depth+1); node != nil {
				return node
			}
		}
	}
	return nil
}

// isProductType accepts "@type": "Product" as well as array forms like
// ["Product", "IndividualProduct"].
func isProductType(v any) bool {
	switch t := v.(type) {
	case string:
		return strings.Contains(t, "Product")
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && strings.Contains(s, "Product") {
				return true
			}
		}
	}
	return false
}

// buildHint pulls the fields the resolver cares about out of a Product node.
func buildHint(g gson.JSON) *ProductHint {
	hint := &ProductHint{
		Name: strAt(g.Get("name")),
	}

	// offers may be a single object or an array of them.
	offer := g.Get("offers")
	if arr := offer.Arr(); len(arr) > 0 {
		offer = arr[0]
	}
	hint.Price = numberAt(offer.Get("price"))
	hint.Currency = strAt(offer.Get("priceCurrency"))

	// image may be a string or a list; take the first entry.
	img := g.Get("image")
	if arr := img.Arr(); len(arr) > 0 {
		img = arr[0]
	}
	hint.Image = strAt(img)

	hint.Size = strAt(g.Get("size"))
	if hint.Size == "" {
		hint.Size = sizeFromAdditionalProperty(g.Get("additionalProperty"))
	}

	return hint
}

// sizeFromAdditionalProperty finds a PropertyValue entry named "Размер" or
// "Size" and returns its value.
func sizeFromAdditionalProperty(props gson.JSON) string {
	entries := props.Arr()
	if len(entries) == 0 {
		// A single object is also valid schema.org.
		if _, ok := props.Val().(map[string]any); ok {
			entries = []gson.JSON{props}
		}
	}
	for _, p := range entries {
		name := strings.TrimSpace(strAt(p.Get("name")))
		if strings.EqualFold(name, "Размер") || strings.EqualFold(name, "Size") {
			if v := strAt(p.Get("value")); v != "" {
				return v
			}
		}
	}
	return ""
}

// strAt returns the node's value when it is a plain string, "" otherwise.
func strAt(g gson.JSON) string {
	if s, ok := g.Val().(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// numberAt coerces a JSON number or numeric string into a valid price
// pointer, nil when absent or out of range.
func numberAt(g gson.JSON) *float64 {
	switch v := g.Val().(type) {
	case float64:
		return models.PricePtr(v)
	case string:
		if f, err := strconv.ParseFloat(normalizeNumber(v), 64); err == nil {
			return models.PricePtr(f)
		}
	}
	return nil
}

// normalizeNumber strips grouping spaces and unifies the decimal separator
// so "1 234,56" parses as 1234.56.
func normalizeNumber(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	return strings.ReplaceAll(s, ",", ".")
}
