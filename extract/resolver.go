package extract

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wishhunt/wishsense/models"
)

// Resolve merges the metadata readers, the structured-data hint, the script
// blob scanner, and the price/currency heuristics into one attribute record
// under fixed per-field precedence. The output is always well-typed: any
// number of sources may fail and each field independently degrades to its
// absent sentinel.
//
// Precedence, first available wins:
//
//	name:     og:title → JSON-LD name → script blob → <title> → "unknown"
//	price:    og:price:amount → JSON-LD offer → script blob → heuristics
//	currency: og:price:currency → JSON-LD offer → script blob → heuristics
//	size:     JSON-LD size → additionalProperty "Размер"/"Size"
//	image:    og:image → JSON-LD image → script blob, made absolute
func Resolve(rawHTML, pageURL string) models.AttributeRecord {
	doc := parseDoc(rawHTML)
	hint := FindProduct(doc)
	script := ScanScripts(rawHTML, pageURL)

	rec := models.AttributeRecord{Link: pageURL}

	rec.Name = firstNonEmpty(
		MetaContent(doc, ogTitle),
		hintName(hint),
		script.Name,
		DocTitle(doc),
		models.NameUnknown,
	)

	switch {
	case hasOGPrice(doc):
		rec.Price = parseOGPrice(MetaContent(doc, ogPriceAmount))
	case hint != nil && hint.Price != nil:
		rec.Price = hint.Price
	case script.Price != nil:
		rec.Price = script.Price
	default:
		rec.Price = HeuristicPrice(rawHTML)
	}

	rec.Currency = NormalizeCurrency(firstNonEmpty(
		MetaContent(doc, ogPriceCurrency),
		hintCurrency(hint),
		script.Currency,
	))
	if rec.Currency == "" {
		rec.Currency = HeuristicCurrency(rawHTML)
	}

	if hint != nil {
		rec.Size = hint.Size
	}

	if img := firstNonEmpty(MetaContent(doc, ogImage), hintImage(hint), script.Image); img != "" {
		rec.Image = absoluteURL(img, pageURL)
	}

	return rec
}

func hasOGPrice(doc *goquery.Document) bool {
	return parseOGPrice(MetaContent(doc, ogPriceAmount)) != nil
}

func hintName(h *ProductHint) string {
	if h == nil {
		return ""
	}
	return h.Name
}

func hintCurrency(h *ProductHint) string {
	if h == nil {
		return ""
	}
	return h.Currency
}

func hintImage(h *ProductHint) string {
	if h == nil {
		return ""
	}
	return h.Image
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// parseOGPrice parses an og:price:amount value, tolerating grouping spaces
// and comma decimals, and rejects anything outside the valid price range.
func parseOGPrice(raw string) *float64 {
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(normalizeNumber(raw), 64)
	if err != nil {
		return nil
	}
	return models.PricePtr(f)
}

// absoluteURL resolves raw against the page URL when it is not already
// absolute. An unparsable value is returned unchanged rather than dropped.
func absoluteURL(raw, pageURL string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	if strings.HasPrefix(raw, "//") {
		return "https:" + raw
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return raw
	}
	resolved, err := base.Parse(raw)
	if err != nil {
		return raw
	}
	return resolved.String()
}
