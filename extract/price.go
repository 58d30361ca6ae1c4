package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/wishhunt/wishsense/models"
)

const priceNum = `([0-9]+(?:[.,][0-9]{1,2})?)`

// pricePatterns is the last-resort cascade over the whole document, in fixed
// priority order: labeled JSON keys first, then markup attributes, then
// framework state blobs (escaped-JSON and Nuxt-style inline objects).
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`"price"\s*:\s*"?` + priceNum),
	regexp.MustCompile(`"currentPrice"\s*:\s*"?` + priceNum),
	regexp.MustCompile(`"salePrice"\s*:\s*"?` + priceNum),
	regexp.MustCompile(`"basePrice"\s*:\s*"?` + priceNum),
	regexp.MustCompile(`"productPrice"\s*:\s*"?` + priceNum),
	regexp.MustCompile(`data-price\s*=\s*"` + priceNum + `"`),
	regexp.MustCompile(`itemprop="price"[^>]*content="` + priceNum + `"`),
	regexp.MustCompile(`\\"price\\"\s*:\s*\\?"?` + priceNum),
	regexp.MustCompile(`[{,]\s*price\s*:\s*` + priceNum),
}

// currencyCodeRe finds an explicit 3-letter currency code field.
var currencyCodeRe = regexp.MustCompile(`"(?:priceCurrency|currencyCode|currency)"\s*:\s*"([A-Za-z]{3})"`)

// currencyTokens is the raw-text scan, ordered so that specific regional
// symbols are tried before the dollar sign (which is everywhere in inline
// JavaScript).
var currencyTokens = []struct {
	re     *regexp.Regexp
	symbol string
}{
	{regexp.MustCompile(`₽`), SymbolRUB},
	{regexp.MustCompile(`(?i)руб`), SymbolRUB},
	{regexp.MustCompile(`\bRUB\b`), SymbolRUB},
	{regexp.MustCompile(`\bBYN\b`), SymbolBYN},
	{regexp.MustCompile(`\d\s*Br\b`), SymbolBYN},
	{regexp.MustCompile(`€`), SymbolEUR},
	{regexp.MustCompile(`\bEUR\b`), SymbolEUR},
	{regexp.MustCompile(`₸`), SymbolKZT},
	{regexp.MustCompile(`\bKZT\b`), SymbolKZT},
	{regexp.MustCompile(`(?i)тенге`), SymbolKZT},
	{regexp.MustCompile(`\d\s*\$|\$\s*\d`), SymbolUSD},
	{regexp.MustCompile(`\bUSD\b`), SymbolUSD},
}

// HeuristicPrice scans the whole document with the labeled pattern cascade
// and returns the first value that parses to a finite number in (0, 1e9).
func HeuristicPrice(rawHTML string) *float64 {
	for _, re := range pricePatterns {
		for _, m := range re.FindAllStringSubmatch(rawHTML, 8) {
			f, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
			if err != nil {
				continue
			}
			if p := models.PricePtr(f); p != nil {
				return p
			}
		}
	}
	return nil
}

// HeuristicCurrency finds textual currency evidence: an explicit code field
// first, then a symbol/token scan. Returns "" when the document carries no
// evidence at all.
func HeuristicCurrency(rawHTML string) string {
	if m := currencyCodeRe.FindStringSubmatch(rawHTML); m != nil {
		return NormalizeCurrency(m[1])
	}
	for _, tok := range currencyTokens {
		if tok.re.MatchString(rawHTML) {
			return tok.symbol
		}
	}
	return ""
}
