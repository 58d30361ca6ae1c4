package wish

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/wishhunt/wishsense/extract"
	"github.com/wishhunt/wishsense/models"
)

var (
	// intentRe strips the leading intent phrase a wish conventionally opens
	// with, in Russian or English.
	intentRe = regexp.MustCompile(`(?i)^\s*(?:я\s+)?(?:очень\s+)?(?:хочу|желаю|мечтаю\s+о|i\s+want|i\s+wish\s+for|want)(?:\s+|$)`)

	// priceRe locates a number immediately adjacent to a currency token, in
	// either order. ASCII tokens require a trailing boundary so "br" does not
	// fire inside ordinary words.
	priceRe = regexp.MustCompile(`(?i)(?:(\d+(?:[.,]\d{1,2})?)\s*(руб(?:лей|ля)?\.?|р\.|₽|долл(?:аров|ара)?|евро|тенге|тг|(?:byn|br|usd|eur|kzt)\b|[$€₸])|([$€₽₸])\s*(\d+(?:[.,]\d{1,2})?))`)

	// sizeRe locates a garment size token, an EU/US-prefixed size, or a bare
	// two-digit number (shoe-size plausibility checked separately).
	sizeRe = regexp.MustCompile(`(?i)\b(?:(XS|S|M|L|XL|XXL|XXXL)|(?:EU|US)[\s-]?(\d{2})|(\d{2}))\b`)

	// trailingConnectorRe removes the preposition left dangling after the
	// price span is cut out ("кроссовки за" → "кроссовки").
	trailingConnectorRe = regexp.MustCompile(`(?i)\s+(за|по|около|for|at|under)\s*$`)
)

// Fallback resolves a wish sentence without any inference provider:
// strip the intent phrase, cut out a price-with-currency span, and spot a
// size token. The size stays part of the name; the price span does not.
// A sentence reduced to nothing keeps the generic wish placeholder as name.
func Fallback(text string) models.AttributeRecord {
	rec := models.AttributeRecord{}

	name := intentRe.ReplaceAllString(strings.TrimSpace(text), "")

	if loc := priceRe.FindStringSubmatchIndex(name); loc != nil {
		m := priceRe.FindStringSubmatch(name)
		number, token := m[1], m[2]
		if number == "" {
			token, number = m[3], m[4]
		}
		if f, err := strconv.ParseFloat(strings.ReplaceAll(number, ",", "."), 64); err == nil {
			if p := models.PricePtr(f); p != nil {
				rec.Price = p
				rec.Currency = extract.NormalizeCurrency(token)
				name = strings.TrimSpace(name[:loc[0]] + name[loc[1]:])
			}
		}
	}

	name = trailingConnectorRe.ReplaceAllString(name, "")
	name = strings.Join(strings.Fields(name), " ")

	rec.Size = findSize(name)

	if name == "" {
		name = models.WishPlaceholder
	}
	rec.Name = name

	return rec
}

// findSize returns the first plausible size token in the price-stripped
// name. Bare two-digit numbers count only inside the shoe-size range 35-52.
func findSize(name string) string {
	for _, m := range sizeRe.FindAllStringSubmatch(name, -1) {
		switch {
		case m[1] != "":
			return strings.ToUpper(m[1])
		case m[2] != "":
			return m[2]
		case m[3] != "":
			if n, err := strconv.Atoi(m[3]); err == nil && n >= 35 && n <= 52 {
				return m[3]
			}
		}
	}
	return ""
}
