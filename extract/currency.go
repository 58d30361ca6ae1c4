package extract

import "strings"

// Currency symbols of the closed output set.
const (
	SymbolRUB = "₽"
	SymbolBYN = "Br"
	SymbolUSD = "$"
	SymbolEUR = "€"
	SymbolKZT = "₸"
)

// currencyTable maps recognizable raw currency spellings (upper-cased) to the
// closed symbol set. Symbols map to themselves so normalization is idempotent.
var currencyTable = map[string]string{
	"RUB": SymbolRUB, "RUR": SymbolRUB, "РУБ": SymbolRUB, "РУБ.": SymbolRUB,
	"Р.": SymbolRUB, "₽": SymbolRUB,

	"BYN": SymbolBYN, "BYR": SymbolBYN, "BR": SymbolBYN,

	"USD": SymbolUSD, "$": SymbolUSD,

	"EUR": SymbolEUR, "ЕВРО": SymbolEUR, "€": SymbolEUR,

	"KZT": SymbolKZT, "ТГ": SymbolKZT, "ТГ.": SymbolKZT, "ТЕНГЕ": SymbolKZT,
	"₸": SymbolKZT,
}

// wordStems catches declined Russian word forms ("рублей", "долларов") that
// the exact-spelling table cannot enumerate.
var wordStems = []struct {
	stem   string
	symbol string
}{
	{"РУБЛ", SymbolRUB},
	{"ДОЛЛ", SymbolUSD},
	{"ТЕНГЕ", SymbolKZT},
}

// NormalizeCurrency maps a raw currency code, symbol, or currency word
// (including declined forms) to the closed symbol set {₽, Br, $, €, ₸}.
// Unrecognized non-empty input is passed through unchanged; a currency is
// never invented.
func NormalizeCurrency(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if sym, ok := lookupCurrency(trimmed); ok {
		return sym
	}
	return trimmed
}

// RecognizedCurrency reports whether raw maps into the closed symbol set.
func RecognizedCurrency(raw string) bool {
	_, ok := lookupCurrency(strings.TrimSpace(raw))
	return ok
}

func lookupCurrency(trimmed string) (string, bool) {
	upper := strings.ToUpper(trimmed)
	if sym, ok := currencyTable[upper]; ok {
		return sym, true
	}
	for _, w := range wordStems {
		if strings.HasPrefix(upper, w.stem) {
			return w.symbol, true
		}
	}
	return "", false
}
