package models

import "math"

// Sentinels for fields that could not be resolved.
const (
	// NameUnknown is the name sentinel when no source produced a usable name.
	NameUnknown = "unknown"

	// WishPlaceholder is the generic name used when a wish sentence contains
	// nothing but the intent phrase and the stripped price span.
	WishPlaceholder = "wish"
)

// MaxPrice bounds accepted price values. Anything at or above this is a
// mis-parsed year, SKU, or phone number, not a price.
const MaxPrice = 1e9

// AttributeRecord is the canonical output shape of all three resolution
// paths: page parsing, wish-text analysis, and image analysis.
//
// Every field is independently resolvable; absence of one never blocks
// another. Price is nil when absent, never negative, NaN, or >= 1e9.
// Currency is normalized to the closed symbol set {₽, Br, $, €, ₸} when the
// raw value is recognizable, otherwise passed through as-is or left empty,
// never invented.
type AttributeRecord struct {
	Name     string   `json:"name"`
	Price    *float64 `json:"price,omitempty"`
	Currency string   `json:"currency,omitempty"`
	Size     string   `json:"size,omitempty"`
	Link     string   `json:"link,omitempty"`
	Image    string   `json:"image,omitempty"`
}

// UnknownRecord returns a record with every field absent and the name set to
// the unknown sentinel.
func UnknownRecord() AttributeRecord {
	return AttributeRecord{Name: NameUnknown}
}

// ValidPrice reports whether v is a plausible price: finite and strictly
// inside (0, 1e9).
func ValidPrice(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return v > 0 && v < MaxPrice
}

// PricePtr returns &v when v is a valid price, nil otherwise.
func PricePtr(v float64) *float64 {
	if !ValidPrice(v) {
		return nil
	}
	return &v
}
