package llm

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/wishhunt/wishsense/models"
)

// Payload is the loose record shape providers are asked to return. Price is
// tolerated as either a number or a numeric string; anything else resolves
// to absent.
type Payload struct {
	Name     string `json:"name"`
	Price    any    `json:"price"`
	Currency string `json:"currency"`
	Size     string `json:"size"`
	Image    string `json:"image"`
}

// DecodePayload extracts the first balanced JSON object from a provider
// response body and unmarshals it. Returns false when the response carries
// no usable object.
func DecodePayload(content string) (Payload, bool) {
	raw, ok := ExtractJSONObject(content)
	if !ok {
		return Payload{}, false
	}
	var p Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Payload{}, false
	}
	return p, true
}

// PriceValue coerces the loose price field into a validated price pointer.
func (p Payload) PriceValue() *float64 {
	switch v := p.Price.(type) {
	case float64:
		return models.PricePtr(v)
	case string:
		cleaned := strings.ReplaceAll(strings.TrimSpace(v), ",", ".")
		if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return models.PricePtr(f)
		}
	}
	return nil
}

// ExtractJSONObject locates the first balanced {...} span in s, honoring
// string literals and escapes, so providers may wrap the object in prose or
// markdown fences. Returns false when no balanced object exists.
func ExtractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
