package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{"bare object", `{"name":"x"}`, `{"name":"x"}`, true},
		{"markdown fenced", "```json\n{\"name\":\"x\"}\n```", `{"name":"x"}`, true},
		{"prose around", `Sure! {"a":1} hope that helps`, `{"a":1}`, true},
		{"nested objects", `{"a":{"b":2}}`, `{"a":{"b":2}}`, true},
		{"braces inside strings", `{"name":"smile :-}"}`, `{"name":"smile :-}"}`, true},
		{"escaped quote in string", `{"name":"say \"hi\" {ok}"}`, `{"name":"say \"hi\" {ok}"}`, true},
		{"no object", "sorry, I cannot help", "", false},
		{"unbalanced", `{"name":"x"`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONObject(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDecodePayload(t *testing.T) {
	p, ok := DecodePayload(`Result: {"name":"Кеды","price":4590,"currency":"RUB","size":"42"}`)
	require.True(t, ok)
	assert.Equal(t, "Кеды", p.Name)
	assert.Equal(t, "RUB", p.Currency)
	assert.Equal(t, "42", p.Size)

	_, ok = DecodePayload("no object at all")
	assert.False(t, ok)

	_, ok = DecodePayload(`{"name": [1,2]}`)
	assert.False(t, ok)
}

func TestPayload_PriceValue(t *testing.T) {
	tests := []struct {
		name     string
		price    any
		expected *float64
	}{
		{"number", 150.0, f(150)},
		{"numeric string", "249.90", f(249.90)},
		{"comma decimal string", "89,99", f(89.99)},
		{"null", nil, nil},
		{"non-numeric string", "дорого", nil},
		{"zero rejected", 0.0, nil},
		{"absurd rejected", 1e12, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Payload{Price: tt.price}
			got := p.PriceValue()
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.expected, *got)
		})
	}
}

func f(v float64) *float64 { return &v }
