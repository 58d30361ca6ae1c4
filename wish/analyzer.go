// Package wish resolves an attribute record from a short free-form wish
// sentence ("хочу кроссовки Nike 42 за 150 руб"). The primary path is one
// text-inference call; every failure mode degrades to a deterministic
// regex-based fallback so the endpoint never depends on the provider being up.
package wish

import (
	"context"
	"log/slog"
	"strings"

	"github.com/wishhunt/wishsense/config"
	"github.com/wishhunt/wishsense/extract"
	"github.com/wishhunt/wishsense/llm"
	"github.com/wishhunt/wishsense/models"
)

// instruction is the fixed extraction prompt sent with every wish text.
const instruction = `You extract the desired product from a short wish sentence.
Return ONLY a JSON object, no markdown fences or explanation:
{"name": string|null, "price": number|null, "currency": string|null, "size": string|null}
Rules:
- "name" is the product without intent words like "хочу" or "I want".
- "price" is a bare number, no thousands separators.
- "currency" is the symbol or code exactly as written in the text.
- "size" is the garment or shoe size token if one is present.
- Use null for anything the text does not state.`

// Analyzer resolves wish sentences, preferring the configured text-inference
// provider and degrading to Fallback.
type Analyzer struct {
	client   *llm.Client
	provider config.ProviderConfig
}

// NewAnalyzer creates a wish analyzer. The provider may be unconfigured, in
// which case every Analyze call takes the deterministic path.
func NewAnalyzer(client *llm.Client, provider config.ProviderConfig) *Analyzer {
	return &Analyzer{client: client, provider: provider}
}

// Configured reports whether the AI path is available.
func (a *Analyzer) Configured() bool {
	return a.provider.Configured()
}

// Analyze resolves text into an attribute record. The AI result is validated
// field by field; an empty AI name falls back to the deterministic name.
// Any transport failure, unusable response, or missing credential yields the
// fallback record instead, never an error.
func (a *Analyzer) Analyze(ctx context.Context, text string) models.AttributeRecord {
	fallback := Fallback(text)

	if !a.provider.Configured() {
		return fallback
	}

	content, err := a.client.Complete(ctx, a.provider, []llm.Message{
		llm.TextMessage("system", instruction),
		llm.TextMessage("user", text),
	})
	if err != nil {
		slog.Warn("wish inference failed, using deterministic fallback",
			"provider", a.provider.Name, "error", err)
		return fallback
	}

	payload, ok := llm.DecodePayload(content)
	if !ok {
		slog.Warn("wish inference returned no usable JSON object, using deterministic fallback",
			"provider", a.provider.Name)
		return fallback
	}

	rec := models.AttributeRecord{
		Name:     strings.TrimSpace(payload.Name),
		Price:    payload.PriceValue(),
		Currency: extract.NormalizeCurrency(payload.Currency),
		Size:     strings.TrimSpace(payload.Size),
	}
	if rec.Name == "" {
		rec.Name = fallback.Name
	}
	return rec
}
