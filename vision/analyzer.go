// Package vision resolves an attribute record from a product photo by
// cascading through up to three independently configured vision-inference
// providers. Providers are tried strictly sequentially in priority order,
// never in parallel.
package vision

import (
	"context"
	"log/slog"
	"strings"

	"github.com/wishhunt/wishsense/config"
	"github.com/wishhunt/wishsense/extract"
	"github.com/wishhunt/wishsense/llm"
	"github.com/wishhunt/wishsense/models"
)

// instruction is the one extraction prompt shared by all providers.
const instruction = `Identify the product in this photo.
Return ONLY a JSON object, no markdown fences or explanation:
{"name": string|null, "price": number|null, "currency": string|null, "size": string|null}
Rules:
- "name" is a short product description (brand and type if visible).
- "price" and "currency" only if a price tag is readable in the photo.
- "size" only if a size label is readable.
- Use null for anything you cannot see.`

// Analyzer cascades vision providers over one shared chat client.
type Analyzer struct {
	client    *llm.Client
	providers []config.ProviderConfig
}

// NewAnalyzer creates a vision analyzer. providers may be empty; Analyze
// then resolves every field to its absent sentinel without error.
func NewAnalyzer(client *llm.Client, providers []config.ProviderConfig) *Analyzer {
	return &Analyzer{client: client, providers: providers}
}

// ProviderCount reports how many providers are configured.
func (a *Analyzer) ProviderCount() int {
	return len(a.providers)
}

// Analyze resolves image bytes (base64, optionally already a data URI) into
// an attribute record. Each provider call is independently wrapped: request
// failures and malformed responses are logged and mean "try the next
// provider", never a fatal error. With no provider configured, or all of
// them failing, the all-unknown record is returned with no error raised.
// The record never carries a link.
func (a *Analyzer) Analyze(ctx context.Context, imageB64 string) models.AttributeRecord {
	dataURI := DataURI(imageB64)

	for _, p := range a.providers {
		content, err := a.client.Complete(ctx, p, []llm.Message{
			llm.VisionMessage(instruction, dataURI),
		})
		if err != nil {
			slog.Warn("vision provider failed, trying next", "provider", p.Name, "error", err)
			continue
		}

		payload, ok := llm.DecodePayload(content)
		if !ok {
			slog.Warn("vision provider returned no usable JSON object, trying next", "provider", p.Name)
			continue
		}

		rec := models.AttributeRecord{
			Name:     strings.TrimSpace(payload.Name),
			Price:    payload.PriceValue(),
			Currency: extract.NormalizeCurrency(payload.Currency),
			Size:     strings.TrimSpace(payload.Size),
		}
		if rec.Name == "" {
			rec.Name = models.NameUnknown
		}
		slog.Info("vision analysis resolved", "provider", p.Name, "name", rec.Name)
		return rec
	}

	return models.UnknownRecord()
}

// DataURI wraps a bare base64 payload into a data URI; payloads that are
// already data URIs pass through unchanged.
func DataURI(imageB64 string) string {
	if strings.HasPrefix(imageB64, "data:") {
		return imageB64
	}
	return "data:image/jpeg;base64," + imageB64
}
