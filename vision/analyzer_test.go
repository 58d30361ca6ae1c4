package vision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishhunt/wishsense/config"
	"github.com/wishhunt/wishsense/extract"
	"github.com/wishhunt/wishsense/llm"
	"github.com/wishhunt/wishsense/models"
)

func visionProvider(t *testing.T, name string, handler http.HandlerFunc) config.ProviderConfig {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return config.ProviderConfig{
		Name:    name,
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "test-model",
		Timeout: 5 * time.Second,
	}
}

func visionContent(content string) []byte {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return body
}

func TestAnalyze_FirstProviderWins(t *testing.T) {
	var secondCalled atomic.Bool

	first := visionProvider(t, "first", func(w http.ResponseWriter, r *http.Request) {
		w.Write(visionContent(`{"name":"Кеды Converse","price":null,"currency":null,"size":null}`))
	})
	second := visionProvider(t, "second", func(w http.ResponseWriter, r *http.Request) {
		secondCalled.Store(true)
		w.Write(visionContent(`{"name":"другое"}`))
	})

	analyzer := NewAnalyzer(llm.NewClient(nil), []config.ProviderConfig{first, second})
	rec := analyzer.Analyze(context.Background(), "aGVsbG8=")

	assert.Equal(t, "Кеды Converse", rec.Name)
	assert.False(t, secondCalled.Load(), "secondary provider must not be called when the primary succeeds")
}

func TestAnalyze_CascadesPastFailures(t *testing.T) {
	failing := visionProvider(t, "failing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key"}}`))
	})
	garbage := visionProvider(t, "garbage", func(w http.ResponseWriter, r *http.Request) {
		w.Write(visionContent("no json here"))
	})
	working := visionProvider(t, "working", func(w http.ResponseWriter, r *http.Request) {
		w.Write(visionContent(`{"name":"Часы Casio","price":"175","currency":"USD","size":null}`))
	})

	analyzer := NewAnalyzer(llm.NewClient(nil), []config.ProviderConfig{failing, garbage, working})
	rec := analyzer.Analyze(context.Background(), "aGVsbG8=")

	assert.Equal(t, "Часы Casio", rec.Name)
	require.NotNil(t, rec.Price)
	assert.Equal(t, 175.0, *rec.Price)
	assert.Equal(t, extract.SymbolUSD, rec.Currency)
	assert.Equal(t, "", rec.Link)
}

func TestAnalyze_NoProvidersResolvesUnknown(t *testing.T) {
	analyzer := NewAnalyzer(llm.NewClient(nil), nil)
	assert.Equal(t, 0, analyzer.ProviderCount())

	rec := analyzer.Analyze(context.Background(), "aGVsbG8=")
	assert.Equal(t, models.UnknownRecord(), rec)
}

func TestAnalyze_AllProvidersExhaustedResolvesUnknown(t *testing.T) {
	down := visionProvider(t, "down", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	analyzer := NewAnalyzer(llm.NewClient(nil), []config.ProviderConfig{down})
	rec := analyzer.Analyze(context.Background(), "aGVsbG8=")

	assert.Equal(t, models.NameUnknown, rec.Name)
	assert.Nil(t, rec.Price)
}

func TestAnalyze_EmptyAINameBecomesUnknown(t *testing.T) {
	p := visionProvider(t, "p", func(w http.ResponseWriter, r *http.Request) {
		w.Write(visionContent(`{"name":null,"price":20,"currency":"$","size":null}`))
	})

	analyzer := NewAnalyzer(llm.NewClient(nil), []config.ProviderConfig{p})
	rec := analyzer.Analyze(context.Background(), "aGVsbG8=")

	assert.Equal(t, models.NameUnknown, rec.Name)
	require.NotNil(t, rec.Price)
	assert.Equal(t, 20.0, *rec.Price)
}

func TestDataURI(t *testing.T) {
	assert.Equal(t, "data:image/jpeg;base64,abc", DataURI("abc"))
	assert.Equal(t, "data:image/png;base64,abc", DataURI("data:image/png;base64,abc"))
}
