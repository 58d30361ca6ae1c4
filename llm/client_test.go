package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishhunt/wishsense/config"
	"github.com/wishhunt/wishsense/models"
)

func testProvider(t *testing.T, handler http.HandlerFunc) config.ProviderConfig {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return config.ProviderConfig{
		Name:    "test",
		BaseURL: server.URL + "/v1/",
		APIKey:  "test-key",
		Model:   "test-model",
		Timeout: 5 * time.Second,
	}
}

func TestComplete_Success(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.Zero(t, req.Temperature)

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "hello"}},
			},
		})
	})

	content, err := NewClient(nil).Complete(context.Background(), p, []Message{
		TextMessage("user", "hi"),
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", content)
}

func TestComplete_ErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected string
	}{
		{"unauthorized", http.StatusUnauthorized, models.ErrCodeAIAuthFailure},
		{"forbidden", http.StatusForbidden, models.ErrCodeAIAuthFailure},
		{"rate limited", http.StatusTooManyRequests, models.ErrCodeAIRateLimited},
		{"server error", http.StatusInternalServerError, models.ErrCodeAIFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"error":{"message":"nope"}}`))
			})

			_, err := NewClient(nil).Complete(context.Background(), p, []Message{
				TextMessage("user", "hi"),
			})
			require.Error(t, err)

			var re *models.ResolveError
			require.True(t, errors.As(err, &re))
			assert.Equal(t, tt.expected, re.Code)
		})
	}
}

func TestComplete_UnconfiguredProvider(t *testing.T) {
	_, err := NewClient(nil).Complete(context.Background(), config.ProviderConfig{}, nil)
	require.Error(t, err)

	var re *models.ResolveError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, models.ErrCodeAIFailure, re.Code)
}

func TestComplete_NoChoices(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})

	_, err := NewClient(nil).Complete(context.Background(), p, []Message{
		TextMessage("user", "hi"),
	})
	require.Error(t, err)
}

func TestVisionMessage_Shape(t *testing.T) {
	msg := VisionMessage("describe", "data:image/jpeg;base64,abc")
	assert.Equal(t, "user", msg.Role)

	parts, ok := msg.Content.([]ContentPart)
	require.True(t, ok)
	require.Len(t, parts, 2)
	assert.Equal(t, "text", parts[0].Type)
	assert.Equal(t, "describe", parts[0].Text)
	assert.Equal(t, "image_url", parts[1].Type)
	require.NotNil(t, parts[1].ImageURL)
	assert.Equal(t, "data:image/jpeg;base64,abc", parts[1].ImageURL.URL)
}
