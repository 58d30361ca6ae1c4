package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/wishhunt/wishsense/config"
	"github.com/wishhunt/wishsense/models"
)

// Client is a lightweight OpenAI-compatible chat client shared by the wish
// and vision analyzers.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a new inference client with the given http.Client.
// Pass nil to use a default client; per-call deadlines come from the
// provider config, not the client.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{httpClient: httpClient}
}

// Message is one chat message. Content is either a plain string or a slice
// of ContentPart for multimodal (vision) requests.
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// ContentPart is one segment of a multimodal message.
type ContentPart struct {
	Type     string    `json:"type"` // "text" or "image_url"
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL wraps an image reference; a data URI is accepted.
type ImageURL struct {
	URL string `json:"url"`
}

// TextMessage builds a plain text message.
func TextMessage(role, text string) Message {
	return Message{Role: role, Content: text}
}

// VisionMessage builds a user message carrying an instruction plus an image
// data URI.
func VisionMessage(instruction, imageDataURI string) Message {
	return Message{
		Role: "user",
		Content: []ContentPart{
			{Type: "text", Text: instruction},
			{Type: "image_url", ImageURL: &ImageURL{URL: imageDataURI}},
		},
	}
}

// chatRequest is the chat completion request body.
type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

// chatResponse is the minimal chat completion response we need.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// chatErrorResponse captures an API error from the provider.
type chatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Complete sends one chat completion request to the provider and returns the
// assistant message content. Each call carries its own timeout from the
// provider config; failures are never retried.
func (c *Client) Complete(ctx context.Context, p config.ProviderConfig, msgs []Message) (string, error) {
	if !p.Configured() {
		return "", models.NewResolveError(models.ErrCodeAIFailure, "provider not configured", nil)
	}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	bodyBytes, err := json.Marshal(chatRequest{
		Model:       p.Model,
		Messages:    msgs,
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := strings.TrimRight(p.BaseURL, "/") + "/chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", models.NewResolveError(models.ErrCodeAIFailure, "inference request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", models.NewResolveError(models.ErrCodeAIFailure, "failed to read inference response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", classifyAIError(resp.StatusCode, respBody)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", models.NewResolveError(models.ErrCodeAIFailure, "failed to parse inference response", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", models.NewResolveError(models.ErrCodeAIFailure, "provider returned no choices", nil)
	}

	return chatResp.Choices[0].Message.Content, nil
}

// classifyAIError maps HTTP status codes to appropriate error codes.
func classifyAIError(statusCode int, body []byte) *models.ResolveError {
	var errResp chatErrorResponse
	msg := "inference API error"
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		msg = errResp.Error.Message
	}

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return models.NewResolveError(models.ErrCodeAIAuthFailure, msg, nil)
	case statusCode == http.StatusTooManyRequests:
		return models.NewResolveError(models.ErrCodeAIRateLimited, msg, nil)
	default:
		return models.NewResolveError(models.ErrCodeAIFailure, fmt.Sprintf("inference API returned %d: %s", statusCode, msg), nil)
	}
}
