package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// parseRequest mirrors the WishSense API request model.
type parseRequest struct {
	URL        string `json:"url"`
	HTML       string `json:"html"`
	FetchImage bool   `json:"fetch_image,omitempty"`
	MaxAge     int64  `json:"max_age,omitempty"`
}

// attributeRecord mirrors the WishSense attribute record model.
type attributeRecord struct {
	Name     string   `json:"name"`
	Price    *float64 `json:"price"`
	Currency string   `json:"currency"`
	Size     string   `json:"size"`
	Link     string   `json:"link"`
	Image    string   `json:"image"`
}

// parseResponse mirrors the WishSense parse API response model.
type parseResponse struct {
	Success  bool             `json:"success"`
	Record   *attributeRecord `json:"record"`
	Degraded bool             `json:"degraded"`
	Error    *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// wishSubmitResponse mirrors the WishSense wish submit API response.
type wishSubmitResponse struct {
	ID        string `json:"id"`
	ExpiresAt int64  `json:"expires_at"`
}

// wishGetResponse mirrors the WishSense wish lookup API response.
type wishGetResponse struct {
	Text   string           `json:"text"`
	Record *attributeRecord `json:"record,omitempty"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// imageResponse mirrors the WishSense image analysis API response.
type imageResponse struct {
	Success bool             `json:"success"`
	Record  *attributeRecord `json:"record"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	apiURL := os.Getenv("WISHSENSE_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("WISHSENSE_API_KEY")

	s := server.NewMCPServer(
		"wishsense",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	parsePageTool := mcp.NewTool("parse_page",
		mcp.WithDescription("Resolve product attributes (name, price, currency, size, image) from the raw HTML of a product page. The page must already be rendered; pass the full HTML document."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The https URL the HTML was rendered from"),
		),
		mcp.WithString("html",
			mcp.Required(),
			mcp.Description("The rendered HTML document of the product page"),
		),
	)
	s.AddTool(parsePageTool, handleParsePage(apiURL, apiKey))

	// submit_wish tool
	submitWishTool := mcp.NewTool("submit_wish",
		mcp.WithDescription("Store a free-form wish text for later analysis. Returns a short-lived id; the text expires after the server-side TTL."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The wish text, e.g. 'хочу кроссовки Nike 42 за 150 руб'"),
		),
	)
	s.AddTool(submitWishTool, handleSubmitWish(apiURL, apiKey))

	// analyze_wish tool
	analyzeWishTool := mcp.NewTool("analyze_wish",
		mcp.WithDescription("Fetch a previously submitted wish text by id and extract product attributes (name, price, currency, size) from it."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The id returned by submit_wish"),
		),
	)
	s.AddTool(analyzeWishTool, handleAnalyzeWish(apiURL, apiKey))

	// analyze_image tool
	analyzeImageTool := mcp.NewTool("analyze_image",
		mcp.WithDescription("Extract product attributes from a product photo. Accepts a base64-encoded image or a data URI."),
		mcp.WithString("image",
			mcp.Required(),
			mcp.Description("Base64-encoded image bytes, optionally as a data URI"),
		),
	)
	s.AddTool(analyzeImageTool, handleAnalyzeImage(apiURL, apiKey))

	// health tool
	healthTool := mcp.NewTool("health",
		mcp.WithDescription("Check the WishSense API status and which inference providers are configured."),
	)
	s.AddTool(healthTool, handleHealth(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// apiPost sends a POST request to the WishSense API and returns the response body.
func apiPost(ctx context.Context, client *http.Client, apiURL, apiKey, path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// apiGet sends a GET request to the WishSense API and returns the response body.
func apiGet(ctx context.Context, client *http.Client, apiURL, apiKey, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// formatRecord renders an attribute record as readable text.
func formatRecord(r *attributeRecord) string {
	if r == nil {
		return "no record"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name: %s\n", r.Name))
	if r.Price != nil {
		sb.WriteString(fmt.Sprintf("Price: %g %s\n", *r.Price, r.Currency))
	} else if r.Currency != "" {
		sb.WriteString(fmt.Sprintf("Currency: %s\n", r.Currency))
	}
	if r.Size != "" {
		sb.WriteString(fmt.Sprintf("Size: %s\n", r.Size))
	}
	if r.Link != "" {
		sb.WriteString(fmt.Sprintf("Link: %s\n", r.Link))
	}
	if r.Image != "" {
		sb.WriteString(fmt.Sprintf("Image: %s\n", r.Image))
	}
	return sb.String()
}

func handleHealth(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 10 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		respBody, err := apiGet(ctx, client, apiURL, apiKey, "/api/v1/health")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var health struct {
			Status          string `json:"status"`
			Uptime          string `json:"uptime"`
			Version         string `json:"version"`
			TextProvider    bool   `json:"text_provider"`
			VisionProviders int    `json:"vision_providers"`
		}
		if err := json.Unmarshal(respBody, &health); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf(
			"status: %s\nuptime: %s\nversion: %s\ntext provider configured: %t\nvision providers: %d",
			health.Status, health.Uptime, health.Version, health.TextProvider, health.VisionProviders,
		)), nil
	}
}

func handleParsePage(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 60 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}
		html, err := request.RequireString("html")
		if err != nil {
			return mcp.NewToolResultError("html is required"), nil
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/parse", parseRequest{
			URL:  url,
			HTML: html,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var parseResp parseResponse
		if err := json.Unmarshal(respBody, &parseResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if !parseResp.Success {
			errMsg := "parse failed"
			if parseResp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", parseResp.Error.Code, parseResp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		result := formatRecord(parseResp.Record)
		if parseResp.Degraded {
			result += "\n(degraded: resolution failed, placeholder record returned)"
		}
		return mcp.NewToolResultText(result), nil
	}
}

func handleSubmitWish(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 30 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := request.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError("text is required"), nil
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/wish", map[string]string{
			"text": text,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var submitResp wishSubmitResponse
		if err := json.Unmarshal(respBody, &submitResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}
		if submitResp.ID == "" {
			return mcp.NewToolResultError("wish submission failed"), nil
		}

		expires := time.Unix(submitResp.ExpiresAt, 0).UTC().Format(time.RFC3339)
		return mcp.NewToolResultText(fmt.Sprintf("id: %s\nexpires_at: %s", submitResp.ID, expires)), nil
	}
}

func handleAnalyzeWish(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 60 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError("id is required"), nil
		}

		respBody, err := apiGet(ctx, client, apiURL, apiKey, "/api/v1/wish/"+id+"?analyze=true")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var getResp wishGetResponse
		if err := json.Unmarshal(respBody, &getResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}
		if getResp.Error != nil {
			return mcp.NewToolResultError(fmt.Sprintf("[%s] %s", getResp.Error.Code, getResp.Error.Message)), nil
		}

		result := fmt.Sprintf("Text: %s\n\n%s", getResp.Text, formatRecord(getResp.Record))
		return mcp.NewToolResultText(result), nil
	}
}

func handleAnalyzeImage(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 180 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		image, err := request.RequireString("image")
		if err != nil {
			return mcp.NewToolResultError("image is required"), nil
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/image", map[string]string{
			"image": image,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var imgResp imageResponse
		if err := json.Unmarshal(respBody, &imgResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if !imgResp.Success {
			errMsg := "image analysis failed"
			if imgResp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", imgResp.Error.Code, imgResp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		return mcp.NewToolResultText(formatRecord(imgResp.Record)), nil
	}
}
