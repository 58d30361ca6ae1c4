// Package storage uploads image bytes to an S3-compatible object endpoint
// and hands back public URLs. Upload failure degrades to "no image URL";
// it is never fatal for the enclosing request.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/wishhunt/wishsense/config"
	"github.com/wishhunt/wishsense/models"
)

// Client is a thin object storage client over net/http.
type Client struct {
	cfg        config.StorageConfig
	httpClient *http.Client
}

// New creates a storage client. Pass a nil httpClient to use a default one;
// the per-upload deadline comes from the config.
func New(cfg config.StorageConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{cfg: cfg, httpClient: httpClient}
}

// Enabled reports whether uploads are configured at all.
func (c *Client) Enabled() bool {
	return c.cfg.Endpoint != "" && c.cfg.APIKey != ""
}

// Upload pushes data to <endpoint>/<bucket>/<path> and returns the public
// URL the object will be served from.
func (c *Client) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if !c.Enabled() {
		return "", models.NewResolveError(models.ErrCodeStorageFailure, "object storage not configured", nil)
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	endpoint := fmt.Sprintf("%s/%s/%s",
		strings.TrimRight(c.cfg.Endpoint, "/"), c.cfg.Bucket, strings.TrimLeft(path, "/"))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("storage: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", models.NewResolveError(models.ErrCodeStorageFailure, "upload failed", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode >= 300 {
		return "", models.NewResolveError(models.ErrCodeStorageFailure,
			fmt.Sprintf("storage returned %d", resp.StatusCode), nil)
	}

	return c.PublicURL(path), nil
}

// PublicURL derives the serving URL for an object path.
func (c *Client) PublicURL(path string) string {
	base := c.cfg.PublicBaseURL
	if base == "" {
		base = c.cfg.Endpoint
	}
	return fmt.Sprintf("%s/%s/%s",
		strings.TrimRight(base, "/"), c.cfg.Bucket, strings.TrimLeft(path, "/"))
}
