package models

// ParseResponse is the response for POST /api/v1/parse.
type ParseResponse struct {
	// Success indicates whether the request was processed. It stays true
	// even when every field resolved to its absent sentinel.
	Success bool `json:"success"`

	// Record is the resolved attribute record.
	Record AttributeRecord `json:"record"`

	// ImageB64 is the base64-encoded image payload when fetch_image was set
	// and the download succeeded. Empty otherwise.
	ImageB64 string `json:"image_b64,omitempty"`

	// Degraded is set when the resolution pipeline failed unexpectedly and
	// the record carries all-absent fields.
	Degraded bool `json:"degraded,omitempty"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// CacheStatus indicates whether the record was served from cache.
	// Values: "hit", "miss", or empty (caching not requested).
	CacheStatus string `json:"cache_status,omitempty"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// WishSubmitResponse is the response for POST /api/v1/wish.
type WishSubmitResponse struct {
	// ID is the opaque token for the stored text.
	ID string `json:"id"`

	// ExpiresAt is the entry expiry as a Unix timestamp (seconds).
	ExpiresAt int64 `json:"expires_at"`
}

// WishGetResponse is the response for GET /api/v1/wish/:id.
type WishGetResponse struct {
	Text string `json:"text"`

	// Record is populated when analyze=true was requested.
	Record *AttributeRecord `json:"record,omitempty"`
}

// ImageResponse is the response for POST /api/v1/image.
type ImageResponse struct {
	Success bool            `json:"success"`
	Record  AttributeRecord `json:"record"`

	// ImageURL is the public storage URL when upload was requested and
	// succeeded. Empty otherwise; upload failure is never fatal.
	ImageURL string `json:"image_url,omitempty"`

	Timing TimingInfo   `json:"timing"`
	Error  *ErrorDetail `json:"error,omitempty"`
}

// ErrorResponse is the generic error envelope for endpoints without a richer
// response shape.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// ResolveMs is the time spent in the extraction pipeline.
	ResolveMs int64 `json:"resolve_ms,omitempty"`

	// InferenceMs is the time spent waiting on AI providers.
	InferenceMs int64 `json:"inference_ms,omitempty"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"` // always "healthy"; the service holds no pooled resources
	Uptime  string `json:"uptime"`
	Version string `json:"version"`

	// TextProvider reports whether the wish analyzer has a configured
	// inference provider (false means deterministic fallback only).
	TextProvider bool `json:"text_provider"`

	// VisionProviders is the number of configured vision providers (0-3).
	VisionProviders int `json:"vision_providers"`
}
