package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Text      ProviderConfig
	Vision    []ProviderConfig
	Storage   StorageConfig
	TextStore TextStoreConfig
	Cache     CacheConfig
	Fetch     FetchConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// ProviderConfig describes one OpenAI-compatible inference provider.
// A provider with an empty APIKey or BaseURL is treated as not configured.
type ProviderConfig struct {
	// Name identifies the provider in logs.
	Name string

	// BaseURL is the API root, e.g. "https://api.openai.com/v1".
	BaseURL string

	// APIKey is the bearer credential. Empty disables the provider.
	APIKey string

	// Model is the model identifier sent in the request body.
	Model string

	// Timeout is the per-call deadline.
	Timeout time.Duration // default: 30s (text), 45s (vision)
}

// Configured reports whether the provider can be called at all.
func (p ProviderConfig) Configured() bool {
	return p.APIKey != "" && p.BaseURL != ""
}

// StorageConfig controls the object storage client for image uploads.
type StorageConfig struct {
	// Endpoint is the storage API root. Empty disables uploads.
	Endpoint string

	// Bucket is the target bucket name.
	Bucket string // default: "wish-images"

	// APIKey is the bearer credential for uploads.
	APIKey string

	// PublicBaseURL is the root under which uploaded objects are served.
	// Defaults to Endpoint when empty.
	PublicBaseURL string

	// Timeout is the per-upload deadline.
	Timeout time.Duration // default: 15s
}

// TextStoreConfig controls the ephemeral wish text store.
type TextStoreConfig struct {
	// TTL is how long a submitted text stays readable.
	TTL time.Duration // default: 10m
}

// CacheConfig controls the parse response cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached records.
	MaxEntries int // default: 1000
}

// FetchConfig controls the outbound image fetcher.
type FetchConfig struct {
	// Timeout is the per-download deadline.
	Timeout time.Duration // default: 20s

	// Proxy is an optional proxy URL for image downloads.
	Proxy string
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: false

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per API key.
	Burst int // default: 10
}

// CORSConfig controls cross-origin access for the user-facing application.
type CORSConfig struct {
	// AllowedOrigins lists origins allowed to call the API.
	// default: ["*"]
	AllowedOrigins []string
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("WISHSENSE_HOST", "0.0.0.0"),
			Port: envIntOr("WISHSENSE_PORT", 8080),
			Mode: envOr("WISHSENSE_MODE", "release"),
		},
		Text: ProviderConfig{
			Name:    envOr("WISHSENSE_TEXT_NAME", "text"),
			BaseURL: envOr("WISHSENSE_TEXT_BASE_URL", "https://api.openai.com/v1"),
			APIKey:  os.Getenv("WISHSENSE_TEXT_API_KEY"),
			Model:   envOr("WISHSENSE_TEXT_MODEL", "gpt-4o-mini"),
			Timeout: envDurationOr("WISHSENSE_TEXT_TIMEOUT", 30*time.Second),
		},
		Vision: loadVisionProviders(),
		Storage: StorageConfig{
			Endpoint:      os.Getenv("WISHSENSE_STORAGE_ENDPOINT"),
			Bucket:        envOr("WISHSENSE_STORAGE_BUCKET", "wish-images"),
			APIKey:        os.Getenv("WISHSENSE_STORAGE_API_KEY"),
			PublicBaseURL: os.Getenv("WISHSENSE_STORAGE_PUBLIC_URL"),
			Timeout:       envDurationOr("WISHSENSE_STORAGE_TIMEOUT", 15*time.Second),
		},
		TextStore: TextStoreConfig{
			TTL: envDurationOr("WISHSENSE_TEXT_TTL", 10*time.Minute),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("WISHSENSE_CACHE_MAX_ENTRIES", 1000),
		},
		Fetch: FetchConfig{
			Timeout: envDurationOr("WISHSENSE_FETCH_TIMEOUT", 20*time.Second),
			Proxy:   os.Getenv("WISHSENSE_FETCH_PROXY"),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("WISHSENSE_AUTH_ENABLED", false),
			APIKeys: envSliceOr("WISHSENSE_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("WISHSENSE_RATE_RPS", 5.0),
			Burst:             envIntOr("WISHSENSE_RATE_BURST", 10),
		},
		CORS: CORSConfig{
			AllowedOrigins: envSliceOr("WISHSENSE_CORS_ORIGINS", []string{"*"}),
		},
		Log: LogConfig{
			Level:  envOr("WISHSENSE_LOG_LEVEL", "info"),
			Format: envOr("WISHSENSE_LOG_FORMAT", "json"),
		},
	}
}

// loadVisionProviders reads up to three vision provider slots. Only fully
// configured slots are kept; their order is the cascade priority.
func loadVisionProviders() []ProviderConfig {
	slots := []ProviderConfig{
		{
			Name:    envOr("WISHSENSE_VISION1_NAME", "vision-primary"),
			BaseURL: os.Getenv("WISHSENSE_VISION1_BASE_URL"),
			APIKey:  os.Getenv("WISHSENSE_VISION1_API_KEY"),
			Model:   envOr("WISHSENSE_VISION1_MODEL", "gpt-4o-mini"),
			Timeout: envDurationOr("WISHSENSE_VISION1_TIMEOUT", 45*time.Second),
		},
		{
			Name:    envOr("WISHSENSE_VISION2_NAME", "vision-secondary"),
			BaseURL: os.Getenv("WISHSENSE_VISION2_BASE_URL"),
			APIKey:  os.Getenv("WISHSENSE_VISION2_API_KEY"),
			Model:   os.Getenv("WISHSENSE_VISION2_MODEL"),
			Timeout: envDurationOr("WISHSENSE_VISION2_TIMEOUT", 45*time.Second),
		},
		{
			Name:    envOr("WISHSENSE_VISION3_NAME", "vision-tertiary"),
			BaseURL: os.Getenv("WISHSENSE_VISION3_BASE_URL"),
			APIKey:  os.Getenv("WISHSENSE_VISION3_API_KEY"),
			Model:   os.Getenv("WISHSENSE_VISION3_MODEL"),
			Timeout: envDurationOr("WISHSENSE_VISION3_TIMEOUT", 45*time.Second),
		},
	}

	providers := make([]ProviderConfig, 0, len(slots))
	for _, s := range slots {
		if s.Configured() {
			providers = append(providers, s)
		}
	}
	return providers
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
