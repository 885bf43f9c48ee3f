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
	Browser   BrowserConfig
	Render    RenderConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Store     StoreConfig
	Webhook   WebhookConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the per-call Rod browser instances.
type BrowserConfig struct {
	// Headless controls whether browsers run headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// Bin overrides the Chromium binary path.
	Bin string

	// Proxy is the proxy URL applied to every browser launch.
	Proxy string

	// Stealth injects anti-bot-detection JS before navigation. The promo
	// sources all run consumer-grade bot detection, so this defaults on.
	Stealth bool // default: true
}

// RenderConfig controls content realization: navigation, settling,
// progressive scrolling, viewport and resource blocking.
type RenderConfig struct {
	// NavTimeout bounds navigation and the DOM-stable wait.
	NavTimeout time.Duration // default: 30s

	// MaxTimeout is the maximum navigation deadline a client may request.
	MaxTimeout time.Duration // default: 120s

	// SettleDelay is the fixed pause after DOM-content-loaded that lets
	// client-side rendering finish before the page is queried.
	SettleDelay time.Duration // default: 4s

	// ScrollStep is the per-step scroll distance in pixels.
	ScrollStep int // default: 600

	// ScrollInterval is the pause between scroll steps, long enough for
	// lazy-loaded rows to mount.
	ScrollInterval time.Duration // default: 250ms

	// ScrollOvershoot is the extra distance in pixels scrolled past the
	// height observed when the loop starts.
	ScrollOvershoot int // default: 1200

	// ScrollMaxSteps caps the scroll loop regardless of page height.
	ScrollMaxSteps int // default: 60

	// ViewportWidth and ViewportHeight fix the emulated viewport so that
	// layouts and screenshots are reproducible.
	ViewportWidth  int // default: 1280
	ViewportHeight int // default: 800

	// BlockedResourceTypes lists resource types to block during
	// realization. Empty by default: screenshots are evidence, so images
	// and styles must load.
	BlockedResourceTypes []string

	// BlockTrackers drops requests to known analytics/tracking hosts.
	// These never affect pixels and only slow down settling.
	BlockTrackers bool // default: true
}

// AuthConfig controls dashboard session authentication.
type AuthConfig struct {
	// Password gates the dashboard and API. Empty disables auth
	// entirely (open access, intended for local use only).
	Password string

	// SessionTTL is how long an issued session token stays valid.
	SessionTTL time.Duration // default: 24h
}

// RateLimitConfig controls per-session rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per session.
	RequestsPerSecond float64 // default: 2

	// Burst is the maximum burst size per session.
	Burst int // default: 5
}

// StoreConfig controls the JSON report store and the asset directory.
type StoreConfig struct {
	DataDir  string // default: "data/reports"
	AssetDir string // default: "data/assets"
}

// WebhookConfig controls report-completion notifications.
type WebhookConfig struct {
	// URL receives a POST after every report build. Empty disables.
	URL string

	// Secret signs the payload with HMAC-SHA256 when non-empty.
	Secret string
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
			Host: envOr("PROMO_HOST", "0.0.0.0"),
			Port: envIntOr("PROMO_PORT", 8080),
			Mode: envOr("PROMO_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:  envBoolOr("PROMO_HEADLESS", true),
			NoSandbox: envBoolOr("PROMO_NO_SANDBOX", false),
			Bin:       os.Getenv("PROMO_BROWSER_BIN"),
			Proxy:     os.Getenv("PROMO_PROXY"),
			Stealth:   envBoolOr("PROMO_STEALTH", true),
		},
		Render: RenderConfig{
			NavTimeout:           envDurationOr("PROMO_NAV_TIMEOUT", 30*time.Second),
			MaxTimeout:           envDurationOr("PROMO_MAX_TIMEOUT", 120*time.Second),
			SettleDelay:          envDurationOr("PROMO_SETTLE_DELAY", 4*time.Second),
			ScrollStep:           envIntOr("PROMO_SCROLL_STEP", 600),
			ScrollInterval:       envDurationOr("PROMO_SCROLL_INTERVAL", 250*time.Millisecond),
			ScrollOvershoot:      envIntOr("PROMO_SCROLL_OVERSHOOT", 1200),
			ScrollMaxSteps:       envIntOr("PROMO_SCROLL_MAX_STEPS", 60),
			ViewportWidth:        envIntOr("PROMO_VIEWPORT_WIDTH", 1280),
			ViewportHeight:       envIntOr("PROMO_VIEWPORT_HEIGHT", 800),
			BlockedResourceTypes: envSliceOr("PROMO_BLOCKED_RESOURCES", nil),
			BlockTrackers:        envBoolOr("PROMO_BLOCK_TRACKERS", true),
		},
		Auth: AuthConfig{
			Password:   os.Getenv("PROMO_DASH_PASSWORD"),
			SessionTTL: envDurationOr("PROMO_SESSION_TTL", 24*time.Hour),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("PROMO_RATE_RPS", 2.0),
			Burst:             envIntOr("PROMO_RATE_BURST", 5),
		},
		Store: StoreConfig{
			DataDir:  envOr("PROMO_DATA_DIR", "data/reports"),
			AssetDir: envOr("PROMO_ASSET_DIR", "data/assets"),
		},
		Webhook: WebhookConfig{
			URL:    os.Getenv("PROMO_WEBHOOK_URL"),
			Secret: os.Getenv("PROMO_WEBHOOK_SECRET"),
		},
		Log: LogConfig{
			Level:  envOr("PROMO_LOG_LEVEL", "info"),
			Format: envOr("PROMO_LOG_FORMAT", "json"),
		},
	}
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
