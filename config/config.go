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
	Capture   CaptureConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Storage   StorageConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// MaxPages is the page pool capacity (max concurrent tabs).
	MaxPages int // default: 5

	// Proxy is the proxy URL for all browser traffic.
	Proxy string

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string
}

// CaptureConfig controls the evidence-capture session.
type CaptureConfig struct {
	// DefaultTimeout is the per-run capture deadline.
	DefaultTimeout time.Duration // default: 60s

	// MaxTimeout is the maximum timeout a client may request.
	MaxTimeout time.Duration // default: 180s

	// ProbeTimeout is the deadline for the raw-HTML HTTP probe.
	ProbeTimeout time.Duration // default: 10s

	// LazyLoadWait is how long to wait after navigation for straggling
	// data requests before snapshotting.
	LazyLoadWait time.Duration // default: 3s

	// HydrationWait is the extra settle time before the t1 snapshot.
	HydrationWait time.Duration // default: 2s

	// ScrollSteps is the number of incremental scroll increments between
	// t1 and t2.
	ScrollSteps int // default: 4

	// ScrollStepPixels is the wheel delta per scroll step.
	ScrollStepPixels int // default: 1000

	// ScrollStepWait is the lazy-load pause after each scroll step.
	ScrollStepWait time.Duration // default: 500ms

	// UserAgent replaces the default headless UA, which triggers 403s
	// on many sites.
	UserAgent string

	// ProfileTTL is how long a learned per-domain capture profile
	// (e.g. "needs stealth") is remembered.
	ProfileTTL time.Duration // default: 24h
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 2

	// Burst is the maximum burst size per API key.
	Burst int // default: 5
}

// CacheConfig controls the verdict cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached verdicts.
	MaxEntries int // default: 500
}

// StorageConfig controls run persistence.
type StorageConfig struct {
	// DataDir is the root directory for run artifacts.
	DataDir string // default: "runs"

	// DBPath is the SQLite run-index path. Empty disables the index.
	DBPath string // default: "runs/slap.db"
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
			Host: envOr("SLAP_HOST", "0.0.0.0"),
			Port: envIntOr("SLAP_PORT", 8080),
			Mode: envOr("SLAP_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:   envBoolOr("SLAP_HEADLESS", true),
			MaxPages:   envIntOr("SLAP_MAX_PAGES", 5),
			Proxy:      os.Getenv("SLAP_PROXY"),
			NoSandbox:  envBoolOr("SLAP_NO_SANDBOX", false),
			BrowserBin: os.Getenv("SLAP_BROWSER_BIN"),
		},
		Capture: CaptureConfig{
			DefaultTimeout:   envDurationOr("SLAP_DEFAULT_TIMEOUT", 60*time.Second),
			MaxTimeout:       envDurationOr("SLAP_MAX_TIMEOUT", 180*time.Second),
			ProbeTimeout:     envDurationOr("SLAP_PROBE_TIMEOUT", 10*time.Second),
			LazyLoadWait:     envDurationOr("SLAP_LAZY_LOAD_WAIT", 3*time.Second),
			HydrationWait:    envDurationOr("SLAP_HYDRATION_WAIT", 2*time.Second),
			ScrollSteps:      envIntOr("SLAP_SCROLL_STEPS", 4),
			ScrollStepPixels: envIntOr("SLAP_SCROLL_STEP_PIXELS", 1000),
			ScrollStepWait:   envDurationOr("SLAP_SCROLL_STEP_WAIT", 500*time.Millisecond),
			UserAgent: envOr("SLAP_USER_AGENT",
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"),
			ProfileTTL: envDurationOr("SLAP_PROFILE_TTL", 24*time.Hour),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("SLAP_AUTH_ENABLED", true),
			APIKeys: envSliceOr("SLAP_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("SLAP_RATE_RPS", 2.0),
			Burst:             envIntOr("SLAP_RATE_BURST", 5),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("SLAP_CACHE_MAX_ENTRIES", 500),
		},
		Storage: StorageConfig{
			DataDir: envOr("SLAP_DATA_DIR", "runs"),
			DBPath:  envOr("SLAP_DB_PATH", "runs/slap.db"),
		},
		Log: LogConfig{
			Level:  envOr("SLAP_LOG_LEVEL", "info"),
			Format: envOr("SLAP_LOG_FORMAT", "json"),
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
