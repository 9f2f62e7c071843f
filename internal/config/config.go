package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds settings for the terminal client and the development stub API.
type Config struct {
	Env string

	// Terminal client.
	APIBaseURL        string
	APITimeout        time.Duration
	SearchDebounce    time.Duration
	SearchLimit       int
	GroupDisplayLimit int
	CacheTTL          time.Duration
	SessionFile       string

	// Development stub API.
	MockAddr      string
	MockJWTSecret string
	MockSeedFile  string
	MockLatency   time.Duration
	CORSOrigins   []string
	CORSAllowAll  bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:               getEnv("APP_ENV", "development"),
		APIBaseURL:        getEnv("VETDESK_API_BASE_URL", "http://localhost:8080"),
		APITimeout:        mustDuration(getEnv("VETDESK_API_TIMEOUT", "10s")),
		SearchDebounce:    mustDuration(getEnv("VETDESK_SEARCH_DEBOUNCE", "300ms")),
		SearchLimit:       getInt("VETDESK_SEARCH_LIMIT", 10),
		GroupDisplayLimit: getInt("VETDESK_GROUP_DISPLAY_LIMIT", 0),
		CacheTTL:          mustDuration(getEnv("VETDESK_CACHE_TTL", "30s")),
		SessionFile:       getEnv("VETDESK_SESSION_FILE", defaultSessionFile()),
		MockAddr:          getEnv("MOCKAPI_ADDR", ":8080"),
		MockJWTSecret:     getEnv("MOCKAPI_JWT_SECRET", "dev-only-secret"),
		MockSeedFile:      getEnv("MOCKAPI_SEED", ""),
		MockLatency:       mustDuration(getEnv("MOCKAPI_LATENCY", "0")),
		CORSOrigins:       corsOrigins,
		CORSAllowAll:      corsAllowAll,
	}

	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("VETDESK_API_BASE_URL is required")
	}
	if cfg.APITimeout <= 0 {
		return nil, fmt.Errorf("VETDESK_API_TIMEOUT must be a positive duration")
	}
	if cfg.SearchDebounce <= 0 {
		return nil, fmt.Errorf("VETDESK_SEARCH_DEBOUNCE must be a positive duration")
	}
	if cfg.SearchLimit < 1 || cfg.SearchLimit > 50 {
		return nil, fmt.Errorf("VETDESK_SEARCH_LIMIT must be between 1 and 50")
	}
	if cfg.GroupDisplayLimit < 0 {
		return nil, fmt.Errorf("VETDESK_GROUP_DISPLAY_LIMIT cannot be negative")
	}

	return cfg, nil
}

// GetAPIBaseURL implements rest.Config.
func (c *Config) GetAPIBaseURL() string { return c.APIBaseURL }

// GetAPITimeout implements rest.Config.
func (c *Config) GetAPITimeout() time.Duration { return c.APITimeout }

// GetCacheTTL implements rest.Config.
func (c *Config) GetCacheTTL() time.Duration { return c.CacheTTL }

// GetJWTAccessSecret implements httpkit.JWTConfig for the stub API.
func (c *Config) GetJWTAccessSecret() string { return c.MockJWTSecret }

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "vetdesk", "session.json")
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return fallback
	}
	return n
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
