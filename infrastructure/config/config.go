package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds process-wide settings read from the environment.
type Config struct {
	Addr       string
	SQLitePath string

	// APIBaseURL is the clinic REST API every proxy route and feature talks to.
	APIBaseURL      string
	UpstreamTimeout time.Duration

	JWTSecret    string
	CookieSecure bool

	NominatimURL       string
	GeocoderUserAgent  string
	SearchDebounce     time.Duration
	GeocodeCacheTTL    time.Duration
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	MaxUpstreamPageLen int
}

// Load reads a local .env file when present and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("load .env failed", slog.Any("err", err))
	}

	return Config{
		Addr:               getenv("APP_ADDR", ":8080"),
		SQLitePath:         getenv("SQLITE_PATH", "vetgateway.db"),
		APIBaseURL:         strings.TrimRight(strings.TrimSpace(os.Getenv("NEXT_PUBLIC_API_URL")), "/"),
		UpstreamTimeout:    time.Duration(getenvInt("UPSTREAM_TIMEOUT_SECONDS", 30)) * time.Second,
		JWTSecret:          strings.TrimSpace(os.Getenv("JWT_SECRET")),
		CookieSecure:       getenvBool("COOKIE_SECURE", false),
		NominatimURL:       strings.TrimRight(getenv("NOMINATIM_URL", "https://nominatim.openstreetmap.org"), "/"),
		GeocoderUserAgent:  getenv("GEOCODER_USER_AGENT", "vetgateway/1.0 (clinic location picker)"),
		SearchDebounce:     time.Duration(getenvInt("SEARCH_DEBOUNCE_MS", 300)) * time.Millisecond,
		GeocodeCacheTTL:    time.Duration(getenvInt("GEOCODE_CACHE_TTL_SECONDS", 3600)) * time.Second,
		RedisAddr:          strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getenvInt("REDIS_DB", 0),
		MaxUpstreamPageLen: getenvInt("UPSTREAM_PAGE_SIZE", 1000),
	}
}

// Validate rejects configurations the gateway cannot serve with.
func (c Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("NEXT_PUBLIC_API_URL is required")
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("NEXT_PUBLIC_API_URL must be an absolute URL, got %q", c.APIBaseURL)
	}
	if c.JWTSecret != "" && len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters when set")
	}
	if c.SearchDebounce < 0 {
		return fmt.Errorf("SEARCH_DEBOUNCE_MS must not be negative")
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func getenvBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}
