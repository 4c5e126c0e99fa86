package web

import (
	"fmt"
	"os"
	"time"
)

// DefaultRouteTTL is how long an idle route stays in memory.
const DefaultRouteTTL = 12 * time.Hour

// Config holds server configuration.
type Config struct {
	GeminiAPIKey string
	GeminiModel  string
	DevMode      bool
	RouteTTL     time.Duration
}

// ConfigFromEnv creates a Config from environment variables.
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		GeminiAPIKey: os.Getenv("VR_GEMINI_API_KEY"),
		GeminiModel:  os.Getenv("VR_GEMINI_MODEL"),
		DevMode:      os.Getenv("VR_DEV_MODE") == "true",
		RouteTTL:     DefaultRouteTTL,
	}

	if v := os.Getenv("VR_ROUTE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parsing VR_ROUTE_TTL: %w", err)
		}
		if ttl <= 0 {
			return Config{}, fmt.Errorf("VR_ROUTE_TTL must be positive, got %s", ttl)
		}
		cfg.RouteTTL = ttl
	}

	return cfg, nil
}
