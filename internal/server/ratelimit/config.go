package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig limits one route.
type EndpointConfig struct {
	Pattern string        // Path pattern; "*" matches exactly one segment
	Method  string        // HTTP method
	Limit   int           // Requests per window; 0 means unlimited
	Window  time.Duration // Refill window
	Burst   int           // Bucket capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTimeout     time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

func (c *Config) idleTimeout() time.Duration {
	if c.IdleTimeout <= 0 {
		return time.Hour
	}
	return c.IdleTimeout
}

// DefaultConfig returns the built-in limits.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		IdleTimeout:     time.Hour,
		Whitelist:       map[string]bool{},
		Blacklist:       map[string]bool{},
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// LoadConfig builds the configuration from RATE_LIMIT_* environment
// variables on top of DefaultConfig.
func LoadConfig() *Config {
	cfg := DefaultConfig()
	cfg.Enabled = getEnvBool("RATE_LIMIT_ENABLED", cfg.Enabled)
	if !cfg.Enabled {
		return &Config{Enabled: false}
	}
	cfg.DefaultLimit = getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", cfg.DefaultLimit)
	cfg.DefaultWindow = getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", cfg.DefaultWindow)
	cfg.CleanupInterval = getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", cfg.CleanupInterval)
	cfg.IdleTimeout = getEnvDuration("RATE_LIMIT_IDLE_TIMEOUT", cfg.IdleTimeout)
	cfg.Whitelist = parseIPList(os.Getenv("RATE_LIMIT_WHITELIST"))
	cfg.Blacklist = parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST"))
	return cfg
}

// DefaultEndpointConfigs returns the per-route limits of the editor API.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Opening sessions loads documents from storage.
		{Pattern: "/sessions", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
		{Pattern: "/sessions/*/value", Method: "PUT", Limit: 120, Window: time.Minute, Burst: 20},

		// Field edits arrive at typing speed.
		{Pattern: "/sessions/*/data", Method: "PATCH", Limit: 1200, Window: time.Minute, Burst: 100},
		{Pattern: "/sessions/*/undo", Method: "POST", Limit: 600, Window: time.Minute, Burst: 50},
		{Pattern: "/sessions/*/redo", Method: "POST", Limit: 600, Window: time.Minute, Burst: 50},

		{Pattern: "/sessions/*/dialog/submit", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Pattern: "/sessions/*/sections/*/items/*/move", Method: "POST", Limit: 300, Window: time.Minute, Burst: 30},
		{Pattern: "/sessions/*/sections/*/items/*", Method: "DELETE", Limit: 120, Window: time.Minute, Burst: 20},

		// Event streams are long lived.
		{Pattern: "/sessions/*/events", Method: "GET", Limit: 20, Window: time.Minute, Burst: 5},

		// Unlimited
		{Pattern: "/health", Method: "GET", Limit: 0},
	}
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as a boolean with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
