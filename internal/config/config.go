// Package config provides configuration loading and validation for the editor service.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the service configuration. It can be loaded from a JSON or YAML
// file; every field is optional and environment variables take precedence.
type Config struct {
	Port       int    `json:"port,omitempty" yaml:"port,omitempty"`               // HTTP listen port
	CORSOrigin string `json:"cors_origin,omitempty" yaml:"cors_origin,omitempty"` // Allowed CORS origin

	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"` // PostgreSQL connection URL
	RedisURL    string `json:"redis_url,omitempty" yaml:"redis_url,omitempty"`       // Redis connection URL

	LogLevel  string `json:"log_level,omitempty" yaml:"log_level,omitempty"`   // debug, info, warn, error
	LogFormat string `json:"log_format,omitempty" yaml:"log_format,omitempty"` // json or pretty

	HistoryLimit int `json:"history_limit,omitempty" yaml:"history_limit,omitempty"` // Undo/redo depth per session

	SinkQueue          int  `json:"sink_queue,omitempty" yaml:"sink_queue,omitempty"`                     // Pending change events before dropping
	SinkTimeoutSeconds int  `json:"sink_timeout_seconds,omitempty" yaml:"sink_timeout_seconds,omitempty"` // Per-delivery timeout
	LatestTTLHours     int  `json:"latest_ttl_hours,omitempty" yaml:"latest_ttl_hours,omitempty"`         // Redis latest-snapshot TTL
	Revisions          bool `json:"revisions,omitempty" yaml:"revisions,omitempty"`                       // Append a revision row per change
}

// LoadError is returned when a config file cannot be read or decoded.
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %s: %v", e.Message, e.Path, e.Cause)
	}
	return fmt.Sprintf("%s %s", e.Message, e.Path)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:               8080,
		CORSOrigin:         "*",
		LogLevel:           "info",
		LogFormat:          "json",
		HistoryLimit:       100,
		SinkQueue:          1024,
		SinkTimeoutSeconds: 10,
		LatestTTLHours:     24,
	}
}

// LoadConfig loads configuration from a file. Files ending in .yaml or .yml
// are decoded as YAML, anything else as JSON.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to read config file", Cause: err}
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, &LoadError{Path: path, Message: "failed to parse config YAML", Cause: err}
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, &LoadError{Path: path, Message: "failed to parse config JSON", Cause: err}
		}
	}

	return &cfg, nil
}

// ApplyEnv overrides fields from environment variables. Values that do not
// parse are ignored.
func (c *Config) ApplyEnv() {
	c.Port = envInt("PORT", c.Port)
	c.CORSOrigin = envString("CORS_ORIGIN", c.CORSOrigin)
	c.DatabaseURL = envString("DATABASE_URL", c.DatabaseURL)
	c.RedisURL = envString("REDIS_URL", c.RedisURL)
	c.LogLevel = envString("LOG_LEVEL", c.LogLevel)
	c.LogFormat = envString("LOG_FORMAT", c.LogFormat)
	c.HistoryLimit = envInt("HISTORY_LIMIT", c.HistoryLimit)
	c.SinkQueue = envInt("SINK_QUEUE", c.SinkQueue)
	c.SinkTimeoutSeconds = envInt("SINK_TIMEOUT_SECONDS", c.SinkTimeoutSeconds)
	c.LatestTTLHours = envInt("LATEST_TTL_HOURS", c.LatestTTLHours)
	if v, err := strconv.ParseBool(os.Getenv("SINK_REVISIONS")); err == nil {
		c.Revisions = v
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535, got %d", c.Port)
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("config error: 'history_limit' must be non-negative")
	}
	if c.SinkQueue < 0 {
		return fmt.Errorf("config error: 'sink_queue' must be non-negative")
	}
	if c.SinkTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'sink_timeout_seconds' must be non-negative")
	}
	if c.LatestTTLHours < 0 {
		return fmt.Errorf("config error: 'latest_ttl_hours' must be non-negative")
	}
	switch c.LogFormat {
	case "", "json", "pretty":
	default:
		return fmt.Errorf("config error: 'log_format' must be json or pretty, got %q", c.LogFormat)
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.CORSOrigin == "" {
		result.CORSOrigin = defaults.CORSOrigin
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}
	if result.HistoryLimit == 0 {
		result.HistoryLimit = defaults.HistoryLimit
	}
	if result.SinkQueue == 0 {
		result.SinkQueue = defaults.SinkQueue
	}
	if result.SinkTimeoutSeconds == 0 {
		result.SinkTimeoutSeconds = defaults.SinkTimeoutSeconds
	}
	if result.LatestTTLHours == 0 {
		result.LatestTTLHours = defaults.LatestTTLHours
	}
	if !result.Revisions {
		result.Revisions = defaults.Revisions
	}

	return result
}

// Load resolves the effective configuration: the file at path (if any),
// then environment overrides, then defaults.
func Load(path string) (Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	merged := cfg.MergeWithDefaults(Default())
	if err := merged.Validate(); err != nil {
		return Config{}, err
	}
	return merged, nil
}

// Addr returns the listen address for the configured port.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// SinkTimeout returns the per-delivery timeout.
func (c *Config) SinkTimeout() time.Duration {
	return time.Duration(c.SinkTimeoutSeconds) * time.Second
}

// LatestTTL returns how long the latest snapshot is kept in Redis.
func (c *Config) LatestTTL() time.Duration {
	return time.Duration(c.LatestTTLHours) * time.Hour
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
