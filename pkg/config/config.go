package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the downloader. It is the single
// record persisted by the cache layer and is passed explicitly to every
// component that needs it; nothing reads it from process-wide state.
type Config struct {
	// GroupMe API access token. Secret.
	APIToken string `json:"api_token" yaml:"api_token"`

	// Base directory that downloaded images are written to.
	ImageDir string `json:"image_dir" yaml:"image_dir"`

	// Rate limiting applied between message page fetches
	RateLimit RateLimitConfig `json:"rate_limit" yaml:"rate_limit"`

	// HTTP settings
	HTTP HTTPConfig `json:"http" yaml:"http"`

	// Logging configuration
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// RateLimitConfig holds the pacing applied to message history fetches.
type RateLimitConfig struct {
	// Minimum delay between the start of one page fetch and the next.
	// The first fetch of a run is never delayed.
	FetchInterval Duration `json:"fetch_interval" yaml:"fetch_interval"`
}

// HTTPConfig holds transport settings.
type HTTPConfig struct {
	Timeout Duration `json:"timeout" yaml:"timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `json:"level" yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults. The API token has
// no default and must come from the environment, the keyring or the saved
// configuration record.
func DefaultConfig() *Config {
	return &Config{
		ImageDir: "./images",
		RateLimit: RateLimitConfig{
			FetchInterval: Duration(time.Second),
		},
		HTTP: HTTPConfig{
			Timeout: Duration(30 * time.Second),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the effective configuration: defaults, then an optional YAML
// file, then environment variables.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.ApplyOverrides(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyOverrides merges an optional YAML file and then GMDOWN_*
// environment variables onto c. Values absent from both sources keep
// whatever c already holds.
func (c *Config) ApplyOverrides(path string) error {
	if path != "" {
		if err := c.loadFromFile(path); err != nil {
			return err
		}
	}
	c.loadFromEnv()
	return nil
}

// loadFromFile merges values from a YAML config file.
func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// loadFromEnv merges values from GMDOWN_* environment variables. A .env
// file in the working directory is honored if present.
func (c *Config) loadFromEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("GMDOWN_API_TOKEN"); v != "" {
		c.APIToken = v
	}
	if v := os.Getenv("GMDOWN_IMAGE_DIR"); v != "" {
		c.ImageDir = v
	}
	if v := os.Getenv("GMDOWN_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("GMDOWN_FETCH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.RateLimit.FetchInterval = Duration(d)
		}
	}
}

// Validate checks the configuration for values that would break a run.
func (c *Config) Validate() error {
	if c.ImageDir == "" {
		return fmt.Errorf("image directory must not be empty")
	}
	if c.RateLimit.FetchInterval < 0 {
		return fmt.Errorf("fetch interval must not be negative")
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http timeout must be positive")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error", "":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	return nil
}
