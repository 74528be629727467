package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Empty(t, cfg.APIToken, "the token must have no default")
	assert.Equal(t, "./images", cfg.ImageDir)
	assert.Equal(t, time.Second, cfg.RateLimit.FetchInterval.Std())
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout.Std())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GMDOWN_API_TOKEN", "env-token")
	t.Setenv("GMDOWN_IMAGE_DIR", "/tmp/pics")
	t.Setenv("GMDOWN_LOG_LEVEL", "DEBUG")
	t.Setenv("GMDOWN_FETCH_INTERVAL", "250ms")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.APIToken)
	assert.Equal(t, "/tmp/pics", cfg.ImageDir)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 250*time.Millisecond, cfg.RateLimit.FetchInterval.Std())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gmdown.yaml")
	content := `
image_dir: /data/groupme
rate_limit:
  fetch_interval: 2s
logging:
  level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/groupme", cfg.ImageDir)
	assert.Equal(t, 2*time.Second, cfg.RateLimit.FetchInterval.Std())
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestApplyOverridesKeepsExistingValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ImageDir = "/data/saved"
	cfg.RateLimit.FetchInterval = Duration(2 * time.Second)

	t.Setenv("GMDOWN_FETCH_INTERVAL", "5s")

	require.NoError(t, cfg.ApplyOverrides(""))

	assert.Equal(t, 5*time.Second, cfg.RateLimit.FetchInterval.Std())
	assert.Equal(t, "/data/saved", cfg.ImageDir,
		"fields without an override keep their values")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"empty image dir", func(c *Config) { c.ImageDir = "" }, true},
		{"negative interval", func(c *Config) { c.RateLimit.FetchInterval = Duration(-time.Second) }, true},
		{"zero interval allowed", func(c *Config) { c.RateLimit.FetchInterval = 0 }, false},
		{"zero timeout", func(c *Config) { c.HTTP.Timeout = 0 }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
