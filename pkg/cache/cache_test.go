package cache

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gmdown/pkg/config"
	"gmdown/pkg/errors"
)

func testCache(t *testing.T) *Cache {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c, err := New()
	require.NoError(t, err)
	return c
}

func TestReadConfigAbsent(t *testing.T) {
	c := testCache(t)

	cfg, ok, err := c.ReadConfig()
	require.NoError(t, err, "a missing config is not an error")
	assert.False(t, ok)
	assert.Nil(t, cfg)
}

func TestConfigRoundTrip(t *testing.T) {
	c := testCache(t)

	in := config.DefaultConfig()
	in.APIToken = "secret"
	in.ImageDir = "/tmp/images"
	in.RateLimit.FetchInterval = config.Duration(2 * time.Second)

	require.NoError(t, c.WriteConfig(in))

	out, ok, err := c.ReadConfig()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, in.APIToken, out.APIToken)
	assert.Equal(t, in.ImageDir, out.ImageDir)
	assert.Equal(t, in.RateLimit.FetchInterval, out.RateLimit.FetchInterval)
}

func TestConfigFilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}
	c := testCache(t)

	require.NoError(t, c.WriteConfig(config.DefaultConfig()))

	info, err := os.Stat(filepath.Join(c.configDir, configFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestReadConfigCorrupt(t *testing.T) {
	c := testCache(t)

	path := filepath.Join(c.configDir, configFileName)
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	_, _, err := c.ReadConfig()
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypePersistence))
}

func TestItemRoundTrip(t *testing.T) {
	c := testCache(t)

	type entry struct {
		Name string `json:"name"`
	}

	var absent entry
	ok, err := c.ReadItem("groups.json", &absent)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.WriteItem("groups.json", entry{Name: "book club"}))

	var got entry
	ok, err = c.ReadItem("groups.json", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "book club", got.Name)
}
