package cache

import (
	"encoding/json"
	"os"
	"path/filepath"

	"gmdown/pkg/config"
	"gmdown/pkg/errors"
)

const (
	appDirName     = "gmdown"
	configFileName = "config.json"

	// The config record holds the API token; nobody else gets to read it.
	configFileMode = 0o600
)

// Cache persists the configuration record and cached items as JSON files
// under the user's config and cache directories.
type Cache struct {
	cacheDir  string
	configDir string
}

// New creates a Cache, ensuring both directories exist and are writable.
func New() (*Cache, error) {
	userCache, err := os.UserCacheDir()
	if err != nil {
		return nil, errors.Persistence(err, "unable to locate user's cache directory")
	}
	userConfig, err := os.UserConfigDir()
	if err != nil {
		return nil, errors.Persistence(err, "unable to locate user's config directory")
	}

	c := &Cache{
		cacheDir:  filepath.Join(userCache, appDirName),
		configDir: filepath.Join(userConfig, appDirName),
	}

	for _, dir := range []string{c.cacheDir, c.configDir} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, errors.Persistence(err, "failed to create directory %s", dir)
		}
		// Probe writability up front so a read-only home fails loudly
		// before any network work happens.
		probe := filepath.Join(dir, ".probe")
		if err := os.WriteFile(probe, nil, 0o600); err != nil {
			return nil, errors.Persistence(err, "directory %s is not writable", dir)
		}
		if err := os.Remove(probe); err != nil {
			return nil, errors.Persistence(err, "failed to clean up probe file in %s", dir)
		}
	}

	return c, nil
}

// ConfigDir returns the directory holding the configuration record.
func (c *Cache) ConfigDir() string { return c.configDir }

// ReadConfig loads the persisted configuration record. ok is false, with
// a nil error, when no configuration has been saved yet.
func (c *Cache) ReadConfig() (cfg *config.Config, ok bool, err error) {
	cfg = &config.Config{}
	ok, err = readJSON(c.configPath(), cfg)
	if err != nil || !ok {
		return nil, ok, err
	}
	return cfg, true, nil
}

// WriteConfig persists the configuration record with owner-only
// permissions.
func (c *Cache) WriteConfig(cfg *config.Config) error {
	return writeJSON(c.configPath(), cfg)
}

// ReadItem loads a cached item by file name. ok is false, with a nil
// error, when the item is absent.
func (c *Cache) ReadItem(name string, v interface{}) (ok bool, err error) {
	return readJSON(filepath.Join(c.cacheDir, name), v)
}

// WriteItem stores a cached item by file name, overwriting any previous
// content.
func (c *Cache) WriteItem(name string, v interface{}) error {
	return writeJSON(filepath.Join(c.cacheDir, name), v)
}

func (c *Cache) configPath() string {
	return filepath.Join(c.configDir, configFileName)
}

func readJSON(path string, v interface{}) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Persistence(err, "failed to read %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, errors.Persistence(err, "failed to decode %s", path)
	}
	return true, nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Persistence(err, "failed to encode %s", path)
	}
	if err := os.WriteFile(path, data, configFileMode); err != nil {
		return errors.Persistence(err, "failed to write %s", path)
	}
	// WriteFile only applies the mode on creation; pre-existing files
	// need it re-asserted.
	if err := os.Chmod(path, configFileMode); err != nil {
		return errors.Persistence(err, "failed to set permissions on %s", path)
	}
	return nil
}
