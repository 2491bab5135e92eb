// Package config persists the last detected device so later invocations can
// skip full enumeration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const appDir = "bladectl"

// Config is the on-disk configuration file.
type Config struct {
	Device DeviceConfig `toml:"device"`
}

// DeviceConfig caches the last successfully opened device.
type DeviceConfig struct {
	CachedPID uint16 `toml:"cached_pid,omitempty"`
	Model     string `toml:"model,omitempty"`
	Name      string `toml:"name,omitempty"`
}

// Path returns the configuration file location under the OS user config dir.
func Path() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: locating user config dir: %w", err)
	}
	return filepath.Join(base, appDir, "config.toml"), nil
}

// Load reads the configuration. A missing file is not an error; it yields the
// zero config.
func Load() (Config, error) {
	var cfg Config
	path, err := Path()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration, creating the directory if needed.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: creating %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("config: encoding %s: %w", path, err)
	}
	return nil
}

// CacheDevice remembers the given device for the next run.
func CacheDevice(pid uint16, model, name string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	cfg.Device = DeviceConfig{CachedPID: pid, Model: model, Name: name}
	return Save(cfg)
}

// ClearCache forgets the cached device.
func ClearCache() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	cfg.Device = DeviceConfig{}
	return Save(cfg)
}
