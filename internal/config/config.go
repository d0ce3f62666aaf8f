// Package config loads the CLI configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything the CLI needs to assemble an engine.
type Config struct {
	// Database is the path to the local snapshot SQLite file.
	Database string `yaml:"database"`

	// Remote configures the remote store adapter.
	Remote RemoteConfig `yaml:"remote"`

	// Offline forces the offline path regardless of detected connectivity.
	Offline bool `yaml:"offline"`
}

// RemoteConfig configures the HTTP remote store adapter.
type RemoteConfig struct {
	// BaseURL is the root of the remote collection, e.g.
	// "https://lists.example.net/api".
	BaseURL string `yaml:"base_url"`

	// Timeout bounds each remote request. Zero means the adapter default.
	Timeout Duration `yaml:"timeout"`
}

// Duration wraps time.Duration so YAML values can use the human form
// ("2s", "500ms") instead of nanosecond integers.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the built-in configuration: a snapshot database under
// the user config directory and no remote endpoint.
func Default() Config {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return Config{
		Database: filepath.Join(dir, "cartsync", "cartsync.db"),
	}
}

// Load reads a YAML config file, layering it over Default. A missing file
// is not an error: the defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "cartsync", "config.yaml")
}

func (c Config) validate() error {
	if c.Database == "" {
		return fmt.Errorf("database path must not be empty")
	}
	if c.Remote.Timeout < 0 {
		return fmt.Errorf("remote timeout must not be negative")
	}
	return nil
}
