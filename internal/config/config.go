// Package config loads and persists the Sanity client configuration.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// ConsoleConfig holds web console settings.
type ConsoleConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// Config is the top-level configuration, corresponding to .sanity.yml.
type Config struct {
	BackendURL     string        `yaml:"backend_url" koanf:"backend_url"`
	TimeoutSeconds int           `yaml:"timeout_seconds" koanf:"timeout_seconds"`
	DataDir        string        `yaml:"data_dir" koanf:"data_dir"`
	LocalExtract   bool          `yaml:"local_extract" koanf:"local_extract"`
	Console        ConsoleConfig `yaml:"console" koanf:"console"`
}

// DefaultDataDir returns ~/.sanity, falling back to a relative directory when
// the home directory cannot be resolved.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sanity"
	}
	return filepath.Join(home, ".sanity")
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BackendURL:     "http://localhost:5000",
		TimeoutSeconds: 60,
		DataDir:        DefaultDataDir(),
		LocalExtract:   false,
		Console: ConsoleConfig{
			Port: 8080,
		},
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (SANITY_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: SANITY_BACKEND_URL -> backend_url, etc.
	if err := k.Load(env.Provider("SANITY_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "SANITY_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("backend_url is required")
	}
	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid backend_url %q: must be an absolute http(s) URL", c.BackendURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid backend_url scheme %q: must be http or https", u.Scheme)
	}

	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive")
	}

	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if c.Console.Port < 0 || c.Console.Port > 65535 {
		return fmt.Errorf("invalid console port %d", c.Console.Port)
	}

	return nil
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// HistoryPath returns the path of the local history database.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.DataDir, "history.db")
}
