package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.BackendURL != "http://localhost:5000" {
		t.Errorf("unexpected default backend: %q", cfg.BackendURL)
	}
	if cfg.TimeoutSeconds != 60 {
		t.Errorf("unexpected default timeout: %d", cfg.TimeoutSeconds)
	}
	if cfg.Console.Port != 8080 {
		t.Errorf("unexpected default port: %d", cfg.Console.Port)
	}
	if cfg.LocalExtract {
		t.Error("local extraction must default off")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".sanity.yml")
	yaml := "backend_url: https://api.example.com\ntimeout_seconds: 30\nlocal_extract: true\nconsole:\n  port: 9000\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.BackendURL != "https://api.example.com" {
		t.Errorf("unexpected backend: %q", cfg.BackendURL)
	}
	if cfg.TimeoutSeconds != 30 || !cfg.LocalExtract || cfg.Console.Port != 9000 {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".sanity.yml")
	if err := os.WriteFile(path, []byte("backend_url: http://file.example.com\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	t.Setenv("SANITY_BACKEND_URL", "http://env.example.com")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BackendURL != "http://env.example.com" {
		t.Errorf("expected env to win, got %q", cfg.BackendURL)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty backend", func(c *Config) { c.BackendURL = "" }},
		{"relative backend", func(c *Config) { c.BackendURL = "localhost:5000" }},
		{"bad scheme", func(c *Config) { c.BackendURL = "ftp://example.com" }},
		{"zero timeout", func(c *Config) { c.TimeoutSeconds = 0 }},
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"bad port", func(c *Config) { c.Console.Port = 70000 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".sanity.yml")

	cfg := DefaultConfig()
	cfg.BackendURL = "https://api.example.com"
	cfg.LocalExtract = true
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.BackendURL != cfg.BackendURL || loaded.LocalExtract != cfg.LocalExtract {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}
