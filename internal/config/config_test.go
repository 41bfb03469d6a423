package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != "127.0.0.1:8080" || cfg.RefreshCron != "*/15 * * * *" {
		t.Errorf("defaults not applied: %+v", cfg)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config file perms = %o, want 0600", perm)
	}
}

func TestLoadNormalizesPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := []byte("listen: \"0.0.0.0:9999\"\nbackend:\n  base_url: \"http://backend:3000\"\n")
	if err := os.WriteFile(path, partial, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != "0.0.0.0:9999" {
		t.Errorf("explicit listen lost: %q", cfg.Listen)
	}
	if cfg.Backend.BaseURL != "http://backend:3000" {
		t.Errorf("backend base_url lost: %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.ClassesPath != "/api/classes" || cfg.HorizonDays != 31 || cfg.LogLevel != "info" {
		t.Errorf("missing values not normalized: %+v", cfg)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatal("Load(\"\") succeeded, want error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Backend.BaseURL = "http://127.0.0.1:3000"
	cfg.BasicAuth = &BasicAuthConfig{Username: "admin", Password: "secret"}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load after Save: %v", err)
	}
	if loaded.Backend.BaseURL != cfg.Backend.BaseURL {
		t.Errorf("base_url = %q, want %q", loaded.Backend.BaseURL, cfg.Backend.BaseURL)
	}
	if loaded.BasicAuth == nil || loaded.BasicAuth.Username != "admin" {
		t.Errorf("basic auth not round-tripped: %+v", loaded.BasicAuth)
	}
}
