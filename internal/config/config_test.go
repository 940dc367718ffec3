package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taskdeck/internal/config"
)

func writeSettings(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, config.SettingsFile), []byte(content), 0644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
}

func TestNewDefaults(t *testing.T) {
	cfg, err := config.New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	s := cfg.Settings
	if s.APIBaseURL != "http://localhost:5000/api" {
		t.Errorf("unexpected default api_base_url %q", s.APIBaseURL)
	}
	if s.TokenStorage != config.TokenStorageBearer {
		t.Errorf("unexpected default token_storage %q", s.TokenStorage)
	}
	if s.Bootstrap != config.BootstrapValidateFirst {
		t.Errorf("unexpected default bootstrap %q", s.Bootstrap)
	}
	if s.SessionTTLDays != 7 {
		t.Errorf("unexpected default session_ttl_days %d", s.SessionTTLDays)
	}
	if s.SealSession {
		t.Error("expected seal_session off by default")
	}
}

func TestNewReadsSettingsFile(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, `
api_base_url = "https://api.example.com/api"
token_storage = "cookie"
bootstrap = "cached-first"
session_ttl_days = 30
seal_session = true
`)

	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	s := cfg.Settings
	if s.APIBaseURL != "https://api.example.com/api" {
		t.Errorf("unexpected api_base_url %q", s.APIBaseURL)
	}
	if s.TokenStorage != config.TokenStorageCookie {
		t.Errorf("unexpected token_storage %q", s.TokenStorage)
	}
	if s.Bootstrap != config.BootstrapCachedFirst {
		t.Errorf("unexpected bootstrap %q", s.Bootstrap)
	}
	if s.SessionTTLDays != 30 {
		t.Errorf("unexpected session_ttl_days %d", s.SessionTTLDays)
	}
	if !s.SealSession {
		t.Error("expected seal_session on")
	}
}

func TestNewPartialSettingsKeepDefaults(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, `api_base_url = "https://api.example.com/api"`)

	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if cfg.Settings.TokenStorage != config.TokenStorageBearer {
		t.Errorf("expected default token_storage, got %q", cfg.Settings.TokenStorage)
	}
	if cfg.Settings.SessionTTLDays != 7 {
		t.Errorf("expected default session_ttl_days, got %d", cfg.Settings.SessionTTLDays)
	}
}

func TestNewRejectsMalformedTOML(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, `api_base_url = [not toml`)

	if _, err := config.New(dir); err == nil {
		t.Error("expected error for malformed settings")
	}
}

func TestNewRejectsUnknownStrategies(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, `token_storage = "carrier-pigeon"`)

	_, err := config.New(dir)
	if err == nil || !strings.Contains(err.Error(), "token_storage") {
		t.Errorf("expected token_storage validation error, got %v", err)
	}

	writeSettings(t, dir, `bootstrap = "never"`)
	_, err = config.New(dir)
	if err == nil || !strings.Contains(err.Error(), "bootstrap") {
		t.Errorf("expected bootstrap validation error, got %v", err)
	}
}

func TestDefaultConfigDirUsesXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	if got := config.DefaultConfigDir(); got != filepath.Join("/tmp/xdg-test", config.AppName) {
		t.Errorf("unexpected dir %q", got)
	}
}

func TestPaths(t *testing.T) {
	cfg := &config.Config{Dir: "/etc/taskdeck"}
	if got := cfg.SettingsPath(); got != "/etc/taskdeck/config.toml" {
		t.Errorf("unexpected settings path %q", got)
	}
	if got := cfg.KeyPath(); got != "/etc/taskdeck/session.key" {
		t.Errorf("unexpected key path %q", got)
	}
}

func TestLogger(t *testing.T) {
	var buf strings.Builder

	cfg := &config.Config{}
	cfg.Logger(&buf).Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected discarded log output, got %q", buf.String())
	}

	cfg.Debug = true
	cfg.Logger(&buf).Debug("visible", "k", "v")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected debug output, got %q", buf.String())
	}
}
