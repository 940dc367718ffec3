// Package config handles the XDG configuration directory and the
// config.toml settings file.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	// AppName is the application directory name.
	AppName = "taskdeck"

	// SettingsFile is the TOML settings filename.
	SettingsFile = "config.toml"

	// KeyFile holds the key material for the sealed session store.
	KeyFile = "session.key"
)

// Token storage strategies. "bearer" keeps the token in the local session
// store and sends it as an Authorization header; "cookie" relies on the
// server-set cookie and persists the jar instead.
const (
	TokenStorageBearer = "bearer"
	TokenStorageCookie = "cookie"
)

// Session bootstrap strategies. "validate-first" never surfaces a cached
// identity until the server confirms it; "cached-first" surfaces the cache
// immediately and reconciles against the server afterwards.
const (
	BootstrapValidateFirst = "validate-first"
	BootstrapCachedFirst   = "cached-first"
)

// Settings are the values read from config.toml.
type Settings struct {
	APIBaseURL     string `toml:"api_base_url"`
	TokenStorage   string `toml:"token_storage"`
	Bootstrap      string `toml:"bootstrap"`
	SessionTTLDays int    `toml:"session_ttl_days"`
	SealSession    bool   `toml:"seal_session"`
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Settings are the values from config.toml, with defaults applied.
	Settings Settings

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a Config rooted at configDir (or the default XDG directory
// when empty) and loads config.toml if present. A missing settings file
// yields the defaults.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	cfg := &Config{Dir: dir, Settings: defaultSettings()}

	data, err := os.ReadFile(cfg.SettingsPath())
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg.Settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", SettingsFile, err)
	}
	applyDefaults(&cfg.Settings)

	if err := cfg.Settings.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultSettings() Settings {
	return Settings{
		APIBaseURL:     "http://localhost:5000/api",
		TokenStorage:   TokenStorageBearer,
		Bootstrap:      BootstrapValidateFirst,
		SessionTTLDays: 7,
	}
}

func applyDefaults(s *Settings) {
	d := defaultSettings()
	if s.APIBaseURL == "" {
		s.APIBaseURL = d.APIBaseURL
	}
	if s.TokenStorage == "" {
		s.TokenStorage = d.TokenStorage
	}
	if s.Bootstrap == "" {
		s.Bootstrap = d.Bootstrap
	}
	if s.SessionTTLDays == 0 {
		s.SessionTTLDays = d.SessionTTLDays
	}
}

// Validate rejects settings values outside the known strategies.
func (s Settings) Validate() error {
	switch s.TokenStorage {
	case TokenStorageBearer, TokenStorageCookie:
	default:
		return fmt.Errorf("invalid token_storage %q: must be %q or %q", s.TokenStorage, TokenStorageBearer, TokenStorageCookie)
	}
	switch s.Bootstrap {
	case BootstrapValidateFirst, BootstrapCachedFirst:
	default:
		return fmt.Errorf("invalid bootstrap %q: must be %q or %q", s.Bootstrap, BootstrapValidateFirst, BootstrapCachedFirst)
	}
	if s.SessionTTLDays < 1 {
		return fmt.Errorf("invalid session_ttl_days %d: must be at least 1", s.SessionTTLDays)
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SettingsPath returns the path to config.toml.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// KeyPath returns the path to the sealed-store key file.
func (c *Config) KeyPath() string {
	return filepath.Join(c.Dir, KeyFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// Logger returns a slog logger writing to w at debug level when Debug is
// set, and a discarding logger otherwise.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	if !c.Debug {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
