// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for
// the docchat TUI.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/docchat-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete docchat configuration.
type Config struct {
	// Backend connection
	Backend BackendConfig `toml:"backend"`

	// Typewriter reveal cadence
	Typewriter TypewriterConfig `toml:"typewriter"`

	// Drop-folder auto-upload
	Upload UploadConfig `toml:"upload"`

	// UI settings
	UI UIConfig `toml:"ui"`
}

// BackendConfig holds backend connection settings.
type BackendConfig struct {
	// URL of the RAG backend (default: http://127.0.0.1:8000)
	URL string `toml:"url"`
	// TimeoutSecs for non-streaming requests (default: 30)
	TimeoutSecs int `toml:"timeout_secs"`
}

// TypewriterConfig controls the character reveal cadence.
type TypewriterConfig struct {
	// IntervalMs between reveal ticks (default: 14)
	IntervalMs int `toml:"interval_ms"`
	// CharsPerTick revealed on each tick (default: 1)
	CharsPerTick int `toml:"chars_per_tick"`
}

// UploadConfig controls the drop-folder watcher.
type UploadConfig struct {
	// WatchDir is a local folder whose new files are uploaded
	// automatically. Empty disables watching.
	WatchDir string `toml:"watch_dir"`
	// MaxPerMinute rate-limits automatic uploads (default: 6)
	MaxPerMinute int `toml:"max_per_minute"`
}

// UIConfig holds UI preferences.
type UIConfig struct {
	// Theme: "auto", "dark" or "light" (default: "auto")
	Theme string `toml:"theme"`
	// ShowTimestamps toggles per-message timestamps
	ShowTimestamps bool `toml:"show_timestamps"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:         "http://127.0.0.1:8000",
			TimeoutSecs: 30,
		},
		Typewriter: TypewriterConfig{
			IntervalMs:   14,
			CharsPerTick: 1,
		},
		Upload: UploadConfig{
			WatchDir:     "",
			MaxPerMinute: 6,
		},
		UI: UIConfig{
			Theme:          "auto",
			ShowTimestamps: true,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the docchat configuration directory (~/.docchat),
// creating it when missing.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".docchat")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// configPath returns the path of the TOML config file.
func configPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration from disk, applies environment
// overrides and validates. Missing file is not an error: defaults
// apply.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		// No home directory: run with defaults.
		cfg := Default()
		cfg.applyEnv()
		return cfg, cfg.Validate()
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv applies DOCCHAT_* environment variable overrides.
func (c *Config) applyEnv() {
	if v := os.Getenv("DOCCHAT_BACKEND_URL"); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv("DOCCHAT_WATCH_DIR"); v != "" {
		c.Upload.WatchDir = v
	}
	if v := os.Getenv("DOCCHAT_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("DOCCHAT_TYPEWRITER_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Typewriter.IntervalMs = n
		}
	}
	if v := os.Getenv("DOCCHAT_TYPEWRITER_CHARS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Typewriter.CharsPerTick = n
		}
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks values and clamps out-of-range numbers to sane
// bounds rather than failing.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid backend url %q", c.Backend.URL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend url must be http or https, got %q", u.Scheme)
	}

	if c.Backend.TimeoutSecs <= 0 {
		c.Backend.TimeoutSecs = 30
	}
	if c.Typewriter.IntervalMs < 1 {
		c.Typewriter.IntervalMs = 1
	}
	if c.Typewriter.IntervalMs > 1000 {
		c.Typewriter.IntervalMs = 1000
	}
	if c.Typewriter.CharsPerTick < 1 {
		c.Typewriter.CharsPerTick = 1
	}
	if c.Upload.MaxPerMinute < 1 {
		c.Upload.MaxPerMinute = 6
	}
	switch c.UI.Theme {
	case "auto", "dark", "light":
	default:
		c.UI.Theme = "auto"
	}
	return nil
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the configuration to the default path atomically.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to an explicit path atomically.
func (c *Config) SaveTo(path string) error {
	var buf []byte
	{
		var sb tomlBuffer
		enc := toml.NewEncoder(&sb)
		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		buf = sb.Bytes()
	}
	return util.AtomicWriteFile(path, buf, 0644)
}

// tomlBuffer is a minimal bytes buffer for the TOML encoder.
type tomlBuffer struct {
	data []byte
}

func (b *tomlBuffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}

func (b *tomlBuffer) Bytes() []byte {
	return b.data
}

// =============================================================================
// GLOBAL ACCESS
// =============================================================================

var (
	globalMu  sync.RWMutex
	globalCfg *Config
)

// SetGlobal installs the process-wide configuration.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalCfg = cfg
}

// Global returns the process-wide configuration, or defaults when
// none was installed.
func Global() *Config {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalCfg == nil {
		return Default()
	}
	return globalCfg
}
