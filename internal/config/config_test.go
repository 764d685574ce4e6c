// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for
// the docchat TUI.
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.Backend.URL != "http://127.0.0.1:8000" {
		t.Errorf("backend url = %q", cfg.Backend.URL)
	}
	if cfg.Typewriter.IntervalMs != 14 {
		t.Errorf("typewriter interval = %d, want 14", cfg.Typewriter.IntervalMs)
	}
	if cfg.Typewriter.CharsPerTick != 1 {
		t.Errorf("chars per tick = %d, want 1", cfg.Typewriter.CharsPerTick)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom error: %v", err)
	}
	if cfg.Backend.URL != "http://127.0.0.1:8000" {
		t.Errorf("backend url = %q", cfg.Backend.URL)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[backend]
url = "http://10.0.0.5:9000"
timeout_secs = 60

[typewriter]
interval_ms = 20
chars_per_tick = 3
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom error: %v", err)
	}
	if cfg.Backend.URL != "http://10.0.0.5:9000" {
		t.Errorf("backend url = %q", cfg.Backend.URL)
	}
	if cfg.Backend.TimeoutSecs != 60 {
		t.Errorf("timeout = %d", cfg.Backend.TimeoutSecs)
	}
	if cfg.Typewriter.IntervalMs != 20 || cfg.Typewriter.CharsPerTick != 3 {
		t.Errorf("typewriter = %+v", cfg.Typewriter)
	}
	// Unspecified sections keep defaults.
	if cfg.Upload.MaxPerMinute != 6 {
		t.Errorf("upload rate = %d, want default 6", cfg.Upload.MaxPerMinute)
	}
}

func TestLoadFromInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DOCCHAT_BACKEND_URL", "http://env-host:8000")
	t.Setenv("DOCCHAT_TYPEWRITER_INTERVAL_MS", "25")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("LoadFrom error: %v", err)
	}
	if cfg.Backend.URL != "http://env-host:8000" {
		t.Errorf("env override not applied: %q", cfg.Backend.URL)
	}
	if cfg.Typewriter.IntervalMs != 25 {
		t.Errorf("interval = %d, want 25", cfg.Typewriter.IntervalMs)
	}
}

func TestValidateRejectsBadURL(t *testing.T) {
	cfg := Default()
	cfg.Backend.URL = "not a url"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for garbage url")
	}

	cfg = Default()
	cfg.Backend.URL = "ftp://example.com"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for non-http scheme")
	}
}

func TestValidateClampsNumbers(t *testing.T) {
	cfg := Default()
	cfg.Typewriter.IntervalMs = 0
	cfg.Typewriter.CharsPerTick = -5
	cfg.Backend.TimeoutSecs = -1

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if cfg.Typewriter.IntervalMs != 1 {
		t.Errorf("interval clamped to %d, want 1", cfg.Typewriter.IntervalMs)
	}
	if cfg.Typewriter.CharsPerTick != 1 {
		t.Errorf("chars clamped to %d, want 1", cfg.Typewriter.CharsPerTick)
	}
	if cfg.Backend.TimeoutSecs != 30 {
		t.Errorf("timeout clamped to %d, want 30", cfg.Backend.TimeoutSecs)
	}
}

func TestValidateUnknownTheme(t *testing.T) {
	cfg := Default()
	cfg.UI.Theme = "solarized"
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.UI.Theme != "auto" {
		t.Errorf("theme = %q, want auto fallback", cfg.UI.Theme)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Backend.URL = "http://saved:1234"
	cfg.UI.ShowTimestamps = false
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom error: %v", err)
	}
	if loaded.Backend.URL != "http://saved:1234" {
		t.Errorf("url = %q", loaded.Backend.URL)
	}
	if loaded.UI.ShowTimestamps {
		t.Error("show_timestamps should round-trip as false")
	}
}

func TestGlobal(t *testing.T) {
	defer SetGlobal(nil)

	if Global() == nil {
		t.Fatal("Global should never return nil")
	}

	cfg := Default()
	cfg.Backend.URL = "http://global:8000"
	SetGlobal(cfg)
	if Global().Backend.URL != "http://global:8000" {
		t.Errorf("Global did not return installed config")
	}
}
