// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for
// the docchat TUI.
//
// Configuration is TOML with sensible defaults, environment variable
// overrides and validation. Locations in order of precedence:
//
//   - DOCCHAT_* environment variables
//   - ~/.docchat/config.toml
//   - built-in defaults
package config
