// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the docchat TUI.
//
// It contains small, dependency-light helpers shared across packages:
// atomic file writes, rune- and width-aware string truncation, and
// unicode folding for search.
package util
