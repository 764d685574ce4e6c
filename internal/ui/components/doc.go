// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the docchat TUI:
// message bubbles with source citations, the loading spinner, the
// status bar, syntax-highlighted code blocks, and the documents and
// session list panels.
package components
