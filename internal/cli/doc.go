// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the plain-terminal mode of docchat: a line
// REPL for dumb terminals and pipes, and a one-shot ask command.
//
// Streamed tokens print directly as they arrive (no typewriter); the
// finished answer is re-rendered as markdown when stdout is a
// terminal.
package cli
