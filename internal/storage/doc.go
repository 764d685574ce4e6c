// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides chat session persistence for the docchat
// TUI.
//
// Sessions are stored as JSON blobs in a single-file SQLite database
// (~/.docchat/sessions.db) keyed by session ID, with a well-known key
// tracking the active session. SQLite gives crash-safe writes and
// cheap key scans without a schema migration story: the database is a
// key/value table.
package storage
