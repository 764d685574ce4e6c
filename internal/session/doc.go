// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session tracks the active chat session and schedules
// auto-save.
//
// The manager owns which session is current, marks it dirty as
// messages arrive, and flushes it to storage on an interval and on
// switch/shutdown. It never touches the network: persistence only.
package session
