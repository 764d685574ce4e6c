// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the docchat TUI.
//
// The view is a Bubble Tea model that owns the full question
// lifecycle: submit, stream, typewriter reveal, finalize. All state
// transitions happen on the Update loop; stream goroutines only
// deliver typed messages stamped with a stream ID so events from an
// abandoned stream can never touch the current one.
//
// States:
//
//	Idle       - input enabled, nothing in flight
//	Requesting - request sent, no event received yet
//	Streaming  - events arriving, typewriter revealing text
//	Draining   - stream finished, queued text still revealing
//
// Cancellation and errors return to Idle directly. The typewriter,
// not the network, decides when loading ends: the spinner stays up
// until the last queued character is revealed.
package chat
