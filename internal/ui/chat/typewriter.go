// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the docchat TUI.
//
// This file implements the typewriter scheduler. Tokens arrive from
// the network in bursts; the typewriter queues them and reveals a
// fixed number of characters per tick so the pace stays even no
// matter how the backend chunks its output.
package chat

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Typewriter defaults. One character every 14ms reads as continuous
// typing without dragging out long answers.
const (
	DefaultTickInterval = 14 * time.Millisecond
	DefaultCharsPerTick = 1
)

// =============================================================================
// TYPEWRITER
// =============================================================================

// Typewriter holds text that has arrived but is not yet displayed.
// It is owned by the update loop and needs no locking.
type Typewriter struct {
	pending []rune

	interval     time.Duration
	charsPerTick int
}

// NewTypewriter creates a typewriter with the given cadence. Zero or
// negative values fall back to defaults.
func NewTypewriter(interval time.Duration, charsPerTick int) *Typewriter {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	if charsPerTick < 1 {
		charsPerTick = DefaultCharsPerTick
	}
	return &Typewriter{
		interval:     interval,
		charsPerTick: charsPerTick,
	}
}

// Push queues token text for reveal. UNICODE: the queue is runes, so
// a tick never splits a multi-byte character.
func (t *Typewriter) Push(text string) {
	t.pending = append(t.pending, []rune(text)...)
}

// Next pops up to charsPerTick characters from the queue.
func (t *Typewriter) Next() string {
	n := t.charsPerTick
	if n > len(t.pending) {
		n = len(t.pending)
	}
	if n == 0 {
		return ""
	}
	out := string(t.pending[:n])
	t.pending = t.pending[n:]
	return out
}

// Len returns the number of queued characters.
func (t *Typewriter) Len() int {
	return len(t.pending)
}

// Drained reports whether all queued text has been revealed.
func (t *Typewriter) Drained() bool {
	return len(t.pending) == 0
}

// Reset discards all queued text. Used on cancel and error.
func (t *Typewriter) Reset() {
	t.pending = t.pending[:0]
}

// TickCmd schedules the next reveal tick, stamped with the stream it
// belongs to.
func (t *Typewriter) TickCmd(streamID int) tea.Cmd {
	return tea.Tick(t.interval, func(now time.Time) tea.Msg {
		return typewriterTickMsg{StreamID: streamID, Time: now}
	})
}
