// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the docchat TUI.
package chat

import (
	"testing"
	"time"
)

func TestTypewriterFIFO(t *testing.T) {
	tw := NewTypewriter(DefaultTickInterval, 1)
	tw.Push("ab")
	tw.Push("c")

	var got string
	for !tw.Drained() {
		got += tw.Next()
	}
	if got != "abc" {
		t.Errorf("revealed %q, want abc", got)
	}
}

func TestTypewriterCharsPerTick(t *testing.T) {
	tw := NewTypewriter(DefaultTickInterval, 3)
	tw.Push("hello")

	if got := tw.Next(); got != "hel" {
		t.Errorf("first tick = %q, want hel", got)
	}
	if got := tw.Next(); got != "lo" {
		t.Errorf("second tick = %q, want lo (partial batch)", got)
	}
	if got := tw.Next(); got != "" {
		t.Errorf("empty queue tick = %q, want empty", got)
	}
}

func TestTypewriterRuneSafety(t *testing.T) {
	tw := NewTypewriter(DefaultTickInterval, 1)
	tw.Push("日本語")

	if got := tw.Next(); got != "日" {
		t.Errorf("tick = %q, want one whole rune", got)
	}
	if tw.Len() != 2 {
		t.Errorf("queue length = %d, want 2", tw.Len())
	}
}

func TestTypewriterReset(t *testing.T) {
	tw := NewTypewriter(DefaultTickInterval, 1)
	tw.Push("queued text")
	tw.Reset()

	if !tw.Drained() {
		t.Error("Reset should empty the queue")
	}
	if got := tw.Next(); got != "" {
		t.Errorf("Next after Reset = %q", got)
	}
}

func TestTypewriterDefaults(t *testing.T) {
	tw := NewTypewriter(0, 0)
	if tw.interval != DefaultTickInterval {
		t.Errorf("interval = %v, want %v", tw.interval, DefaultTickInterval)
	}
	if tw.charsPerTick != DefaultCharsPerTick {
		t.Errorf("charsPerTick = %d, want %d", tw.charsPerTick, DefaultCharsPerTick)
	}

	tw = NewTypewriter(-time.Second, -5)
	if tw.interval != DefaultTickInterval || tw.charsPerTick != DefaultCharsPerTick {
		t.Error("negative values should fall back to defaults")
	}
}

func TestTypewriterTickCmdStampsStreamID(t *testing.T) {
	tw := NewTypewriter(time.Millisecond, 1)
	cmd := tw.TickCmd(7)
	if cmd == nil {
		t.Fatal("TickCmd returned nil")
	}

	msg := cmd()
	tick, ok := msg.(typewriterTickMsg)
	if !ok {
		t.Fatalf("tick message type %T", msg)
	}
	if tick.StreamID != 7 {
		t.Errorf("StreamID = %d, want 7", tick.StreamID)
	}
}
