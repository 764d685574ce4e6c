// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the RAG chatbot backend.
package api

import (
	"reflect"
	"testing"
)

// =============================================================================
// FRAME DECODER TESTS
// =============================================================================

// feedAll runs every chunk through a fresh decoder and collects events,
// including the final flush.
func feedAll(chunks ...string) []StreamEvent {
	d := NewFrameDecoder()
	var events []StreamEvent
	for _, c := range chunks {
		events = append(events, d.Feed([]byte(c))...)
	}
	events = append(events, d.Flush()...)
	return events
}

func TestDecoderSingleTokenFrame(t *testing.T) {
	events := feedAll("data: {\"type\":\"token\",\"content\":\"Hello\"}\n\n")

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Type != EventToken {
		t.Errorf("Type = %q, want token", events[0].Type)
	}
	if events[0].Token != "Hello" {
		t.Errorf("Token = %q, want 'Hello'", events[0].Token)
	}
}

func TestDecoderFrameSplitAcrossChunks(t *testing.T) {
	// The split-frame scenario: no event until the delimiter lands.
	d := NewFrameDecoder()

	events := d.Feed([]byte("data: {\"type\":\"token\",\"content\":\"Hel"))
	if len(events) != 0 {
		t.Fatalf("got %d events before delimiter, want 0", len(events))
	}

	events = d.Feed([]byte("lo\"}\n\n"))
	if len(events) != 1 {
		t.Fatalf("got %d events after delimiter, want 1", len(events))
	}
	if events[0].Token != "Hello" {
		t.Errorf("Token = %q, want 'Hello'", events[0].Token)
	}
}

func TestDecoderChunkBoundaryIndependence(t *testing.T) {
	// The same logical bytes must decode identically no matter where
	// the transport splits them.
	wire := "data: {\"type\":\"token\",\"content\":\"A\"}\n\n" +
		"data: {\"type\":\"token\",\"content\":\"B\"}\n\n" +
		"data: {\"type\":\"sources\",\"content\":[{\"filename\":\"a.pdf\",\"page\":3}]}\n\n" +
		"data: {\"type\":\"done\"}\n\n"

	want := feedAll(wire)
	if len(want) != 4 {
		t.Fatalf("reference decode produced %d events, want 4", len(want))
	}

	for split := 1; split < len(wire); split++ {
		got := feedAll(wire[:split], wire[split:])
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("split at byte %d changed the event sequence:\ngot  %+v\nwant %+v", split, got, want)
		}
	}
}

func TestDecoderByteAtATime(t *testing.T) {
	wire := "data: {\"type\":\"token\",\"content\":\"hi\"}\n\ndata: {\"type\":\"done\"}\n\n"

	d := NewFrameDecoder()
	var events []StreamEvent
	for i := 0; i < len(wire); i++ {
		events = append(events, d.Feed([]byte{wire[i]})...)
	}

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Token != "hi" {
		t.Errorf("Token = %q, want 'hi'", events[0].Token)
	}
	if events[1].Type != EventDone {
		t.Errorf("second event = %q, want done", events[1].Type)
	}
}

func TestDecoderDropsMalformedJSON(t *testing.T) {
	events := feedAll(
		"data: {not valid json\n\n",
		"data: {\"type\":\"token\",\"content\":\"ok\"}\n\n",
	)

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1 (malformed frame dropped)", len(events))
	}
	if events[0].Token != "ok" {
		t.Errorf("Token = %q, want 'ok'", events[0].Token)
	}
}

func TestDecoderDropsUnknownType(t *testing.T) {
	d := NewFrameDecoder()
	events := d.Feed([]byte("data: {\"type\":\"heartbeat\",\"content\":\"\"}\n\ndata: {\"type\":\"token\",\"content\":\"x\"}\n\n"))

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if d.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", d.Dropped())
	}
}

func TestDecoderDropsFrameWithoutDataPrefix(t *testing.T) {
	events := feedAll(
		": comment frame\n\n",
		"event: ping\n\n",
		"data: {\"type\":\"done\"}\n\n",
	)

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Type != EventDone {
		t.Errorf("event = %q, want done", events[0].Type)
	}
}

func TestDecoderTrimsSurroundingWhitespace(t *testing.T) {
	// Frames may carry stray leading newlines after splitting.
	events := feedAll("\n data: {\"type\":\"token\",\"content\":\"x\"}\n\n")

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Token != "x" {
		t.Errorf("Token = %q, want 'x'", events[0].Token)
	}
}

func TestDecoderFlushHandlesUnterminatedFinalFrame(t *testing.T) {
	// Transport may close right after the payload, before the blank
	// line. Flush recovers the final frame.
	d := NewFrameDecoder()

	events := d.Feed([]byte("data: {\"type\":\"token\",\"content\":\"tail\"}"))
	if len(events) != 0 {
		t.Fatalf("got %d events before flush, want 0", len(events))
	}

	events = d.Flush()
	if len(events) != 1 {
		t.Fatalf("flush produced %d events, want 1", len(events))
	}
	if events[0].Token != "tail" {
		t.Errorf("Token = %q, want 'tail'", events[0].Token)
	}
}

func TestDecoderFlushEmptyBuffer(t *testing.T) {
	d := NewFrameDecoder()
	if events := d.Flush(); len(events) != 0 {
		t.Errorf("flush of empty decoder produced %d events", len(events))
	}
}

func TestDecoderSourcesPayload(t *testing.T) {
	events := feedAll("data: {\"type\":\"sources\",\"content\":[" +
		"{\"filename\":\"report.pdf\",\"page\":12,\"snippet\":\"...the figure shows...\"}," +
		"{\"filename\":\"notes.txt\",\"page\":\"ii\"}]}\n\n")

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	sources := events[0].Sources
	if len(sources) != 2 {
		t.Fatalf("got %d sources, want 2", len(sources))
	}
	if sources[0].Filename != "report.pdf" {
		t.Errorf("Filename = %q, want 'report.pdf'", sources[0].Filename)
	}
	if sources[0].Page != "12" {
		t.Errorf("numeric Page = %q, want '12'", sources[0].Page)
	}
	if sources[1].Page != "ii" {
		t.Errorf("label Page = %q, want 'ii'", sources[1].Page)
	}
}

func TestDecoderErrorPayload(t *testing.T) {
	events := feedAll("data: {\"type\":\"error\",\"content\":\"model overloaded\"}\n\n")

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Type != EventError {
		t.Errorf("Type = %q, want error", events[0].Type)
	}
	if events[0].Message != "model overloaded" {
		t.Errorf("Message = %q", events[0].Message)
	}
}

func TestDecoderMultipleFramesInOneChunk(t *testing.T) {
	events := feedAll("data: {\"type\":\"token\",\"content\":\"a\"}\n\ndata: {\"type\":\"token\",\"content\":\"b\"}\n\ndata: {\"type\":\"token\",\"content\":\"c\"}\n\n")

	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	var text string
	for _, ev := range events {
		text += ev.Token
	}
	if text != "abc" {
		t.Errorf("concatenated tokens = %q, want 'abc' (FIFO order)", text)
	}
}

// =============================================================================
// PAGE LABEL TESTS
// =============================================================================

func TestPageLabelUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want PageLabel
	}{
		{"integer", "7", "7"},
		{"string", "\"Appendix A\"", "Appendix A"},
		{"null", "null", ""},
		{"float", "3.5", "3.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p PageLabel
			if err := p.UnmarshalJSON([]byte(tt.in)); err != nil {
				t.Fatalf("UnmarshalJSON(%q) error: %v", tt.in, err)
			}
			if p != tt.want {
				t.Errorf("PageLabel = %q, want %q", p, tt.want)
			}
		})
	}
}
