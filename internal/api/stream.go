// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the RAG chatbot backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

// =============================================================================
// STREAM EVENTS
// =============================================================================

// EventType identifies the kind of a StreamEvent.
type EventType string

const (
	EventToken   EventType = "token"
	EventSources EventType = "sources"
	EventDone    EventType = "done"
	EventError   EventType = "error"
)

// StreamEvent is one decoded frame from the /chat stream.
// Exactly one of the payload fields is meaningful, selected by Type:
// Token for EventToken, Sources for EventSources, Message for EventError.
type StreamEvent struct {
	Type    EventType
	Token   string
	Sources []Source
	Message string
}

// Source describes one retrieval source attached to an answer.
// Immutable once received.
type Source struct {
	Filename string    `json:"filename"`
	Page     PageLabel `json:"page"`
	Snippet  string    `json:"snippet,omitempty"`
}

// PageLabel is a page reference that the backend emits either as a JSON
// number or as a free-form label ("12", "ii", "Appendix A").
type PageLabel string

// UnmarshalJSON accepts both numeric and string page values.
func (p *PageLabel) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = PageLabel(s)
		return nil
	}
	// Numeric page: keep the literal digits as the label.
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = PageLabel(n.String())
	return nil
}

// MarshalJSON writes the label back as a string.
func (p PageLabel) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(p))
}

// =============================================================================
// FRAME DECODER
// =============================================================================

// frameDelimiter separates SSE frames in the /chat stream.
const frameDelimiter = "\n\n"

// dataPrefix marks the payload line of a valid frame.
const dataPrefix = "data: "

// wireFrame is the JSON envelope inside a "data: " line.
type wireFrame struct {
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content"`
}

// FrameDecoder turns raw byte chunks into StreamEvents.
//
// Chunks may split frames at arbitrary byte boundaries; the decoder
// buffers the trailing incomplete segment between Feed calls, so the
// emitted event sequence is identical regardless of how the transport
// chunked the bytes.
//
// A decoder serves exactly one stream attempt and is not restartable.
// It is not safe for concurrent use; the stream reader goroutine owns it.
type FrameDecoder struct {
	buf strings.Builder

	// dropped counts frames discarded for bad prefix, bad JSON or an
	// unrecognized type. Heartbeats and future frame kinds land here;
	// dropping them never aborts the stream.
	dropped int
}

// NewFrameDecoder creates a decoder for a single stream attempt.
func NewFrameDecoder() *FrameDecoder {
	return &FrameDecoder{}
}

// Feed appends one transport chunk and returns all events completed by it.
// Returns nil when the chunk completes no frame.
func (d *FrameDecoder) Feed(chunk []byte) []StreamEvent {
	if len(chunk) == 0 {
		return nil
	}
	d.buf.Write(chunk)

	data := d.buf.String()
	if !strings.Contains(data, frameDelimiter) {
		return nil
	}

	segments := strings.Split(data, frameDelimiter)
	// The last segment is incomplete (possibly empty) and becomes the
	// new buffer state.
	tail := segments[len(segments)-1]
	segments = segments[:len(segments)-1]

	d.buf.Reset()
	d.buf.WriteString(tail)

	var events []StreamEvent
	for _, seg := range segments {
		if ev, ok := d.decodeFrame(seg); ok {
			events = append(events, ev)
		}
	}
	return events
}

// Flush decodes whatever remains in the buffer as a final frame.
// Called once at end of stream: servers are not strictly guaranteed to
// terminate the last frame with a blank line before closing.
func (d *FrameDecoder) Flush() []StreamEvent {
	rest := d.buf.String()
	d.buf.Reset()
	if strings.TrimSpace(rest) == "" {
		return nil
	}
	if ev, ok := d.decodeFrame(rest); ok {
		return []StreamEvent{ev}
	}
	return nil
}

// Dropped returns how many frames were silently discarded.
func (d *FrameDecoder) Dropped() int {
	return d.dropped
}

// decodeFrame parses one delimiter-terminated segment.
// Invalid frames are dropped, never fatal: the server may emit comment
// or heartbeat frames this client does not know about.
func (d *FrameDecoder) decodeFrame(seg string) (StreamEvent, bool) {
	seg = strings.TrimSpace(seg)
	if seg == "" {
		return StreamEvent{}, false
	}
	if !strings.HasPrefix(seg, dataPrefix) {
		d.dropped++
		return StreamEvent{}, false
	}
	payload := seg[len(dataPrefix):]

	var frame wireFrame
	if err := json.Unmarshal([]byte(payload), &frame); err != nil {
		d.dropped++
		return StreamEvent{}, false
	}

	switch frame.Type {
	case "token":
		var text string
		if err := json.Unmarshal(frame.Content, &text); err != nil {
			d.dropped++
			return StreamEvent{}, false
		}
		return StreamEvent{Type: EventToken, Token: text}, true

	case "sources":
		var sources []Source
		if err := json.Unmarshal(frame.Content, &sources); err != nil {
			d.dropped++
			return StreamEvent{}, false
		}
		return StreamEvent{Type: EventSources, Sources: sources}, true

	case "done":
		// Content is absent or ignored for done frames.
		return StreamEvent{Type: EventDone}, true

	case "error":
		var msg string
		if err := json.Unmarshal(frame.Content, &msg); err != nil {
			d.dropped++
			return StreamEvent{}, false
		}
		return StreamEvent{Type: EventError, Message: msg}, true

	default:
		d.dropped++
		return StreamEvent{}, false
	}
}

// =============================================================================
// STREAMING CHAT
// =============================================================================

// streamReadSize is the transport read buffer. Chunk boundaries are
// arbitrary; the decoder does not care about this value beyond throughput.
const streamReadSize = 4 * 1024

// eventBufferSize bounds the event channel so a fast server does not
// stall the reader while the UI drains at typewriter speed.
const eventBufferSize = 64

// Stream submits a question and returns a channel of decoded events.
//
// The channel always terminates with exactly one terminal event
// (EventDone or EventError) and is then closed. Transport close without
// a terminal frame is treated as implicit completion. Cancelling ctx
// stops delivery without an error event: cancellation is not an error.
func (c *Client) Stream(ctx context.Context, question string, history []HistoryMessage) <-chan StreamEvent {
	events := make(chan StreamEvent, eventBufferSize)

	go func() {
		defer close(events)

		body, err := json.Marshal(ChatRequest{
			Question:    question,
			ChatHistory: history,
		})
		if err != nil {
			deliver(ctx, events, StreamEvent{Type: EventError, Message: err.Error()})
			return
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/chat", bytes.NewReader(body))
		if err != nil {
			deliver(ctx, events, StreamEvent{Type: EventError, Message: err.Error()})
			return
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "text/event-stream")
		req.Header.Set("Cache-Control", "no-cache")

		resp, err := c.streamClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return // cancelled, stay silent
			}
			deliver(ctx, events, StreamEvent{Type: EventError, Message: connectError(err).Error()})
			return
		}
		defer resp.Body.Close()

		// TRANSPORT ERROR: non-2xx surfaces as a single terminal Error
		// event carrying status and body text.
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			data, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
			deliver(ctx, events, StreamEvent{
				Type:    EventError,
				Message: statusError(resp.StatusCode, data).Error(),
			})
			return
		}

		c.pumpStream(ctx, resp.Body, events)
	}()

	return events
}

// pumpStream reads the response body chunk by chunk, feeds the decoder
// and forwards events until a terminal event, EOF or cancellation.
func (c *Client) pumpStream(ctx context.Context, body io.Reader, events chan<- StreamEvent) {
	decoder := NewFrameDecoder()
	buf := make([]byte, streamReadSize)

	for {
		if ctx.Err() != nil {
			return
		}

		n, err := body.Read(buf)
		if n > 0 {
			for _, ev := range decoder.Feed(buf[:n]) {
				if !deliver(ctx, events, ev) {
					return
				}
				if ev.Type == EventDone || ev.Type == EventError {
					return
				}
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				for _, ev := range decoder.Flush() {
					if !deliver(ctx, events, ev) {
						return
					}
					if ev.Type == EventDone || ev.Type == EventError {
						return
					}
				}
				// Transport closed without a terminal frame:
				// implicit completion.
				deliver(ctx, events, StreamEvent{Type: EventDone})
				return
			}
			if ctx.Err() != nil {
				return
			}
			deliver(ctx, events, StreamEvent{Type: EventError, Message: err.Error()})
			return
		}
	}
}

// deliver sends one event unless the context is already cancelled.
// Reports false when the consumer is gone.
func deliver(ctx context.Context, events chan<- StreamEvent, ev StreamEvent) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
