// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the RAG chatbot backend.
//
// The backend exposes a small REST surface plus one streaming endpoint:
//
//   - POST /chat            SSE token stream for a question
//   - POST /chat/sync       non-streaming answer (testing, plain CLI)
//   - POST /upload          multipart document upload
//   - GET  /documents       list indexed documents
//   - DELETE /documents/{f} remove a document
//   - POST /reindex         reindex the server document folder
//   - GET  /                health probe
//
// # Streaming
//
// The /chat response body is a text/event-stream of frames, each a
// "data: " line carrying a JSON payload {type, content} and terminated
// by a blank line. FrameDecoder turns raw byte chunks (arbitrary
// boundaries) into StreamEvent values; Client.Stream wires it to an
// HTTP response body and delivers events over a channel:
//
//	events := client.Stream(ctx, "what is X?", history)
//	for ev := range events {
//	    switch ev.Type {
//	    case api.EventToken:   // append ev.Token
//	    case api.EventSources: // replace sources with ev.Sources
//	    case api.EventDone:    // stream finished
//	    case api.EventError:   // terminal error, ev.Message
//	    }
//	}
//
// One decoder instance serves exactly one stream attempt.
package api
