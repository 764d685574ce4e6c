// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
//
// This package defines the core domain types used throughout the
// application for representing chat sessions, messages and their
// retrieval sources.
//
// # Key Types
//
//   - Session: container for one conversation with messages and metadata
//   - Message: single message with role, content, timestamp and sources
//   - Role: message role enumeration (user, assistant, system)
//
// # Usage
//
// Create a new session and append a question/answer pair:
//
//	sess := model.NewSession()
//	sess.AddUserMessage("What does chapter 3 say about X?")
//	answer := sess.AddAssistantMessage() // streaming placeholder
//	answer.AppendContent("X is ...")
//	answer.FinishStreaming()
package model
