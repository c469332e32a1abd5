// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the chat transcript.
//
// This package defines the core domain types used throughout the
// application for representing the chat history.
//
// # Key Types
//
//   - Transcript: Ordered, append-only sequence of turns for the session
//   - Turn: Single message unit attributed to the user, the assistant,
//     or an error
//   - Role: Turn attribution enumeration (user, assistant, error)
//
// # Usage
//
// Build up a transcript:
//
//	tr := model.NewTranscript()
//	tr.AppendUserTurn("Hello!")
//	tr.BeginAssistantTurn()
//	tr.AppendToPending("Hi ")
//	tr.AppendToPending("there.")
//	tr.FinalizePending()
//
// The transcript maintains the invariant that at most one turn is
// incomplete at any time, and that turn is always the last element.
package model
