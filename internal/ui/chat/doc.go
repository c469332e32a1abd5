// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// The view is a Bubble Tea model wrapping a viewport (transcript), a text
// input (prompt), and a spinner (waiting for the first token). All
// transcript mutation happens inside Update, which is the session's single
// consumer: the ingestion worker delivers ordered stream events through the
// submission channel and waitForEvent re-arms after each one.
//
// # Key Types
//
//   - Model: The Bubble Tea model for the chat view
//   - KeyMap: Keyboard bindings
//   - StreamingBuffer: Batches fragments so rendering is paced, not
//     per-token
package chat
