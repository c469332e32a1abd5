// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines all Bubble Tea message types used by the chat
// interface:
//   - Streaming: ordered session events and render ticks
//   - Models: listing refresh results
//   - Export: export completion
//   - Status: transient status line updates
//
// All message types follow Bubble Tea conventions and are immutable.
package chat

import (
	"time"

	"github.com/morganforge/ollamamate/internal/ollama"
	"github.com/morganforge/ollamamate/internal/session"
)

// =============================================================================
// STREAMING MESSAGES
// =============================================================================

// SessionEventMsg delivers one ordered stream event from the ingestion
// worker. Sub identifies the submission so the consumer can re-arm the
// channel receive.
type SessionEventMsg struct {
	Event session.Event
	Sub   *session.Submission
}

// StreamClosedMsg signals that the submission's event channel closed.
// The terminal event has already been delivered by then.
type StreamClosedMsg struct{}

// StreamTickMsg drives paced rendering while a response streams.
type StreamTickMsg struct {
	Time time.Time
}

// =============================================================================
// MODEL LISTING MESSAGES
// =============================================================================

// ModelsLoadedMsg reports the result of a registry refresh.
type ModelsLoadedMsg struct {
	Models []ollama.ModelInfo
	Err    error
}

// =============================================================================
// EXPORT MESSAGES
// =============================================================================

// ExportDoneMsg reports the result of a transcript export.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// =============================================================================
// STATUS MESSAGES
// =============================================================================

// StatusMsg sets a transient message in the status bar.
type StatusMsg struct {
	Text    string
	IsError bool
}

// statusClearMsg clears an expired status message.
type statusClearMsg struct {
	seq int
}
