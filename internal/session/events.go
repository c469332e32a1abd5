// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the chat session state machine and stream ingestion.
package session

import (
	"strconv"

	"github.com/morganforge/ollamamate/internal/ollama"
)

// =============================================================================
// EVENT TYPES
// =============================================================================

// EventKind identifies what a stream event carries.
type EventKind int

const (
	// EventToken delivers one incremental text fragment.
	EventToken EventKind = iota

	// EventDone signals clean end of stream. Terminal.
	EventDone

	// EventFailed signals a stream failure. Terminal; Err carries the
	// classified cause.
	EventFailed
)

// Event is one unit of work produced by the ingestion worker and applied
// on the UI loop. Events for a submission are strictly ordered and end
// with exactly one terminal event.
type Event struct {
	Kind     EventKind
	Fragment string
	Err      error

	// Stats carries timing for the finished stream. Set on EventDone only.
	Stats *ollama.StreamStats
}

// =============================================================================
// FAILURE FORMATTING
// =============================================================================

// FormatFailure maps a classified stream failure to the user-facing message
// that replaces the pending assistant turn.
func FormatFailure(err error) string {
	if err == nil {
		return "[General Error] an unexpected error occurred"
	}

	if status, body, ok := ollama.IsServerError(err); ok {
		msg := "[HTTP Error] " + strconv.Itoa(status)
		if body != "" {
			msg += ": " + body
		}
		return msg
	}
	if ollama.IsTimeout(err) {
		return "[Timeout Error] the request timed out"
	}
	if ollama.IsConnectionFailure(err) {
		return "[Connection Error] could not connect to Ollama. Is it running?"
	}
	return "[General Error] an unexpected error occurred: " + err.Error()
}
