// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the chat transcript.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the attribution of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleError     Role = "error"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Ollama"
	case RoleError:
		return "Error"
	default:
		return string(r)
	}
}

// ExportLabel returns the label used for this role in exported transcripts.
func (r Role) ExportLabel() string {
	return r.DisplayName() + ":"
}

// =============================================================================
// TURN TYPE
// =============================================================================

// Turn represents a single message unit in the transcript.
//
// A user turn is created complete. An assistant turn is created incomplete
// and mutated by appending fragments until it is finalized (stream end) or
// failed (converted into an error turn). No other mutation is permitted.
type Turn struct {
	// Identity
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Content string `json:"content"`

	// Streaming state
	// PERFORMANCE: strings.Builder avoids quadratic allocations while
	// fragments arrive.
	Complete      bool            `json:"complete"`
	streamContent strings.Builder `json:"-"`
}

// NewUserTurn creates a complete user turn.
func NewUserTurn(content string) *Turn {
	return &Turn{
		ID:        generateID(),
		Role:      RoleUser,
		Timestamp: time.Now(),
		Content:   content,
		Complete:  true,
	}
}

// NewAssistantTurn creates an incomplete assistant turn ready to receive
// streamed fragments.
func NewAssistantTurn() *Turn {
	return &Turn{
		ID:        generateID(),
		Role:      RoleAssistant,
		Timestamp: time.Now(),
	}
}

// NewErrorTurn creates a complete error turn carrying a classified message.
func NewErrorTurn(message string) *Turn {
	return &Turn{
		ID:        generateID(),
		Role:      RoleError,
		Timestamp: time.Now(),
		Content:   message,
		Complete:  true,
	}
}

// =============================================================================
// TURN METHODS
// =============================================================================

// AppendFragment appends a streamed fragment to an incomplete turn.
// Fragments appended to a complete turn are dropped.
func (t *Turn) AppendFragment(fragment string) {
	if t.Complete {
		return
	}
	t.streamContent.WriteString(fragment)
}

// FinalizeStream marks the turn complete, merging streamed fragments into
// the content.
func (t *Turn) FinalizeStream() {
	if t.Complete {
		return
	}
	t.Content = t.streamContent.String()
	t.streamContent.Reset()
	t.Complete = true
}

// FailStream converts an incomplete turn into a complete error turn.
// Any partial fragment text accumulated so far is discarded: the classified
// message replaces it.
func (t *Turn) FailStream(message string) {
	if t.Complete {
		return
	}
	t.streamContent.Reset()
	t.Role = RoleError
	t.Content = message
	t.Complete = true
}

// DisplayContent returns the content to display (streaming or final).
func (t *Turn) DisplayContent() string {
	if !t.Complete {
		return t.streamContent.String()
	}
	return t.Content
}

// IsEmpty returns true if the turn has no content.
func (t *Turn) IsEmpty() bool {
	return len(t.Content) == 0 && t.streamContent.Len() == 0
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateID creates a unique turn ID.
func generateID() string {
	return "turn_" + uuid.NewString()
}
