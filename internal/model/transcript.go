// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the chat transcript.
package model

import "strings"

// =============================================================================
// TRANSCRIPT TYPE
// =============================================================================

// Transcript holds the ordered chat history for the current session.
//
// It is append-only except for the single currently-streaming turn's text.
// Invariant: at most one incomplete turn exists at any time, and it is
// always the last element. The transcript is emptied only by Clear.
//
// Transcript is not safe for concurrent use: all mutation happens on the
// UI event loop, which is the single writer.
type Transcript struct {
	turns []*Turn
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{turns: make([]*Turn, 0)}
}

// =============================================================================
// TURN MANAGEMENT
// =============================================================================

// AppendUserTurn appends a complete user turn.
func (tr *Transcript) AppendUserTurn(content string) *Turn {
	turn := NewUserTurn(content)
	tr.append(turn)
	return turn
}

// BeginAssistantTurn appends a new incomplete assistant turn, which becomes
// the pending turn fragments are streamed into.
func (tr *Transcript) BeginAssistantTurn() *Turn {
	turn := NewAssistantTurn()
	tr.append(turn)
	return turn
}

// append adds a turn while preserving the single-incomplete invariant:
// a previously pending turn is finalized before a new turn is added.
func (tr *Transcript) append(turn *Turn) {
	if pending := tr.Pending(); pending != nil {
		pending.FinalizeStream()
	}
	tr.turns = append(tr.turns, turn)
}

// Pending returns the incomplete turn, or nil if every turn is complete.
// When present it is always the last element.
func (tr *Transcript) Pending() *Turn {
	if len(tr.turns) == 0 {
		return nil
	}
	last := tr.turns[len(tr.turns)-1]
	if last.Complete {
		return nil
	}
	return last
}

// AppendToPending appends a fragment to the pending turn. Fragments
// arriving with no pending turn are dropped.
func (tr *Transcript) AppendToPending(fragment string) {
	if pending := tr.Pending(); pending != nil {
		pending.AppendFragment(fragment)
	}
}

// FinalizePending marks the pending turn complete.
func (tr *Transcript) FinalizePending() {
	if pending := tr.Pending(); pending != nil {
		pending.FinalizeStream()
	}
}

// FailPending converts the pending turn into an error turn carrying the
// classified message. Partial fragment text is discarded.
func (tr *Transcript) FailPending(message string) {
	if pending := tr.Pending(); pending != nil {
		pending.FailStream(message)
	}
}

// Clear removes all turns. The caller guarantees no turn is streaming.
func (tr *Transcript) Clear() {
	tr.turns = make([]*Turn, 0)
}

// Turns returns the ordered turn history for display.
func (tr *Transcript) Turns() []*Turn {
	return tr.turns
}

// Last returns the most recent turn, or nil when empty.
func (tr *Transcript) Last() *Turn {
	if len(tr.turns) == 0 {
		return nil
	}
	return tr.turns[len(tr.turns)-1]
}

// Len returns the number of turns.
func (tr *Transcript) Len() int {
	return len(tr.turns)
}

// IsEmpty returns true if there are no turns.
func (tr *Transcript) IsEmpty() bool {
	return len(tr.turns) == 0
}

// =============================================================================
// EXPORT PROJECTION
// =============================================================================

// ExportText renders the transcript as sequential "role:\ntext\n" blocks in
// turn order, blank-line separated. It is a pure projection: repeated calls
// with no intervening mutation return identical output, and an empty
// transcript renders as the empty string.
func (tr *Transcript) ExportText() string {
	if len(tr.turns) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, turn := range tr.turns {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(turn.Role.ExportLabel())
		sb.WriteString("\n")
		sb.WriteString(turn.DisplayContent())
		sb.WriteString("\n")
	}
	return sb.String()
}
