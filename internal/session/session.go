// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"strings"

	"github.com/morganforge/ollamamate/internal/model"
	"github.com/morganforge/ollamamate/internal/registry"
)

// =============================================================================
// STATE MACHINE
// =============================================================================

// State describes where the session is in the prompt lifecycle.
type State int

const (
	// StateIdle means no prompt is in flight; submissions are accepted.
	StateIdle State = iota

	// StateAwaitingFirstToken means a prompt was submitted and no fragment
	// has arrived yet.
	StateAwaitingFirstToken

	// StateStreaming means fragments are arriving into the pending turn.
	StateStreaming
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingFirstToken:
		return "waiting"
	case StateStreaming:
		return "streaming"
	default:
		return "unknown"
	}
}

// Validation errors returned by Submit and Clear.
var (
	ErrEmptyPrompt     = errors.New("prompt is empty")
	ErrNoModelSelected = errors.New("no model selected")
	ErrSessionBusy     = errors.New("a response is already streaming")
)

// =============================================================================
// SUBMISSION
// =============================================================================

// eventBuffer bounds the worker-to-UI channel. The UI consumer drains
// promptly; the buffer only absorbs short bursts between frames.
const eventBuffer = 64

// Submission is the handle for one in-flight prompt. The ingestion worker
// sends ordered events on its channel; the UI loop receives them and feeds
// each to Session.Apply.
type Submission struct {
	Model  string
	Prompt string

	events chan Event
}

// Events returns the ordered event stream for this submission. The channel
// is closed by the worker after the terminal event.
func (s *Submission) Events() <-chan Event {
	return s.events
}

// =============================================================================
// SESSION
// =============================================================================

// Session owns the transcript and validates every mutation against the
// current state. All methods run on the UI event loop; Session is the
// single transcript writer.
type Session struct {
	registry   *registry.Registry
	transcript *model.Transcript
	state      State
}

// New creates an idle session with an empty transcript.
func New(reg *registry.Registry) *Session {
	return &Session{
		registry:   reg,
		transcript: model.NewTranscript(),
		state:      StateIdle,
	}
}

// Submit validates the prompt and, on success, appends the user turn, opens
// the pending assistant turn, and returns a Submission for the worker to
// stream into. Validation failures leave the transcript untouched.
func (s *Session) Submit(prompt string) (*Submission, error) {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return nil, ErrEmptyPrompt
	}
	if s.state != StateIdle {
		return nil, ErrSessionBusy
	}
	active := s.registry.Active()
	if active == "" {
		return nil, ErrNoModelSelected
	}

	s.transcript.AppendUserTurn(trimmed)
	s.transcript.BeginAssistantTurn()
	s.state = StateAwaitingFirstToken

	return &Submission{
		Model:  active,
		Prompt: trimmed,
		events: make(chan Event, eventBuffer),
	}, nil
}

// Apply folds one stream event into the transcript. Terminal events return
// the session to idle; exactly one terminal event arrives per submission.
func (s *Session) Apply(ev Event) {
	switch ev.Kind {
	case EventToken:
		if s.state == StateAwaitingFirstToken {
			s.state = StateStreaming
		}
		s.transcript.AppendToPending(ev.Fragment)

	case EventDone:
		s.transcript.FinalizePending()
		s.state = StateIdle

	case EventFailed:
		s.transcript.FailPending(FormatFailure(ev.Err))
		s.state = StateIdle
	}
}

// Clear empties the transcript. Refused while a response is streaming.
func (s *Session) Clear() error {
	if s.state != StateIdle {
		return ErrSessionBusy
	}
	s.transcript.Clear()
	return nil
}

// ExportText returns the transcript's plain-text projection.
func (s *Session) ExportText() string {
	return s.transcript.ExportText()
}

// Transcript exposes the transcript for display. Callers must not mutate
// it off the UI loop.
func (s *Session) Transcript() *model.Transcript {
	return s.transcript
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Busy reports whether a prompt is in flight.
func (s *Session) Busy() bool {
	return s.state != StateIdle
}
