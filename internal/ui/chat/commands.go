// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/ollamamate/internal/export"
	"github.com/morganforge/ollamamate/internal/registry"
	"github.com/morganforge/ollamamate/internal/session"
)

// statusDuration is how long a transient status message stays visible.
const statusDuration = 4 * time.Second

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// refreshModelsCmd creates a command that refreshes the model registry.
// Refresh itself is thread-safe, so it can run in the command goroutine
// while the UI keeps rendering.
func refreshModelsCmd(reg *registry.Registry) tea.Cmd {
	return func() tea.Msg {
		err := reg.Refresh(context.Background())
		return ModelsLoadedMsg{
			Models: reg.Models(),
			Err:    err,
		}
	}
}

// waitForEvent creates a command that receives the next ordered event from
// an in-flight submission. Update re-arms it after every event so the
// channel always has exactly one consumer.
func waitForEvent(sub *session.Submission) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-sub.Events()
		if !ok {
			return StreamClosedMsg{}
		}
		return SessionEventMsg{Event: ev, Sub: sub}
	}
}

// exportTranscriptCmd creates a command that writes a transcript projection
// to disk. The caller takes the projection on the UI loop; the command only
// does file I/O, so it never reads the live transcript from a goroutine.
func exportTranscriptCmd(text string, dir string) tea.Cmd {
	return func() tea.Msg {
		path, err := export.ExportText(text, &export.Options{Dir: dir})
		return ExportDoneMsg{Path: path, Err: err}
	}
}

// clearStatusCmd creates a command that expires a status message. The
// sequence number lets Update ignore stale expirations after a newer
// message replaced the one this timer belongs to.
func clearStatusCmd(seq int) tea.Cmd {
	return tea.Tick(statusDuration, func(time.Time) tea.Msg {
		return statusClearMsg{seq: seq}
	})
}
