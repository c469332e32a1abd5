// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/ollamamate/internal/ollama"
	"github.com/morganforge/ollamamate/internal/registry"
	"github.com/morganforge/ollamamate/internal/session"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SessionEventMsg:
		return m.handleSessionEvent(msg)

	case StreamClosedMsg:
		// Terminal event already settled the session; nothing to do.
		return m, nil

	case StreamTickMsg:
		return m.handleStreamTick()

	case spinner.TickMsg:
		return m.handleSpinnerTick(msg)

	case ModelsLoadedMsg:
		return m.handleModelsLoaded(msg)

	case ExportDoneMsg:
		return m.handleExportDone(msg)

	case StatusMsg:
		return m.setStatus(msg.Text, msg.IsError)

	case statusClearMsg:
		if msg.seq == m.statusSeq {
			m.statusText = ""
			m.statusIsError = false
		}
		return m, nil
	}

	return m, nil
}

// =============================================================================
// RESIZE
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true

	// One line of header, one of status, and the bordered input row.
	chromeHeight := headerHeight + statusHeight + inputHeight
	vpHeight := msg.Height - chromeHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = msg.Width
	m.viewport.Height = vpHeight
	m.input.Width = msg.Width - 4

	// Word wrap width changed: rebuild the renderer and drop cached output.
	m.markdown = newMarkdownRenderer(msg.Width - 2)
	m.renderCache = make(map[string]string)

	m.refreshViewport(true)
	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key other than a second Clear press cancels the pending
	// confirmation.
	if m.confirmClear && !key.Matches(msg, m.keyMap.Clear) {
		m.confirmClear = false
	}

	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Submit):
		return m.handleSubmit()

	case key.Matches(msg, m.keyMap.Clear):
		return m.handleClear()

	case key.Matches(msg, m.keyMap.Export):
		// Snapshot on the UI loop: the transcript may still be streaming,
		// and only this loop may read it.
		return m, exportTranscriptCmd(m.session.ExportText(), m.opts.ExportDir)

	case key.Matches(msg, m.keyMap.CycleModel):
		m.registry.SelectNext()
		if active := m.registry.Active(); active != "" {
			return m.setStatus("model: "+active, false)
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Refresh):
		return m, refreshModelsCmd(m.registry)

	case key.Matches(msg, m.keyMap.Up),
		key.Matches(msg, m.keyMap.Down),
		key.Matches(msg, m.keyMap.PageUp),
		key.Matches(msg, m.keyMap.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	sub, err := m.session.Submit(m.input.Value())
	if err != nil {
		switch {
		case errors.Is(err, session.ErrEmptyPrompt):
			// Nothing to send; stay quiet.
			return m, nil
		case errors.Is(err, session.ErrSessionBusy):
			return m.setStatus("still streaming, wait for the response to finish", true)
		case errors.Is(err, session.ErrNoModelSelected):
			return m.setStatus("no model available, is Ollama running?", true)
		default:
			return m.setStatus(err.Error(), true)
		}
	}

	m.input.Reset()
	m.streamBuf.Reset()
	m.refreshViewport(true)

	// One worker per submission; waitForEvent is its single consumer.
	go m.ingestor.Run(context.Background(), sub)

	return m, tea.Batch(
		waitForEvent(sub),
		m.spinner.Tick,
		streamTickCmd(),
	)
}

func (m Model) handleClear() (tea.Model, tea.Cmd) {
	if !m.confirmClear {
		m.confirmClear = true
		return m.setStatus("press C-l again to clear the transcript", false)
	}
	m.confirmClear = false

	if err := m.session.Clear(); err != nil {
		return m.setStatus("cannot clear while a response is streaming", true)
	}
	m.renderCache = make(map[string]string)
	m.refreshViewport(true)
	return m.setStatus("transcript cleared", false)
}

// =============================================================================
// STREAMING
// =============================================================================

func (m Model) handleSessionEvent(msg SessionEventMsg) (tea.Model, tea.Cmd) {
	switch msg.Event.Kind {
	case session.EventToken:
		// Buffer the fragment; the tick handler applies it at render pace.
		m.streamBuf.Write(msg.Event.Fragment)
		return m, waitForEvent(msg.Sub)

	case session.EventDone, session.EventFailed:
		// Drain buffered fragments first so the pending turn is complete
		// before the terminal event settles it.
		if content, ok := m.streamBuf.ForceFlush(); ok {
			m.session.Apply(session.Event{Kind: session.EventToken, Fragment: content})
		}
		m.session.Apply(msg.Event)
		m.refreshViewport(true)
		if note := formatStreamStats(msg.Event.Stats); note != "" {
			var statusCmd tea.Cmd
			m, statusCmd = m.setStatus(note, false)
			return m, tea.Batch(waitForEvent(msg.Sub), statusCmd)
		}
		return m, waitForEvent(msg.Sub)
	}
	return m, waitForEvent(msg.Sub)
}

// formatStreamStats renders the completion notice shown after a stream
// finishes. Empty when the final chunk carried no token statistics.
func formatStreamStats(stats *ollama.StreamStats) string {
	if stats == nil || stats.EvalCount == 0 {
		return ""
	}
	elapsed := stats.EndTime.Sub(stats.StartTime).Seconds()
	if stats.TokensPerSecond > 0 {
		return fmt.Sprintf("%d tokens in %.1fs (%.0f tok/s)",
			stats.EvalCount, elapsed, stats.TokensPerSecond)
	}
	return fmt.Sprintf("%d tokens in %.1fs", stats.EvalCount, elapsed)
}

func (m Model) handleStreamTick() (tea.Model, tea.Cmd) {
	if !m.session.Busy() {
		// Stream settled; stop ticking.
		return m, nil
	}
	if content, ok := m.streamBuf.Flush(); ok {
		m.session.Apply(session.Event{Kind: session.EventToken, Fragment: content})
		m.refreshViewport(true)
	}
	return m, streamTickCmd()
}

func (m Model) handleSpinnerTick(msg spinner.TickMsg) (tea.Model, tea.Cmd) {
	if m.session.State() != session.StateAwaitingFirstToken {
		return m, nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	m.refreshViewport(true)
	return m, cmd
}

// =============================================================================
// MODELS AND EXPORT
// =============================================================================

func (m Model) handleModelsLoaded(msg ModelsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		return m.setStatus(session.FormatFailure(msg.Err), true)
	}

	if !m.defaultApplied {
		m.defaultApplied = true
		if m.opts.DefaultModel != "" {
			// Only selectable when the server actually lists it.
			if err := m.registry.Select(m.opts.DefaultModel); err != nil && !errors.Is(err, registry.ErrUnknownModel) {
				return m.setStatus(err.Error(), true)
			}
		}
	}

	if len(msg.Models) == 0 {
		return m.setStatus("no models installed, pull one with 'ollama pull'", true)
	}
	return m.setStatus(fmt.Sprintf("%d models available", len(msg.Models)), false)
}

func (m Model) handleExportDone(msg ExportDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		return m.setStatus("export failed: "+msg.Err.Error(), true)
	}
	return m.setStatus("exported to "+msg.Path, false)
}

// =============================================================================
// STATUS
// =============================================================================

// setStatus replaces the transient status message and arms its expiry.
func (m Model) setStatus(text string, isError bool) (Model, tea.Cmd) {
	m.statusSeq++
	m.statusText = text
	m.statusIsError = isError
	return m, clearStatusCmd(m.statusSeq)
}
