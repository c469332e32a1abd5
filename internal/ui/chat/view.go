// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"strings"

	"github.com/morganforge/ollamamate/internal/model"
	"github.com/morganforge/ollamamate/internal/session"
	"github.com/morganforge/ollamamate/internal/util"
)

// Fixed chrome heights, in terminal rows.
const (
	headerHeight = 1
	statusHeight = 1
	inputHeight  = 2
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the chat interface.
func (m Model) View() string {
	if !m.ready {
		return "starting..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.theme.InputContainer.Width(m.width - 2).Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) renderHeader() string {
	title := m.theme.Header.Render("ollamamate")
	active := m.registry.Active()
	if active == "" {
		return title
	}
	return title + " " + m.theme.ModelName.Render(active)
}

// renderStatusBar shows either the transient status message or the short
// key help, truncated to the terminal width.
func (m Model) renderStatusBar() string {
	var content string
	switch {
	case m.statusText != "" && m.statusIsError:
		content = m.theme.StatusError.Render(m.statusText)
	case m.statusText != "":
		content = m.theme.StatusNotice.Render(m.statusText)
	default:
		content = m.renderShortHelp()
	}

	state := m.session.State()
	if state != session.StateIdle {
		content = m.theme.StatusNotice.Render(state.String()) + "  " + content
	}

	return m.theme.StatusBar.Width(m.width).Render(util.TruncateWidth(content, m.width-2))
}

func (m Model) renderShortHelp() string {
	var parts []string
	for _, binding := range m.keyMap.ShortHelp() {
		h := binding.Help()
		parts = append(parts,
			m.theme.ShortcutKey.Render(h.Key)+" "+m.theme.ShortcutDesc.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}

// =============================================================================
// TRANSCRIPT RENDERING
// =============================================================================

// refreshViewport re-renders the transcript into the viewport.
func (m *Model) refreshViewport(gotoBottom bool) {
	m.viewport.SetContent(m.renderTranscript())
	if gotoBottom {
		m.viewport.GotoBottom()
	}
}

// renderTranscript renders every turn. Finalized assistant turns go
// through glamour (cached per turn); the streaming turn renders raw so
// partial markdown never flickers through the renderer.
func (m *Model) renderTranscript() string {
	turns := m.session.Transcript().Turns()
	if len(turns) == 0 {
		return m.theme.ThinkingText.Render("Send a prompt to get started.")
	}

	var b strings.Builder
	for i, turn := range turns {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderTurn(turn))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderTurn(turn *model.Turn) string {
	label := m.renderLabel(turn.Role)

	if !turn.Complete {
		body := turn.DisplayContent()
		if body == "" {
			return label + "\n" + m.spinner.View() + m.theme.ThinkingText.Render(" waiting for "+m.registry.Active())
		}
		return label + "\n" + m.theme.TurnBody.Render(body)
	}

	switch turn.Role {
	case model.RoleAssistant:
		rendered, ok := m.renderCache[turn.ID]
		if !ok {
			rendered = strings.TrimRight(m.renderMarkdown(turn.Content), "\n")
			m.renderCache[turn.ID] = rendered
		}
		return label + "\n" + rendered
	case model.RoleError:
		return label + "\n" + m.theme.ErrorText.Render(turn.Content)
	default:
		return label + "\n" + m.theme.TurnBody.Render(turn.Content)
	}
}

func (m *Model) renderLabel(role model.Role) string {
	name := role.DisplayName()
	switch role {
	case model.RoleUser:
		return m.theme.UserLabel.Render(name)
	case model.RoleAssistant:
		return m.theme.AssistantLabel.Render(name)
	case model.RoleError:
		return m.theme.ErrorLabel.Render(name)
	default:
		return name
	}
}
