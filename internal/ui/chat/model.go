// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/morganforge/ollamamate/internal/registry"
	"github.com/morganforge/ollamamate/internal/session"
	"github.com/morganforge/ollamamate/internal/ui/styles"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Options configures the chat view.
type Options struct {
	// DefaultModel is selected after the first successful listing when the
	// server lists it.
	DefaultModel string

	// ExportDir is where transcript exports are written.
	ExportDir string
}

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// Styling
	theme  *styles.Theme
	keyMap KeyMap

	// Dimensions
	width  int
	height int
	ready  bool

	// Domain
	session  *session.Session
	registry *registry.Registry
	ingestor *session.Ingestor
	opts     Options

	// Applied once, on the first successful listing.
	defaultApplied bool

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// Streaming render pacing
	streamBuf *StreamingBuffer

	// Markdown rendering for finalized assistant turns. The cache maps
	// turn ID to rendered output; it is dropped on resize because word
	// wrap width changes.
	markdown    *glamour.TermRenderer
	renderCache map[string]string

	// Status bar
	statusText    string
	statusIsError bool
	statusSeq     int

	// Clear requires a confirming second keypress.
	confirmClear bool
}

// New creates a new chat model.
func New(theme *styles.Theme, sess *session.Session, reg *registry.Registry, ing *session.Ingestor, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = theme.InputPrompt
	ti.PlaceholderStyle = theme.InputPlaceholder
	ti.Placeholder = "Ask something..."
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)
	vp.SetContent("")

	// ASCII spinner frames render everywhere, including consoles without
	// good Unicode fonts.
	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 12,
	}
	sp.Style = theme.Spinner

	return Model{
		theme:       theme,
		keyMap:      DefaultKeyMap(),
		session:     sess,
		registry:    reg,
		ingestor:    ing,
		opts:        opts,
		viewport:    vp,
		input:       ti,
		spinner:     sp,
		streamBuf:   NewStreamingBuffer(),
		markdown:    newMarkdownRenderer(80),
		renderCache: make(map[string]string),
	}
}

// Init initializes the model: cursor blink plus the initial model listing.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		refreshModelsCmd(m.registry),
	)
}

// =============================================================================
// MARKDOWN RENDERER
// =============================================================================

// newMarkdownRenderer builds a glamour renderer for the given wrap width.
// Returns nil when construction fails; callers fall back to plain text.
func newMarkdownRenderer(width int) *glamour.TermRenderer {
	if width < 10 {
		width = 10
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return r
}

// renderMarkdown renders assistant markdown for terminal display, falling
// back to the raw content when rendering is unavailable or fails.
func (m Model) renderMarkdown(content string) string {
	if m.markdown == nil {
		return content
	}
	rendered, err := m.markdown.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
