// ollamamate - A terminal interface for local LLM chat via Ollama.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/morganforge/ollamamate/internal/config"
	"github.com/morganforge/ollamamate/internal/ollama"
	"github.com/morganforge/ollamamate/internal/registry"
	"github.com/morganforge/ollamamate/internal/session"
	"github.com/morganforge/ollamamate/internal/ui/chat"
	"github.com/morganforge/ollamamate/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	host := flag.String("host", "", "Ollama base URL (overrides config)")
	defaultModel := flag.String("model", "", "model to select at startup (overrides config)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("ollamamate %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *host != "" {
		cfg.Server.Host = *host
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid -host: %v\n", err)
			os.Exit(1)
		}
	}
	if *defaultModel != "" {
		cfg.DefaultModel = *defaultModel
	}

	// A real terminal is required: the whole interface is interactive.
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: ollamamate must run in a terminal")
		os.Exit(1)
	}

	theme := styles.NewTheme(cfg.UI.Theme)

	client := ollama.NewClientWithConfig(&ollama.ClientConfig{
		BaseURL:       cfg.Server.Host,
		StreamTimeout: cfg.Server.StreamTimeout(),
	})
	reg := registry.New(client)
	sess := session.New(reg)
	ing := session.NewIngestor(client)

	m := chat.New(theme, sess, reg, ing, chat.Options{
		DefaultModel: cfg.DefaultModel,
		ExportDir:    cfg.Export.Dir,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
