// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the ollamamate TUI.
//
// All colors use Lip Gloss AdaptiveColor so every style renders correctly
// on both light and dark terminals. The Theme struct bundles the styled
// components; the chat view holds one Theme and never constructs styles
// inline.
//
// # Key Types
//
//   - Theme: All styled components, built once at startup
//
// # Usage
//
//	theme := styles.NewTheme("auto")
//	header := theme.Header.Render("ollamamate")
package styles
