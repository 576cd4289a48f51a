// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the colours, icons and lipgloss styles of the TUI.
//
// Colours are lipgloss.AdaptiveColor values so they follow the terminal
// background. NewTheme detects the colour profile and background with
// termenv unless the configured theme forces dark or light.
//
//	theme := styles.NewTheme(cfg.UI.Theme, cfg.UI.ASCIIIcons)
//	line := theme.ReasoningLabel.Render("Thought for 3 seconds")
package styles
