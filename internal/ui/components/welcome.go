// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/thinkpane/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN
// =============================================================================

// Welcome is shown in place of the message list while a thread is empty.
type Welcome struct {
	version     string
	scriptTitle string
	turns       int

	width  int
	height int

	theme *styles.Theme
}

// NewWelcome creates a new welcome screen.
func NewWelcome(theme *styles.Theme) Welcome {
	return Welcome{version: "dev", theme: theme}
}

// SetVersion sets the version string.
func (w *Welcome) SetVersion(version string) {
	w.version = version
}

// SetScript describes the replay script that answers prompts.
func (w *Welcome) SetScript(title string, turns int) {
	w.scriptTitle = title
	w.turns = turns
}

// SetSize updates the dimensions.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// View renders the welcome screen centred in its area.
func (w Welcome) View() string {
	width := w.width
	if width == 0 {
		width = 80
	}
	height := w.height
	if height == 0 {
		height = 20
	}

	t := w.theme
	lines := []string{
		t.WelcomeTitle.Render("thinkpane") + " " + t.WelcomeInfo.Render(w.version),
		"",
	}
	if w.scriptTitle != "" {
		lines = append(lines, t.WelcomeInfo.Render("Script: "+w.scriptTitle))
	}
	if w.turns > 0 {
		lines = append(lines, t.WelcomeInfo.Render(pluralTurns(w.turns)))
	}
	lines = append(lines, "", w.renderQuickStart())

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// renderQuickStart lists the keys that matter on an empty thread.
func (w Welcome) renderQuickStart() string {
	t := w.theme
	tips := []struct{ key, desc string }{
		{"enter", "send a prompt"},
		{"tab", "focus a reasoning panel"},
		{"ctrl+t", "show or hide reasoning"},
		{"ctrl+n", "new thread"},
	}
	rows := make([]string, len(tips))
	for i, tip := range tips {
		rows[i] = t.WelcomeKey.Width(8).Render(tip.key) + t.WelcomeInfo.Render(tip.desc)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func pluralTurns(n int) string {
	if n == 1 {
		return "1 scripted turn"
	}
	return strconv.Itoa(n) + " scripted turns"
}
