// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/thinkpane/internal/ui/styles"
	"github.com/jeranaias/thinkpane/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar is the bottom line: a state summary on the left and the key
// help on the right.
type StatusBar struct {
	help  help.Model
	theme *styles.Theme
	width int
	state string
}

// NewStatusBar creates a new status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	h := help.New()
	h.ShortSeparator = "  "
	h.Styles.ShortKey = theme.ShortcutKey
	h.Styles.ShortDesc = theme.ShortcutDesc
	h.Styles.ShortSeparator = theme.ShortcutDesc
	h.Styles.Ellipsis = theme.ShortcutDesc
	h.Styles.FullKey = theme.ShortcutKey
	h.Styles.FullDesc = theme.ShortcutDesc
	h.Styles.FullSeparator = theme.ShortcutDesc
	return &StatusBar{help: h, theme: theme, width: 80, state: "Ready"}
}

// SetWidth sets the bar width.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// SetState sets the summary on the left.
func (s *StatusBar) SetState(state string) {
	s.state = state
}

// State returns the summary on the left.
func (s *StatusBar) State() string {
	return s.state
}

// SetShowAll switches between the short and the full key help.
func (s *StatusBar) SetShowAll(all bool) {
	s.help.ShowAll = all
}

// ShowAll reports whether the full key help is shown.
func (s *StatusBar) ShowAll() bool {
	return s.help.ShowAll
}

// View renders the bar with the bindings from keys.
func (s *StatusBar) View(keys help.KeyMap) string {
	inner := s.width - s.theme.StatusBar.GetHorizontalFrameSize()
	if inner < 1 {
		inner = 1
	}

	left := util.Truncate(s.state, inner/3)
	s.help.Width = inner - util.Width(left) - 2
	right := s.help.View(keys)

	if s.help.ShowAll {
		return s.theme.StatusBar.Width(s.width).Render(left + "\n" + right)
	}
	gap := inner - util.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return s.theme.StatusBar.Width(s.width).Render(util.PadRight(left, util.Width(left)+gap) + right)
}
