// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/thinkpane/internal/model"
	"github.com/jeranaias/thinkpane/internal/ui/styles"
	"github.com/jeranaias/thinkpane/internal/util"
)

// SidebarWidth is the sidebar's width including its border.
const SidebarWidth = 28

// =============================================================================
// THREAD SIDEBAR
// =============================================================================

// Sidebar lists the in-memory threads, newest first, with the active one
// highlighted.
type Sidebar struct {
	theme  *styles.Theme
	height int
}

// NewSidebar creates a sidebar.
func NewSidebar(theme *styles.Theme) *Sidebar {
	return &Sidebar{theme: theme}
}

// SetHeight sets the number of rows available.
func (s *Sidebar) SetHeight(height int) {
	s.height = height
}

// View renders threads as of now.
func (s *Sidebar) View(threads *model.ThreadList, now time.Time) string {
	t := s.theme
	box := SidebarWidth - t.Sidebar.GetHorizontalBorderSize()
	inner := box - t.Sidebar.GetHorizontalPadding()
	itemWidth := inner - t.SidebarItem.GetHorizontalFrameSize()

	lines := []string{t.SidebarTitle.Render("Threads")}
	active := threads.Active()
	for _, th := range threads.All() {
		title := util.Truncate(th.DisplayTitle(), itemWidth)
		meta := th.Age(now)
		if th.IsStreaming() {
			meta = "streaming"
		}

		style := t.SidebarItem
		if th == active {
			style = t.SidebarItemActive
		}
		lines = append(lines,
			style.Width(inner).Render(title),
			t.SidebarMeta.Render(util.Truncate(meta, itemWidth)),
		)
	}

	content := strings.Join(lines, "\n")
	style := t.Sidebar.Width(box)
	if s.height > 0 {
		// Height excludes the border; keep the rule the full height.
		content = lipgloss.NewStyle().MaxHeight(s.height).Render(content)
		style = style.Height(s.height)
	}
	return style.Render(content)
}
