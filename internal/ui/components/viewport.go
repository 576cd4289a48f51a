// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// wheelLines is how far one mouse wheel step scrolls.
const wheelLines = 3

// =============================================================================
// THREAD VIEWPORT COMPONENT
// =============================================================================

// ThreadViewport is the scrollable message area. It follows new content
// until the user scrolls up and resumes following once they scroll back to
// the bottom.
type ThreadViewport struct {
	viewport   viewport.Model
	autoScroll bool
}

// NewThreadViewport creates an empty viewport.
func NewThreadViewport() *ThreadViewport {
	vp := viewport.New(80, 20)
	vp.Style = lipgloss.NewStyle()
	vp.MouseWheelEnabled = false
	return &ThreadViewport{viewport: vp, autoScroll: true}
}

// SetSize updates the viewport dimensions.
func (tv *ThreadViewport) SetSize(width, height int) {
	tv.viewport.Width = width
	tv.viewport.Height = height
	if tv.autoScroll {
		tv.viewport.GotoBottom()
	}
}

// Width returns the content width.
func (tv *ThreadViewport) Width() int {
	return tv.viewport.Width
}

// SetContent replaces the rendered messages.
func (tv *ThreadViewport) SetContent(content string) {
	tv.viewport.SetContent(content)
	if tv.autoScroll {
		tv.viewport.GotoBottom()
	}
}

// ScrollToBottom jumps to the newest content and resumes following it.
func (tv *ThreadViewport) ScrollToBottom() {
	tv.viewport.GotoBottom()
	tv.autoScroll = true
}

// ScrollUp scrolls up by lines and stops following new content.
func (tv *ThreadViewport) ScrollUp(lines int) {
	tv.viewport.LineUp(lines)
	tv.autoScroll = tv.viewport.AtBottom()
}

// ScrollDown scrolls down by lines.
func (tv *ThreadViewport) ScrollDown(lines int) {
	tv.viewport.LineDown(lines)
	tv.autoScroll = tv.viewport.AtBottom()
}

// AtBottom returns true if the viewport is at the bottom.
func (tv *ThreadViewport) AtBottom() bool {
	return tv.viewport.AtBottom()
}

// Following reports whether new content scrolls into view.
func (tv *ThreadViewport) Following() bool {
	return tv.autoScroll
}

// ScrollPercent returns the scroll position between 0 and 1.
func (tv *ThreadViewport) ScrollPercent() float64 {
	return tv.viewport.ScrollPercent()
}

// Update handles scrolling keys and the mouse wheel.
func (tv *ThreadViewport) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up":
			tv.ScrollUp(1)
		case "down":
			tv.ScrollDown(1)
		case "pgup":
			tv.ScrollUp(tv.viewport.Height)
		case "pgdown":
			tv.ScrollDown(tv.viewport.Height)
		}
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			tv.ScrollUp(wheelLines)
		case tea.MouseButtonWheelDown:
			tv.ScrollDown(wheelLines)
		}
	}
	return nil
}

// View renders the visible lines.
func (tv *ThreadViewport) View() string {
	return tv.viewport.View()
}
