// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/thinkpane/internal/ui/components"
	"github.com/jeranaias/thinkpane/internal/ui/styles"
)

// composerHeight is the rendered height of the input box.
const composerHeight = 2

// =============================================================================
// LAYOUT
// =============================================================================

// mainWidth returns the width left for the conversation.
func (m *Model) mainWidth() int {
	if m.sidebarVisible() {
		return m.width - components.SidebarWidth
	}
	return m.width
}

func (m *Model) sidebarVisible() bool {
	return m.showSidebar && m.theme.GetLayoutMode() != styles.LayoutNarrow
}

// layout sizes every component for the current window.
func (m *Model) layout() {
	mainW := m.mainWidth()
	m.statusBar.SetWidth(m.width)
	statusH := lipgloss.Height(m.statusBar.View(m.keyMap))

	vpH := m.height - statusH - composerHeight - m.toasts.Len()
	if vpH < 1 {
		vpH = 1
	}
	m.viewport.SetSize(mainW, vpH)
	m.welcome.SetSize(mainW, vpH)
	m.sidebar.SetHeight(m.height - statusH)

	inputW := mainW - m.theme.Composer.GetHorizontalFrameSize() - lipgloss.Width(m.input.Prompt) - 1
	if inputW < 1 {
		inputW = 1
	}
	m.input.Width = inputW
}

// refresh lays out the view and re-renders the conversation into the
// viewport.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.layout()
	m.statusBar.SetState(m.stateSummary())
	m.viewport.SetContent(m.renderMessages(m.mainWidth()))
}

// =============================================================================
// RENDERING
// =============================================================================

// renderMessages renders the active thread. Assistant messages carry
// their reasoning panel.
func (m *Model) renderMessages(width int) string {
	msgs := m.threads.Active().Messages
	blocks := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		var panel *components.ReasoningPanel
		if r := msg.Reasoning(); r != nil {
			panel = m.panels[r.ID]
		}
		b := components.NewMessageBubble(msg, panel, m.theme, m.markdown)
		b.SetWidth(width)
		blocks = append(blocks, b.View())
	}
	return strings.Join(blocks, "\n\n")
}

// View renders the chat screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	mainW := m.mainWidth()
	var main []string
	if m.threads.Active().IsEmpty() {
		main = append(main, m.welcome.View())
	} else {
		main = append(main, m.viewport.View())
	}
	if toasts := components.RenderToasts(m.toasts.All(), m.theme, mainW); toasts != "" {
		main = append(main, toasts)
	}
	main = append(main, m.theme.Composer.Width(mainW-m.theme.Composer.GetHorizontalBorderSize()).Render(m.input.View()))

	body := lipgloss.JoinVertical(lipgloss.Left, main...)
	if m.sidebarVisible() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(m.threads, m.now()), body)
	}

	full := lipgloss.JoinVertical(lipgloss.Left, body, m.statusBar.View(m.keyMap))
	if m.zones != nil {
		return m.zones.Scan(full)
	}
	return full
}
