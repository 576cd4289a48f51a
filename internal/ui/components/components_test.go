// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/thinkpane/internal/model"
	"github.com/jeranaias/thinkpane/internal/reasoning"
)

// =============================================================================
// SPINNER TESTS
// =============================================================================

func TestSpinner_StartStop(t *testing.T) {
	s := NewSpinner(lipgloss.NewStyle())
	assert.False(t, s.IsActive())
	assert.Empty(t, s.View())

	require.NotNil(t, s.Start())
	assert.Nil(t, s.Start(), "second start must not schedule another tick")
	assert.True(t, s.IsActive())
	assert.Equal(t, ".  ", s.View())

	s.Stop()
	assert.False(t, s.IsActive())
	assert.Empty(t, s.View())
}

func TestSpinner_IgnoresTicksWhenStopped(t *testing.T) {
	s := NewSpinner(lipgloss.NewStyle())
	tick := s.spinner.Tick()

	s, cmd := s.Update(tick)
	assert.Nil(t, cmd)
	assert.Empty(t, s.View())
}

// =============================================================================
// MARKDOWN TESTS
// =============================================================================

func TestNewMarkdown_Style(t *testing.T) {
	tests := []struct {
		style string
		dark  bool
		want  string
	}{
		{"auto", true, "dark"},
		{"auto", false, "light"},
		{"", true, "dark"},
		{"Dracula", false, "dracula"},
	}
	for _, tt := range tests {
		t.Run(tt.style, func(t *testing.T) {
			assert.Equal(t, tt.want, NewMarkdown(tt.style, tt.dark, 80, nil).Style())
		})
	}
}

func TestMarkdown_Reconfigure(t *testing.T) {
	md := NewMarkdown("auto", true, 80, nil)
	require.NotEmpty(t, md.Render("warm up", 60))
	require.Len(t, md.renderers, 1)

	md.Reconfigure("auto", false, 40)
	assert.Equal(t, "light", md.Style())
	assert.Equal(t, 40, md.wrap)
	assert.Empty(t, md.renderers)
}

func TestMarkdown_Render(t *testing.T) {
	md := NewMarkdown("dark", true, 60, nil)

	assert.Empty(t, md.Render("  \n", 40))

	out := md.Render("- trams\n- ferries", 200)
	assert.Contains(t, out, "trams")
	assert.Contains(t, out, "ferries")
	assert.False(t, strings.HasPrefix(out, "\n"))
	assert.False(t, strings.HasSuffix(out, "\n"))

	md.Render("again", 200)
	md.Render("narrow", 5)
	assert.Len(t, md.renderers, 2, "widths are clamped before caching")
}

// =============================================================================
// MESSAGE BUBBLE TESTS
// =============================================================================

func TestMessageBubble_User(t *testing.T) {
	msg := model.NewUserMessage("Plan a weekend in Lisbon")
	b := NewMessageBubble(msg, nil, testTheme(), nil)
	b.SetWidth(60)

	view := b.View()
	assert.Contains(t, view, "You")
	assert.Contains(t, view, "Plan a weekend in Lisbon")
}

func TestMessageBubble_System(t *testing.T) {
	b := NewMessageBubble(model.NewSystemMessage(""), nil, testTheme(), nil)
	assert.Contains(t, b.View(), "System message")
}

func TestMessageBubble_AssistantStates(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*model.Message)
		contains []string
		excludes []string
	}{
		{
			name:     "thinking",
			setup:    func(*model.Message) {},
			contains: []string{"Assistant", "Thinking..."},
			excludes: []string{streamingCursor, AnswerStopped},
		},
		{
			name: "answer streaming",
			setup: func(m *model.Message) {
				m.Reasoning().SetStatus(reasoning.StatusComplete)
				m.Answer().Append("Start at Belem")
			},
			contains: []string{"Start at Belem" + streamingCursor},
		},
		{
			name: "answer done",
			setup: func(m *model.Message) {
				m.Reasoning().SetStatus(reasoning.StatusComplete)
				m.Answer().Append("Start at Belem")
				m.Answer().SetStatus(reasoning.StatusComplete)
			},
			contains: []string{"Start at Belem"},
			excludes: []string{streamingCursor},
		},
		{
			name: "stopped",
			setup: func(m *model.Message) {
				m.Reasoning().SetStatus(reasoning.StatusError)
				m.Answer().SetStatus(reasoning.StatusError)
			},
			contains: []string{AnswerStopped},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := model.NewAssistantMessage(0)
			tt.setup(msg)

			clock := reasoning.NewManualClock(testEpoch)
			core := reasoning.New(msg.Reasoning().ID, reasoning.WithClock(clock), reasoning.WithScheduler(clock))
			panel := NewReasoningPanel(core, testTheme(), nil, nil)
			defer panel.Close()
			panel.Sync(msg.Reasoning().Text(), msg.Reasoning().Status)

			b := NewMessageBubble(msg, panel, testTheme(), nil)
			b.SetWidth(70)
			view := b.View()
			for _, want := range tt.contains {
				assert.Contains(t, view, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, view, unwanted)
			}
		})
	}
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"fits", "a b c", 10, "a b c"},
		{"wraps", "alpha beta gamma", 10, "alpha beta\ngamma"},
		{"keeps newlines", "one\n\ntwo", 10, "one\n\ntwo"},
		{"long word", "supercalifragilistic", 5, "supercalifragilistic"},
		{"no width", "a b", 0, "a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wordWrap(tt.text, tt.width))
		})
	}
}

// =============================================================================
// TOAST TESTS
// =============================================================================

func TestToasts_Lifecycle(t *testing.T) {
	toasts := NewToasts()
	now := testEpoch

	toasts.Info("copied", now)
	toasts.Error("config reload failed", now)
	require.Equal(t, 2, toasts.Len())
	assert.Equal(t, ToastError, toasts.All()[0].Kind, "newest first")

	assert.True(t, toasts.Tick(now.Add(InfoToastDuration)))
	require.Equal(t, 1, toasts.Len())
	assert.Equal(t, "config reload failed", toasts.All()[0].Message)

	assert.False(t, toasts.Tick(now.Add(ErrorToastDuration)))
	assert.Zero(t, toasts.Len())
}

func TestToasts_Cap(t *testing.T) {
	toasts := NewToasts()
	for i := 0; i < maxToasts+2; i++ {
		toasts.Info("note", testEpoch)
	}
	assert.Equal(t, maxToasts, toasts.Len())
	assert.Equal(t, maxToasts+2, toasts.All()[0].ID)
}

func TestRenderToasts(t *testing.T) {
	assert.Empty(t, RenderToasts(nil, testTheme(), 40))

	toasts := NewToasts()
	toasts.Error("first line\nsecond line", testEpoch)
	out := RenderToasts(toasts.All(), testTheme(), 40)
	assert.Contains(t, out, "[!] first line")
	assert.NotContains(t, out, "second line")
}

// =============================================================================
// SIDEBAR TESTS
// =============================================================================

func TestSidebar_View(t *testing.T) {
	threads := model.NewThreadList()
	first := threads.Active()
	first.AddUserMessage("Plan a weekend in Lisbon")
	second := threads.New()
	second.AddAssistantMessage(0)

	s := NewSidebar(testTheme())
	s.SetHeight(10)
	view := s.View(threads, time.Now())

	assert.Contains(t, view, "Threads")
	assert.Contains(t, view, "Plan a weekend")
	assert.Contains(t, view, "streaming")
	assert.Equal(t, 10, lipgloss.Height(view))
	assert.Equal(t, SidebarWidth, lipgloss.Width(view))
}

// =============================================================================
// STATUS BAR TESTS
// =============================================================================

type testKeys struct{ toggle, quit key.Binding }

func (k testKeys) ShortHelp() []key.Binding  { return []key.Binding{k.toggle, k.quit} }
func (k testKeys) FullHelp() [][]key.Binding { return [][]key.Binding{{k.toggle}, {k.quit}} }

func TestStatusBar_View(t *testing.T) {
	keys := testKeys{
		toggle: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "reasoning")),
		quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
	bar := NewStatusBar(testTheme())
	bar.SetWidth(80)
	bar.SetState("Thinking")

	view := bar.View(keys)
	assert.Contains(t, view, "Thinking")
	assert.Contains(t, view, "ctrl+t")
	assert.Equal(t, 80, lipgloss.Width(view))

	bar.SetShowAll(true)
	assert.True(t, bar.ShowAll())
	assert.Contains(t, bar.View(keys), "quit")
}

// =============================================================================
// WELCOME TESTS
// =============================================================================

func TestWelcome_View(t *testing.T) {
	w := NewWelcome(testTheme())
	w.SetVersion("v1.2.0")
	w.SetScript("Planning a trip", 4)
	w.SetSize(60, 16)

	view := w.View()
	assert.Contains(t, view, "thinkpane")
	assert.Contains(t, view, "v1.2.0")
	assert.Contains(t, view, "Script: Planning a trip")
	assert.Contains(t, view, "4 scripted turns")
	assert.Contains(t, view, "ctrl+t")
	assert.Equal(t, 16, lipgloss.Height(view))
}

// =============================================================================
// VIEWPORT TESTS
// =============================================================================

func TestThreadViewport_Follow(t *testing.T) {
	tv := NewThreadViewport()
	tv.SetSize(20, 3)

	lines := make([]string, 10)
	for i := range lines {
		lines[i] = strings.Repeat("x", i+1)
	}
	tv.SetContent(strings.Join(lines, "\n"))
	assert.True(t, tv.AtBottom())
	assert.True(t, tv.Following())

	tv.Update(tea.KeyMsg{Type: tea.KeyPgUp})
	assert.False(t, tv.Following())

	tv.SetContent(strings.Join(append(lines, "new"), "\n"))
	assert.NotContains(t, tv.View(), "new", "does not jump while scrolled up")

	tv.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	tv.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	assert.True(t, tv.Following())

	tv.ScrollUp(1)
	tv.ScrollToBottom()
	assert.Contains(t, tv.View(), "new")
}
