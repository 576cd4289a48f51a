// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the chat interface.
type KeyMap struct {
	Submit     key.Binding
	Cancel     key.Binding
	FocusNext  key.Binding
	FocusPrev  key.Binding
	Toggle     key.Binding
	Copy       key.Binding
	Regenerate key.Binding
	Sidebar    key.Binding
	NewThread  key.Binding
	PrevThread key.Binding
	NextThread key.Binding
	Delete     key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default key bindings for the chat interface.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "stop response"),
		),
		FocusNext: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next reasoning"),
		),
		FocusPrev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev reasoning"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "show/hide reasoning"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("C-y", "copy reasoning"),
		),
		Regenerate: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "regenerate"),
		),
		Sidebar: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("C-b", "sidebar"),
		),
		NewThread: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("C-n", "new thread"),
		),
		PrevThread: key.NewBinding(
			key.WithKeys("ctrl+up", "alt+up"),
			key.WithHelp("C-up", "prev thread"),
		),
		NextThread: key.NewBinding(
			key.WithKeys("ctrl+down", "alt+down"),
			key.WithHelp("C-down", "next thread"),
		),
		Delete: key.NewBinding(
			key.WithKeys("ctrl+w"),
			key.WithHelp("C-w", "delete thread"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("up", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("down", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "page down"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
	}
}

// =============================================================================
// KEY BINDING HELPERS
// =============================================================================

// ShortHelp returns the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.FocusNext, k.Toggle, k.Help, k.Quit}
}

// FullHelp returns every binding, grouped by purpose.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Reasoning
		{k.FocusNext, k.FocusPrev, k.Toggle, k.Copy},
		// Conversation
		{k.Submit, k.Cancel, k.Regenerate},
		// Threads
		{k.Sidebar, k.NewThread, k.PrevThread, k.NextThread, k.Delete},
		// Scrolling
		{k.ScrollUp, k.ScrollDown, k.PageUp, k.PageDown},
		{k.Help, k.Quit},
	}
}
