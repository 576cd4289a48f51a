// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the visual building blocks of the thinkpane TUI.

Components are built on Bubble Tea and Lip Gloss and take their colours from
a styles.Theme. None of them own goroutines; they are driven from the chat
model's Update loop.

# Reasoning Panel

ReasoningPanel (reasoning.go) draws a reasoning.Panel. ReasoningTrigger
renders the clickable trigger line and ReasoningContent renders the body.
Both take the same *ReasoningPanel, so they always agree on open state and
status. The body is only rendered while the panel is open.

# Display Components

MessageBubble (message.go) - user, assistant and system messages.
Sidebar (sidebar.go) - thread list.
StatusBar (statusbar.go) - state summary and key help.
Welcome (welcome.go) - empty thread screen.
ThreadViewport (viewport.go) - scrollable message area.

# Feedback

Spinner (spinner.go) - animates streaming triggers.
Toasts (toast.go) - short-lived info and error notices.
Markdown (markdown.go) - glamour rendering with per-width caching.
*/
package components
