// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the conversation screen of the thinkpane TUI.

The Model keeps a list of threads, plays scripted turns into them and owns
one reasoning panel per reasoning part. A panel is mounted when its part
first appears and closed when the message is pruned, the thread is
deleted or the program quits.

# Event flow

Turns play on a command goroutine. Every replay update is pushed onto the
event loop as a StreamEventMsg through the Dispatcher, and a StreamDoneMsg
follows the last update. Auto-close timers of the panels fire on the timer
goroutine and are handed back the same way, so panel state is only ever
touched inside Update.

# Keyboard

	enter         send the composer text
	esc           stop the playing turn
	tab/shift+tab move focus between reasoning panels
	ctrl+t        toggle the focused (or newest) panel
	ctrl+y        copy its reasoning
	ctrl+r        replay the last answer
	ctrl+n        new thread
	ctrl+w        delete thread
	ctrl+b        show or hide the thread list

Clicking a trigger toggles its panel when a bubblezone manager is set.
*/
package chat
