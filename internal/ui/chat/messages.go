// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/thinkpane/internal/config"
	"github.com/jeranaias/thinkpane/internal/replay"
)

// =============================================================================
// STREAMING MESSAGES
// =============================================================================

// StreamEventMsg delivers one replay update for a part of a thread.
type StreamEventMsg struct {
	ThreadID string
	Event    replay.Event
}

// StreamDoneMsg signals that a turn finished playing. Err is
// context.Canceled when the user stopped it.
type StreamDoneMsg struct {
	ThreadID  string
	MessageID string
	Err       error
}

// =============================================================================
// SCHEDULER MESSAGES
// =============================================================================

// dispatchMsg carries a timer callback onto the event loop.
type dispatchMsg struct {
	fn func()
}

// =============================================================================
// CONFIG MESSAGES
// =============================================================================

// ConfigReloadedMsg delivers a configuration reloaded from disk, or the
// error that prevented it.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}
