// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/thinkpane/internal/replay"
)

// =============================================================================
// TURN PLAYBACK
// =============================================================================

// playTurnCmd plays one scripted turn. Updates are pushed through d while
// the turn runs; the returned StreamDoneMsg arrives after the last of them.
func playTurnCmd(ctx context.Context, player *replay.Player, d *Dispatcher, threadID string, turn int, target replay.Target) tea.Cmd {
	return func() tea.Msg {
		err := player.Play(ctx, turn, target, func(ev replay.Event) {
			d.Send(StreamEventMsg{ThreadID: threadID, Event: ev})
		})
		return StreamDoneMsg{ThreadID: threadID, MessageID: target.MessageID, Err: err}
	}
}
