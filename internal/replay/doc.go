// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package replay plays scripted conversations as a stream of part updates.
//
// A Script is a list of turns, each with a prompt, a reasoning trace split
// into chunks, a final status and an answer. Scripts are loaded from YAML
// or TOML. A Player walks a turn and emits Events carrying the full text of
// a part so far and its status, which is exactly what a reasoning panel
// consumes. Tokens are paced with a rate limiter against an injectable
// Clock, so the same player runs in real time in the TUI and on a virtual
// clock in tests and simulated replays.
//
//	script, err := replay.Load("lisbon.yaml")
//	player := replay.NewPlayer(script, reasoning.SystemClock{}, 40)
//	err = player.Play(ctx, 0, msg, func(ev replay.Event) { ... })
package replay
