// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util holds small helpers shared by the TUI and the CLI.
//
// String helpers measure text in terminal cells (go-runewidth), so labels
// and sidebar titles line up when they contain wide characters. File
// helpers write config files atomically.
//
//	title := util.Truncate(thread.Title, 24)
//	err := util.AtomicWriteFile(path, data, 0o644)
package util
