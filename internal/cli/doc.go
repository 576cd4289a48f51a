// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the thinkpane command line.
//
// Commands:
//
//	thinkpane                       start the chat TUI
//	thinkpane replay [SCRIPT]       print panel transitions for a script
//	thinkpane config [show|path|init]
//
// Persistent flags: --config, --script, --log-file, --debug.
package cli
