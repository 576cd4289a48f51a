// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the in-memory data structures for threads and
// messages.
//
// # Key Types
//
//   - Thread: an ordered list of messages with a title and timestamps
//   - Message: one user or assistant turn, made of parts
//   - Part: a reasoning trace or an answer, with its own streaming status
//   - ThreadList: the threads shown in the sidebar and the active one
//
// # Usage
//
//	threads := model.NewThreadList()
//	th := threads.Active()
//	th.AddUserMessage("Plan a weekend in Lisbon")
//	msg := th.AddAssistantMessage(0)
//	msg.Reasoning().Append("step one...")
//	msg.Reasoning().SetStatus(reasoning.StatusComplete)
//
// Nothing here is persisted.
package model
