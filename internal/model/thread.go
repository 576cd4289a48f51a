// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// MaxMessages caps a thread's history. Older messages are pruned first.
const MaxMessages = 500

// DefaultTitle is shown for threads without a user message.
const DefaultTitle = "New Thread"

// =============================================================================
// THREAD TYPE
// =============================================================================

// Thread holds one conversation.
type Thread struct {
	ID        string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time

	Messages []*Message

	// NextTurn is the replay turn the next prompt plays.
	NextTurn int
}

// NewThread creates an empty thread.
func NewThread() *Thread {
	now := time.Now()
	return &Thread{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddMessage appends msg and returns any messages pruned to stay within
// MaxMessages. Callers release resources tied to the pruned messages.
func (t *Thread) AddMessage(msg *Message) []*Message {
	t.Messages = append(t.Messages, msg)
	t.Touch()
	t.updateTitle()
	return t.prune()
}

// AddUserMessage creates and adds a user message.
func (t *Thread) AddUserMessage(content string) *Message {
	msg := NewUserMessage(content)
	t.AddMessage(msg)
	return msg
}

// AddAssistantMessage creates and adds a streaming assistant message for turn.
func (t *Thread) AddAssistantMessage(turn int) *Message {
	msg := NewAssistantMessage(turn)
	t.AddMessage(msg)
	return msg
}

// Touch bumps UpdatedAt.
func (t *Thread) Touch() {
	t.UpdatedAt = time.Now()
}

// LastAssistant returns the most recent assistant message, or nil.
func (t *Thread) LastAssistant() *Message {
	for i := len(t.Messages) - 1; i >= 0; i-- {
		if t.Messages[i].Role == RoleAssistant {
			return t.Messages[i]
		}
	}
	return nil
}

// Message returns the message with the given ID, or nil.
func (t *Thread) Message(id string) *Message {
	for _, m := range t.Messages {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// FindPart locates a part by ID across all messages.
func (t *Thread) FindPart(id string) (*Message, *Part) {
	for _, m := range t.Messages {
		if p := m.Part(id); p != nil {
			return m, p
		}
	}
	return nil, nil
}

// RemoveMessage removes a message by ID and returns it.
func (t *Thread) RemoveMessage(id string) (*Message, bool) {
	for i, m := range t.Messages {
		if m.ID == id {
			t.Messages = append(t.Messages[:i], t.Messages[i+1:]...)
			t.Touch()
			return m, true
		}
	}
	return nil, false
}

// IsEmpty reports whether the thread has no messages.
func (t *Thread) IsEmpty() bool {
	return len(t.Messages) == 0
}

// IsStreaming reports whether any message is still streaming.
func (t *Thread) IsStreaming() bool {
	for _, m := range t.Messages {
		if m.IsStreaming() {
			return true
		}
	}
	return false
}

// DisplayTitle returns the title or DefaultTitle.
func (t *Thread) DisplayTitle() string {
	if t.Title != "" {
		return t.Title
	}
	return DefaultTitle
}

// Age describes UpdatedAt relative to now, e.g. "3 minutes ago".
func (t *Thread) Age(now time.Time) string {
	if now.Sub(t.UpdatedAt) < time.Second {
		return "just now"
	}
	return humanize.RelTime(t.UpdatedAt, now, "ago", "from now")
}

// updateTitle derives a title from the first user message if not set.
func (t *Thread) updateTitle() {
	if t.Title != "" {
		return
	}
	for _, m := range t.Messages {
		if m.Role == RoleUser {
			t.Title = m.Preview(40)
			return
		}
	}
}

func (t *Thread) prune() []*Message {
	if len(t.Messages) <= MaxMessages {
		return nil
	}
	cut := len(t.Messages) - MaxMessages
	pruned := make([]*Message, cut)
	copy(pruned, t.Messages[:cut])
	t.Messages = append([]*Message(nil), t.Messages[cut:]...)
	return pruned
}

// =============================================================================
// THREAD LIST
// =============================================================================

// ThreadList is the ordered set of threads and the active selection.
// Newest threads come first. It always holds at least one thread.
type ThreadList struct {
	threads []*Thread
	active  int
}

// NewThreadList creates a list with one empty thread.
func NewThreadList() *ThreadList {
	return &ThreadList{threads: []*Thread{NewThread()}}
}

// All returns the threads in display order.
func (l *ThreadList) All() []*Thread {
	return l.threads
}

// Len returns the number of threads.
func (l *ThreadList) Len() int {
	return len(l.threads)
}

// Active returns the selected thread.
func (l *ThreadList) Active() *Thread {
	return l.threads[l.active]
}

// ActiveIndex returns the position of the selected thread.
func (l *ThreadList) ActiveIndex() int {
	return l.active
}

// New prepends an empty thread and selects it.
func (l *ThreadList) New() *Thread {
	t := NewThread()
	l.threads = append([]*Thread{t}, l.threads...)
	l.active = 0
	return t
}

// Select makes the thread with the given ID active.
func (l *ThreadList) Select(id string) bool {
	for i, t := range l.threads {
		if t.ID == id {
			l.active = i
			return true
		}
	}
	return false
}

// Move shifts the selection by delta, wrapping around.
func (l *ThreadList) Move(delta int) *Thread {
	n := len(l.threads)
	l.active = ((l.active+delta)%n + n) % n
	return l.Active()
}

// Delete removes the thread with the given ID and returns it. Deleting the
// last thread replaces it with a fresh one.
func (l *ThreadList) Delete(id string) (*Thread, bool) {
	for i, t := range l.threads {
		if t.ID != id {
			continue
		}
		l.threads = append(l.threads[:i], l.threads[i+1:]...)
		if len(l.threads) == 0 {
			l.threads = []*Thread{NewThread()}
		}
		if l.active >= i && l.active > 0 {
			l.active--
		}
		return t, true
	}
	return nil, false
}
