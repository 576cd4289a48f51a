// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/thinkpane/internal/reasoning"
	"github.com/jeranaias/thinkpane/internal/util"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// =============================================================================
// PART TYPE
// =============================================================================

// PartKind distinguishes the pieces of an assistant message.
type PartKind string

const (
	PartReasoning PartKind = "reasoning"
	PartText      PartKind = "text"
)

// Part is a streamed piece of a message. Text grows while Status is
// running and is frozen afterwards.
type Part struct {
	ID     string
	Kind   PartKind
	Status reasoning.Status

	text strings.Builder
}

func newPart(kind PartKind, status reasoning.Status) *Part {
	return &Part{ID: uuid.NewString(), Kind: kind, Status: status}
}

// Text returns the accumulated text.
func (p *Part) Text() string {
	return p.text.String()
}

// Append adds streamed text. Ignored once the part stopped streaming.
func (p *Part) Append(chunk string) {
	if !p.Status.IsStreaming() {
		return
	}
	p.text.WriteString(chunk)
}

// SetText replaces the text regardless of status.
func (p *Part) SetText(text string) {
	p.text.Reset()
	p.text.WriteString(text)
}

// SetStatus records a new streaming status.
func (p *Part) SetStatus(s reasoning.Status) {
	p.Status = s
}

// Restart clears the text and marks the part running again.
func (p *Part) Restart() {
	p.text.Reset()
	p.Status = reasoning.StatusRunning
}

// IsStreaming reports whether the part is still receiving text.
func (p *Part) IsStreaming() bool {
	return p.Status.IsStreaming()
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single turn in a thread. User messages carry one text part;
// assistant messages carry a reasoning part followed by an answer part.
type Message struct {
	ID        string
	Role      Role
	CreatedAt time.Time

	// Turn is the index of the replay turn that produced an assistant
	// message, or -1.
	Turn int

	Parts []*Part
}

// NewUserMessage creates a finished user message.
func NewUserMessage(content string) *Message {
	text := newPart(PartText, reasoning.StatusComplete)
	text.SetText(content)
	return &Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		CreatedAt: time.Now(),
		Turn:      -1,
		Parts:     []*Part{text},
	}
}

// NewAssistantMessage creates an assistant message for a turn with a
// running reasoning part and an empty answer.
func NewAssistantMessage(turn int) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		CreatedAt: time.Now(),
		Turn:      turn,
		Parts: []*Part{
			newPart(PartReasoning, reasoning.StatusRunning),
			newPart(PartText, reasoning.StatusRunning),
		},
	}
}

// NewSystemMessage creates a finished system notice.
func NewSystemMessage(content string) *Message {
	m := NewUserMessage(content)
	m.Role = RoleSystem
	return m
}

// Reasoning returns the reasoning part, or nil.
func (m *Message) Reasoning() *Part {
	return m.partOf(PartReasoning)
}

// Answer returns the first text part, or nil.
func (m *Message) Answer() *Part {
	return m.partOf(PartText)
}

func (m *Message) partOf(kind PartKind) *Part {
	for _, p := range m.Parts {
		if p.Kind == kind {
			return p
		}
	}
	return nil
}

// Part returns the part with the given ID, or nil.
func (m *Message) Part(id string) *Part {
	for _, p := range m.Parts {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Content returns the answer text.
func (m *Message) Content() string {
	if a := m.Answer(); a != nil {
		return a.Text()
	}
	return ""
}

// IsStreaming reports whether any part is still streaming.
func (m *Message) IsStreaming() bool {
	for _, p := range m.Parts {
		if p.IsStreaming() {
			return true
		}
	}
	return false
}

// Restart resets every part for a regenerated answer. Part IDs are kept so
// panels keyed by them see a new streaming cycle rather than a new mount.
func (m *Message) Restart() {
	for _, p := range m.Parts {
		p.Restart()
	}
}

// Preview returns the first line of the content cut to maxWidth cells.
func (m *Message) Preview(maxWidth int) string {
	return util.Truncate(util.FirstLine(m.Content()), maxWidth)
}
