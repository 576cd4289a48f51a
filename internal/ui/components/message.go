// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/thinkpane/internal/model"
	"github.com/jeranaias/thinkpane/internal/reasoning"
	"github.com/jeranaias/thinkpane/internal/ui/styles"
	"github.com/jeranaias/thinkpane/internal/util"
)

// AnswerStopped replaces an answer that ended in error before any text.
const AnswerStopped = "Response stopped before an answer was produced."

// streamingCursor trails an answer that is still streaming.
const streamingCursor = "_"

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one message. Assistant messages show their
// reasoning panel above the answer.
type MessageBubble struct {
	Message *model.Message
	Panel   *ReasoningPanel
	Width   int

	theme *styles.Theme
	md    *Markdown
}

// NewMessageBubble creates a bubble. panel may be nil for messages without
// reasoning.
func NewMessageBubble(msg *model.Message, panel *ReasoningPanel, theme *styles.Theme, md *Markdown) *MessageBubble {
	return &MessageBubble{
		Message: msg,
		Panel:   panel,
		Width:   80,
		theme:   theme,
		md:      md,
	}
}

// SetWidth sets the bubble width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	switch b.Message.Role {
	case model.RoleUser:
		return b.renderUserBubble()
	case model.RoleAssistant:
		return b.renderAssistantBubble()
	default:
		return b.renderSystemBubble()
	}
}

// ==========================================================================
// USER BUBBLE
// ==========================================================================

func (b *MessageBubble) renderUserBubble() string {
	content := b.Message.Content()
	if util.IsBlank(content) {
		content = "..."
	}

	maxContentWidth := b.Width - b.theme.UserBubble.GetHorizontalFrameSize()
	if maxContentWidth < 10 {
		maxContentWidth = 10
	}
	wrapped := wordWrap(content, maxContentWidth)

	header := b.renderHeader()
	bubble := b.theme.UserBubble.Render(wrapped)
	return lipgloss.JoinVertical(lipgloss.Left, header, bubble)
}

// ==========================================================================
// ASSISTANT BUBBLE
// ==========================================================================

func (b *MessageBubble) renderAssistantBubble() string {
	inner := b.Width - b.theme.AssistantBubble.GetHorizontalFrameSize()
	if inner < 10 {
		inner = 10
	}

	var sections []string
	if b.Panel != nil {
		b.Panel.SetWidth(inner)
		sections = append(sections, b.Panel.View())
	}
	if answer := b.renderAnswer(inner); answer != "" {
		sections = append(sections, answer)
	}

	body := b.theme.AssistantBubble.Render(strings.Join(sections, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, b.renderHeader(), body)
}

// renderAnswer returns the answer text. Nothing is drawn while the model
// is still thinking.
func (b *MessageBubble) renderAnswer(width int) string {
	answer := b.Message.Answer()
	if answer == nil {
		return ""
	}
	text := answer.Text()

	switch {
	case answer.Status == reasoning.StatusError && util.IsBlank(text):
		return b.theme.AnswerFailed.Render(AnswerStopped)
	case answer.IsStreaming():
		if util.IsBlank(text) {
			return ""
		}
		// Partial markdown reflows as it grows; keep it plain until done.
		return wordWrap(text, width) + streamingCursor
	case b.md != nil:
		return b.md.Render(text, width)
	default:
		return wordWrap(text, width)
	}
}

// ==========================================================================
// SYSTEM BUBBLE
// ==========================================================================

func (b *MessageBubble) renderSystemBubble() string {
	content := b.Message.Content()
	if util.IsBlank(content) {
		content = "System message"
	}
	return b.theme.SystemBubble.Render(wordWrap(content, b.Width))
}

// renderHeader renders the role and the time the message was created.
func (b *MessageBubble) renderHeader() string {
	role := b.theme.RoleLabel.Render(b.Message.Role.DisplayName())
	if b.Message.CreatedAt.IsZero() {
		return role
	}
	stamp := b.theme.SidebarMeta.UnsetPaddingLeft().Render(b.Message.CreatedAt.Format("15:04"))
	return role + " " + stamp
}

// ==========================================================================
// UTILITY FUNCTIONS
// ==========================================================================

// wordWrap wraps text on word boundaries to fit within width cells. Words
// longer than width are left whole.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	for lineIdx, line := range strings.Split(text, "\n") {
		if lineIdx > 0 {
			result.WriteString("\n")
		}

		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		current := words[0]
		for _, word := range words[1:] {
			if util.Width(current)+1+util.Width(word) <= width {
				current += " " + word
			} else {
				result.WriteString(current)
				result.WriteString("\n")
				current = word
			}
		}
		result.WriteString(current)
	}
	return result.String()
}
