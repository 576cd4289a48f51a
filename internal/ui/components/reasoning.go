// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/jeranaias/thinkpane/internal/reasoning"
	"github.com/jeranaias/thinkpane/internal/ui/styles"
	"github.com/jeranaias/thinkpane/internal/util"
)

// =============================================================================
// REASONING PANEL
// =============================================================================

// ReasoningPanel draws a reasoning.Panel as a clickable trigger line and a
// collapsible body. The trigger and the body share the panel handle.
type ReasoningPanel struct {
	panel   *reasoning.Panel
	theme   *styles.Theme
	zones   *zone.Manager
	md      *Markdown
	spinner Spinner
	focused bool
	width   int

	// Body cache. The body is only rendered when the panel is open.
	body      string
	bodyText  string
	bodyWidth int
	bodyLive  bool
	bodyValid bool
}

// NewReasoningPanel wraps panel for display. zones may be nil, in which case
// the trigger is not clickable. md may be nil to show the trace as plain
// text.
func NewReasoningPanel(panel *reasoning.Panel, theme *styles.Theme, zones *zone.Manager, md *Markdown) *ReasoningPanel {
	return &ReasoningPanel{
		panel:   panel,
		theme:   theme,
		zones:   zones,
		md:      md,
		spinner: NewSpinner(theme.Spinner),
		width:   80,
	}
}

// Restyle drops the cached body and re-reads the spinner style. Call it
// after the theme or the markdown renderer was reconfigured.
func (p *ReasoningPanel) Restyle() {
	p.bodyValid = false
	p.spinner.SetStyle(p.theme.Spinner)
}

// Panel returns the underlying state machine.
func (p *ReasoningPanel) Panel() *reasoning.Panel {
	return p.panel
}

// ZoneID is the bubblezone ID of the trigger line.
func (p *ReasoningPanel) ZoneID() string {
	return "reasoning-" + p.panel.ID()
}

// Sync pushes a streaming update into the panel and starts or stops the
// spinner to match.
func (p *ReasoningPanel) Sync(text string, status reasoning.Status) tea.Cmd {
	p.panel.Update(text, status)
	if p.panel.Streaming() {
		return p.spinner.Start()
	}
	p.spinner.Stop()
	return nil
}

// Update advances the spinner. Ticks for other spinners are ignored.
func (p *ReasoningPanel) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.spinner, cmd = p.spinner.Update(msg)
	return cmd
}

// HandleClick toggles the panel when msg is a left click on its trigger.
// It reports whether the click landed on the trigger.
func (p *ReasoningPanel) HandleClick(msg tea.MouseMsg) bool {
	if p.zones == nil {
		return false
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return false
	}
	if !p.zones.Get(p.ZoneID()).InBounds(msg) {
		return false
	}
	p.panel.Toggle()
	return true
}

// Toggle flips the panel as a user action.
func (p *ReasoningPanel) Toggle() bool {
	return p.panel.Toggle()
}

// Close releases the panel's pending auto-close and stops the spinner.
func (p *ReasoningPanel) Close() {
	p.spinner.Stop()
	p.panel.Close()
}

// SetFocused marks the panel as the keyboard target.
func (p *ReasoningPanel) SetFocused(focused bool) {
	p.focused = focused
}

// Focused reports whether the panel is the keyboard target.
func (p *ReasoningPanel) Focused() bool {
	return p.focused
}

// SetWidth sets the available width in cells.
func (p *ReasoningPanel) SetWidth(width int) {
	p.width = width
}

// Hidden reports whether the body is collapsed out of the view.
func (p *ReasoningPanel) Hidden() bool {
	return !p.panel.Open()
}

// View renders the trigger and, when open, the body.
func (p *ReasoningPanel) View() string {
	trigger := ReasoningTrigger(p)
	if p.Hidden() {
		return trigger
	}
	return trigger + "\n" + ReasoningContent(p)
}

// =============================================================================
// SUB-CONTROLS
// =============================================================================

// ReasoningTrigger renders the one-line toggle: icon, label, spinner while
// streaming and a chevron. It panics if p has no panel.
func ReasoningTrigger(p *ReasoningPanel) string {
	if p == nil || p.panel == nil {
		panic("components: ReasoningTrigger rendered without a reasoning panel")
	}
	t := p.theme
	streaming := p.panel.Streaming()

	icon := t.Icons.Thought
	switch {
	case streaming:
		icon = t.Icons.Thinking
	case p.panel.Status() == reasoning.StatusError:
		icon = t.Icons.Failed
	}
	chevron := t.Icons.ChevronClosed
	if p.panel.Open() {
		chevron = t.Icons.ChevronOpen
	}
	spin := p.spinner.View()

	// Leave room for the icon, chevron, spinner and separating spaces.
	room := p.width - util.Width(icon) - util.Width(chevron) - 2
	if spin != "" {
		room -= util.Width(spin) + 1
	}
	label := util.Truncate(p.panel.Label(), room)

	labelStyle := t.ReasoningLabel
	if streaming {
		labelStyle = t.ReasoningLabelStreaming
	}

	parts := []string{icon, labelStyle.Render(label)}
	if spin != "" {
		parts = append(parts, spin)
	}
	parts = append(parts, t.ReasoningChevron.Render(chevron))
	line := strings.Join(parts, " ")

	style := t.ReasoningTrigger
	if p.focused {
		style = t.ReasoningTriggerFocused
	}
	line = style.Render(line)
	if p.zones != nil {
		line = p.zones.Mark(p.ZoneID(), line)
	}
	return line
}

// ReasoningContent renders the body: the trace as markdown, or the fallback
// sentence when there is none. It panics if p has no panel.
func ReasoningContent(p *ReasoningPanel) string {
	if p == nil || p.panel == nil {
		panic("components: ReasoningContent rendered without a reasoning panel")
	}
	c := p.panel.Content()
	if p.bodyValid && p.bodyText == c.Text && p.bodyLive == c.Streaming && p.bodyWidth == p.width {
		return p.body
	}

	t := p.theme
	inner := p.width - t.ReasoningContent.GetHorizontalFrameSize()
	if inner < 1 {
		inner = 1
	}

	var body string
	switch {
	case !c.HasReasoning:
		body = t.ReasoningFallback.Render(c.Fallback)
	case p.md != nil:
		body = p.md.Render(c.Text, inner)
	default:
		body = c.Text
	}
	body = t.ReasoningContent.Width(inner).Render(body)

	p.body, p.bodyText, p.bodyLive, p.bodyWidth, p.bodyValid = body, c.Text, c.Streaming, p.width, true
	return body
}
