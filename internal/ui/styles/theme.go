// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	Icons IconSet

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// SIDEBAR STYLES
	// ==========================================================================

	Sidebar           lipgloss.Style
	SidebarTitle      lipgloss.Style
	SidebarItem       lipgloss.Style
	SidebarItemActive lipgloss.Style
	SidebarMeta       lipgloss.Style

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	SystemBubble    lipgloss.Style
	RoleLabel       lipgloss.Style
	AnswerFailed    lipgloss.Style

	// ==========================================================================
	// REASONING PANEL STYLES
	// ==========================================================================

	ReasoningTrigger        lipgloss.Style
	ReasoningTriggerFocused lipgloss.Style
	ReasoningLabel          lipgloss.Style
	ReasoningLabelStreaming lipgloss.Style
	ReasoningChevron        lipgloss.Style
	ReasoningContent        lipgloss.Style
	ReasoningFallback       lipgloss.Style
	Spinner                 lipgloss.Style

	// ==========================================================================
	// COMPOSER AND STATUS BAR STYLES
	// ==========================================================================

	Composer       lipgloss.Style
	ComposerPrompt lipgloss.Style
	StatusBar      lipgloss.Style
	ShortcutKey    lipgloss.Style
	ShortcutDesc   lipgloss.Style

	// ==========================================================================
	// WELCOME AND TOAST STYLES
	// ==========================================================================

	WelcomeTitle lipgloss.Style
	WelcomeInfo  lipgloss.Style
	WelcomeKey   lipgloss.Style
	ToastInfo    lipgloss.Style
	ToastError   lipgloss.Style
}

// NewTheme creates a theme. mode is "auto", "dark" or "light"; auto asks
// the terminal for its background.
func NewTheme(mode string, asciiIcons bool) *Theme {
	t := &Theme{}
	t.Apply(mode, asciiIcons)
	return t
}

// Apply re-resolves the background and icons and rebuilds every style in
// place, so holders of the *Theme pick up the change on their next render.
// The layout size is kept.
func (t *Theme) Apply(mode string, asciiIcons bool) {
	var isDark bool
	switch strings.ToLower(mode) {
	case "dark":
		isDark = true
	case "light":
		isDark = false
	default:
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)

	t.IsDark = isDark
	t.ColorProfile = termenv.ColorProfile()
	t.Icons = Icons(asciiIcons)
	t.initStyles()
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay).
		PaddingRight(1)

	t.SidebarTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple).
		MarginBottom(1)

	t.SidebarItem = lipgloss.NewStyle().
		Foreground(TextSecondary).
		PaddingLeft(1)

	t.SidebarItemActive = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(SelectionBg).
		Bold(true).
		PaddingLeft(1)

	t.SidebarMeta = lipgloss.NewStyle().
		Foreground(TextMuted).
		PaddingLeft(1)

	// Messages
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(AssistantBubbleBorder).
		PaddingLeft(1)

	t.SystemBubble = lipgloss.NewStyle().
		Foreground(SystemBubbleFg).
		Italic(true)

	t.RoleLabel = lipgloss.NewStyle().
		Foreground(TextMuted).
		Bold(true)

	t.AnswerFailed = lipgloss.NewStyle().
		Foreground(Rose).
		Italic(true)

	// Reasoning panel
	t.ReasoningTrigger = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.ReasoningTriggerFocused = lipgloss.NewStyle().
		Foreground(Cyan).
		Underline(true)

	t.ReasoningLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.ReasoningLabelStreaming = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)

	t.ReasoningChevron = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.ReasoningContent = lipgloss.NewStyle().
		Foreground(TextSecondary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(PurpleDeep).
		PaddingLeft(1)

	t.ReasoningFallback = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple)

	// Composer and status bar
	t.Composer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.ComposerPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Welcome
	t.WelcomeTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.WelcomeInfo = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.WelcomeKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	// Toasts
	t.ToastInfo = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Emerald).
		Padding(0, 1)

	t.ToastError = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Rose).
		Padding(0, 1)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
