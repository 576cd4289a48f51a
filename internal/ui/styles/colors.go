// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// BRAND COLORS
// =============================================================================

// Purple - primary accent, reasoning panels.
var Purple = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

// PurpleDeep - reasoning panel rule.
var PurpleDeep = lipgloss.AdaptiveColor{Light: "#5B21B6", Dark: "#6D28D9"}

// Cyan - focus and user accents.
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Emerald - success.
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Rose - errors.
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - warnings.
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// =============================================================================
// SURFACES AND TEXT
// =============================================================================

var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#181825"}
var Overlay = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#313244"}

var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// =============================================================================
// MESSAGE COLORS
// =============================================================================

var UserBubbleFg = lipgloss.AdaptiveColor{Light: "#1E40AF", Dark: "#E0F2FE"}
var UserBubbleBorder = lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#3B82F6"}

var AssistantBubbleFg = lipgloss.AdaptiveColor{Light: "#5B4B8A", Dark: "#E9E4F5"}
var AssistantBubbleBorder = lipgloss.AdaptiveColor{Light: "#C4B5FD", Dark: "#A78BFA"}

var SystemBubbleFg = lipgloss.AdaptiveColor{Light: "#92400E", Dark: "#FEF3C7"}

// SelectionBg highlights the active sidebar row.
var SelectionBg = lipgloss.AdaptiveColor{Light: "#BFDBFE", Dark: "#1E3A5F"}

// =============================================================================
// ICONS
// =============================================================================

// IconSet holds the glyphs drawn on reasoning triggers and toasts.
type IconSet struct {
	Thinking      string
	Thought       string
	Failed        string
	ChevronOpen   string
	ChevronClosed string
	Info          string
	Warning       string
}

// ASCIIIcons renders everywhere.
var ASCIIIcons = IconSet{
	Thinking:      "[~]",
	Thought:       "[*]",
	Failed:        "[x]",
	ChevronOpen:   "^",
	ChevronClosed: "v",
	Info:          "[i]",
	Warning:       "[!]",
}

// UnicodeIcons needs a font with geometric shapes.
var UnicodeIcons = IconSet{
	Thinking:      "◌",
	Thought:       "●",
	Failed:        "✗",
	ChevronOpen:   "▴",
	ChevronClosed: "▾",
	Info:          "ℹ",
	Warning:       "⚠",
}

// Icons returns the ASCII or Unicode set.
func Icons(ascii bool) IconSet {
	if ascii {
		return ASCIIIcons
	}
	return UnicodeIcons
}

// ThinkingFrames animate the spinner on a streaming trigger.
var ThinkingFrames = []string{".  ", ".. ", "...", " ..", "  .", "   "}
