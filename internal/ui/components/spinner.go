// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/thinkpane/internal/ui/styles"
)

// =============================================================================
// SPINNER MODEL
// =============================================================================

// Spinner animates a streaming reasoning trigger. Each Spinner has its own
// bubbles ID, so ticks addressed to one panel never advance another.
type Spinner struct {
	spinner  spinner.Model
	isActive bool
}

// NewSpinner creates an inactive spinner with the thinking frames.
func NewSpinner(style lipgloss.Style) Spinner {
	s := spinner.New(
		spinner.WithSpinner(spinner.Spinner{
			Frames: styles.ThinkingFrames,
			FPS:    time.Second / 6,
		}),
		spinner.WithStyle(style),
	)
	return Spinner{spinner: s}
}

// =============================================================================
// STATE MANAGEMENT
// =============================================================================

// Start activates the spinner. It returns the first tick, or nil when the
// spinner was already running.
func (s *Spinner) Start() tea.Cmd {
	if s.isActive {
		return nil
	}
	s.isActive = true
	return s.spinner.Tick
}

// Stop deactivates the spinner. The pending tick is dropped on arrival.
func (s *Spinner) Stop() {
	s.isActive = false
}

// IsActive returns whether the spinner is currently running.
func (s Spinner) IsActive() bool {
	return s.isActive
}

// SetStyle changes the frame style without resetting the animation.
func (s *Spinner) SetStyle(style lipgloss.Style) {
	s.spinner.Style = style
}

// ID identifies the spinner's tick messages.
func (s Spinner) ID() int {
	return s.spinner.ID()
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Update advances the animation on its own ticks.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	if !s.isActive {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders the current frame, or nothing when inactive.
func (s Spinner) View() string {
	if !s.isActive {
		return ""
	}
	return s.spinner.View()
}
