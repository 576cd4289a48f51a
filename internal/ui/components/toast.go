// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/thinkpane/internal/ui/styles"
	"github.com/jeranaias/thinkpane/internal/util"
)

// =============================================================================
// TOAST TYPES
// =============================================================================

// ToastKind selects the toast colour and icon.
type ToastKind int

const (
	ToastInfo ToastKind = iota
	ToastError
)

// InfoToastDuration is how long an info toast stays up.
const InfoToastDuration = 3 * time.Second

// ErrorToastDuration is longer so errors can be read.
const ErrorToastDuration = 6 * time.Second

// maxToasts is the number of toasts shown at once.
const maxToasts = 3

// Toast is a non-blocking notice drawn above the status bar.
type Toast struct {
	ID        int
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
	Duration  time.Duration
}

// Expired reports whether the toast should be dismissed at now.
func (t Toast) Expired(now time.Time) bool {
	return now.Sub(t.CreatedAt) >= t.Duration
}

// =============================================================================
// TOAST MANAGER
// =============================================================================

// Toasts holds the visible toasts, newest first. It is owned by the event
// loop and is not safe for concurrent use.
type Toasts struct {
	toasts []Toast
	nextID int
}

// NewToasts creates an empty manager.
func NewToasts() *Toasts {
	return &Toasts{nextID: 1}
}

// Info adds an info toast.
func (m *Toasts) Info(message string, now time.Time) int {
	return m.add(Toast{Message: message, Kind: ToastInfo, CreatedAt: now, Duration: InfoToastDuration})
}

// Error adds an error toast.
func (m *Toasts) Error(message string, now time.Time) int {
	return m.add(Toast{Message: message, Kind: ToastError, CreatedAt: now, Duration: ErrorToastDuration})
}

func (m *Toasts) add(t Toast) int {
	t.ID = m.nextID
	m.nextID++
	m.toasts = append([]Toast{t}, m.toasts...)
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[:maxToasts]
	}
	return t.ID
}

// Tick drops expired toasts and reports whether any remain.
func (m *Toasts) Tick(now time.Time) bool {
	active := m.toasts[:0]
	for _, t := range m.toasts {
		if !t.Expired(now) {
			active = append(active, t)
		}
	}
	m.toasts = active
	return len(m.toasts) > 0
}

// All returns a copy of the visible toasts.
func (m *Toasts) All() []Toast {
	out := make([]Toast, len(m.toasts))
	copy(out, m.toasts)
	return out
}

// Len returns the number of visible toasts.
func (m *Toasts) Len() int {
	return len(m.toasts)
}

// =============================================================================
// TOAST MESSAGES
// =============================================================================

// ToastTickMsg is sent periodically while toasts are visible.
type ToastTickMsg struct {
	Time time.Time
}

// ToastTickCmd schedules the next toast tick.
func ToastTickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return ToastTickMsg{Time: t}
	})
}

// =============================================================================
// TOAST RENDERING
// =============================================================================

// RenderToasts draws the toasts one per line, cut to width.
func RenderToasts(toasts []Toast, theme *styles.Theme, width int) string {
	if len(toasts) == 0 {
		return ""
	}
	lines := make([]string, 0, len(toasts))
	for _, t := range toasts {
		style, icon := theme.ToastInfo, theme.Icons.Info
		if t.Kind == ToastError {
			style, icon = theme.ToastError, theme.Icons.Warning
		}
		room := width - style.GetHorizontalFrameSize() - util.Width(icon) - 1
		lines = append(lines, style.Render(icon+" "+util.Truncate(util.FirstLine(t.Message), room)))
	}
	return strings.Join(lines, "\n")
}
