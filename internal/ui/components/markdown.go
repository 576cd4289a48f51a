// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"
)

// minMarkdownWidth keeps glamour from wrapping every word.
const minMarkdownWidth = 20

// Markdown renders reasoning traces and answers with glamour. Renderers are
// cached per wrap width.
type Markdown struct {
	style     string
	wrap      int
	renderers map[int]*glamour.TermRenderer
	logger    *zap.Logger
}

// NewMarkdown creates a renderer. style is a glamour standard style; "auto"
// picks dark or light from the theme. wrap caps the line width.
func NewMarkdown(style string, dark bool, wrap int, logger *zap.Logger) *Markdown {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Markdown{logger: logger}
	m.Reconfigure(style, dark, wrap)
	return m
}

// Reconfigure switches style and wrap width and drops the cached renderers.
func (m *Markdown) Reconfigure(style string, dark bool, wrap int) {
	if style == "" || strings.EqualFold(style, "auto") {
		style = "light"
		if dark {
			style = "dark"
		}
	}
	m.style = strings.ToLower(style)
	m.wrap = wrap
	m.renderers = make(map[int]*glamour.TermRenderer)
}

// Style returns the glamour style in use.
func (m *Markdown) Style() string {
	return m.style
}

// Render formats text for the given width. If glamour fails the text is
// returned unchanged.
func (m *Markdown) Render(text string, width int) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if m.wrap > 0 && width > m.wrap {
		width = m.wrap
	}
	if width < minMarkdownWidth {
		width = minMarkdownWidth
	}

	r, err := m.renderer(width)
	if err != nil {
		m.logger.Warn("markdown renderer unavailable", zap.Error(err))
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		m.logger.Warn("markdown render failed", zap.Error(err))
		return text
	}
	return strings.Trim(out, "\n")
}

func (m *Markdown) renderer(width int) (*glamour.TermRenderer, error) {
	if r, ok := m.renderers[width]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	m.renderers[width] = r
	return r, nil
}
