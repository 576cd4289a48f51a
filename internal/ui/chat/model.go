// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"go.uber.org/zap"

	"github.com/jeranaias/thinkpane/internal/config"
	"github.com/jeranaias/thinkpane/internal/model"
	"github.com/jeranaias/thinkpane/internal/reasoning"
	"github.com/jeranaias/thinkpane/internal/replay"
	"github.com/jeranaias/thinkpane/internal/ui/components"
	"github.com/jeranaias/thinkpane/internal/ui/styles"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view. It owns one reasoning
// panel per reasoning part and closes it when the part goes away.
type Model struct {
	cfg    *config.Config
	theme  *styles.Theme
	keyMap KeyMap
	logger *zap.Logger

	// Dimensions
	width  int
	height int
	ready  bool

	// Conversation
	threads *model.ThreadList
	panels  map[string]*components.ReasoningPanel // by reasoning part ID
	focused string                                // part ID of the keyboard target

	// Replay
	script      *replay.Script
	player      *replay.Player
	replayClock replay.Clock
	cancelMgr   *cancelManager

	// Time
	clock      reasoning.Clock
	scheduler  reasoning.Scheduler
	dispatcher *Dispatcher
	now        func() time.Time

	// UI Components
	zones     *zone.Manager
	markdown  *components.Markdown
	viewport  *components.ThreadViewport
	input     textinput.Model
	statusBar *components.StatusBar
	sidebar   *components.Sidebar
	welcome   components.Welcome
	toasts    *components.Toasts

	showSidebar  bool
	toastTicking bool
	quitting     bool

	copyText func(string) error
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger for the model and its panels.
func WithLogger(l *zap.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock sets the clock panels measure thinking time with.
func WithClock(c reasoning.Clock) Option {
	return func(m *Model) { m.clock = c }
}

// WithScheduler sets the scheduler for panel auto-close. By default
// callbacks are dispatched onto the program's event loop.
func WithScheduler(s reasoning.Scheduler) Option {
	return func(m *Model) { m.scheduler = s }
}

// WithReplayClock sets the clock the replay player waits on.
func WithReplayClock(c replay.Clock) Option {
	return func(m *Model) { m.replayClock = c }
}

// WithDispatcher replaces the dispatcher used to reach the event loop.
func WithDispatcher(d *Dispatcher) Option {
	return func(m *Model) { m.dispatcher = d }
}

// WithVersion sets the version shown on the welcome screen.
func WithVersion(v string) Option {
	return func(m *Model) { m.welcome.SetVersion(v) }
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(fn func(string) error) Option {
	return func(m *Model) { m.copyText = fn }
}

// WithZones sets the mouse zone manager. Without one the triggers are not
// clickable.
func WithZones(z *zone.Manager) Option {
	return func(m *Model) { m.zones = z }
}

// New creates the chat model for cfg, answering prompts from script.
func New(cfg *config.Config, script *replay.Script, opts ...Option) Model {
	if cfg == nil {
		cfg = config.Default()
	}
	if script == nil {
		script = replay.Demo()
	}
	theme := styles.NewTheme(cfg.UI.Theme, cfg.UI.ASCIIIcons)

	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = theme.ComposerPrompt
	ti.Placeholder = "Ask something..."
	ti.CharLimit = 4096
	ti.Focus()

	m := Model{
		cfg:         cfg,
		theme:       theme,
		keyMap:      DefaultKeyMap(),
		logger:      zap.NewNop(),
		threads:     model.NewThreadList(),
		panels:      make(map[string]*components.ReasoningPanel),
		script:      script,
		cancelMgr:   newCancelManager(),
		clock:       reasoning.SystemClock{},
		dispatcher:  NewDispatcher(),
		now:         time.Now,
		viewport:    components.NewThreadViewport(),
		input:       ti,
		statusBar:   components.NewStatusBar(theme),
		sidebar:     components.NewSidebar(theme),
		welcome:     components.NewWelcome(theme),
		toasts:      components.NewToasts(),
		showSidebar: cfg.UI.ShowSidebar,
		copyText:    clipboard.WriteAll,
	}
	for _, opt := range opts {
		opt(&m)
	}

	if err := script.Validate(); err != nil {
		m.logger.Warn("replay script rejected, using the demo", zap.Error(err))
		script = replay.Demo()
		m.script = script
	}
	m.welcome.SetScript(script.Title, script.Len())

	m.markdown = components.NewMarkdown(cfg.UI.MarkdownStyle, theme.IsDark, cfg.UI.WordWrap, m.logger)
	if m.replayClock == nil {
		m.replayClock = reasoning.SystemClock{}
	}
	m.player = replay.NewPlayer(script, m.replayClock, cfg.Replay.TokensPerSecond, m.logger)
	if m.scheduler == nil {
		m.scheduler = m.dispatcher.Scheduler()
	}
	m.updatePlaceholder()
	return m
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Dispatcher returns the dispatcher to bind to the program.
func (m Model) Dispatcher() *Dispatcher {
	return m.dispatcher
}

// Threads returns the thread list.
func (m Model) Threads() *model.ThreadList {
	return m.threads
}

// Panel returns the panel for a reasoning part.
func (m Model) Panel(partID string) (*components.ReasoningPanel, bool) {
	p, ok := m.panels[partID]
	return p, ok
}

// PanelCount returns the number of live panels.
func (m Model) PanelCount() int {
	return len(m.panels)
}

// FocusedPanel returns the keyboard target, or nil.
func (m Model) FocusedPanel() *components.ReasoningPanel {
	return m.panels[m.focused]
}

// Streaming reports whether a turn is playing.
func (m Model) Streaming() bool {
	_, ok := m.cancelMgr.active()
	return ok
}

// ShowSidebar reports whether the sidebar is visible.
func (m Model) ShowSidebar() bool {
	return m.showSidebar
}

// Config returns the configuration in effect.
func (m Model) Config() *config.Config {
	return m.cfg
}

// Toasts returns the visible toasts.
func (m Model) Toasts() []components.Toast {
	return m.toasts.All()
}

// =============================================================================
// PANEL OWNERSHIP
// =============================================================================

// mountPanel creates the panel for a reasoning part and feeds it the part's
// current state. History parts that are already finished start open and
// auto-close once.
func (m *Model) mountPanel(part *model.Part) tea.Cmd {
	if part == nil {
		return nil
	}
	if _, ok := m.panels[part.ID]; ok {
		return nil
	}
	core := reasoning.New(part.ID,
		reasoning.WithClock(m.clock),
		reasoning.WithScheduler(m.scheduler),
		reasoning.WithAutoCloseDelay(m.cfg.Reasoning.AutoCloseDelay()),
		reasoning.WithLockOpenWhileStreaming(m.cfg.Reasoning.LockOpenWhileStreaming),
		reasoning.WithLogger(m.logger),
	)
	p := components.NewReasoningPanel(core, m.theme, m.zones, m.markdown)
	m.panels[part.ID] = p
	return p.Sync(part.Text(), part.Status)
}

// closeMessages releases the panels of messages that left the view.
func (m *Model) closeMessages(msgs []*model.Message) {
	for _, msg := range msgs {
		r := msg.Reasoning()
		if r == nil {
			continue
		}
		if p, ok := m.panels[r.ID]; ok {
			p.Close()
			delete(m.panels, r.ID)
			m.logger.Debug("reasoning panel released", zap.String("part", r.ID))
		}
		if m.focused == r.ID {
			m.focused = ""
		}
	}
}

// closeAll releases every panel.
func (m *Model) closeAll() {
	for id, p := range m.panels {
		p.Close()
		delete(m.panels, id)
	}
	m.focused = ""
}

// activePanels returns the panels of the active thread in message order.
func (m *Model) activePanels() []*components.ReasoningPanel {
	var out []*components.ReasoningPanel
	for _, msg := range m.threads.Active().Messages {
		r := msg.Reasoning()
		if r == nil {
			continue
		}
		if p, ok := m.panels[r.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}

// threadByID finds a thread in the list.
func (m *Model) threadByID(id string) *model.Thread {
	for _, t := range m.threads.All() {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// updatePlaceholder shows the prompt of the turn the next message plays.
func (m *Model) updatePlaceholder() {
	t, _ := m.script.Turn(m.threads.Active().NextTurn)
	if t.Prompt != "" {
		m.input.Placeholder = t.Prompt
	}
}
