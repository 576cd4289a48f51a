// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/thinkpane/internal/model"
	"github.com/jeranaias/thinkpane/internal/reasoning"
	"github.com/jeranaias/thinkpane/internal/replay"
	"github.com/jeranaias/thinkpane/internal/ui/components"
	"github.com/jeranaias/thinkpane/internal/util"
)

// Toast texts.
const (
	msgBusy          = "Wait for the current response, or press esc to stop it"
	msgLockedOpen    = "Reasoning stays open while the model is thinking"
	msgNothingToCopy = "No reasoning to copy"
	msgCopied        = "Reasoning copied"
	msgStopped       = "Response stopped"
	msgNoAnswer      = "Nothing to regenerate"
	msgReloaded      = "Configuration reloaded"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all Bubble Tea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.theme.SetSize(msg.Width, msg.Height)

	case tea.KeyMsg:
		if key.Matches(msg, m.keyMap.Quit) {
			m.quit()
			return m, tea.Quit
		}
		cmds = append(cmds, m.handleKey(msg))

	case tea.MouseMsg:
		cmds = append(cmds, m.handleMouse(msg))

	case spinner.TickMsg:
		for _, p := range m.panels {
			cmds = append(cmds, p.Update(msg))
		}

	case StreamEventMsg:
		cmds = append(cmds, m.applyEvent(msg))

	case StreamDoneMsg:
		cmds = append(cmds, m.finishTurn(msg))

	case dispatchMsg:
		msg.fn()

	case ConfigReloadedMsg:
		cmds = append(cmds, m.applyConfig(msg))

	case components.ToastTickMsg:
		if m.toasts.Tick(msg.Time) {
			cmds = append(cmds, components.ToastTickCmd())
		} else {
			m.toastTicking = false
		}

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.refresh()
	return m, tea.Batch(cmds...)
}

// quit stops the playing turn and releases every panel.
func (m *Model) quit() {
	m.quitting = true
	m.cancelMgr.cancel()
	m.closeAll()
}

// =============================================================================
// INPUT HANDLING
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keyMap.Cancel):
		if m.cancelMgr.cancel() {
			return nil
		}
		m.statusBar.SetShowAll(false)
		return nil
	case key.Matches(msg, m.keyMap.Submit):
		return m.submit()
	case key.Matches(msg, m.keyMap.FocusNext):
		m.moveFocus(1)
	case key.Matches(msg, m.keyMap.FocusPrev):
		m.moveFocus(-1)
	case key.Matches(msg, m.keyMap.Toggle):
		return m.toggleTarget()
	case key.Matches(msg, m.keyMap.Copy):
		return m.copyTarget()
	case key.Matches(msg, m.keyMap.Regenerate):
		return m.regenerate()
	case key.Matches(msg, m.keyMap.Sidebar):
		m.showSidebar = !m.showSidebar
	case key.Matches(msg, m.keyMap.NewThread):
		m.newThread()
	case key.Matches(msg, m.keyMap.PrevThread):
		m.switchThread(-1)
	case key.Matches(msg, m.keyMap.NextThread):
		m.switchThread(1)
	case key.Matches(msg, m.keyMap.Delete):
		m.deleteThread()
	case key.Matches(msg, m.keyMap.ScrollUp, m.keyMap.ScrollDown, m.keyMap.PageUp, m.keyMap.PageDown):
		return m.viewport.Update(msg)
	case key.Matches(msg, m.keyMap.Help):
		m.statusBar.SetShowAll(!m.statusBar.ShowAll())
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		for _, p := range m.activePanels() {
			if p.HandleClick(msg) {
				m.setFocus(p.Panel().ID())
				return nil
			}
		}
		return nil
	}
	return m.viewport.Update(msg)
}

// =============================================================================
// TURNS
// =============================================================================

// submit sends the composer text and plays the thread's next turn.
func (m *Model) submit() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return nil
	}
	if m.Streaming() {
		return m.toastInfo(msgBusy)
	}

	thread := m.threads.Active()
	m.input.Reset()
	m.closeMessages(thread.AddMessage(model.NewUserMessage(text)))

	msg := model.NewAssistantMessage(thread.NextTurn)
	thread.NextTurn++
	m.closeMessages(thread.AddMessage(msg))

	m.viewport.ScrollToBottom()
	m.updatePlaceholder()
	return m.startTurn(thread, msg)
}

// regenerate replays the last answer of the active thread. The message
// keeps its part IDs, so its panel starts a new streaming cycle.
func (m *Model) regenerate() tea.Cmd {
	if m.Streaming() {
		return m.toastInfo(msgBusy)
	}
	thread := m.threads.Active()
	msg := thread.LastAssistant()
	if msg == nil {
		return m.toastInfo(msgNoAnswer)
	}
	msg.Restart()
	m.viewport.ScrollToBottom()
	return m.startTurn(thread, msg)
}

// startTurn syncs the message's panel and starts playback.
func (m *Model) startTurn(thread *model.Thread, msg *model.Message) tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	if !m.cancelMgr.start(thread.ID, msg.ID, cancel) {
		cancel()
		return m.toastInfo(msgBusy)
	}
	m.logger.Debug("turn started",
		zap.String("thread", thread.ID),
		zap.String("message", msg.ID),
		zap.Int("turn", msg.Turn))

	return tea.Batch(
		m.syncPart(msg.Reasoning()),
		playTurnCmd(ctx, m.player, m.dispatcher, thread.ID, msg.Turn, replay.TargetFor(msg)),
	)
}

// syncPart mounts the panel for a reasoning part or pushes the part's
// state into the existing one.
func (m *Model) syncPart(part *model.Part) tea.Cmd {
	if part == nil {
		return nil
	}
	if p, ok := m.panels[part.ID]; ok {
		return p.Sync(part.Text(), part.Status)
	}
	return m.mountPanel(part)
}

// applyEvent copies a replay update into its part and panel.
func (m *Model) applyEvent(msg StreamEventMsg) tea.Cmd {
	thread := m.threadByID(msg.ThreadID)
	if thread == nil {
		return nil
	}
	_, part := thread.FindPart(msg.Event.PartID)
	if part == nil {
		return nil
	}
	part.SetText(msg.Event.Text)
	part.SetStatus(msg.Event.Status)
	thread.Touch()

	if part.Kind != model.PartReasoning {
		return nil
	}
	return m.syncPart(part)
}

// finishTurn clears the playing turn and reports how it ended.
func (m *Model) finishTurn(msg StreamDoneMsg) tea.Cmd {
	m.cancelMgr.finish(msg.MessageID)
	switch {
	case msg.Err == nil:
		return nil
	case errors.Is(msg.Err, context.Canceled):
		return m.toastInfo(msgStopped)
	default:
		m.logger.Error("turn failed", zap.String("message", msg.MessageID), zap.Error(msg.Err))
		return m.toastError(fmt.Sprintf("Replay failed: %v", msg.Err))
	}
}

// =============================================================================
// REASONING PANELS
// =============================================================================

// moveFocus cycles the keyboard target through the active thread's panels.
func (m *Model) moveFocus(delta int) {
	panels := m.activePanels()
	if len(panels) == 0 {
		m.setFocus("")
		return
	}
	idx := -1
	for i, p := range panels {
		if p.Panel().ID() == m.focused {
			idx = i
			break
		}
	}
	switch {
	case idx == -1 && delta > 0:
		idx = 0
	case idx == -1:
		idx = len(panels) - 1
	default:
		idx = ((idx+delta)%len(panels) + len(panels)) % len(panels)
	}
	m.setFocus(panels[idx].Panel().ID())
}

func (m *Model) setFocus(partID string) {
	for id, p := range m.panels {
		p.SetFocused(id == partID)
	}
	m.focused = partID
}

// target is the panel that keyboard actions apply to: the focused panel if
// it is in the active thread, otherwise the newest one.
func (m *Model) target() *components.ReasoningPanel {
	panels := m.activePanels()
	for _, p := range panels {
		if p.Panel().ID() == m.focused {
			return p
		}
	}
	if len(panels) == 0 {
		return nil
	}
	return panels[len(panels)-1]
}

func (m *Model) toggleTarget() tea.Cmd {
	p := m.target()
	if p == nil {
		return nil
	}
	if !p.Toggle() {
		return m.toastInfo(msgLockedOpen)
	}
	return nil
}

func (m *Model) copyTarget() tea.Cmd {
	p := m.target()
	if p == nil || util.IsBlank(p.Panel().Text()) {
		return m.toastInfo(msgNothingToCopy)
	}
	if err := m.copyText(p.Panel().Text()); err != nil {
		m.logger.Warn("clipboard write failed", zap.Error(err))
		return m.toastError(fmt.Sprintf("Copy failed: %v", err))
	}
	return m.toastInfo(msgCopied)
}

// =============================================================================
// THREADS
// =============================================================================

func (m *Model) newThread() {
	if !m.threads.Active().IsEmpty() {
		m.threads.New()
	}
	m.afterThreadSwitch()
}

func (m *Model) switchThread(delta int) {
	m.threads.Move(delta)
	m.afterThreadSwitch()
}

// deleteThread removes the active thread, stopping its turn and releasing
// its panels.
func (m *Model) deleteThread() {
	thread := m.threads.Active()
	if s, ok := m.cancelMgr.active(); ok && s.threadID == thread.ID {
		m.cancelMgr.cancel()
	}
	m.closeMessages(thread.Messages)
	m.threads.Delete(thread.ID)
	m.afterThreadSwitch()
}

func (m *Model) afterThreadSwitch() {
	m.setFocus("")
	m.viewport.ScrollToBottom()
	m.updatePlaceholder()
}

// =============================================================================
// CONFIG
// =============================================================================

// applyConfig adopts a reloaded configuration. Mounted panels take the new
// toggle policy at once; the new auto-close delay applies to timers armed
// from now on. Theme, icons and markdown are rebuilt in place.
func (m *Model) applyConfig(msg ConfigReloadedMsg) tea.Cmd {
	if msg.Err != nil {
		m.logger.Warn("config reload rejected", zap.Error(msg.Err))
		return m.toastError(fmt.Sprintf("Config reload failed: %v", msg.Err))
	}
	m.cfg = msg.Config
	rc := m.cfg.Reasoning
	ui := m.cfg.UI

	m.theme.Apply(ui.Theme, ui.ASCIIIcons)
	m.markdown.Reconfigure(ui.MarkdownStyle, m.theme.IsDark, ui.WordWrap)
	m.input.PromptStyle = m.theme.ComposerPrompt

	for _, p := range m.panels {
		p.Panel().SetAutoCloseDelay(rc.AutoCloseDelay())
		p.Panel().SetLockOpenWhileStreaming(rc.LockOpenWhileStreaming)
		p.Restyle()
	}
	m.showSidebar = ui.ShowSidebar
	m.player = replay.NewPlayer(m.script, m.replayClock, m.cfg.Replay.TokensPerSecond, m.logger)
	m.logger.Info("config reloaded",
		zap.Duration("auto_close_delay", rc.AutoCloseDelay()),
		zap.Bool("lock_open_while_streaming", rc.LockOpenWhileStreaming),
		zap.String("theme", ui.Theme),
		zap.String("markdown_style", m.markdown.Style()))
	return m.toastInfo(msgReloaded)
}

// =============================================================================
// TOASTS
// =============================================================================

func (m *Model) toastInfo(text string) tea.Cmd {
	m.toasts.Info(text, m.now())
	return m.startToastTick()
}

func (m *Model) toastError(text string) tea.Cmd {
	m.toasts.Error(text, m.now())
	return m.startToastTick()
}

func (m *Model) startToastTick() tea.Cmd {
	if m.toastTicking {
		return nil
	}
	m.toastTicking = true
	return components.ToastTickCmd()
}

// stateSummary describes the playing turn for the status bar.
func (m *Model) stateSummary() string {
	state := "Ready"
	if s, ok := m.cancelMgr.active(); ok {
		state = "Answering"
		if thread := m.threadByID(s.threadID); thread != nil {
			if msg := thread.Message(s.messageID); msg != nil {
				if r := msg.Reasoning(); r != nil && r.Status == reasoning.StatusRunning {
					state = "Thinking"
				}
			}
		}
	}
	summary := fmt.Sprintf("%s  thread %d/%d", state, m.threads.ActiveIndex()+1, m.threads.Len())
	if !m.viewport.Following() {
		summary += fmt.Sprintf("  %.0f%%", m.viewport.ScrollPercent()*100)
	}
	return summary
}
