// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/thinkpane/internal/reasoning"
)

// =============================================================================
// DISPATCHER
// =============================================================================

// Dispatcher forwards messages from other goroutines into the program's
// event loop. Messages sent before Bind are dropped.
type Dispatcher struct {
	mu   sync.RWMutex
	send func(tea.Msg)
}

// NewDispatcher creates an unbound dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// NewDispatcherFunc creates a dispatcher that hands messages to send.
func NewDispatcherFunc(send func(tea.Msg)) *Dispatcher {
	return &Dispatcher{send: send}
}

// Bind routes messages to p.
func (d *Dispatcher) Bind(p *tea.Program) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.send = p.Send
}

// Send delivers msg to the event loop. It blocks until the loop accepts it
// or the program has exited.
func (d *Dispatcher) Send(msg tea.Msg) {
	d.mu.RLock()
	send := d.send
	d.mu.RUnlock()
	if send != nil {
		send(msg)
	}
}

// Run queues fn to run inside Update.
func (d *Dispatcher) Run(fn func()) {
	d.Send(dispatchMsg{fn: fn})
}

// Scheduler returns a reasoning scheduler whose callbacks run on the event
// loop.
func (d *Dispatcher) Scheduler() reasoning.Scheduler {
	return reasoning.DispatchScheduler{Dispatch: d.Run}
}
