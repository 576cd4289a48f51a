// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reasoning

import (
	"time"

	"go.uber.org/zap"
)

// =============================================================================
// PANEL
// =============================================================================

// Panel is the per-part state of a reasoning disclosure panel. Create one
// when a reasoning part mounts and Close it when the part goes away.
type Panel struct {
	id string

	timing     *Timing
	disclosure *Disclosure

	text    string
	status  Status
	mounted bool
	closed  bool

	logger   *zap.Logger
	onChange func(Snapshot)
}

// Option configures a Panel.
type Option func(*panelOptions)

type panelOptions struct {
	clock     Clock
	scheduler Scheduler
	delay     time.Duration
	openState OpenState
	lockOpen  bool
	logger    *zap.Logger
	onChange  func(Snapshot)
}

// WithClock sets the clock used for thinking durations. Default: SystemClock.
func WithClock(c Clock) Option {
	return func(o *panelOptions) { o.clock = c }
}

// WithScheduler sets the scheduler used for auto-close. Without one the
// panel never collapses on its own.
func WithScheduler(s Scheduler) Option {
	return func(o *panelOptions) { o.scheduler = s }
}

// WithAutoCloseDelay overrides DefaultAutoCloseDelay.
func WithAutoCloseDelay(d time.Duration) Option {
	return func(o *panelOptions) { o.delay = d }
}

// WithOpenState hands ownership of the expanded flag to the caller.
// The holder is set to open when the panel is created.
func WithOpenState(s OpenState) Option {
	return func(o *panelOptions) { o.openState = s }
}

// WithLockOpenWhileStreaming controls whether manual toggles are refused
// while the part is streaming. Default: true.
func WithLockOpenWhileStreaming(lock bool) Option {
	return func(o *panelOptions) { o.lockOpen = lock }
}

// WithLogger attaches a logger for state transitions.
func WithLogger(l *zap.Logger) Option {
	return func(o *panelOptions) { o.logger = l }
}

// WithOnChange registers a callback run after every state change,
// including auto-close.
func WithOnChange(fn func(Snapshot)) Option {
	return func(o *panelOptions) { o.onChange = fn }
}

// New creates an open panel identified by id.
func New(id string, opts ...Option) *Panel {
	o := panelOptions{
		clock:    SystemClock{},
		delay:    DefaultAutoCloseDelay,
		lockOpen: true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	d := NewDisclosure(o.scheduler, o.delay)
	d.lockOpen = o.lockOpen
	if o.openState != nil {
		o.openState.SetOpen(true)
		d.state = o.openState
	}

	p := &Panel{
		id:         id,
		timing:     NewTiming(o.clock),
		disclosure: d,
		logger:     o.logger.With(zap.String("panel", id)),
		onChange:   o.onChange,
	}
	d.onAutoClose = func() {
		p.logger.Debug("reasoning panel auto-closed")
		p.changed()
	}
	return p
}

// Update feeds the latest trace and status from the message stream.
// Only running/non-running transitions drive the timing engine and the
// disclosure machine; text changes alone just update the content.
func (p *Panel) Update(text string, status Status) {
	if p.closed {
		return
	}
	if status == "" {
		status = StatusComplete
	}
	wasStreaming := p.mounted && p.status.IsStreaming()
	first := !p.mounted
	p.mounted = true
	p.text = text
	p.status = status

	switch {
	case status.IsStreaming() && (first || !wasStreaming):
		p.timing.Begin()
		p.disclosure.StreamStarted()
		p.logger.Debug("reasoning stream started")
	case !status.IsStreaming() && (first || wasStreaming):
		seconds, measured := p.timing.End()
		armed := p.disclosure.StreamEnded()
		p.logger.Debug("reasoning stream ended",
			zap.String("status", status.String()),
			zap.Bool("measured", measured),
			zap.Int("seconds", seconds),
			zap.Bool("auto_close", armed))
	}
	p.changed()
}

// Toggle flips the panel as a user action. It reports whether the panel
// accepted the request.
func (p *Panel) Toggle() bool {
	if p.closed {
		return false
	}
	return p.userSet(!p.disclosure.Open())
}

// SetOpen expands or collapses the panel as a user action.
func (p *Panel) SetOpen(open bool) bool {
	if p.closed {
		return false
	}
	return p.userSet(open)
}

func (p *Panel) userSet(open bool) bool {
	if !p.disclosure.UserSetOpen(open) {
		p.logger.Debug("reasoning toggle ignored while streaming")
		return false
	}
	p.logger.Debug("reasoning panel toggled", zap.Bool("open", open))
	p.changed()
	return true
}

// Close releases the pending auto-close. The panel ignores all input
// afterwards. Safe to call more than once.
func (p *Panel) Close() {
	if p.closed {
		return
	}
	p.disclosure.Close()
	p.closed = true
	p.logger.Debug("reasoning panel closed")
}

// SetAutoCloseDelay changes the delay for auto-closes armed later on.
func (p *Panel) SetAutoCloseDelay(d time.Duration) {
	p.disclosure.SetDelay(d)
}

// SetLockOpenWhileStreaming changes the manual-toggle policy. It applies to
// the next toggle, including one made during the current stream.
func (p *Panel) SetLockOpenWhileStreaming(lock bool) {
	p.disclosure.SetLockOpen(lock)
}

func (p *Panel) changed() {
	if p.onChange != nil {
		p.onChange(p.Snapshot())
	}
}

// =============================================================================
// READ SIDE
// =============================================================================

// Snapshot is a copy of a panel's observable state.
type Snapshot struct {
	ID               string
	Status           Status
	Open             bool
	Streaming        bool
	UserInteracted   bool
	Timing           bool
	Duration         int
	AutoClosePending bool
	Closed           bool
}

// Snapshot returns the current state.
func (p *Panel) Snapshot() Snapshot {
	return Snapshot{
		ID:               p.id,
		Status:           p.status,
		Open:             p.disclosure.Open(),
		Streaming:        p.status.IsStreaming(),
		UserInteracted:   p.disclosure.UserInteracted(),
		Timing:           p.timing.Running(),
		Duration:         p.timing.Duration(),
		AutoClosePending: p.disclosure.AutoClosePending(),
		Closed:           p.closed,
	}
}

// ID returns the identifier given to New.
func (p *Panel) ID() string { return p.id }

// Text returns the latest reasoning trace.
func (p *Panel) Text() string { return p.text }

// Status returns the latest streaming status.
func (p *Panel) Status() Status { return p.status }

// Streaming reports whether the part is streaming.
func (p *Panel) Streaming() bool { return p.status.IsStreaming() }

// Open reports whether the panel is expanded.
func (p *Panel) Open() bool { return p.disclosure.Open() }

// Duration returns the last measured thinking time in seconds.
func (p *Panel) Duration() int { return p.timing.Duration() }

// Elapsed returns how long the current thinking phase has run so far.
func (p *Panel) Elapsed() time.Duration { return p.timing.Elapsed() }

// Label returns the trigger text.
func (p *Panel) Label() string {
	return ThinkingLabel(p.Streaming(), p.timing.Duration())
}

// Content returns the body: trace or placeholder.
func (p *Panel) Content() Content {
	return ContentFor(p.text, p.Streaming())
}

// DataState returns "open" or "closed" for the expand/collapse contract.
func (p *Panel) DataState() string {
	if p.disclosure.Open() {
		return "open"
	}
	return "closed"
}
