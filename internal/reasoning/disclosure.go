// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reasoning

import "time"

// DefaultAutoCloseDelay is how long a panel stays expanded after thinking ends.
const DefaultAutoCloseDelay = 1000 * time.Millisecond

// =============================================================================
// OPEN STATE
// =============================================================================

// OpenState stores the expanded flag of a panel. Panels keep it internally
// unless the owner supplies its own holder with WithOpenState.
type OpenState interface {
	Open() bool
	SetOpen(open bool)
}

type localOpen struct {
	open bool
}

func (l *localOpen) Open() bool        { return l.open }
func (l *localOpen) SetOpen(open bool) { l.open = open }

// FuncOpenState adapts a getter and setter owned by someone else.
type FuncOpenState struct {
	Get func() bool
	Set func(open bool)
}

// Open calls Get.
func (f FuncOpenState) Open() bool {
	return f.Get()
}

// SetOpen calls Set.
func (f FuncOpenState) SetOpen(open bool) {
	f.Set(open)
}

// =============================================================================
// DISCLOSURE STATE MACHINE
// =============================================================================

// Disclosure decides whether a panel is expanded.
//
// Every armed auto-close carries the sequence number current when it was
// scheduled. Cancelling bumps the sequence, so a callback that was already
// queued when Stop lost the race does nothing when it finally runs.
type Disclosure struct {
	state     OpenState
	scheduler Scheduler
	delay     time.Duration

	// lockOpen rejects manual toggles while streaming.
	lockOpen bool

	streaming  bool
	interacted bool
	consumed   bool
	disposed   bool

	task Task
	seq  uint64

	onAutoClose func()
}

// NewDisclosure returns a machine in the Open state. A nil scheduler
// disables auto-close.
func NewDisclosure(scheduler Scheduler, delay time.Duration) *Disclosure {
	if delay < 0 {
		delay = 0
	}
	return &Disclosure{
		state:     &localOpen{open: true},
		scheduler: scheduler,
		delay:     delay,
		lockOpen:  true,
	}
}

// StreamStarted forces the panel open and re-arms auto-close for the new cycle.
func (d *Disclosure) StreamStarted() {
	if d.disposed {
		return
	}
	d.cancel()
	d.streaming = true
	d.interacted = false
	d.consumed = false
	d.state.SetOpen(true)
}

// StreamEnded schedules the auto-close unless the viewer took over, one is
// already pending, or this cycle already collapsed once. It reports whether
// a task was armed.
func (d *Disclosure) StreamEnded() bool {
	if d.disposed {
		return false
	}
	d.streaming = false
	return d.arm()
}

// UserSetOpen applies a manual expand or collapse. It returns false when the
// request was refused because the panel is locked open while streaming.
func (d *Disclosure) UserSetOpen(open bool) bool {
	if d.disposed {
		return false
	}
	if d.streaming && d.lockOpen {
		return false
	}
	d.cancel()
	d.interacted = true
	d.state.SetOpen(open)
	return true
}

// UserToggle flips the expanded state as a manual action.
func (d *Disclosure) UserToggle() bool {
	return d.UserSetOpen(!d.state.Open())
}

// Close cancels any pending auto-close. Further calls are no-ops.
func (d *Disclosure) Close() {
	if d.disposed {
		return
	}
	d.cancel()
	d.disposed = true
}

func (d *Disclosure) arm() bool {
	if d.interacted || d.consumed || d.task != nil || d.scheduler == nil {
		return false
	}
	d.seq++
	seq := d.seq
	d.task = d.scheduler.AfterFunc(d.delay, func() { d.fire(seq) })
	return true
}

func (d *Disclosure) fire(seq uint64) {
	if d.disposed || d.task == nil || seq != d.seq {
		return
	}
	d.task = nil
	d.consumed = true
	d.state.SetOpen(false)
	if d.onAutoClose != nil {
		d.onAutoClose()
	}
}

func (d *Disclosure) cancel() {
	if d.task != nil {
		d.task.Stop()
		d.task = nil
	}
	d.seq++
}

// Open reports whether the panel is expanded.
func (d *Disclosure) Open() bool { return d.state.Open() }

// Streaming reports the last streaming flag seen.
func (d *Disclosure) Streaming() bool { return d.streaming }

// UserInteracted reports whether a manual toggle happened this cycle.
func (d *Disclosure) UserInteracted() bool { return d.interacted }

// AutoClosePending reports whether an auto-close is armed.
func (d *Disclosure) AutoClosePending() bool { return d.task != nil }

// AutoCloseConsumed reports whether this cycle's auto-close already ran.
func (d *Disclosure) AutoCloseConsumed() bool { return d.consumed }

// Delay returns the auto-close delay.
func (d *Disclosure) Delay() time.Duration { return d.delay }

// SetLockOpen sets whether manual toggles are refused while streaming.
// An already-open streaming panel stays open either way.
func (d *Disclosure) SetLockOpen(lock bool) {
	d.lockOpen = lock
}

// LockOpen reports whether manual toggles are refused while streaming.
func (d *Disclosure) LockOpen() bool { return d.lockOpen }

// SetDelay changes the delay used by auto-closes armed from now on.
func (d *Disclosure) SetDelay(delay time.Duration) {
	if delay < 0 {
		delay = 0
	}
	d.delay = delay
}
