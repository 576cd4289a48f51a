// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reasoning

import (
	"context"
	"sort"
	"sync"
	"time"
)

// =============================================================================
// CLOCK AND SCHEDULER
// =============================================================================

// Clock supplies the current time to the timing engine.
type Clock interface {
	Now() time.Time
}

// Task is a scheduled callback that can be cancelled.
// Stop reports whether the call prevented the callback from running.
type Task interface {
	Stop() bool
}

// Scheduler arms delayed callbacks. Implementations must run f on the
// goroutine that owns the Panel.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Task
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Sleep blocks for d or until ctx is done.
func (SystemClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// DispatchScheduler arms a runtime timer and, when it expires, passes the
// callback to Dispatch instead of running it on the timer goroutine.
// Dispatch is expected to queue the callback onto the owner's event loop.
type DispatchScheduler struct {
	Dispatch func(func())
}

// AfterFunc implements Scheduler.
func (s DispatchScheduler) AfterFunc(d time.Duration, f func()) Task {
	if s.Dispatch == nil {
		panic("reasoning: DispatchScheduler used without a Dispatch func")
	}
	return time.AfterFunc(d, func() { s.Dispatch(f) })
}

// =============================================================================
// MANUAL CLOCK
// =============================================================================

// ManualClock is a Clock and Scheduler driven by Advance. Timers fire
// synchronously on the goroutine that calls Advance, in due order.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Time
	order  uint64
	timers []*manualTimer
}

type manualTimer struct {
	clock *ManualClock
	due   time.Time
	order uint64
	f     func()
	done  bool
}

// NewManualClock returns a clock reading start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the virtual time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc schedules f to run once the clock has advanced by d.
func (c *ManualClock) AfterFunc(d time.Duration, f func()) Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d < 0 {
		d = 0
	}
	c.order++
	t := &manualTimer{clock: c, due: c.now.Add(d), order: c.order, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Stop cancels the timer if it has not fired yet.
func (t *manualTimer) Stop() bool {
	c := t.clock
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	c.remove(t)
	return true
}

// Advance moves the clock forward by d, running every timer that falls due
// on the way. Timers armed by those callbacks fire too if they are due
// before the new time.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.nextDue(target)
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		next.done = true
		c.remove(next)
		if next.due.After(c.now) {
			c.now = next.due
		}
		c.mu.Unlock()

		next.f()
	}
}

// Sleep advances the clock by d. It exists so a ManualClock can stand in
// for SystemClock in simulated replays.
func (c *ManualClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d > 0 {
		c.Advance(d)
	}
	return nil
}

// Pending returns the number of armed timers.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// nextDue returns the earliest timer due at or before limit. Caller holds mu.
func (c *ManualClock) nextDue(limit time.Time) *manualTimer {
	if len(c.timers) == 0 {
		return nil
	}
	sort.SliceStable(c.timers, func(i, j int) bool {
		a, b := c.timers[i], c.timers[j]
		if a.due.Equal(b.due) {
			return a.order < b.order
		}
		return a.due.Before(b.due)
	})
	if c.timers[0].due.After(limit) {
		return nil
	}
	return c.timers[0]
}

// remove drops t from the armed list. Caller holds mu.
func (c *ManualClock) remove(t *manualTimer) {
	for i, cur := range c.timers {
		if cur == t {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return
		}
	}
}
