// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reasoning

import "time"

// =============================================================================
// TIMING ENGINE
// =============================================================================

// Timing measures one thinking interval at a time.
//
// start is only meaningful while open is true; duration is written when an
// interval closes and cleared when a new one begins.
type Timing struct {
	clock    Clock
	start    time.Time
	open     bool
	duration int
}

// NewTiming creates a timing engine reading from clock.
func NewTiming(clock Clock) *Timing {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Timing{clock: clock}
}

// Begin is called when streaming starts. The previous duration is dropped
// and an interval is opened unless one is already open.
func (t *Timing) Begin() {
	t.duration = 0
	if t.open {
		return
	}
	t.start = t.clock.Now()
	t.open = true
}

// End closes the open interval and returns the measured whole seconds.
// ok is false when no interval was open, in which case duration is untouched.
func (t *Timing) End() (seconds int, ok bool) {
	if !t.open {
		return t.duration, false
	}
	t.duration = CeilSeconds(t.clock.Now().Sub(t.start))
	t.open = false
	t.start = time.Time{}
	return t.duration, true
}

// Duration returns the last measured thinking time in seconds.
func (t *Timing) Duration() int {
	return t.duration
}

// Running reports whether an interval is open.
func (t *Timing) Running() bool {
	return t.open
}

// StartedAt returns the start of the open interval.
func (t *Timing) StartedAt() (time.Time, bool) {
	return t.start, t.open
}

// Elapsed returns the live length of the open interval, or zero.
func (t *Timing) Elapsed() time.Duration {
	if !t.open {
		return 0
	}
	return t.clock.Now().Sub(t.start)
}

// CeilSeconds rounds d up to whole seconds so a measurement is never
// under-reported. Non-positive durations yield 0.
func CeilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}
