// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reasoning

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestPanel(t *testing.T, opts ...Option) (*Panel, *ManualClock) {
	t.Helper()
	clock := NewManualClock(epoch)
	base := []Option{
		WithClock(clock),
		WithScheduler(clock),
		WithLogger(zaptest.NewLogger(t)),
	}
	p := New("part-1", append(base, opts...)...)
	t.Cleanup(p.Close)
	return p, clock
}

// =============================================================================
// SCENARIOS
// =============================================================================

func TestPanelScenarioThinkingEmpty(t *testing.T) {
	p, _ := newTestPanel(t)

	p.Update("", StatusRunning)

	assert.Equal(t, "Thinking...", p.Label())
	assert.Equal(t, Content{Fallback: "The model is still working through its reasoning.", Streaming: true}, p.Content())
	assert.True(t, p.Open())
	assert.Equal(t, "open", p.DataState())
}

func TestPanelScenarioCompletesThenAutoCloses(t *testing.T) {
	p, clock := newTestPanel(t)

	p.Update("", StatusRunning)
	clock.Advance(1200 * time.Millisecond)
	p.Update("step one...", StatusRunning)
	clock.Advance(1100 * time.Millisecond)
	p.Update("step one...", StatusComplete)

	want := Snapshot{
		ID:               "part-1",
		Status:           StatusComplete,
		Open:             true,
		Duration:         3,
		AutoClosePending: true,
	}
	if diff := cmp.Diff(want, p.Snapshot()); diff != "" {
		t.Fatalf("snapshot after completion (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Thought for 3 seconds", p.Label())

	clock.Advance(time.Second)
	assert.False(t, p.Open())
	assert.Equal(t, "closed", p.DataState())
	assert.Equal(t, "Thought for 3 seconds", p.Label(), "collapsing keeps the duration")
}

func TestPanelScenarioUserClickAfterCompletion(t *testing.T) {
	p, clock := newTestPanel(t)

	p.Update("", StatusRunning)
	clock.Advance(2300 * time.Millisecond)
	p.Update("step one...", StatusComplete)

	clock.Advance(200 * time.Millisecond)
	require.True(t, p.Toggle())
	assert.False(t, p.Open(), "user collapsed it")

	clock.Advance(5 * time.Second)
	assert.False(t, p.Open())

	require.True(t, p.Toggle())
	clock.Advance(5 * time.Second)
	assert.True(t, p.Open(), "panel stays where the user put it")
	assert.True(t, p.Snapshot().UserInteracted)
}

func TestPanelScenarioCompleteWithoutText(t *testing.T) {
	p, clock := newTestPanel(t)

	p.Update("", StatusComplete)

	assert.Equal(t, 0, p.Duration())
	assert.Equal(t, "Thought for a few seconds", p.Label())
	assert.Equal(t, "No reasoning was provided for this response.", p.Content().Fallback)

	// A part mounted after the fact still opens and collapses once.
	assert.True(t, p.Open())
	clock.Advance(time.Second)
	assert.False(t, p.Open())
}

// =============================================================================
// PROPERTIES
// =============================================================================

func TestPanelStreamingImpliesOpen(t *testing.T) {
	p, clock := newTestPanel(t)
	rng := rand.New(rand.NewSource(7))
	statuses := []Status{StatusRunning, StatusComplete, StatusError}

	for i := 0; i < 2000; i++ {
		switch rng.Intn(4) {
		case 0:
			p.Update("x", statuses[rng.Intn(len(statuses))])
		case 1:
			p.Toggle()
		case 2:
			p.SetOpen(rng.Intn(2) == 0)
		case 3:
			clock.Advance(time.Duration(rng.Intn(1500)) * time.Millisecond)
		}

		s := p.Snapshot()
		if s.Streaming && !s.Open {
			t.Fatalf("step %d: streaming panel is closed: %+v", i, s)
		}
		if clock.Pending() > 1 {
			t.Fatalf("step %d: %d auto-close tasks pending", i, clock.Pending())
		}
		if s.Timing != s.Streaming {
			t.Fatalf("step %d: timing interval open=%v while streaming=%v", i, s.Timing, s.Streaming)
		}
	}
}

func TestPanelToggleBeforeDelaySuppressesAutoClose(t *testing.T) {
	for _, at := range []time.Duration{0, 1, 250 * time.Millisecond, 999 * time.Millisecond} {
		p, clock := newTestPanel(t)
		p.Update("", StatusRunning)
		p.Update("t", StatusComplete)

		clock.Advance(at)
		p.SetOpen(true)
		clock.Advance(time.Minute)

		assert.True(t, p.Open(), "toggle at %v", at)
	}
}

func TestPanelRestartResetsDurationAndInteraction(t *testing.T) {
	p, clock := newTestPanel(t)

	p.Update("", StatusRunning)
	clock.Advance(4 * time.Second)
	p.Update("first", StatusComplete)
	p.Toggle()
	require.Equal(t, 4, p.Duration())
	require.True(t, p.Snapshot().UserInteracted)

	p.Update("", StatusRunning)

	s := p.Snapshot()
	assert.Equal(t, 0, s.Duration)
	assert.False(t, s.UserInteracted)
	assert.True(t, s.Open)
	assert.True(t, s.Timing)
	assert.Equal(t, "Thinking...", p.Label())

	clock.Advance(1500 * time.Millisecond)
	p.Update("second", StatusComplete)
	assert.Equal(t, 2, p.Duration())

	clock.Advance(time.Second)
	assert.False(t, p.Open(), "restarted cycle auto-closes again")
}

func TestPanelErrorEndsStream(t *testing.T) {
	p, clock := newTestPanel(t)

	p.Update("partial", StatusRunning)
	clock.Advance(500 * time.Millisecond)
	p.Update("partial", StatusError)

	assert.Equal(t, 1, p.Duration())
	assert.Equal(t, "Thought for 1 seconds", p.Label())
	assert.True(t, p.Snapshot().AutoClosePending)

	// complete -> error is not a transition
	p.Update("partial", StatusComplete)
	assert.Equal(t, 1, clock.Pending())
}

func TestPanelTextOnlyUpdatesDoNotRestartTiming(t *testing.T) {
	p, clock := newTestPanel(t)

	p.Update("a", StatusRunning)
	clock.Advance(time.Second)
	p.Update("ab", StatusRunning)
	clock.Advance(time.Second)
	p.Update("abc", StatusRunning)
	clock.Advance(500 * time.Millisecond)
	p.Update("abcd", StatusComplete)

	assert.Equal(t, 3, p.Duration())
	assert.Equal(t, "abcd", p.Text())
}

func TestPanelToggleRefusedWhileStreaming(t *testing.T) {
	p, _ := newTestPanel(t)
	p.Update("", StatusRunning)

	assert.False(t, p.Toggle())
	assert.False(t, p.SetOpen(false))
	assert.True(t, p.Open())
	assert.False(t, p.Snapshot().UserInteracted)
}

func TestPanelToggleWhileStreamingUnlocked(t *testing.T) {
	p, clock := newTestPanel(t, WithLockOpenWhileStreaming(false))
	p.Update("", StatusRunning)

	require.True(t, p.Toggle())
	assert.False(t, p.Open())

	p.Update("done", StatusComplete)
	clock.Advance(time.Minute)
	assert.False(t, p.Open())
	assert.Zero(t, clock.Pending())

	p.Update("", StatusRunning)
	assert.True(t, p.Open(), "new cycle forces the panel open again")
}

func TestPanelLockPolicyChangeAppliesToMountedPanel(t *testing.T) {
	p, _ := newTestPanel(t)
	p.Update("", StatusRunning)
	require.False(t, p.Toggle())

	p.SetLockOpenWhileStreaming(false)
	require.True(t, p.Toggle())
	assert.False(t, p.Open())
	assert.True(t, p.Snapshot().UserInteracted)
}

func TestPanelCloseIgnoresInput(t *testing.T) {
	p, clock := newTestPanel(t)

	p.Update("", StatusRunning)
	p.Update("x", StatusComplete)
	p.Close()

	assert.Zero(t, clock.Pending())
	clock.Advance(time.Minute)
	assert.True(t, p.Open())

	p.Update("y", StatusRunning)
	assert.Equal(t, "x", p.Text())
	assert.False(t, p.Toggle())
	assert.True(t, p.Snapshot().Closed)
}

func TestPanelOnChange(t *testing.T) {
	var seen []Snapshot
	p, clock := newTestPanel(t, WithOnChange(func(s Snapshot) { seen = append(seen, s) }))

	p.Update("", StatusRunning)
	p.Update("x", StatusComplete)
	clock.Advance(time.Second)

	require.Len(t, seen, 3)
	assert.True(t, seen[0].Streaming)
	assert.True(t, seen[1].AutoClosePending)
	assert.False(t, seen[2].Open)
}

func TestPanelControlledOpenState(t *testing.T) {
	owner := false
	p, clock := newTestPanel(t, WithOpenState(FuncOpenState{
		Get: func() bool { return owner },
		Set: func(open bool) { owner = open },
	}))
	assert.True(t, owner, "holder is opened on mount")

	p.Update("", StatusComplete)
	clock.Advance(time.Second)
	assert.False(t, owner)

	owner = true
	assert.True(t, p.Open(), "panel reads through to the owner")
}

func TestPanelAutoCloseDelayChange(t *testing.T) {
	p, clock := newTestPanel(t, WithAutoCloseDelay(200*time.Millisecond))

	p.Update("", StatusComplete)
	clock.Advance(200 * time.Millisecond)
	require.False(t, p.Open())

	p.SetAutoCloseDelay(2 * time.Second)
	p.Update("", StatusRunning)
	p.Update("", StatusComplete)
	clock.Advance(time.Second)
	assert.True(t, p.Open())
	clock.Advance(time.Second)
	assert.False(t, p.Open())
}

func TestPanelWithoutScheduler(t *testing.T) {
	clock := NewManualClock(epoch)
	p := New("no-sched", WithClock(clock))
	defer p.Close()

	p.Update("", StatusRunning)
	p.Update("x", StatusComplete)
	clock.Advance(time.Minute)
	assert.True(t, p.Open())
}
