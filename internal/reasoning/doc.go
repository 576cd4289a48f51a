// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package reasoning implements the state behind a reasoning disclosure panel:
the collapsible block that shows a model's "thinking" trace above its answer.

A Panel combines two state holders that share the streaming flag:

  - Timing measures how long a thinking phase lasted, from the moment the
    reasoning part starts streaming until it stops, rounded up to whole
    seconds.
  - Disclosure decides whether the panel is expanded. It is forced open while
    streaming and collapses itself shortly after streaming ends unless the
    viewer has toggled it by hand.

The package has no UI dependency. Rendering lives in internal/ui/components,
which reads a Panel through Snapshot, Label and Content.

# Threading

A Panel is owned by a single goroutine (the Bubble Tea event loop in the TUI)
and is not safe for concurrent use. Delayed work goes through a Scheduler,
whose callbacks must run on that same goroutine. DispatchScheduler arms a
runtime timer and hands the expired callback to a dispatch function, which
the TUI wires to tea.Program.Send. ManualClock is a Clock and Scheduler on
virtual time for tests and simulated replays.

# Usage

	p := reasoning.New("part-1",
		reasoning.WithScheduler(sched),
		reasoning.WithAutoCloseDelay(time.Second),
	)
	defer p.Close()

	p.Update("", reasoning.StatusRunning)     // open, "Thinking..."
	p.Update("step one", reasoning.StatusComplete)
	fmt.Println(p.Label())                    // "Thought for 3 seconds"
*/
package reasoning
