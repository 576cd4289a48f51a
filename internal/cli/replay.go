// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/thinkpane/internal/config"
	"github.com/jeranaias/thinkpane/internal/model"
	"github.com/jeranaias/thinkpane/internal/reasoning"
	"github.com/jeranaias/thinkpane/internal/replay"
	"github.com/jeranaias/thinkpane/internal/ui/components"
)

// replayOptions holds the flags of the replay command.
type replayOptions struct {
	simulate bool
	turn     int // 1-based; 0 plays every turn
}

// replayClock drives both the player and the panel's auto-close, so every
// callback runs on the replaying goroutine.
type replayClock interface {
	replay.Clock
	reasoning.Scheduler
}

// =============================================================================
// REPLAY COMMAND
// =============================================================================

func newReplayCmd(opts *globalOptions) *cobra.Command {
	ro := replayOptions{}

	cmd := &cobra.Command{
		Use:   "replay [SCRIPT]",
		Short: "Print the reasoning panel's transitions while a script plays",
		Long: `Plays a replay script without the TUI and prints one line each time the
reasoning panel changes: status, open or closed, and its label.

With --simulate the script runs on a virtual clock and finishes instantly.`,
		Example: `  thinkpane replay
  thinkpane replay trip.yaml --turn 2
  thinkpane replay trip.toml --simulate`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			local := *opts
			if len(args) == 1 {
				local.scriptPath = args[0]
			}
			return runReplay(cmd, &local, ro)
		},
	}

	cmd.Flags().BoolVar(&ro.simulate, "simulate", false, "run on a virtual clock instead of in real time")
	cmd.Flags().IntVar(&ro.turn, "turn", 0, "play only turn N (1-based); 0 plays every turn")
	return cmd
}

// runReplay plays the selected turns and prints their transcripts.
func runReplay(cmd *cobra.Command, opts *globalOptions, ro replayOptions) error {
	cfg, _, err := loadConfig(opts)
	if err != nil {
		return err
	}
	script, err := loadScript(opts.scriptPath, cfg)
	if err != nil {
		return err
	}
	if ro.turn < 0 || ro.turn > script.Len() {
		return &UsageError{Reason: fmt.Sprintf("--turn must be between 1 and %d", script.Len())}
	}

	logger, err := newLogger(opts, cfg, cfg.Log.File)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	turns := make([]int, 0, script.Len())
	if ro.turn > 0 {
		turns = append(turns, ro.turn-1)
	} else {
		for i := 0; i < script.Len(); i++ {
			turns = append(turns, i)
		}
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, TitleStyle.Render(script.Title))
	fmt.Fprintln(w, RenderSeparator(underlineWidth(script.Title)))
	for n, idx := range turns {
		if n > 0 {
			fmt.Fprintln(w)
		}
		if err := replayTurn(cmd.Context(), w, script, idx, cfg, ro.simulate, logger); err != nil {
			return err
		}
	}
	return nil
}

// underlineWidth sizes the title underline.
func underlineWidth(title string) int {
	if n := len(title); n > 0 && n < 60 {
		return n
	}
	return 60
}

// replayTurn plays one turn into a fresh panel. It waits for the panel to
// auto-close before returning, unless ctx is cancelled.
func replayTurn(ctx context.Context, w io.Writer, script *replay.Script, idx int, cfg *config.Config, simulate bool, logger *zap.Logger) error {
	var clock replayClock
	if simulate {
		clock = reasoning.NewManualClock(time.Now())
	} else {
		clock = replay.NewPacedClock()
	}

	t, _ := script.Turn(idx)
	fmt.Fprintf(w, "%s %s\n", LabelStyle.Render(fmt.Sprintf("Turn %d:", idx+1)), t.Prompt)

	msg := model.NewAssistantMessage(idx)
	tr := &transcript{w: w, clock: clock, start: clock.Now()}
	panel := reasoning.New(msg.Reasoning().ID,
		reasoning.WithClock(clock),
		reasoning.WithScheduler(clock),
		reasoning.WithAutoCloseDelay(cfg.Reasoning.AutoCloseDelay()),
		reasoning.WithLockOpenWhileStreaming(cfg.Reasoning.LockOpenWhileStreaming),
		reasoning.WithLogger(logger),
		reasoning.WithOnChange(tr.observe),
	)
	defer panel.Close()

	player := replay.NewPlayer(script, clock, cfg.Replay.TokensPerSecond, logger)
	err := player.Play(ctx, idx, replay.TargetFor(msg), func(ev replay.Event) {
		part := msg.Part(ev.PartID)
		if part == nil {
			return
		}
		part.SetText(ev.Text)
		part.SetStatus(ev.Status)
		if ev.Kind == model.PartReasoning {
			panel.Update(ev.Text, ev.Status)
		}
	})
	if err == nil && panel.Snapshot().AutoClosePending {
		err = clock.Sleep(ctx, cfg.Reasoning.AutoCloseDelay())
	}
	tr.answer(msg.Answer())
	return err
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// transcript prints a line whenever the panel's visible state changes.
type transcript struct {
	w     io.Writer
	clock reasoning.Clock
	start time.Time
	last  string
}

func (t *transcript) observe(s reasoning.Snapshot) {
	state := "closed"
	if s.Open {
		state = "open"
	}
	line := fmt.Sprintf("%-8s %-6s %s", s.Status, state, reasoning.ThinkingLabel(s.Streaming, s.Duration))
	if line == t.last {
		return
	}
	t.last = line

	if s.Status == reasoning.StatusError {
		line = ErrorStyle.Render(line)
	}
	elapsed := t.clock.Now().Sub(t.start).Seconds()
	fmt.Fprintf(t.w, "  %s %s\n", DimStyle.Render(fmt.Sprintf("[%6.2fs]", elapsed)), line)
}

func (t *transcript) answer(part *model.Part) {
	text := strings.TrimSpace(part.Text())
	if text == "" {
		if part.Status == reasoning.StatusError {
			fmt.Fprintf(t.w, "  %s\n", ErrorStyle.Render(components.AnswerStopped))
		}
		return
	}
	for _, line := range strings.Split(WrapText(text, GetTerminalWidth()-4), "\n") {
		fmt.Fprintf(t.w, "  %s\n", line)
	}
}
