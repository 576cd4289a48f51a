// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package replay

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jeranaias/thinkpane/internal/model"
	"github.com/jeranaias/thinkpane/internal/reasoning"
)

// DefaultTokensPerSecond paces playback when no rate is configured.
const DefaultTokensPerSecond = 40

// Clock is the time source a Player waits on.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

// =============================================================================
// EVENTS
// =============================================================================

// Event is one update to a part: its full text so far and its status.
type Event struct {
	TurnIndex int
	MessageID string
	PartID    string
	Kind      model.PartKind
	Text      string
	Status    reasoning.Status
}

// Target names the message and parts a turn streams into.
type Target struct {
	MessageID   string
	ReasoningID string
	AnswerID    string
}

// TargetFor returns the target for an assistant message.
func TargetFor(msg *model.Message) Target {
	t := Target{MessageID: msg.ID}
	if r := msg.Reasoning(); r != nil {
		t.ReasoningID = r.ID
	}
	if a := msg.Answer(); a != nil {
		t.AnswerID = a.ID
	}
	return t
}

// =============================================================================
// PLAYER
// =============================================================================

// Player streams the turns of a script.
type Player struct {
	script *Script
	clock  Clock
	limit  rate.Limit
	logger *zap.Logger
}

// NewPlayer creates a player. tokensPerSecond <= 0 disables pacing.
// A nil logger discards output.
func NewPlayer(script *Script, clock Clock, tokensPerSecond float64, logger *zap.Logger) *Player {
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := rate.Inf
	if tokensPerSecond > 0 {
		limit = rate.Limit(tokensPerSecond)
	}
	return &Player{script: script, clock: clock, limit: limit, logger: logger}
}

// Script returns the script being played.
func (p *Player) Script() *Script {
	return p.script
}

// Play streams turn into target, calling emit for every update. The
// reasoning part runs for at least the turn's think time, then the answer
// streams. If ctx is cancelled the parts still in flight are reported with
// status error and ctx.Err() is returned.
func (p *Player) Play(ctx context.Context, turn int, target Target, emit func(Event)) error {
	t, idx := p.script.Turn(turn)
	if idx < 0 {
		return &ScriptError{Path: p.script.Path, Turn: -1, Msg: "no turns"}
	}
	log := p.logger.With(zap.Int("turn", idx), zap.String("message", target.MessageID))
	limiter := rate.NewLimiter(p.limit, 1)

	send := func(partID string, kind model.PartKind, text string, status reasoning.Status) {
		emit(Event{
			TurnIndex: idx,
			MessageID: target.MessageID,
			PartID:    partID,
			Kind:      kind,
			Text:      text,
			Status:    status,
		})
	}

	var thought, answer strings.Builder
	thinking := true
	abort := func(err error) error {
		log.Debug("replay cancelled", zap.Bool("thinking", thinking), zap.Error(err))
		if thinking {
			send(target.ReasoningID, model.PartReasoning, thought.String(), reasoning.StatusError)
		}
		send(target.AnswerID, model.PartText, answer.String(), reasoning.StatusError)
		return err
	}

	start := p.clock.Now()
	log.Debug("replay turn started", zap.Int("chunks", len(t.Reasoning)))
	send(target.ReasoningID, model.PartReasoning, "", reasoning.StatusRunning)

	for _, c := range t.Reasoning {
		if err := p.clock.Sleep(ctx, c.Delay()); err != nil {
			return abort(err)
		}
		err := p.stream(ctx, limiter, c.Text, &thought, func(text string) {
			send(target.ReasoningID, model.PartReasoning, text, reasoning.StatusRunning)
		})
		if err != nil {
			return abort(err)
		}
	}
	if rest := t.ThinkTime() - p.clock.Now().Sub(start); rest > 0 {
		if err := p.clock.Sleep(ctx, rest); err != nil {
			return abort(err)
		}
	}

	final := t.FinalStatus()
	thinking = false
	send(target.ReasoningID, model.PartReasoning, thought.String(), final)
	log.Debug("replay reasoning finished",
		zap.String("status", final.String()),
		zap.Duration("elapsed", p.clock.Now().Sub(start)))

	if final == reasoning.StatusError {
		send(target.AnswerID, model.PartText, "", reasoning.StatusError)
		return nil
	}

	err := p.stream(ctx, limiter, t.Answer, &answer, func(text string) {
		send(target.AnswerID, model.PartText, text, reasoning.StatusRunning)
	})
	if err != nil {
		return abort(err)
	}
	send(target.AnswerID, model.PartText, answer.String(), reasoning.StatusComplete)
	return nil
}

// stream appends text to buf one token at a time, waiting on the limiter
// before each token.
func (p *Player) stream(ctx context.Context, limiter *rate.Limiter, text string, buf *strings.Builder, update func(string)) error {
	for _, tok := range Tokens(text) {
		now := p.clock.Now()
		delay := limiter.ReserveN(now, 1).DelayFrom(now)
		if err := p.clock.Sleep(ctx, delay); err != nil {
			return err
		}
		buf.WriteString(tok)
		update(buf.String())
	}
	return ctx.Err()
}

// Tokens splits text into word tokens, each keeping its trailing
// whitespace, so joining them restores the text.
func Tokens(text string) []string {
	var out []string
	start := 0
	inSpace := false
	for i, r := range text {
		space := r == ' ' || r == '\n' || r == '\t'
		if inSpace && !space {
			out = append(out, text[start:i])
			start = i
		}
		inSpace = space
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}

// =============================================================================
// PACED CLOCK
// =============================================================================

// PacedClock drives a ManualClock in real time: Sleep waits on the wall
// clock, then advances the manual clock by the same amount. Timers armed on
// the manual clock therefore fire on the sleeping goroutine.
type PacedClock struct {
	*reasoning.ManualClock
	wall reasoning.SystemClock
}

// NewPacedClock returns a paced clock starting at the current time.
func NewPacedClock() *PacedClock {
	return &PacedClock{ManualClock: reasoning.NewManualClock(time.Now())}
}

// Sleep waits for d, then advances the virtual time.
func (c *PacedClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := c.wall.Sleep(ctx, d); err != nil {
		return err
	}
	c.Advance(d)
	return nil
}
