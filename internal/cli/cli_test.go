// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/thinkpane/internal/config"
	"github.com/jeranaias/thinkpane/internal/replay"
	"github.com/jeranaias/thinkpane/internal/ui/components"
)

// =============================================================================
// HELPERS
// =============================================================================

func TestMain(m *testing.M) {
	os.Setenv("NO_COLOR", "1")
	os.Exit(m.Run())
}

// isolate points every config lookup at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv(config.EnvConfigPath, filepath.Join(dir, "config.toml"))
	for _, name := range []string{
		"THINKPANE_AUTO_CLOSE_MS",
		"THINKPANE_THEME",
		"THINKPANE_SCRIPT",
		"THINKPANE_LOG_LEVEL",
		"THINKPANE_LOG_FILE",
	} {
		t.Setenv(name, "")
	}
	return dir
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

const ferryScript = `title: Ferry times
turns:
  - prompt: When is the last ferry?
    think_ms: 2300
    reasoning:
      - text: Check the weekend timetable.
        delay_ms: 400
    answer: The last ferry leaves at 23:40.
  - prompt: And on Sunday?
    think_ms: 1200
    status: error
    reasoning:
      - text: Sunday service differs.
`

// instantConfig disables token pacing so only think time moves the clock.
const instantConfig = `[replay]
tokens_per_second = 0
`

// =============================================================================
// REPLAY
// =============================================================================

func TestReplay_SimulatePrintsTransitions(t *testing.T) {
	dir := isolate(t)
	script := writeFile(t, dir, "ferry.yaml", ferryScript)
	cfg := writeFile(t, dir, "config.toml", instantConfig)

	out, _, err := run(t, "replay", script, "--simulate", "--turn", "1", "--config", cfg)
	require.NoError(t, err)

	assert.Contains(t, out, "Ferry times")
	assert.Contains(t, out, "Turn 1: When is the last ferry?")
	assert.Contains(t, out, "[  0.00s] running  open   Thinking...")
	assert.Contains(t, out, "[  2.30s] complete open   Thought for 3 seconds")
	assert.Contains(t, out, "[  3.30s] complete closed Thought for 3 seconds")
	assert.Contains(t, out, "  The last ferry leaves at 23:40.")
	assert.NotContains(t, out, "Turn 2:")

	// Transitions are printed in order.
	open := strings.Index(out, "complete open")
	closed := strings.Index(out, "complete closed")
	assert.Less(t, open, closed)
}

func TestReplay_DelayFromEnvironment(t *testing.T) {
	dir := isolate(t)
	script := writeFile(t, dir, "ferry.yaml", ferryScript)
	cfg := writeFile(t, dir, "config.toml", instantConfig)
	t.Setenv("THINKPANE_AUTO_CLOSE_MS", "500")

	out, _, err := run(t, "replay", script, "--simulate", "--turn", "1", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "[  2.80s] complete closed Thought for 3 seconds")
}

func TestReplay_ErrorTurn(t *testing.T) {
	dir := isolate(t)
	script := writeFile(t, dir, "ferry.yaml", ferryScript)
	cfg := writeFile(t, dir, "config.toml", instantConfig)

	out, _, err := run(t, "replay", script, "--simulate", "--turn", "2", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Turn 2: And on Sunday?")
	assert.Contains(t, out, "error    ")
	assert.Contains(t, out, components.AnswerStopped)
}

func TestReplay_AllTurns(t *testing.T) {
	dir := isolate(t)
	script := writeFile(t, dir, "ferry.yaml", ferryScript)
	cfg := writeFile(t, dir, "config.toml", instantConfig)

	out, _, err := run(t, "replay", "--script", script, "--simulate", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Turn 1:")
	assert.Contains(t, out, "Turn 2:")
}

func TestReplay_DemoScript(t *testing.T) {
	dir := isolate(t)
	cfg := writeFile(t, dir, "config.toml", instantConfig)

	out, _, err := run(t, "replay", "--simulate", "--turn", "1", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, replay.Demo().Title)
	assert.Contains(t, out, "Turn 1: Plan a weekend in Lisbon")
}

func TestReplay_TurnOutOfRange(t *testing.T) {
	dir := isolate(t)
	script := writeFile(t, dir, "ferry.yaml", ferryScript)

	for _, turn := range []string{"3", "-1"} {
		t.Run(turn, func(t *testing.T) {
			_, _, err := run(t, "replay", script, "--simulate", "--turn="+turn)
			require.Error(t, err)

			var usage *UsageError
			require.ErrorAs(t, err, &usage)
			assert.Equal(t, "--turn must be between 1 and 2", usage.Reason)
			assert.Equal(t, ExitUsageError, GetExitCode(err))
		})
	}
}

func TestReplay_BadScript(t *testing.T) {
	dir := isolate(t)

	tests := []struct {
		name string
		file string
		body string
	}{
		{"missing", "absent.yaml", ""},
		{"no turns", "empty.yaml", "title: nothing\n"},
		{"extension", "script.json", "{}"},
		{"negative think", "neg.toml", "[[turns]]\nprompt = \"hi\"\nthink_ms = -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if tt.body != "" {
				path = writeFile(t, dir, tt.file, tt.body)
			}
			_, _, err := run(t, "replay", path, "--simulate")
			require.Error(t, err)
			assert.Equal(t, ExitScriptError, GetExitCode(err))
		})
	}
}

// =============================================================================
// CONFIG
// =============================================================================

func TestConfig_InitThenShow(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "nested", "config.toml")

	out, _, err := run(t, "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)
	assert.FileExists(t, path)

	out, _, err = run(t, "config", "show", "reasoning.auto_close_delay_ms", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, "1000\n", out)

	out, _, err = run(t, "config", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "# "+path)
	assert.Contains(t, out, "auto_close_delay_ms = 1000")
	assert.Contains(t, out, "lock_open_while_streaming = true")
}

func TestConfig_InitRefusesOverwrite(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "config.toml", instantConfig)

	_, _, err := run(t, "config", "init", "--config", path)
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, instantConfig, string(data))

	_, _, err = run(t, "config", "init", "--force", "--config", path)
	require.NoError(t, err)
	cfg, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Replay.TokensPerSecond, cfg.Replay.TokensPerSecond)
}

func TestConfig_Path(t *testing.T) {
	dir := isolate(t)

	out, stderr, err := run(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml")+"\n", out)
	assert.Contains(t, stderr, "config init")
}

func TestConfig_ShowUnknownKey(t *testing.T) {
	isolate(t)

	_, _, err := run(t, "config", "show", "reasoning.nope")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
	assert.Contains(t, err.Error(), "unknown key: reasoning.nope")
}

func TestConfig_InvalidFile(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "bad.toml", "[reasoning]\nauto_close_delay_ms = -5\n\n[ui]\nword_wrap = 5\n")

	_, _, err := run(t, "config", "show", "--config", path)
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, GetExitCode(err))

	var buf bytes.Buffer
	DisplayError(&buf, err)
	assert.Contains(t, buf.String(), "Error:")
	assert.Contains(t, buf.String(), "  - reasoning.auto_close_delay_ms:")
	assert.Contains(t, buf.String(), "  - ui.word_wrap:")
}

// =============================================================================
// ERRORS AND TERMINAL HELPERS
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain", errors.New("boom"), ExitGeneralError},
		{"usage", &UsageError{Reason: "bad flag"}, ExitUsageError},
		{"wrapped usage", fmt.Errorf("outer: %w", &UsageError{Reason: "x"}), ExitUsageError},
		{"validation", config.ValidateErrors{{Field: "ui.theme", Message: "bad"}}, ExitConfigError},
		{"script", &replay.ScriptError{Turn: -1, Msg: "no turns"}, ExitScriptError},
		{"config command", NewCommandError("config", "load", errors.New("eof")), ExitConfigError},
		{"other command", NewCommandError("replay", "play", errors.New("eof")), ExitGeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestCommandError_Unwrap(t *testing.T) {
	inner := errors.New("disk full")
	err := NewCommandError("config", "init", inner)
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "disk full")
}

func TestDisplayError_Nil(t *testing.T) {
	var buf bytes.Buffer
	DisplayError(&buf, nil)
	assert.Empty(t, buf.String())
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"fits", "short line", 20, "short line"},
		{"wraps", "the quick brown fox jumps", 10, "the quick\nbrown fox\njumps"},
		{"keeps newlines", "a\nb", 10, "a\nb"},
		{"long word", "supercalifragilistic", 5, "supercalifragilistic"},
		{"wide runes", "日本語 日本語", 8, "日本語\n日本語"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WrapText(tt.text, tt.width))
		})
	}
}

func TestUnderlineWidth(t *testing.T) {
	assert.Equal(t, 5, underlineWidth("Ferry"))
	assert.Equal(t, 60, underlineWidth(""))
	assert.Equal(t, 60, underlineWidth(strings.Repeat("x", 90)))
}
