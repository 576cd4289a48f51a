// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jeranaias/thinkpane/internal/util"
)

// clearEnv blanks every variable ApplyEnvOverrides reads.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		EnvConfigPath,
		"THINKPANE_AUTO_CLOSE_MS",
		"THINKPANE_THEME",
		"THINKPANE_SCRIPT",
		"THINKPANE_LOG_LEVEL",
		"THINKPANE_LOG_FILE",
	} {
		t.Setenv(name, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// =============================================================================
// LOAD TESTS
// =============================================================================

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, time.Second, cfg.Reasoning.AutoCloseDelay())
	assert.True(t, cfg.Reasoning.LockOpenWhileStreaming)
}

func TestLoadFromPath_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[reasoning]
auto_close_delay_ms = 2500

[ui]
theme = "dark"
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, 2500*time.Millisecond, cfg.Reasoning.AutoCloseDelay())
	assert.True(t, cfg.Reasoning.LockOpenWhileStreaming, "unset bool keeps its default")
	assert.Equal(t, "dark", cfg.UI.Theme)
	assert.Equal(t, 80, cfg.UI.WordWrap)
	assert.Equal(t, 40.0, cfg.Replay.TokensPerSecond)
}

func TestLoadFromPath_UnknownKey(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[reasoning]\nauto_close = 5\n")

	_, err := LoadFromPath(path)
	require.Error(t, err)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 1)
	assert.Equal(t, "reasoning.auto_close", verrs[0].Field)
}

func TestLoadFromPath_Malformed(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[reasoning\n")

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvConfigPath, filepath.Join(t.TempDir(), "absent.toml"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_UsesEnvPath(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[replay]\ntokens_per_second = 0\n")
	t.Setenv(EnvConfigPath, path)

	got, err := Path()
	require.NoError(t, err)
	assert.Equal(t, path, got)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Zero(t, cfg.Replay.TokensPerSecond)
}

func TestApplyEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("THINKPANE_AUTO_CLOSE_MS", "250")
	t.Setenv("THINKPANE_THEME", "light")
	t.Setenv("THINKPANE_SCRIPT", "/tmp/lisbon.yaml")
	t.Setenv("THINKPANE_LOG_LEVEL", "debug")
	t.Setenv("THINKPANE_LOG_FILE", "/tmp/tp.log")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, 250, cfg.Reasoning.AutoCloseDelayMS)
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.Equal(t, "/tmp/lisbon.yaml", cfg.Replay.Script)
	assert.Equal(t, "debug", cfg.Log.Level)
	logPath, err := cfg.LogPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/tp.log", logPath)
}

func TestApplyEnvOverrides_BadDelayIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("THINKPANE_AUTO_CLOSE_MS", "soon")

	cfg := Default()
	cfg.ApplyEnvOverrides()
	assert.Equal(t, 1000, cfg.Reasoning.AutoCloseDelayMS)
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Reasoning.LockOpenWhileStreaming = false
	cfg.UI.MarkdownStyle = "dracula"

	require.NoError(t, Save(cfg, path))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		fields []string
	}{
		{"defaults", func(*Config) {}, nil},
		{"zero delay allowed", func(c *Config) { c.Reasoning.AutoCloseDelayMS = 0 }, nil},
		{"negative delay", func(c *Config) { c.Reasoning.AutoCloseDelayMS = -1 }, []string{"reasoning.auto_close_delay_ms"}},
		{"huge delay", func(c *Config) { c.Reasoning.AutoCloseDelayMS = MaxAutoCloseDelayMS + 1 }, []string{"reasoning.auto_close_delay_ms"}},
		{"theme case-insensitive", func(c *Config) { c.UI.Theme = "Dark" }, nil},
		{"bad theme", func(c *Config) { c.UI.Theme = "neon" }, []string{"ui.theme"}},
		{"bad markdown style", func(c *Config) { c.UI.MarkdownStyle = "fancy" }, []string{"ui.markdown_style"}},
		{"narrow wrap", func(c *Config) { c.UI.WordWrap = 5 }, []string{"ui.word_wrap"}},
		{"negative rate", func(c *Config) { c.Replay.TokensPerSecond = -1 }, []string{"replay.tokens_per_second"}},
		{"script extension", func(c *Config) { c.Replay.Script = "turns.json" }, []string{"replay.script"}},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, []string{"log.level"}},
		{"several", func(c *Config) {
			c.UI.Theme = "neon"
			c.Log.Level = "loud"
		}, []string{"ui.theme", "log.level"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			var verrs ValidateErrors
			require.True(t, errors.As(err, &verrs), "got %v", err)
			var fields []string
			for _, v := range verrs {
				fields = append(fields, v.Field)
			}
			assert.Equal(t, tt.fields, fields)
		})
	}
}

func TestValidateErrors_Error(t *testing.T) {
	assert.Equal(t, "no validation errors", ValidateErrors{}.Error())
	errs := ValidateErrors{
		{Field: "ui.theme", Message: "bad"},
		{Field: "log.level", Message: "worse"},
	}
	assert.Equal(t, "ui.theme: bad; log.level: worse", errs.Error())
}

func TestGet(t *testing.T) {
	cfg := Default()

	v, err := cfg.Get("reasoning.auto_close_delay_ms")
	require.NoError(t, err)
	assert.Equal(t, 1000, v)

	v, err = cfg.Get("ui")
	require.NoError(t, err)
	assert.Equal(t, cfg.UI, v)

	_, err = cfg.Get("ui.nope")
	assert.EqualError(t, err, "unknown key: ui.nope")
	_, err = cfg.Get("ui.theme.x")
	assert.EqualError(t, err, "'ui.theme' is not a section")
	_, err = cfg.Get("")
	assert.Error(t, err)
}

// =============================================================================
// WATCH TESTS
// =============================================================================

func TestWatch_ReloadsOnAtomicReplace(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[reasoning]\nauto_close_delay_ms = 1000\n")

	type result struct {
		cfg *Config
		err error
	}
	results := make(chan result, 8)
	w, err := Watch(path, 20*time.Millisecond, zaptest.NewLogger(t), func(c *Config, err error) {
		results <- result{c, err}
	})
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, util.AtomicWriteFile(path, []byte("[reasoning]\nauto_close_delay_ms = 300\n"), 0o644))

	select {
	case r := <-results:
		require.NoError(t, r.err)
		assert.Equal(t, 300, r.cfg.Reasoning.AutoCloseDelayMS)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after the file changed")
	}
}

func TestWatch_ReportsInvalidFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "")

	errs := make(chan error, 8)
	w, err := Watch(path, 20*time.Millisecond, nil, func(_ *Config, err error) {
		errs <- err
	})
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("[ui]\ntheme = \"neon\"\n"), 0o644))

	// The truncate and the write may be seen as separate changes.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case err := <-errs:
			if err == nil {
				continue
			}
			var verrs ValidateErrors
			assert.True(t, errors.As(err, &verrs))
			return
		case <-deadline:
			t.Fatal("no failed reload after the file changed")
		}
	}
}

func TestWatch_CloseIsIdempotent(t *testing.T) {
	path := writeConfig(t, "")
	w, err := Watch(path, time.Millisecond, nil, func(*Config, error) {})
	require.NoError(t, err)

	assert.Equal(t, path, w.Path())
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
