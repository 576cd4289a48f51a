// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "thinkpane.log")

	logger, err := New(Options{Level: "info", File: path})
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("panel auto-closed", zap.String("panel", "part-1"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "panel auto-closed", entry["msg"])
	assert.Equal(t, "part-1", entry["panel"])
	assert.Equal(t, "info", entry["level"])
}

func TestNew_DebugFlagWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")

	logger, err := New(Options{Level: "error", Debug: true, File: path})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.ErrorContains(t, err, `invalid log level "loud"`)
}

func TestNop(t *testing.T) {
	assert.False(t, Nop().Core().Enabled(zap.ErrorLevel))
}
