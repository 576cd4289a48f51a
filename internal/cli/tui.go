// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/thinkpane/internal/config"
	"github.com/jeranaias/thinkpane/internal/ui/chat"
)

// =============================================================================
// TUI
// =============================================================================

// runTUI starts the chat screen and blocks until it exits.
func runTUI(cmd *cobra.Command, opts *globalOptions) error {
	cfg, cfgPath, err := loadConfig(opts)
	if err != nil {
		return err
	}
	script, err := loadScript(opts.scriptPath, cfg)
	if err != nil {
		return err
	}

	logPath, err := cfg.LogPath()
	if err != nil {
		return err
	}
	logger, err := newLogger(opts, cfg, logPath)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", Version),
		zap.String("config", cfgPath),
		zap.String("script", script.Title),
		zap.Int("turns", script.Len()))

	zones := zone.New()
	defer zones.Close()

	m := chat.New(cfg, script,
		chat.WithLogger(logger),
		chat.WithVersion(Version),
		chat.WithZones(zones),
	)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
	)
	m.Dispatcher().Bind(p)

	if _, statErr := os.Stat(cfgPath); statErr == nil {
		w, err := config.Watch(cfgPath, config.DefaultWatchDebounce, logger, func(c *config.Config, err error) {
			m.Dispatcher().Send(chat.ConfigReloadedMsg{Config: c, Err: err})
		})
		if err != nil {
			logger.Warn("config watch disabled", zap.Error(err))
		} else {
			defer w.Close()
		}
	}

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	logger.Info("exited")
	return nil
}
