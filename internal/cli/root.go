// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/thinkpane/internal/config"
	"github.com/jeranaias/thinkpane/internal/logging"
	"github.com/jeranaias/thinkpane/internal/replay"
)

// AppName is the binary name.
const AppName = "thinkpane"

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// globalOptions holds the persistent flags.
type globalOptions struct {
	configPath string
	scriptPath string
	logFile    string
	debug      bool
}

// =============================================================================
// ROOT COMMAND
// =============================================================================

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   AppName,
		Short: "Terminal chat viewer with collapsible reasoning panels",
		Long: `thinkpane plays scripted model turns into a chat thread. Each answer
carries a reasoning panel that stays open while the model thinks, shows
how long it thought, and folds itself away a moment later.

Without a terminal, thinkpane prints the replay instead of starting the TUI.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			applyColorProfile()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !CanRunTUI() {
				fmt.Fprintln(cmd.ErrOrStderr(), DimStyle.Render("No terminal detected; printing the replay instead."))
				return runReplay(cmd, opts, replayOptions{})
			}
			return runTUI(cmd, opts)
		},
	}

	cmd.Version = fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate)
	cmd.SetVersionTemplate(AppName + " version {{.Version}}\n")

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default $"+config.EnvConfigPath+" or ~/.thinkpane/config.toml)")
	flags.StringVar(&opts.scriptPath, "script", "", "replay script (YAML or TOML); overrides replay.script")
	flags.StringVar(&opts.logFile, "log-file", "", "log file; overrides log.file")
	flags.BoolVar(&opts.debug, "debug", false, "log at debug level")

	cmd.AddCommand(
		newReplayCmd(opts),
		newConfigCmd(opts),
	)
	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := NewRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return ExitSuccess
		}
		DisplayError(cmd.ErrOrStderr(), err)
		return GetExitCode(err)
	}
	return ExitSuccess
}

// =============================================================================
// SHARED LOADERS
// =============================================================================

// loadConfig reads the config named by --config, or the default location.
// It returns the path the config lives at even when the file is absent.
func loadConfig(opts *globalOptions) (*config.Config, string, error) {
	if opts.configPath != "" {
		cfg, err := config.LoadFromPath(opts.configPath)
		if err != nil {
			return nil, "", NewCommandError("config", "load", err)
		}
		return cfg, opts.configPath, nil
	}

	path, err := config.Path()
	if err != nil {
		return nil, "", NewCommandError("config", "locate", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, "", NewCommandError("config", "load", err)
	}
	return cfg, path, nil
}

// loadScript loads path, falling back to the configured script and then to
// the built-in demo.
func loadScript(path string, cfg *config.Config) (*replay.Script, error) {
	if path == "" {
		path = cfg.Replay.Script
	}
	if path == "" {
		return replay.Demo(), nil
	}
	return replay.Load(path)
}

// newLogger builds the command logger. --log-file overrides file. With no
// file at all, logs are dropped unless --debug sends them to stderr.
func newLogger(opts *globalOptions, cfg *config.Config, file string) (*zap.Logger, error) {
	if opts.logFile != "" {
		file = opts.logFile
	}
	if file == "" && !opts.debug {
		return logging.Nop(), nil
	}
	if file == "" {
		return logging.New(logging.Options{Level: cfg.Log.Level, Debug: true})
	}
	return logging.New(logging.Options{Level: cfg.Log.Level, Debug: opts.debug, File: file})
}
