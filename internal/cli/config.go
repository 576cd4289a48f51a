// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeranaias/thinkpane/internal/config"
)

// =============================================================================
// CONFIG COMMAND
// =============================================================================

func newConfigCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show, locate or create the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return handleConfigShow(cmd, opts, "")
		},
	}

	show := &cobra.Command{
		Use:   "show [KEY]",
		Short: "Print the effective configuration, or one key (e.g. reasoning.auto_close_delay_ms)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := ""
			if len(args) == 1 {
				key = args[0]
			}
			return handleConfigShow(cmd, opts, key)
		},
	}

	path := &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return handleConfigPath(cmd, opts)
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return handleConfigInit(cmd, opts, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(show, path, initCmd)
	return cmd
}

// configPath returns --config or the default location.
func configPath(opts *globalOptions) (string, error) {
	if opts.configPath != "" {
		return opts.configPath, nil
	}
	path, err := config.Path()
	if err != nil {
		return "", NewCommandError("config", "locate", err)
	}
	return path, nil
}

// handleConfigShow prints the effective configuration (file, environment
// and defaults merged) as TOML, or a single value.
func handleConfigShow(cmd *cobra.Command, opts *globalOptions, key string) error {
	cfg, path, err := loadConfig(opts)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	if key != "" {
		value, err := cfg.Get(key)
		if err != nil {
			return &UsageError{Reason: err.Error()}
		}
		fmt.Fprintln(w, value)
		return nil
	}

	fmt.Fprintln(w, DimStyle.Render("# "+path))
	fmt.Fprint(w, cfg.String())
	return nil
}

// handleConfigPath prints where the config file lives.
func handleConfigPath(cmd *cobra.Command, opts *globalOptions) error {
	path, err := configPath(opts)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(cmd.ErrOrStderr(), DimStyle.Render("(file does not exist; run 'thinkpane config init')"))
	}
	return nil
}

// handleConfigInit writes the defaults to the config path.
func handleConfigInit(cmd *cobra.Command, opts *globalOptions, force bool) error {
	path, err := configPath(opts)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !force {
		return &UsageError{Reason: fmt.Sprintf("%s already exists (use --force to overwrite)", path)}
	}
	if err := config.Save(config.Default(), path); err != nil {
		return NewCommandError("config", "init", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", SuccessStyle.Render("Wrote"), path)
	return nil
}
