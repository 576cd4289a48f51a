// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads, validates and watches the thinkpane configuration.
//
// # Configuration Precedence
//
// Settings are resolved from (highest first):
//   - Environment variables (THINKPANE_*)
//   - The file named by --config or $THINKPANE_CONFIG
//   - ~/.thinkpane/config.toml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	delay := cfg.Reasoning.AutoCloseDelay()
//
// Watch reloads the file whenever it changes on disk and hands the new
// configuration (or the load error) to a callback.
package config
