// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Error handling for thinkpane commands.
//
// Commands always return errors; Execute prints them once and maps them to
// an exit code.

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/jeranaias/thinkpane/internal/config"
	"github.com/jeranaias/thinkpane/internal/replay"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates a bad configuration file or setting
	ExitConfigError = 3
	// ExitScriptError indicates a replay script that failed to load
	ExitScriptError = 4
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError represents a CLI command error with context.
type CommandError struct {
	Command string // Command that failed (e.g., "config", "replay")
	Action  string // Action being performed (e.g., "init", "load")
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Command, e.Action, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError wraps err with the command and action that failed.
func NewCommandError(command, action string, err error) error {
	return &CommandError{Command: command, Action: action, Err: err}
}

// UsageError reports bad arguments or flags.
type UsageError struct {
	Reason string
}

func (e *UsageError) Error() string {
	return e.Reason
}

// =============================================================================
// ERROR DISPLAY
// =============================================================================

// DisplayError prints err as "Error: ..." to w.
func DisplayError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("Error:"), err.Error())

	var verrs config.ValidateErrors
	if errors.As(err, &verrs) && len(verrs) > 1 {
		for _, v := range verrs {
			fmt.Fprintf(w, "  - %s\n", v.Error())
		}
	}
}

// GetExitCode determines the appropriate exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ExitUsageError
	}

	var verrs config.ValidateErrors
	var verr config.ValidationError
	if errors.As(err, &verrs) || errors.As(err, &verr) {
		return ExitConfigError
	}

	var scriptErr *replay.ScriptError
	if errors.As(err, &scriptErr) {
		return ExitScriptError
	}

	var cmdErr *CommandError
	if errors.As(err, &cmdErr) && cmdErr.Command == "config" {
		return ExitConfigError
	}

	return ExitGeneralError
}
