// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reasoning

import "strings"

// Status is the streaming status of one reasoning segment.
type Status string

const (
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusError    Status = "error"
)

// IsStreaming reports whether content is still being produced.
func (s Status) IsStreaming() bool {
	return s == StatusRunning
}

// String returns the wire name of the status.
func (s Status) String() string {
	if s == "" {
		return "unknown"
	}
	return string(s)
}

// ParseStatus converts a status name (case-insensitive) into a Status.
// The empty string maps to StatusComplete.
func ParseStatus(name string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "running", "streaming":
		return StatusRunning, true
	case "", "complete", "completed", "done":
		return StatusComplete, true
	case "error", "failed", "incomplete":
		return StatusError, true
	default:
		return "", false
	}
}
