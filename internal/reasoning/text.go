// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reasoning

import (
	"strconv"
	"strings"
)

// Display strings.
const (
	LabelThinking       = "Thinking..."
	LabelFewSeconds     = "Thought for a few seconds"
	FallbackStreaming   = "The model is still working through its reasoning."
	FallbackNoReasoning = "No reasoning was provided for this response."
)

// ThinkingLabel returns the trigger text for a panel. A non-positive
// duration means the elapsed time is unknown.
func ThinkingLabel(streaming bool, duration int) string {
	if streaming && duration == 0 {
		return LabelThinking
	}
	if duration <= 0 {
		return LabelFewSeconds
	}
	return "Thought for " + strconv.Itoa(duration) + " seconds"
}

// Content is what the body of a panel shows.
type Content struct {
	// Text is the reasoning trace, unmodified. Empty when HasReasoning is false.
	Text string
	// Fallback replaces Text when the trace is blank.
	Fallback     string
	HasReasoning bool
	// Streaming is passed through to the markdown renderer so it can
	// tolerate unterminated blocks.
	Streaming bool
}

// ContentFor picks between the trace and a placeholder sentence.
func ContentFor(text string, streaming bool) Content {
	if strings.TrimSpace(text) == "" {
		fallback := FallbackNoReasoning
		if streaming {
			fallback = FallbackStreaming
		}
		return Content{Fallback: fallback, Streaming: streaming}
	}
	return Content{Text: text, HasReasoning: true, Streaming: streaming}
}
