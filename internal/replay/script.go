// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package replay

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/thinkpane/internal/reasoning"
)

//go:embed demo.yaml
var demoScript []byte

// =============================================================================
// SCRIPT TYPES
// =============================================================================

// Chunk is a piece of reasoning text preceded by a pause.
type Chunk struct {
	Text    string `yaml:"text" toml:"text"`
	DelayMS int    `yaml:"delay_ms" toml:"delay_ms"`
}

// Delay returns the pause before the chunk.
func (c Chunk) Delay() time.Duration {
	return time.Duration(c.DelayMS) * time.Millisecond
}

// Turn is one prompt and the scripted response to it.
type Turn struct {
	Prompt    string  `yaml:"prompt" toml:"prompt"`
	ThinkMS   int     `yaml:"think_ms" toml:"think_ms"`
	Reasoning []Chunk `yaml:"reasoning" toml:"reasoning"`
	Status    string  `yaml:"status" toml:"status"`
	Answer    string  `yaml:"answer" toml:"answer"`
}

// ThinkTime returns the minimum length of the thinking phase.
func (t Turn) ThinkTime() time.Duration {
	return time.Duration(t.ThinkMS) * time.Millisecond
}

// FinalStatus returns the status the reasoning part ends with.
// Call Validate first; unknown names map to complete.
func (t Turn) FinalStatus() reasoning.Status {
	s, ok := reasoning.ParseStatus(t.Status)
	if !ok || s.IsStreaming() {
		return reasoning.StatusComplete
	}
	return s
}

// ReasoningText returns the concatenated reasoning chunks.
func (t Turn) ReasoningText() string {
	var b strings.Builder
	for _, c := range t.Reasoning {
		b.WriteString(c.Text)
	}
	return b.String()
}

// Script is a titled list of turns.
type Script struct {
	Title string `yaml:"title" toml:"title"`
	Turns []Turn `yaml:"turns" toml:"turns"`

	// Path is where the script was loaded from. Empty for the demo.
	Path string `yaml:"-" toml:"-"`
}

// Turn returns turn i, wrapping around when the script is exhausted. A
// script without turns returns the zero Turn and index -1.
func (s *Script) Turn(i int) (Turn, int) {
	n := len(s.Turns)
	if n == 0 {
		return Turn{}, -1
	}
	i = ((i % n) + n) % n
	return s.Turns[i], i
}

// Len returns the number of turns.
func (s *Script) Len() int {
	return len(s.Turns)
}

// =============================================================================
// ERRORS
// =============================================================================

// ScriptError describes a problem with a script file. Turn is -1 when the
// problem is not tied to a turn.
type ScriptError struct {
	Path string
	Turn int
	Msg  string
	Err  error
}

func (e *ScriptError) Error() string {
	var b strings.Builder
	b.WriteString("script")
	if e.Path != "" {
		b.WriteString(" " + e.Path)
	}
	if e.Turn >= 0 {
		fmt.Fprintf(&b, ": turn %d", e.Turn+1)
	}
	b.WriteString(": " + e.Msg)
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

// =============================================================================
// LOADING
// =============================================================================

// Format is a script encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFor picks the encoding from a file extension.
func FormatFor(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".toml":
		return FormatTOML, true
	default:
		return "", false
	}
}

// Load reads and validates a script file.
func Load(path string) (*Script, error) {
	format, ok := FormatFor(path)
	if !ok {
		return nil, &ScriptError{Path: path, Turn: -1, Msg: "unsupported extension (want .yaml, .yml or .toml)"}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ScriptError{Path: path, Turn: -1, Msg: "failed to read", Err: err}
	}
	s, err := Parse(data, format)
	if err != nil {
		var se *ScriptError
		if errors.As(err, &se) {
			se.Path = path
			return nil, se
		}
		return nil, err
	}
	s.Path = path
	return s, nil
}

// Parse decodes and validates a script.
func Parse(data []byte, format Format) (*Script, error) {
	var s Script
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, &ScriptError{Turn: -1, Msg: "invalid YAML", Err: err}
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &s); err != nil {
			return nil, &ScriptError{Turn: -1, Msg: "invalid TOML", Err: err}
		}
	default:
		return nil, &ScriptError{Turn: -1, Msg: fmt.Sprintf("unknown format %q", format)}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Demo returns the built-in script used when none is configured.
func Demo() *Script {
	s, err := Parse(demoScript, FormatYAML)
	if err != nil {
		panic("replay: built-in demo script is invalid: " + err.Error())
	}
	return s
}

// Validate checks the script and returns the first problem as a *ScriptError.
func (s *Script) Validate() error {
	if len(s.Turns) == 0 {
		return &ScriptError{Path: s.Path, Turn: -1, Msg: "no turns"}
	}
	for i, t := range s.Turns {
		if strings.TrimSpace(t.Prompt) == "" {
			return &ScriptError{Path: s.Path, Turn: i, Msg: "prompt is empty"}
		}
		if t.ThinkMS < 0 {
			return &ScriptError{Path: s.Path, Turn: i, Msg: "think_ms must not be negative"}
		}
		for j, c := range t.Reasoning {
			if c.DelayMS < 0 {
				return &ScriptError{Path: s.Path, Turn: i, Msg: fmt.Sprintf("reasoning chunk %d: delay_ms must not be negative", j+1)}
			}
		}
		status, ok := reasoning.ParseStatus(t.Status)
		if !ok || status.IsStreaming() {
			return &ScriptError{Path: s.Path, Turn: i, Msg: fmt.Sprintf("status %q must be complete or error", t.Status)}
		}
	}
	return nil
}
