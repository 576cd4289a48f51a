// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"

	"github.com/jeranaias/thinkpane/internal/util"
)

// EnvConfigPath names an alternative config file.
const EnvConfigPath = "THINKPANE_CONFIG"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete thinkpane configuration.
type Config struct {
	Reasoning ReasoningConfig `toml:"reasoning"`
	UI        UIConfig        `toml:"ui"`
	Replay    ReplayConfig    `toml:"replay"`
	Log       LogConfig       `toml:"log"`
}

// ReasoningConfig controls the disclosure panels.
type ReasoningConfig struct {
	// AutoCloseDelayMS is how long a panel stays open after thinking ends.
	AutoCloseDelayMS int `toml:"auto_close_delay_ms"`
	// LockOpenWhileStreaming refuses manual collapse while a trace streams.
	LockOpenWhileStreaming bool `toml:"lock_open_while_streaming"`
}

// AutoCloseDelay returns AutoCloseDelayMS as a duration.
func (r ReasoningConfig) AutoCloseDelay() time.Duration {
	return time.Duration(r.AutoCloseDelayMS) * time.Millisecond
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is "auto", "dark" or "light".
	Theme string `toml:"theme"`
	// ASCIIIcons draws icons with plain ASCII.
	ASCIIIcons bool `toml:"ascii_icons"`
	// ShowSidebar shows the thread list on start.
	ShowSidebar bool `toml:"show_sidebar"`
	// MarkdownStyle is a glamour style name or "auto".
	MarkdownStyle string `toml:"markdown_style"`
	// WordWrap is the markdown wrap width.
	WordWrap int `toml:"word_wrap"`
}

// ReplayConfig configures the scripted stream source.
type ReplayConfig struct {
	// Script is a YAML or TOML replay script. Empty plays the built-in demo.
	Script string `toml:"script"`
	// TokensPerSecond paces streamed text. 0 streams unpaced.
	TokensPerSecond float64 `toml:"tokens_per_second"`
}

// LogConfig configures the log file.
type LogConfig struct {
	Level string `toml:"level"`
	// File defaults to thinkpane.log in the config directory.
	File string `toml:"file"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Reasoning: ReasoningConfig{
			AutoCloseDelayMS:       1000,
			LockOpenWhileStreaming: true,
		},
		UI: UIConfig{
			Theme:         "auto",
			ASCIIIcons:    true,
			ShowSidebar:   true,
			MarkdownStyle: "auto",
			WordWrap:      80,
		},
		Replay: ReplayConfig{
			TokensPerSecond: 40,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// SetDefaults fills empty fields that have no meaningful zero value.
func (c *Config) SetDefaults() {
	d := Default()
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	if c.UI.MarkdownStyle == "" {
		c.UI.MarkdownStyle = d.UI.MarkdownStyle
	}
	if c.UI.WordWrap == 0 {
		c.UI.WordWrap = d.UI.WordWrap
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// Dir returns the thinkpane configuration directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".thinkpane"), nil
}

// Path returns the config file in use: $THINKPANE_CONFIG or
// ~/.thinkpane/config.toml.
func Path() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LogPath returns Log.File, or thinkpane.log in the config directory.
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "thinkpane.log"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads the config file from Path. A missing file yields the defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		cfg := Default()
		return finish(cfg)
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific file with full validation.
// Keys the file sets that thinkpane does not know are reported as errors.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		var errs ValidateErrors
		for _, key := range undecoded {
			errs = append(errs, ValidationError{Field: key.String(), Message: "unknown key"})
		}
		return nil, fmt.Errorf("invalid config %s: %w", path, errs)
	}
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes cfg as TOML to path atomically.
func Save(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# thinkpane configuration file\n")
	buf.WriteString("# Environment variables (THINKPANE_*) override these values.\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// String returns the config encoded as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return err.Error()
	}
	return buf.String()
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// MaxAutoCloseDelayMS bounds reasoning.auto_close_delay_ms.
const MaxAutoCloseDelayMS = 60_000

var (
	validThemes         = []string{"auto", "dark", "light"}
	validMarkdownStyles = []string{"auto", "ascii", "dark", "dracula", "light", "notty", "pink", "tokyo-night"}
)

// Validate checks every field and returns ValidateErrors listing all problems.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if c.Reasoning.AutoCloseDelayMS < 0 || c.Reasoning.AutoCloseDelayMS > MaxAutoCloseDelayMS {
		add("reasoning.auto_close_delay_ms", "%d out of range, must be between 0 and %d", c.Reasoning.AutoCloseDelayMS, MaxAutoCloseDelayMS)
	}

	if !oneOf(c.UI.Theme, validThemes) {
		add("ui.theme", "invalid theme '%s', must be one of: %s", c.UI.Theme, strings.Join(validThemes, ", "))
	}
	if !oneOf(c.UI.MarkdownStyle, validMarkdownStyles) {
		add("ui.markdown_style", "invalid style '%s', must be one of: %s", c.UI.MarkdownStyle, strings.Join(validMarkdownStyles, ", "))
	}
	if c.UI.WordWrap < 20 || c.UI.WordWrap > 400 {
		add("ui.word_wrap", "%d out of range, must be between 20 and 400", c.UI.WordWrap)
	}

	if c.Replay.TokensPerSecond < 0 || c.Replay.TokensPerSecond > 10_000 {
		add("replay.tokens_per_second", "%g out of range, must be between 0 and 10000", c.Replay.TokensPerSecond)
	}
	if c.Replay.Script != "" {
		switch strings.ToLower(filepath.Ext(c.Replay.Script)) {
		case ".yaml", ".yml", ".toml":
		default:
			add("replay.script", "'%s' must be a .yaml, .yml or .toml file", c.Replay.Script)
		}
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		add("log.level", "invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return true
		}
	}
	return false
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies THINKPANE_* environment variables. A
// THINKPANE_AUTO_CLOSE_MS that is not an integer is ignored.
func (c *Config) ApplyEnvOverrides() {
	// THINKPANE_AUTO_CLOSE_MS
	if v := os.Getenv("THINKPANE_AUTO_CLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			c.Reasoning.AutoCloseDelayMS = ms
		}
	}

	// THINKPANE_THEME
	if theme := os.Getenv("THINKPANE_THEME"); theme != "" {
		c.UI.Theme = theme
	}

	// THINKPANE_SCRIPT
	if script := os.Getenv("THINKPANE_SCRIPT"); script != "" {
		c.Replay.Script = script
	}

	// THINKPANE_LOG_LEVEL
	if level := os.Getenv("THINKPANE_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}

	// THINKPANE_LOG_FILE
	if file := os.Getenv("THINKPANE_LOG_FILE"); file != "" {
		c.Log.File = file
	}
}

// =============================================================================
// GET HELPER (DOT NOTATION)
// =============================================================================

// Get retrieves a value by its TOML key path, e.g. "reasoning.auto_close_delay_ms".
func (c *Config) Get(key string) (interface{}, error) {
	if key == "" {
		return nil, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		field, ok := fieldByTOMLKey(v, part)
		if !ok {
			return nil, fmt.Errorf("unknown key: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field.Interface(), nil
		}
		if field.Kind() != reflect.Struct {
			return nil, fmt.Errorf("'%s' is not a section", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return nil, fmt.Errorf("invalid key: %s", key)
}

func fieldByTOMLKey(v reflect.Value, key string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("toml"), ",")
		if name == key {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}
