package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent parley configuration stored as
// config.toml in the .parley/ directory. The TOML layout uses sections for
// logical grouping, plus a [[models]] table for the selectable model menu.
type Config struct {
	Version  int            `toml:"version"`
	Client   ClientConfig   `toml:"client"`
	Sampling SamplingConfig `toml:"sampling"`
	History  HistoryConfig  `toml:"history"`
	Chat     ChatConfig     `toml:"chat"`
	Models   []Model        `toml:"models"`
}

// ClientConfig holds settings for reaching the inference server.
type ClientConfig struct {
	// Target is the base URL of the Ollama server.
	Target string `toml:"target,omitempty"`

	// TimeoutSeconds bounds each inference request.
	TimeoutSeconds int `toml:"timeout_seconds,omitempty"`
}

// SamplingConfig holds generation parameters forwarded to the inference
// server on every call. The per-call token cap lives on each Model entry.
type SamplingConfig struct {
	Temperature       float64 `toml:"temperature,omitempty"`
	TopP              float64 `toml:"top_p,omitempty"`
	RepetitionPenalty float64 `toml:"repetition_penalty,omitempty"`
}

// HistoryConfig controls optional recording of completed exchanges.
type HistoryConfig struct {
	Enabled bool `toml:"enabled,omitempty"`

	// SQLitePath overrides the history database location. Empty means
	// history.db inside the resolved .parley/ directory.
	SQLitePath string `toml:"sqlite_path,omitempty"`
}

// ChatConfig holds chat loop settings.
type ChatConfig struct {
	// CannedPrompts is the ordered prompt list replayed in canned mode.
	CannedPrompts []string `toml:"canned_prompts,omitempty"`
}

// Model is one entry in the selectable model menu.
type Model struct {
	// Name is the human-readable menu label.
	Name string `toml:"name"`

	// Tag is the model identifier sent to the inference server.
	Tag string `toml:"tag"`

	// Description is the one-line menu description.
	Description string `toml:"description,omitempty"`

	// ContextLength caps the model context window.
	ContextLength int `toml:"context_length,omitempty"`

	// MaxTokens caps the generated output per call.
	MaxTokens int `toml:"max_tokens,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure. The
// [[models]] table is edited in the file directly rather than through
// dotted keys.
var configKeys = map[string]configKeyInfo{
	"client.target": {
		get: func(c *Config) string { return c.Client.Target },
		set: func(c *Config, v string) error { c.Client.Target = v; return nil },
	},
	"client.timeout_seconds": {
		get: func(c *Config) string {
			if c.Client.TimeoutSeconds == 0 {
				return ""
			}
			return strconv.Itoa(c.Client.TimeoutSeconds)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid value for client.timeout_seconds: %w", err)
			}
			c.Client.TimeoutSeconds = n
			return nil
		},
	},
	"sampling.temperature": {
		get: func(c *Config) string { return formatFloat(c.Sampling.Temperature) },
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid value for sampling.temperature: %w", err)
			}
			c.Sampling.Temperature = f
			return nil
		},
	},
	"sampling.top_p": {
		get: func(c *Config) string { return formatFloat(c.Sampling.TopP) },
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid value for sampling.top_p: %w", err)
			}
			c.Sampling.TopP = f
			return nil
		},
	},
	"sampling.repetition_penalty": {
		get: func(c *Config) string { return formatFloat(c.Sampling.RepetitionPenalty) },
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid value for sampling.repetition_penalty: %w", err)
			}
			c.Sampling.RepetitionPenalty = f
			return nil
		},
	},
	"history.enabled": {
		get: func(c *Config) string { return strconv.FormatBool(c.History.Enabled) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for history.enabled: %w", err)
			}
			c.History.Enabled = b
			return nil
		},
	},
	"history.sqlite_path": {
		get: func(c *Config) string { return c.History.SQLitePath },
		set: func(c *Config, v string) error { c.History.SQLitePath = v; return nil },
	},
}

func formatFloat(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
