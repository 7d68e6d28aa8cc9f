// Package config provides configuration types and defaults for giftwell.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"giftwell/internal/log"
)

// Config holds all configuration options for giftwell.
type Config struct {
	// DBPath is the path to the registry database file.
	// Default: ~/.giftwell/registry.db
	DBPath string `mapstructure:"db_path"`

	// AutoRefresh reloads the registry when the database file changes
	// on disk (e.g. another giftwell instance wrote to it).
	AutoRefresh bool `mapstructure:"auto_refresh"`

	// RefreshDebounce is how long to wait after the last file event
	// before reloading, to coalesce bursts of writes.
	RefreshDebounce time.Duration `mapstructure:"refresh_debounce"`

	// Seed populates an empty database with a few sample registry
	// items on first launch.
	Seed bool `mapstructure:"seed"`

	UI      UIConfig      `mapstructure:"ui"`
	Theme   ThemeConfig   `mapstructure:"theme"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowSummary   bool   `mapstructure:"show_summary"`   // Show the remaining/purchased summary line
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default) or "light"
	Currency      string `mapstructure:"currency"`       // Currency symbol for prices
}

// ThemeConfig holds theme customization options.
type ThemeConfig struct {
	// Mode forces light or dark mode. If empty, uses terminal detection.
	// Valid values: "light", "dark", ""
	Mode string `mapstructure:"mode"`

	// Accent overrides the accent color, e.g. "#8B5CF6".
	Accent string `mapstructure:"accent"`
}

// TracingConfig holds trace export configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for the "file" exporter.
	// Default: ~/.config/giftwell/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for the "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// DefaultDBPath returns the default registry database path.
// Returns ~/.giftwell/registry.db or a relative fallback if the home
// directory is unavailable.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "registry.db"
	}
	return filepath.Join(home, ".giftwell", "registry.db")
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/giftwell/traces/traces.jsonl or empty string if the
// home dir is unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "giftwell", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		DBPath:          DefaultDBPath(),
		AutoRefresh:     true,
		RefreshDebounce: 250 * time.Millisecond,
		Seed:            true,
		UI: UIConfig{
			ShowSummary:   true,
			MarkdownStyle: "dark",
			Currency:      "$",
		},
		Theme: ThemeConfig{
			Mode:   "",
			Accent: "",
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// Validate checks the configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func (c Config) Validate() error {
	if c.RefreshDebounce < 0 {
		return fmt.Errorf("refresh_debounce must not be negative, got %v", c.RefreshDebounce)
	}

	switch c.UI.MarkdownStyle {
	case "", "dark", "light":
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", c.UI.MarkdownStyle)
	}

	switch c.Theme.Mode {
	case "", "dark", "light":
	default:
		return fmt.Errorf("theme.mode must be \"light\", \"dark\", or empty, got %q", c.Theme.Mode)
	}

	return ValidateTracing(c.Tracing)
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
			// Valid
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled
	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Giftwell Configuration

# Path to the registry database file (default: ~/.giftwell/registry.db)
# db_path: /path/to/registry.db

# Reload the registry when the database file changes on disk
auto_refresh: true

# How long to wait after the last file event before reloading
# refresh_debounce: 250ms

# Populate an empty database with a few sample items on first launch
seed: true

# UI settings
ui:
  show_summary: true      # Show the remaining/purchased summary line
  # markdown_style: dark  # Description rendering style: "dark" (default) or "light"
  currency: "$"           # Currency symbol for prices

# Theme configuration
theme:
  # Force light or dark mode; leave empty for terminal detection
  # mode: dark
  #
  # Override the accent color
  # accent: "#8B5CF6"

# Trace export configuration
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/giftwell/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
