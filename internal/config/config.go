// Package config handles configuration loading from YAML files and environment variables.
// Configuration precedence: CLI flags > environment variables > config file > embedded > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a wrapper around time.Duration that supports YAML unmarshaling
// from human-readable strings like "30s", "1m", "1m30s".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		parsed, err := time.ParseDuration(value.Value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value.Value, err)
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("unsupported duration format: %v", value.Kind)
	}
}

// MarshalYAML implements the yaml.Marshaler interface for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Config holds all report configuration.
type Config struct {
	Report  ReportConfig  `yaml:"report"`
	Display DisplayConfig `yaml:"display"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// ReportConfig controls which processes make it into the report.
type ReportConfig struct {
	MinActiveTime   Duration `yaml:"min_active_time"`
	IdleProcessName string   `yaml:"idle_process_name"`
}

// DisplayConfig controls console rendering.
type DisplayConfig struct {
	// Color is one of auto, always, never.
	Color string `yaml:"color"`
}

// ExportConfig controls the spreadsheet export.
type ExportConfig struct {
	// Dir is where default-named workbooks go; empty means the working directory.
	Dir        string `yaml:"dir"`
	FilePrefix string `yaml:"file_prefix"`
	SheetName  string `yaml:"sheet_name"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// maxSheetNameLen is Excel's limit on worksheet titles.
const maxSheetNameLen = 31

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Report: ReportConfig{
			MinActiveTime:   Duration{60 * time.Second},
			IdleProcessName: "system idle process",
		},
		Display: DisplayConfig{
			Color: "auto",
		},
		Export: ExportConfig{
			Dir:        "",
			FilePrefix: "activity_report",
			SheetName:  "Activity Report",
		},
		Logging: LoggingConfig{
			Level: "warn",
			File:  "",
		},
	}
}

// CLIOverrides holds values from command-line flags.
// Zero values are treated as "not set" and skipped.
type CLIOverrides struct {
	MinActiveTime time.Duration
	Color         string
	LogLevel      string
}

// Locate searches standard config file paths and returns the first one found.
// Returns empty string if no config file exists.
func Locate() string {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadLayered loads configuration with the full precedence chain:
// CLI flags > env vars > external YAML file > embedded bytes > defaults.
//
// An optional configPath argument controls external-file discovery:
//   - omitted        → auto-discover via Locate()
//   - explicit value  → use that path ("" means no external file)
func LoadLayered(cli CLIOverrides, embedded []byte, configPath ...string) (*Config, error) {
	cfg := DefaultConfig()

	// Layer 1: embedded config (lowest priority data layer)
	if len(embedded) > 0 {
		if err := yaml.Unmarshal(embedded, cfg); err != nil {
			return nil, fmt.Errorf("parsing embedded config: %w", err)
		}
	}

	// Layer 2: external YAML file
	var filePath string
	if len(configPath) > 0 {
		filePath = configPath[0]
	} else {
		filePath = Locate()
	}
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", filePath, err)
		}
	}

	// Layer 3: environment variables
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	// Layer 4: CLI flags (highest priority)
	if cli.MinActiveTime != 0 {
		cfg.Report.MinActiveTime = Duration{cli.MinActiveTime}
	}
	if cli.Color != "" {
		cfg.Display.Color = cli.Color
	}
	if cli.LogLevel != "" {
		cfg.Logging.Level = cli.LogLevel
	}

	return cfg, nil
}

// WriteConfig serializes the config to a YAML file at the given path.
// Creates parent directories if needed.
func WriteConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0640)
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("AR_MIN_ACTIVE_TIME"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("AR_MIN_ACTIVE_TIME: %w", err)
		}
		cfg.Report.MinActiveTime = Duration{d}
	}
	if color := os.Getenv("AR_COLOR"); color != "" {
		cfg.Display.Color = color
	}
	if level := os.Getenv("AR_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if dir := os.Getenv("AR_EXPORT_DIR"); dir != "" {
		cfg.Export.Dir = dir
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Report.MinActiveTime.Duration < 0 {
		return fmt.Errorf("min_active_time must not be negative (got: %s)", c.Report.MinActiveTime.Duration)
	}
	switch c.Display.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("display color must be auto, always or never (got: %q)", c.Display.Color)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	if c.Export.SheetName == "" {
		return fmt.Errorf("export sheet name is required")
	}
	if len([]rune(c.Export.SheetName)) > maxSheetNameLen {
		return fmt.Errorf("export sheet name must be at most %d characters (got: %q)", maxSheetNameLen, c.Export.SheetName)
	}
	return nil
}
