// Package config loads optional plume.yaml settings.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/plume-lang/plume/pkg/diagnostics"
	"github.com/plume-lang/plume/pkg/token"
)

// FileName is the configuration file looked up in each search directory.
const FileName = "plume.yaml"

// FormatAuto selects color or pretty diagnostics depending on the terminal.
const FormatAuto = "auto"

// Config holds CLI and REPL settings. Command-line flags override it.
type Config struct {
	// Path is the file the settings came from, empty for defaults.
	Path        string            `yaml:"-"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
	Limits      LimitsConfig      `yaml:"limits"`
	REPL        REPLConfig        `yaml:"repl"`
}

type DiagnosticsConfig struct {
	Format string `yaml:"format"`
}

type LimitsConfig struct {
	MaxIterations int64 `yaml:"max_iterations"`
}

type REPLConfig struct {
	History string `yaml:"history"`
	Prompt  string `yaml:"prompt"`
}

// Default returns the settings used when no file is found.
func Default() *Config {
	return &Config{
		Diagnostics: DiagnosticsConfig{Format: FormatAuto},
		REPL: REPLConfig{
			History: "~/.plume_history",
			Prompt:  "plume> ",
		},
	}
}

// ValidationError aggregates configuration validation failures.
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "config %s validation failed:", e.Path)
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Diagnostic converts the error into an E_CONFIG diagnostic.
func (e *ValidationError) Diagnostic() diagnostics.Diagnostic {
	return diagnostics.MakeDiag(diagnostics.EConfig, e.Error(), &token.Location{File: e.Path, Line: 1, Column: 1}, "")
}

// Load parses a configuration file on top of the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	cfg, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode reads YAML settings from r. Unknown keys are rejected and an empty
// document yields the defaults.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return cfg, nil
}

// SearchDirs returns the directories Discover checks, in priority order.
func SearchDirs(projectDir string) []string {
	dirs := []string{projectDir}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "plume"))
	}
	return dirs
}

// Discover loads the first plume.yaml found in dirs, or the defaults.
func Discover(dirs ...string) (*Config, error) {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, FileName)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		return Load(path)
	}
	return Default(), nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	errs := ValidationError{Path: c.Path}
	if c.Diagnostics.Format != FormatAuto {
		if _, err := diagnostics.ParseStyle(c.Diagnostics.Format); err != nil {
			errs.Issues = append(errs.Issues, fmt.Sprintf("diagnostics.format: %v (want auto, pretty, color or json)", err))
		}
	}
	if c.Limits.MaxIterations < 0 {
		errs.Issues = append(errs.Issues, "limits.max_iterations must not be negative")
	}
	if c.REPL.Prompt == "" {
		errs.Issues = append(errs.Issues, "repl.prompt must not be empty")
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// Style returns the configured diagnostic style. The auto format picks
// color when the diagnostics go to a terminal.
func (c *Config) Style(terminal bool) diagnostics.Style {
	if c.Diagnostics.Format == FormatAuto {
		if terminal {
			return diagnostics.StyleColor
		}
		return diagnostics.StylePretty
	}
	style, _ := diagnostics.ParseStyle(c.Diagnostics.Format)
	return style
}

// HistoryPath expands a leading ~ in the REPL history path. An empty
// setting disables history.
func (c *Config) HistoryPath() string {
	p := c.REPL.History
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
