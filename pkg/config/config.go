// Package config defines the configuration types for mdlive.
// These types are plain data; discovery and merging live in configloader.
package config

import (
	"time"

	"github.com/yaklabco/mdlive/pkg/export"
	"github.com/yaklabco/mdlive/pkg/inline"
	"github.com/yaklabco/mdlive/pkg/syntax"
	"github.com/yaklabco/mdlive/pkg/trigger"
)

// OutputFormat selects how the CLI prints results.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// IsValid reports whether f is a known output format.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON:
		return true
	default:
		return false
	}
}

// ParserConfig controls element recognition.
type ParserConfig struct {
	// Window is the number of bytes around the cursor that incremental
	// parsing re-scans. Zero means the default.
	Window int `yaml:"window,omitempty"`

	// DetectLanguages guesses the language of unlabelled code blocks.
	DetectLanguages *bool `yaml:"detect_languages,omitempty"`
}

// RendererConfig controls the HTML produced for elements.
type RendererConfig struct {
	// ClassPrefix prefixes generated CSS classes ("md" gives "md-bold").
	ClassPrefix string `yaml:"class_prefix,omitempty"`
}

// TriggerConfig controls when the live view re-renders.
type TriggerConfig struct {
	Debounce          time.Duration `yaml:"debounce,omitempty"`
	OnSpace           *bool         `yaml:"on_space,omitempty"`
	OnCursorMovement  *bool         `yaml:"on_cursor_movement,omitempty"`
	OnBlockCompletion *bool         `yaml:"on_block_completion,omitempty"`
	MinCursorDistance int           `yaml:"min_cursor_distance,omitempty"`
}

// ExportConfig controls whole-document HTML export.
type ExportConfig struct {
	GFM        *bool `yaml:"gfm,omitempty"`
	Unsafe     *bool `yaml:"unsafe,omitempty"`
	HeadingIDs *bool `yaml:"heading_ids,omitempty"`
	Standalone *bool `yaml:"standalone,omitempty"`
}

// Config is the root configuration structure.
type Config struct {
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level,omitempty"`

	Parser   ParserConfig   `yaml:"parser"`
	Renderer RendererConfig `yaml:"renderer"`
	Trigger  TriggerConfig  `yaml:"trigger"`
	Export   ExportConfig   `yaml:"export"`

	// CLI-level options (not persisted to config files).

	// Format specifies the output format.
	Format OutputFormat `yaml:"-"`
}

// Bool returns a pointer to v.
func Bool(v bool) *bool {
	return &v
}

func boolValue(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// NewConfig returns a Config with every default set explicitly.
func NewConfig() *Config {
	defaults := trigger.DefaultConfig()
	return &Config{
		LogLevel: "warn",
		Parser: ParserConfig{
			Window:          syntax.DefaultWindow,
			DetectLanguages: Bool(true),
		},
		Renderer: RendererConfig{
			ClassPrefix: inline.DefaultClassPrefix,
		},
		Trigger: TriggerConfig{
			Debounce:          defaults.DebounceDelay,
			OnSpace:           Bool(defaults.TriggerOnSpace),
			OnCursorMovement:  Bool(defaults.TriggerOnCursorMovement),
			OnBlockCompletion: Bool(defaults.TriggerOnBlockCompletion),
			MinCursorDistance: defaults.MinCursorMovementDistance,
		},
		Export: ExportConfig{
			GFM:        Bool(true),
			Unsafe:     Bool(false),
			HeadingIDs: Bool(true),
			Standalone: Bool(false),
		},
		Format: FormatText,
	}
}

// ParserOptions returns the parser options described by the configuration.
func (c *Config) ParserOptions() []syntax.Option {
	window := c.Parser.Window
	if window <= 0 {
		window = syntax.DefaultWindow
	}
	return []syntax.Option{
		syntax.WithWindow(window),
		syntax.WithLanguageDetection(boolValue(c.Parser.DetectLanguages, true)),
	}
}

// RendererOptions returns the renderer options described by the configuration.
func (c *Config) RendererOptions() []inline.Option {
	prefix := c.Renderer.ClassPrefix
	if prefix == "" {
		prefix = inline.DefaultClassPrefix
	}
	return []inline.Option{inline.WithClassPrefix(prefix)}
}

// TriggerSettings converts the trigger section to a detector configuration.
func (c *Config) TriggerSettings() trigger.Config {
	out := trigger.DefaultConfig()
	if c.Trigger.Debounce > 0 {
		out.DebounceDelay = c.Trigger.Debounce
	}
	out.TriggerOnSpace = boolValue(c.Trigger.OnSpace, out.TriggerOnSpace)
	out.TriggerOnCursorMovement = boolValue(c.Trigger.OnCursorMovement, out.TriggerOnCursorMovement)
	out.TriggerOnBlockCompletion = boolValue(c.Trigger.OnBlockCompletion, out.TriggerOnBlockCompletion)
	if c.Trigger.MinCursorDistance > 0 {
		out.MinCursorMovementDistance = c.Trigger.MinCursorDistance
	}
	return out
}

// ExportOptions converts the export section to exporter options.
func (c *Config) ExportOptions() export.Options {
	return export.Options{
		GFM:        boolValue(c.Export.GFM, true),
		Unsafe:     boolValue(c.Export.Unsafe, false),
		HeadingIDs: boolValue(c.Export.HeadingIDs, true),
		Standalone: boolValue(c.Export.Standalone, false),
	}
}
