package configloader

import (
	"fmt"
	"strings"

	"github.com/yaklabco/mdlive/pkg/config"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "trigger.debounce").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

func (r *ValidationResult) errs() []error {
	out := make([]error, len(r.Errors))
	for i := range r.Errors {
		out[i] = &r.Errors[i]
	}
	return out
}

// knownLogLevels lists valid log_level values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// maxWindow bounds the incremental parse window.
const maxWindow = 1 << 20

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.LogLevel != "" && !knownLogLevels[strings.ToLower(cfg.LogLevel)] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "log_level",
			Value:   cfg.LogLevel,
			Message: fmt.Sprintf("invalid log level %q; must be one of: debug, info, warn, error", cfg.LogLevel),
		})
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "format",
			Value:   cfg.Format,
			Message: fmt.Sprintf("invalid format %q; must be one of: text, json", cfg.Format),
		})
	}

	if cfg.Parser.Window < 0 || cfg.Parser.Window > maxWindow {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "parser.window",
			Value:   cfg.Parser.Window,
			Message: fmt.Sprintf("window must be between 0 and %d", maxWindow),
		})
	}

	if strings.ContainsAny(cfg.Renderer.ClassPrefix, " \t\"'<>") {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "renderer.class_prefix",
			Value:   cfg.Renderer.ClassPrefix,
			Message: "class prefix must not contain whitespace, quotes or angle brackets",
		})
	}

	if cfg.Trigger.Debounce < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "trigger.debounce",
			Value:   cfg.Trigger.Debounce,
			Message: "debounce must not be negative",
		})
	}

	if cfg.Trigger.MinCursorDistance < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "trigger.min_cursor_distance",
			Value:   cfg.Trigger.MinCursorDistance,
			Message: "min_cursor_distance must be >= 0",
		})
	}

	if cfg.Trigger.OnSpace != nil && cfg.Trigger.OnCursorMovement != nil && cfg.Trigger.OnBlockCompletion != nil &&
		!*cfg.Trigger.OnSpace && !*cfg.Trigger.OnCursorMovement && !*cfg.Trigger.OnBlockCompletion {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "trigger",
			Message: "all triggers disabled; only edits will re-render",
		})
	}

	if cfg.Export.Unsafe != nil && *cfg.Export.Unsafe {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "export.unsafe",
			Message: "raw HTML in documents will be passed through on export",
		})
	}

	return result
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}
