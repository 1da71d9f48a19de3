package configloader

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/yaklabco/mdlive/pkg/config"
)

// envVarPrefix is the prefix for all mdlive environment variables.
const envVarPrefix = "MDLIVE_"

// envVar binds one environment variable to a config field.
type envVar struct {
	description string
	apply       func(cfg *config.Config, value string) error
}

// envVars maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envVars = map[string]envVar{
	"LOG_LEVEL": {"Log level: debug, info, warn, or error", func(cfg *config.Config, v string) error {
		cfg.LogLevel = v
		return nil
	}},
	"FORMAT": {"Output format: text or json", func(cfg *config.Config, v string) error {
		cfg.Format = config.OutputFormat(v)
		return nil
	}},
	"CLASS_PREFIX": {"CSS class prefix for rendered elements", func(cfg *config.Config, v string) error {
		cfg.Renderer.ClassPrefix = v
		return nil
	}},
	"WINDOW": {"Incremental parse window in bytes", func(cfg *config.Config, v string) error {
		return setInt(&cfg.Parser.Window, v)
	}},
	"DETECT_LANGUAGES": {"Detect code block languages: true or false", func(cfg *config.Config, v string) error {
		return setBool(&cfg.Parser.DetectLanguages, v)
	}},
	"DEBOUNCE": {"Render debounce delay (e.g. 150ms)", func(cfg *config.Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("expected a duration such as 150ms")
		}
		cfg.Trigger.Debounce = d
		return nil
	}},
	"EXPORT_UNSAFE": {"Pass raw HTML through on export: true or false", func(cfg *config.Config, v string) error {
		return setBool(&cfg.Export.Unsafe, v)
	}},
	"EXPORT_STANDALONE": {"Export complete HTML documents: true or false", func(cfg *config.Config, v string) error {
		return setBool(&cfg.Export.Standalone, v)
	}},
}

func setInt(dst *int, value string) error {
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("expected an integer")
	}
	*dst = i
	return nil
}

func setBool(dst **bool, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("expected true/false/1/0")
	}
	*dst = config.Bool(b)
	return nil
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with MDLIVE_ (e.g., MDLIVE_DEBOUNCE).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for _, suffix := range envVarSuffixes() {
		name := envVarPrefix + suffix
		value := os.Getenv(name)
		if value == "" {
			continue
		}

		if err := envVars[suffix].apply(cfg, value); err != nil {
			return fmt.Errorf("invalid value for %s: %q: %w", name, value, err)
		}
	}

	return nil
}

func envVarSuffixes() []string {
	suffixes := make([]string, 0, len(envVars))
	for suffix := range envVars {
		suffixes = append(suffixes, suffix)
	}
	sort.Strings(suffixes)
	return suffixes
}

// ListEnvVars returns every supported environment variable with its description.
func ListEnvVars() map[string]string {
	out := make(map[string]string, len(envVars))
	for suffix, v := range envVars {
		out[envVarPrefix+suffix] = v.description
	}
	return out
}
