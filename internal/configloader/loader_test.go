package configloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yaklabco/mdlive/pkg/config"
)

func isolated(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), isolated(t.TempDir()))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config == nil {
		t.Fatal("Load() returned nil config")
	}
	if got := result.Config.Trigger.Debounce; got != 150*time.Millisecond {
		t.Errorf("Debounce = %v, want 150ms", got)
	}
	if len(result.LoadedFrom) != 0 {
		t.Errorf("LoadedFrom = %v, want none", result.LoadedFrom)
	}
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".mdlive.yml"), `
renderer:
  class_prefix: live
trigger:
  debounce: 40ms
  on_cursor_movement: false
`)

	sub := filepath.Join(tmpDir, "docs", "guide")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	result, err := Load(context.Background(), isolated(sub))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.Renderer.ClassPrefix != "live" {
		t.Errorf("ClassPrefix = %q, want live", cfg.Renderer.ClassPrefix)
	}
	settings := cfg.TriggerSettings()
	if settings.DebounceDelay != 40*time.Millisecond {
		t.Errorf("DebounceDelay = %v, want 40ms", settings.DebounceDelay)
	}
	if settings.TriggerOnCursorMovement {
		t.Error("TriggerOnCursorMovement = true, want false from project config")
	}
	if !settings.TriggerOnSpace {
		t.Error("TriggerOnSpace = false, want default true")
	}
	if len(result.LoadedFrom) != 1 || !strings.HasSuffix(result.LoadedFrom[0], ".mdlive.yml") {
		t.Errorf("LoadedFrom = %v", result.LoadedFrom)
	}
}

func TestLoad_ProjectSearchStopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".mdlive.yml"), "log_level: debug\n")

	repo := filepath.Join(tmpDir, "repo")
	if err := os.MkdirAll(filepath.Join(repo, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}

	path, err := FindProjectConfig(context.Background(), repo)
	if err != nil {
		t.Fatalf("FindProjectConfig() error = %v", err)
	}
	if path != "" {
		t.Errorf("FindProjectConfig() = %q, want no config above the repository root", path)
	}
}

func TestLoad_ExplicitConfigOverridesProject(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".mdlive.yml"), "log_level: debug\nparser:\n  window: 50\n")
	explicit := filepath.Join(tmpDir, "custom.yaml")
	writeFile(t, explicit, "log_level: error\n")

	opts := isolated(tmpDir)
	opts.ExplicitPath = explicit

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want error", result.Config.LogLevel)
	}
	if result.Config.Parser.Window != 50 {
		t.Errorf("Window = %d, want 50 from project config", result.Config.Parser.Window)
	}
	if len(result.LoadedFrom) != 2 || result.LoadedFrom[1] != explicit {
		t.Errorf("LoadedFrom = %v", result.LoadedFrom)
	}
}

func TestLoad_CLIOverrides(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".mdlive.yml"), "export:\n  standalone: true\n")

	opts := isolated(tmpDir)
	opts.CLIConfig = &config.Config{
		Format: config.FormatJSON,
		Export: config.ExportConfig{Standalone: config.Bool(false)},
	}

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config.Format != config.FormatJSON {
		t.Errorf("Format = %q, want json", result.Config.Format)
	}
	if result.Config.ExportOptions().Standalone {
		t.Error("Standalone = true, want CLI false to win")
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"bad log level", "log_level: loud\n", "invalid log level"},
		{"negative window", "parser:\n  window: -1\n", "parser.window"},
		{"unknown key", "flavor: gfm\n", "parse YAML"},
		{"bad duration", "trigger:\n  debounce: soon\n", "parse YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tmpDir := t.TempDir()
			path := filepath.Join(tmpDir, ".mdlive.yml")
			writeFile(t, path, tt.content)

			_, err := Load(context.Background(), isolated(tmpDir))
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("error = %q, want it to contain %q", err, tt.errMsg)
			}
		})
	}
}

func TestLoad_InvalidConfigNamesFile(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ".mdlive.yml")
	writeFile(t, path, "log_level: loud\n")

	_, err := Load(context.Background(), isolated(tmpDir))

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error %T is not a *ValidationError", err)
	}
	if verr.FilePath != path || verr.Field != "log_level" {
		t.Errorf("ValidationError = %+v", verr)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("MDLIVE_DEBOUNCE", "20ms")
	t.Setenv("MDLIVE_DETECT_LANGUAGES", "false")

	opts := isolated(t.TempDir())
	opts.IgnoreEnv = false

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config.Trigger.Debounce != 20*time.Millisecond {
		t.Errorf("Debounce = %v, want 20ms", result.Config.Trigger.Debounce)
	}
	if *result.Config.Parser.DetectLanguages {
		t.Error("DetectLanguages = true, want false from environment")
	}
}

func TestLoad_EnvInvalid(t *testing.T) {
	t.Setenv("MDLIVE_WINDOW", "wide")

	opts := isolated(t.TempDir())
	opts.IgnoreEnv = false

	_, err := Load(context.Background(), opts)
	if err == nil || !strings.Contains(err.Error(), "MDLIVE_WINDOW") {
		t.Fatalf("Load() error = %v, want it to name MDLIVE_WINDOW", err)
	}
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, isolated(t.TempDir()))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestValidateWarnings(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Trigger.OnSpace = config.Bool(false)
	cfg.Trigger.OnCursorMovement = config.Bool(false)
	cfg.Trigger.OnBlockCompletion = config.Bool(false)
	cfg.Export.Unsafe = config.Bool(true)

	result := Validate(cfg)
	if !result.Valid() {
		t.Fatalf("Validate() errors = %v", result.Errors)
	}
	if len(result.Warnings) != 2 {
		t.Errorf("Warnings = %v, want 2", result.Warnings)
	}
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	base := config.NewConfig()
	mid := &config.Config{Trigger: config.TriggerConfig{OnSpace: config.Bool(false), Debounce: time.Second}}
	top := &config.Config{Trigger: config.TriggerConfig{OnSpace: config.Bool(true)}}

	got := MergeAll(base, mid, top)
	if !*got.Trigger.OnSpace {
		t.Error("OnSpace = false, want true from last config")
	}
	if got.Trigger.Debounce != time.Second {
		t.Errorf("Debounce = %v, want 1s", got.Trigger.Debounce)
	}
	if !*base.Trigger.OnSpace || base.Trigger.Debounce != 150*time.Millisecond {
		t.Error("MergeAll modified its first argument")
	}
	if MergeAll() != nil {
		t.Error("MergeAll() with no configs should be nil")
	}
}

func TestListEnvVars(t *testing.T) {
	t.Parallel()

	vars := ListEnvVars()
	if _, ok := vars["MDLIVE_DEBOUNCE"]; !ok {
		t.Errorf("ListEnvVars() = %v, missing MDLIVE_DEBOUNCE", vars)
	}
	for name := range vars {
		if !strings.HasPrefix(name, envVarPrefix) {
			t.Errorf("%s lacks the %s prefix", name, envVarPrefix)
		}
	}
}
