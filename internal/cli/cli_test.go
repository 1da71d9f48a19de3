package cli_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/yaklabco/mdlive/internal/cli"
	"github.com/yaklabco/mdlive/internal/configloader"
	"github.com/yaklabco/mdlive/pkg/cursor"
	"github.com/yaklabco/mdlive/pkg/fsutil"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{
		Version: "1.2.3",
		Commit:  "abc123",
		Date:    "2024-01-01",
	}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	if cmd == nil {
		t.Fatal("NewRootCommand returned nil")
	}
	if cmd.Use != "mdlive" {
		t.Errorf("expected Use to be 'mdlive', got %q", cmd.Use)
	}
	if cmd.Short == "" {
		t.Error("expected Short description to be set")
	}
	if cmd.Long == "" {
		t.Error("expected Long description to be set")
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, name := range []string{"render", "elements", "map", "replay", "export", "import", "init", "version"} {
		subCmd, _, err := cmd.Find([]string{name})
		if err != nil {
			t.Errorf("expected subcommand %q to exist, got error: %v", name, err)
			continue
		}
		if subCmd.Name() != name {
			t.Errorf("expected subcommand name %q, got %q", name, subCmd.Name())
		}
	}
}

func TestCommandFlags(t *testing.T) {
	t.Parallel()

	tests := map[string][]string{
		"render":   {"cursor", "event", "mode", "class-prefix", "json"},
		"elements": {"cursor", "json"},
		"map":      {"raw", "rendered", "json"},
		"replay":   {"script", "json"},
		"export":   {"output", "title", "standalone", "unsafe", "no-gfm"},
		"import":   {"output", "backup"},
		"init":     {"force", "full", "output"},
	}

	cmd := cli.NewRootCommand(testInfo())
	for name, flags := range tests {
		sub, _, err := cmd.Find([]string{name})
		if err != nil {
			t.Fatalf("%s command not found: %v", name, err)
		}
		for _, flagName := range flags {
			if sub.Flags().Lookup(flagName) == nil {
				t.Errorf("expected flag %q on %s command", flagName, name)
			}
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, flagName := range []string{"debug", "config", "no-config", "color"} {
		if cmd.PersistentFlags().Lookup(flagName) == nil {
			t.Errorf("expected global flag %q to exist", flagName)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	cmd.SetArgs([]string{"version"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	for _, want := range []string{"mdlive", "version=1.2.3", "commit=abc123"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("version output %q missing %q", out.String(), want)
		}
	}
}

func TestHelpIsStyledTemplate(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	cmd.SetArgs([]string{"map", "--help"})

	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("help failed: %v", err)
	}

	for _, want := range []string{"Usage:", "Examples:", "Flags:", "Global Flags:", "--rendered"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("help output missing %q", want)
		}
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, cli.ExitSuccess},
		{"usage", fmt.Errorf("%w: bad flag", cli.ErrUsage), cli.ExitInvalidUsage},
		{"config", fmt.Errorf("%w: parse", cli.ErrConfig), cli.ExitConfigError},
		{"validation", errors.Join(&configloader.ValidationError{Field: "log_level"}), cli.ExitConfigError},
		{"not found", fmt.Errorf("read: %w", fsutil.ErrNotFound), cli.ExitIOError},
		{"directory", fsutil.ErrIsDirectory, cli.ExitIOError},
		{"no mapping", fmt.Errorf("map: %w", cursor.ErrNoMapping), cli.ExitFailure},
		{"other", errors.New("boom"), cli.ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := cli.ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
