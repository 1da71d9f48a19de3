package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdlive/internal/configloader"
	"github.com/yaklabco/mdlive/internal/logging"
	"github.com/yaklabco/mdlive/internal/ui/pretty"
	"github.com/yaklabco/mdlive/pkg/config"
	"github.com/yaklabco/mdlive/pkg/fsutil"
)

// stdinPath names standard input as a command argument.
const stdinPath = "-"

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// commandLogger returns the logger the root command attached to the context.
func commandLogger(cmd *cobra.Command) *log.Logger {
	return logging.FromContext(commandContext(cmd))
}

// loadConfig resolves the layered configuration with overrides from the
// command's own flags on top.
func loadConfig(cmd *cobra.Command, overrides *config.Config) (*config.Config, error) {
	logger := commandLogger(cmd)

	configPath, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}
	noConfig, _ := cmd.Flags().GetBool(flagNoConfig)

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	result, err := configloader.Load(commandContext(cmd), configloader.LoadOptions{
		WorkingDir:          workDir,
		ExplicitPath:        configPath,
		IgnoreSystemConfig:  noConfig,
		IgnoreUserConfig:    noConfig,
		IgnoreProjectConfig: noConfig,
		CLIConfig:           overrides,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	if debug, _ := cmd.Flags().GetBool(flagDebug); !debug && result.Config.LogLevel != "" {
		logger.SetLevel(logging.ParseLevel(result.Config.LogLevel))
	}

	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}
	if len(result.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldPath, result.LoadedFrom)
	}

	return result.Config, nil
}

// readDocument reads path, or standard input for "-".
func readDocument(cmd *cobra.Command, path string) (string, error) {
	if path == stdinPath {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(content), nil
	}

	content, err := fsutil.ReadFile(commandContext(cmd), path)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// writeOutput writes content to path atomically, or to the command's output
// when path is empty.
func writeOutput(cmd *cobra.Command, path string, content []byte) error {
	if path == "" {
		if _, err := cmd.OutOrStdout().Write(content); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}

	written, err := fsutil.WriteAtomicIfChanged(commandContext(cmd), path, content, 0)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if !written {
		commandLogger(cmd).Info("output unchanged", logging.FieldPath, path)
		return nil
	}
	commandLogger(cmd).Info("wrote file", logging.FieldPath, path)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func outputStyles(cmd *cobra.Command) *pretty.Styles {
	mode, err := cmd.Flags().GetString(flagColor)
	if err != nil {
		mode = pretty.ColorAuto
	}
	return pretty.NewStyles(pretty.IsColorEnabled(mode, cmd.OutOrStdout()))
}

// formatOverride returns a config carrying the JSON output format when the
// command's --json flag is set.
func formatOverride(asJSON bool) *config.Config {
	overrides := &config.Config{}
	if asJSON {
		overrides.Format = config.FormatJSON
	}
	return overrides
}
