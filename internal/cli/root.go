// Package cli provides the Cobra command structure for mdlive.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdlive/internal/logging"
	"github.com/yaklabco/mdlive/internal/ui/pretty"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// Persistent flag names shared by subcommands.
const (
	flagDebug    = "debug"
	flagConfig   = "config"
	flagNoConfig = "no-config"
	flagColor    = "color"
)

// NewRootCommand creates the root mdlive command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool

	rootCmd := &cobra.Command{
		Use:   "mdlive",
		Short: "Live markdown rendering with cursor-aware editing",
		Long: `mdlive renders markdown the way a live editor shows it: everything is
HTML except the element under the cursor, which stays as raw markdown so it
can be edited in place.

The commands drive the engine from files: render a document for a cursor
position, list the elements the parser recognises, map cursor positions
between the raw and rendered views, replay scripted edits through a debounced
editing session, and convert whole documents to and from HTML.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := "info"
			if debug {
				level = "debug"
				logging.SetLevel(level)
			}
			logger := logging.NewWithWriter(cmd.ErrOrStderr(), level)
			cmd.SetContext(logging.WithLogger(commandContext(cmd), logger))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, flagDebug, false, "enable debug logging")
	rootCmd.PersistentFlags().String(flagConfig, "", "path to config file")
	rootCmd.PersistentFlags().Bool(flagNoConfig, false, "ignore system, user and project config files")
	rootCmd.PersistentFlags().String(flagColor, pretty.ColorAuto, "colorize output: auto, always, never")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newElementsCommand())
	rootCmd.AddCommand(newMapCommand())
	rootCmd.AddCommand(newReplayCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	helpFormatter := NewHelpFormatter(rootCmd.PersistentFlags().Lookup(flagColor).Value.String(), os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
