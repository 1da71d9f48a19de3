package cli

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdlive/pkg/config"
	"github.com/yaklabco/mdlive/pkg/export"
)

type exportFlags struct {
	output     string
	title      string
	standalone bool
	unsafe     bool
	noGFM      bool
}

func newExportCommand() *cobra.Command {
	flags := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Convert a markdown document to HTML",
		Long: `Render the whole of FILE to HTML with a full CommonMark parser (goldmark),
with GitHub Flavored Markdown extensions unless disabled. Unlike render, no
element is kept as raw markdown.`,
		Example: `  mdlive export README.md
  mdlive export README.md -o README.html --standalone
  mdlive export notes.md --title "Notes" --standalone`,
		Args: exactlyOneFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write HTML to this file instead of stdout")
	cmd.Flags().StringVar(&flags.title, "title", "", "document title for --standalone (default: file name)")
	cmd.Flags().BoolVar(&flags.standalone, "standalone", false, "emit a complete HTML document")
	cmd.Flags().BoolVar(&flags.unsafe, "unsafe", false, "pass raw HTML in the source through")
	cmd.Flags().BoolVar(&flags.noGFM, "no-gfm", false, "disable GitHub Flavored Markdown extensions")

	return cmd
}

func runExport(cmd *cobra.Command, path string, flags *exportFlags) error {
	overrides := &config.Config{}
	if cmd.Flags().Changed("standalone") {
		overrides.Export.Standalone = config.Bool(flags.standalone)
	}
	if cmd.Flags().Changed("unsafe") {
		overrides.Export.Unsafe = config.Bool(flags.unsafe)
	}
	if flags.noGFM {
		overrides.Export.GFM = config.Bool(false)
	}

	cfg, err := loadConfig(cmd, overrides)
	if err != nil {
		return err
	}

	content, err := readDocument(cmd, path)
	if err != nil {
		return err
	}

	opts := cfg.ExportOptions()
	opts.Title = flags.title
	if opts.Title == "" {
		opts.Title = documentTitle(path)
	}

	var buf bytes.Buffer
	if err := export.NewHTMLExporter(opts).Write(&buf, content); err != nil {
		return err
	}
	return writeOutput(cmd, flags.output, buf.Bytes())
}

// documentTitle derives a title from a file name.
func documentTitle(path string) string {
	if path == stdinPath {
		return "stdin"
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
