package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdlive/internal/logging"
	"github.com/yaklabco/mdlive/pkg/export"
	"github.com/yaklabco/mdlive/pkg/fsutil"
)

type importFlags struct {
	output string
	backup bool
}

func newImportCommand() *cobra.Command {
	flags := &importFlags{}

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Convert HTML back to markdown",
		Long: `Convert the HTML in FILE to markdown. This brings content edited in a
rendered view, or exported with "mdlive export", back to markdown source.`,
		Example: `  mdlive import page.html
  mdlive import page.html -o page.md --backup`,
		Args: exactlyOneFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write markdown to this file instead of stdout")
	cmd.Flags().BoolVar(&flags.backup, "backup", false, "keep a "+fsutil.BackupSuffix+" copy of an overwritten output file")

	return cmd
}

func runImport(cmd *cobra.Command, path string, flags *importFlags) error {
	if _, err := loadConfig(cmd, nil); err != nil {
		return err
	}

	html, err := readDocument(cmd, path)
	if err != nil {
		return err
	}

	markdown, err := export.ToMarkdown(html)
	if err != nil {
		return err
	}

	if flags.output != "" && flags.backup {
		created, err := fsutil.CreateBackup(commandContext(cmd), flags.output)
		if err != nil {
			return err
		}
		if created {
			commandLogger(cmd).Info("created backup", logging.FieldPath, fsutil.BackupPath(flags.output))
		}
	}

	return writeOutput(cmd, flags.output, []byte(markdown+"\n"))
}
