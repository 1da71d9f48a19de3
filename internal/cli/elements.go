package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdlive/internal/logging"
	"github.com/yaklabco/mdlive/internal/ui/pretty"
	"github.com/yaklabco/mdlive/pkg/config"
	"github.com/yaklabco/mdlive/pkg/live"
	"github.com/yaklabco/mdlive/pkg/syntax"
	"github.com/yaklabco/mdlive/pkg/textpos"
	"github.com/yaklabco/mdlive/pkg/trigger"
)

type elementsFlags struct {
	cursor int
	json   bool
}

// elementOutput is the --json form of one element.
type elementOutput struct {
	Index    int           `json:"index"`
	Type     string        `json:"type"`
	Language string        `json:"language,omitempty"`
	URL      string        `json:"url,omitempty"`
	Range    textpos.Range `json:"range"`
	Raw      string        `json:"raw"`
	Rendered string        `json:"rendered"`
	Active   bool          `json:"active"`
}

func newElementsCommand() *cobra.Command {
	flags := &elementsFlags{}

	cmd := &cobra.Command{
		Use:   "elements FILE",
		Short: "List the markdown elements recognised in a document",
		Long: `List every element the live parser recognises in FILE, in document order.
Elements may overlap; a bold span also yields an italic span inside it.

With --cursor the element under the cursor is activated as if a space had
been typed there, and marked in the table.`,
		Example: `  mdlive elements README.md
  mdlive elements README.md --cursor 12
  mdlive elements README.md --json`,
		Args: exactlyOneFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runElements(cmd, args[0], flags)
		},
	}

	cmd.Flags().IntVar(&flags.cursor, "cursor", -1, "activate the element at this byte offset")
	cmd.Flags().BoolVar(&flags.json, "json", false, "print elements as JSON")

	return cmd
}

func runElements(cmd *cobra.Command, path string, flags *elementsFlags) error {
	cfg, err := loadConfig(cmd, formatOverride(flags.json))
	if err != nil {
		return err
	}

	content, err := readDocument(cmd, path)
	if err != nil {
		return err
	}

	elements, err := documentElements(cfg, content, flags.cursor, commandLogger(cmd))
	if err != nil {
		return err
	}

	if cfg.Format == config.FormatJSON {
		out := make([]elementOutput, len(elements))
		for i, el := range elements {
			out[i] = elementOutput{
				Index:    i,
				Type:     el.Type.String(),
				Language: el.Type.Language,
				URL:      el.Type.URL,
				Range:    el.Range,
				Raw:      el.RawContent,
				Rendered: el.RenderedContent,
				Active:   el.IsActive,
			}
		}
		return writeJSON(cmd.OutOrStdout(), out)
	}

	if len(elements) == 0 {
		commandLogger(cmd).Info("no elements found", logging.FieldPath, path)
		return nil
	}

	formatter := pretty.NewTableFormatter(outputStyles(cmd), pretty.TerminalWidth(cmd.OutOrStdout()))
	return writeOutput(cmd, "", []byte(formatter.FormatElements(pretty.ElementRows(content, elements))))
}

// documentElements parses content. A cursor of zero or more activates the
// element under it.
func documentElements(cfg *config.Config, content string, cursorPos int, logger *log.Logger) ([]syntax.Element, error) {
	parser := syntax.New(append(cfg.ParserOptions(), syntax.WithLogger(logger))...)
	if cursorPos < 0 {
		return parser.ParseDocument(content), nil
	}

	cur, ok := textpos.CursorAt(content, cursorPos)
	if !ok {
		return nil, usageError(fmt.Errorf("cursor %d outside document of %d bytes", cursorPos, len(content)))
	}

	integration := live.New(live.WithParser(parser), live.WithLogger(logger))
	integration.ProcessContentWithCursor(content, cur, []trigger.Event{trigger.SpaceKey()})
	return integration.Elements(), nil
}
