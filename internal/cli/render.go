package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdlive/pkg/config"
	"github.com/yaklabco/mdlive/pkg/inline"
	"github.com/yaklabco/mdlive/pkg/live"
	"github.com/yaklabco/mdlive/pkg/syntax"
	"github.com/yaklabco/mdlive/pkg/textpos"
	"github.com/yaklabco/mdlive/pkg/trigger"
)

type renderFlags struct {
	cursor      int
	events      []string
	mode        string
	classPrefix string
	json        bool
}

// renderOutput is the --json form of a render.
type renderOutput struct {
	Mode   live.Mode      `json:"mode"`
	Cursor textpos.Cursor `json:"cursor"`
	live.Result
}

func newRenderCommand() *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render a document as the live view shows it",
		Long: `Render FILE for a cursor position. In live mode every element is HTML
except those containing the cursor, which are emitted as editable raw markdown.
Events decide which element becomes active, as if they had just happened in
an editor. Use "-" to read from standard input.

Events: space_key, cursor_movement, block_element_completed, content_change.`,
		Example: `  mdlive render README.md --cursor 42
  mdlive render README.md --cursor 42 --event space_key
  mdlive render README.md --mode preview
  mdlive render README.md --cursor 9 --json`,
		Args: exactlyOneFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], flags)
		},
	}

	cmd.Flags().IntVar(&flags.cursor, "cursor", 0, "cursor byte offset in the document")
	cmd.Flags().StringSliceVar(&flags.events, "event", nil, "trigger events to apply before rendering (repeatable)")
	cmd.Flags().StringVar(&flags.mode, "mode", string(live.ModeLive), "view mode: raw, live, preview")
	cmd.Flags().StringVar(&flags.classPrefix, "class-prefix", "", "CSS class prefix (overrides config)")
	cmd.Flags().BoolVar(&flags.json, "json", false, "print the render result as JSON")

	return cmd
}

func runRender(cmd *cobra.Command, path string, flags *renderFlags) error {
	mode, err := live.ParseMode(flags.mode)
	if err != nil {
		return usageError(err)
	}

	overrides := formatOverride(flags.json)
	overrides.Renderer.ClassPrefix = flags.classPrefix

	cfg, err := loadConfig(cmd, overrides)
	if err != nil {
		return err
	}

	content, err := readDocument(cmd, path)
	if err != nil {
		return err
	}

	cur, ok := textpos.CursorAt(content, flags.cursor)
	if !ok {
		return usageError(fmt.Errorf("cursor %d outside document of %d bytes", flags.cursor, len(content)))
	}

	logger := commandLogger(cmd)
	parser := syntax.New(append(cfg.ParserOptions(), syntax.WithLogger(logger))...)
	renderer := inline.New(cfg.RendererOptions()...)

	events, err := parseEvents(flags.events, content, cur, parser.ParseDocument(content))
	if err != nil {
		return usageError(err)
	}

	result := renderMode(mode, content, cur, events, parser, renderer, logger)

	if cfg.Format == config.FormatJSON {
		return writeJSON(cmd.OutOrStdout(), renderOutput{Mode: mode, Cursor: cur, Result: result})
	}
	return writeOutput(cmd, "", []byte(result.RenderedContent+"\n"))
}

func renderMode(
	mode live.Mode,
	content string,
	cur textpos.Cursor,
	events []trigger.Event,
	parser *syntax.Parser,
	renderer *inline.Renderer,
	logger *log.Logger,
) live.Result {
	switch mode {
	case live.ModeRaw:
		return live.Result{RenderedContent: content, ActiveElementIndex: live.NoElement}

	case live.ModePreview:
		elements := parser.ParseDocument(content)
		pairs := make([]inline.Pair, len(elements))
		for i, el := range elements {
			pairs[i] = inline.Pair{Element: el, Rendered: renderer.RenderElement(el)}
		}
		return live.Result{
			RenderedContent:    renderer.Preview(content, pairs),
			ActiveElementIndex: live.NoElement,
			SyntaxElements:     elements,
			RenderedElements:   inline.RenderedElements(pairs),
		}

	default:
		integration := live.New(
			live.WithParser(parser),
			live.WithRenderer(renderer),
			live.WithLogger(logger),
		)
		return integration.ProcessContentWithCursor(content, cur, events)
	}
}

// parseEvents turns event names into events located at the cursor. A block
// completion takes the type of the block element under or just before the
// cursor.
func parseEvents(names []string, content string, cur textpos.Cursor, elements []syntax.Element) ([]trigger.Event, error) {
	events := make([]trigger.Event, 0, len(names))
	for _, name := range names {
		kind, err := trigger.ParseKind(name)
		if err != nil {
			return nil, err
		}

		switch kind {
		case trigger.KindSpaceKey:
			events = append(events, trigger.SpaceKey())
		case trigger.KindCursorMovement:
			events = append(events, trigger.CursorMovement(textpos.Start(), cur))
		case trigger.KindBlockElementCompleted:
			el, ok := blockAt(elements, cur.Absolute)
			if !ok {
				return nil, fmt.Errorf("%s needs the cursor on a block element", kind)
			}
			events = append(events, trigger.BlockElementCompleted(el.Type, cur.Absolute))
		case trigger.KindContentChange:
			events = append(events, trigger.ContentChange(0, len(content)))
		}
	}
	return events, nil
}

func blockAt(elements []syntax.Element, pos int) (syntax.Element, bool) {
	for _, el := range elements {
		if el.Type.IsBlock() && (el.Range.Contains(pos) || el.Range.End == pos) {
			return el, true
		}
	}
	return syntax.Element{}, false
}

func exactlyOneFile(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return usageError(err)
	}
	return nil
}
