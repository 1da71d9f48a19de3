package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdlive/pkg/config"
	"github.com/yaklabco/mdlive/pkg/cursor"
	"github.com/yaklabco/mdlive/pkg/inline"
	"github.com/yaklabco/mdlive/pkg/live"
	"github.com/yaklabco/mdlive/pkg/syntax"
	"github.com/yaklabco/mdlive/pkg/textpos"
)

// Coordinate space names used in map output.
const (
	spaceRaw      = "raw"
	spaceRendered = "rendered"
)

type mapFlags struct {
	raw      int
	rendered int
	json     bool
}

type mapOutput struct {
	From     string                 `json:"from"`
	To       string                 `json:"to"`
	Position int                    `json:"position"`
	Mapped   int                    `json:"mapped"`
	Element  *cursor.ElementMapping `json:"element,omitempty"`
}

func newMapCommand() *cobra.Command {
	flags := &mapFlags{}

	cmd := &cobra.Command{
		Use:   "map FILE (--raw N | --rendered N)",
		Short: "Map a cursor position between the raw and rendered views",
		Long: `Translate a byte offset in the markdown source of FILE to the matching
offset in its rendered HTML, or back. Element boundaries map exactly; offsets
inside an element are interpolated across it; anything else is scaled by the
overall length ratio.`,
		Example: `  mdlive map README.md --raw 4
  mdlive map README.md --rendered 10 --json`,
		Args: exactlyOneFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMap(cmd, args[0], flags)
		},
	}

	cmd.Flags().IntVar(&flags.raw, spaceRaw, 0, "raw markdown offset to map")
	cmd.Flags().IntVar(&flags.rendered, spaceRendered, 0, "rendered HTML offset to map")
	cmd.Flags().BoolVar(&flags.json, "json", false, "print the mapping as JSON")
	cmd.MarkFlagsMutuallyExclusive(spaceRaw, spaceRendered)
	cmd.MarkFlagsOneRequired(spaceRaw, spaceRendered)

	return cmd
}

func runMap(cmd *cobra.Command, path string, flags *mapFlags) error {
	cfg, err := loadConfig(cmd, formatOverride(flags.json))
	if err != nil {
		return err
	}

	content, err := readDocument(cmd, path)
	if err != nil {
		return err
	}

	integration := live.New(
		live.WithParser(syntax.New(cfg.ParserOptions()...)),
		live.WithRenderer(inline.New(cfg.RendererOptions()...)),
		live.WithLogger(commandLogger(cmd)),
	)
	integration.ProcessContentWithCursor(content, textpos.Start(), nil)

	out, err := mapPosition(integration.CursorManager(), cmd.Flags().Changed(spaceRaw), flags)
	if err != nil {
		return err
	}

	if cfg.Format == config.FormatJSON {
		return writeJSON(cmd.OutOrStdout(), out)
	}

	line := fmt.Sprintf("%s %d -> %s %d", out.From, out.Position, out.To, out.Mapped)
	if out.Element != nil {
		line += fmt.Sprintf(" (%s %s)", out.Element.ID, out.Element.ElementType)
	}
	return writeOutput(cmd, "", []byte(line+"\n"))
}

func mapPosition(manager *cursor.Manager, fromRaw bool, flags *mapFlags) (mapOutput, error) {
	if fromRaw {
		if flags.raw < 0 {
			return mapOutput{}, usageError(fmt.Errorf("raw offset %d is negative", flags.raw))
		}
		mapped, ok := manager.MapRawToRendered(flags.raw)
		if !ok {
			return mapOutput{}, fmt.Errorf("map raw offset %d: %w", flags.raw, cursor.ErrNoMapping)
		}
		return mapOutput{
			From:     spaceRaw,
			To:       spaceRendered,
			Position: flags.raw,
			Mapped:   mapped,
			Element:  findMapping(manager, flags.raw, true),
		}, nil
	}

	if flags.rendered < 0 {
		return mapOutput{}, usageError(fmt.Errorf("rendered offset %d is negative", flags.rendered))
	}
	return mapOutput{
		From:     spaceRendered,
		To:       spaceRaw,
		Position: flags.rendered,
		Mapped:   manager.MapRenderedToRaw(flags.rendered),
		Element:  findMapping(manager, flags.rendered, false),
	}, nil
}

// findMapping returns the first element whose range in the given space
// contains pos.
func findMapping(manager *cursor.Manager, pos int, raw bool) *cursor.ElementMapping {
	for _, em := range manager.ElementMappings() {
		rng := em.RenderedRange
		if raw {
			rng = em.RawRange
		}
		if rng.Contains(pos) {
			return &em
		}
	}
	return nil
}
