package pretty

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/muesli/reflow/truncate"
	"github.com/rivo/uniseg"
	"golang.org/x/term"

	"github.com/yaklabco/mdlive/pkg/syntax"
	"github.com/yaklabco/mdlive/pkg/textpos"
)

// Table formatting constants.
const (
	activeSymbol     = "*"
	ellipsis         = "..."
	tablePadding     = 2
	tableColumnCount = 5 // IDX, TYPE, RANGE, LOC, RAW
	activeColWidth   = 2
	minIndexWidth    = 3
	minTypeWidth     = 12
	minRangeWidth    = 8
	minLocWidth      = 5
	minRawWidth      = 20
	heavySeparator   = "="
	defaultTermWidth = 100
)

// ElementRow is a single row in the element table.
type ElementRow struct {
	Index    int
	Kind     syntax.Kind
	Type     string
	Range    string
	Location string
	Raw      string
	Active   bool
}

// ElementRows converts parsed elements to table rows. Locations are 1-based
// line:column pairs in content.
func ElementRows(content string, elements []syntax.Element) []ElementRow {
	lines := textpos.NewLineIndex(content)
	rows := make([]ElementRow, 0, len(elements))
	for i, el := range elements {
		loc := "-"
		if line, col, ok := lines.LineAt(el.Range.Start); ok {
			loc = fmt.Sprintf("%d:%d", line+1, col+1)
		}
		rows = append(rows, ElementRow{
			Index:    i,
			Kind:     el.Type.Kind,
			Type:     el.Type.String(),
			Range:    el.Range.String(),
			Location: loc,
			Raw:      singleLine(el.RawContent),
			Active:   el.IsActive,
		})
	}
	return rows
}

// singleLine makes multi-line raw content fit in one table cell.
func singleLine(s string) string {
	return strings.ReplaceAll(strings.TrimRight(s, "\n"), "\n", `\n`)
}

type columnWidths struct {
	index    int
	typ      int
	rng      int
	location int
	raw      int
}

// TableFormatter formats syntax elements as a styled table.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:    styles,
		termWidth: termWidth,
	}
}

// FormatElements renders rows as a table. It returns "" for no rows.
func (t *TableFormatter) FormatElements(rows []ElementRow) string {
	if len(rows) == 0 {
		return ""
	}

	widths := t.calculateColumnWidths(rows)

	var builder strings.Builder
	builder.WriteString(t.formatHeader(widths))
	builder.WriteString("\n")
	builder.WriteString(t.formatSeparator(widths))
	builder.WriteString("\n")

	for _, row := range rows {
		builder.WriteString(t.formatRow(row, widths))
		builder.WriteString("\n")
	}

	builder.WriteString(t.formatSeparator(widths))
	builder.WriteString("\n")
	builder.WriteString(t.formatSummary(rows))
	builder.WriteString("\n")

	return builder.String()
}

func (t *TableFormatter) calculateColumnWidths(rows []ElementRow) columnWidths {
	widths := columnWidths{
		index:    minIndexWidth,
		typ:      minTypeWidth,
		rng:      minRangeWidth,
		location: minLocWidth,
		raw:      minRawWidth,
	}

	for _, row := range rows {
		widths.index = max(widths.index, len(strconv.Itoa(row.Index)))
		widths.typ = max(widths.typ, len(row.Type))
		widths.rng = max(widths.rng, len(row.Range))
		widths.location = max(widths.location, len(row.Location))
		widths.raw = max(widths.raw, uniseg.StringWidth(row.Raw))
	}

	// The raw column absorbs any overflow.
	if total := t.totalWidth(widths); total > t.termWidth {
		widths.raw = max(minRawWidth, widths.raw-(total-t.termWidth))
	}

	return widths
}

func (t *TableFormatter) totalWidth(w columnWidths) int {
	return activeColWidth + w.index + w.typ + w.rng + w.location + w.raw + tablePadding*(tableColumnCount-1)
}

func (t *TableFormatter) formatHeader(w columnWidths) string {
	header := fmt.Sprintf("%-*s%-*s  %-*s  %-*s  %-*s  %s",
		activeColWidth, "",
		w.index, "IDX",
		w.typ, "TYPE",
		w.rng, "RANGE",
		w.location, "LOC",
		"RAW",
	)
	return t.styles.TableHeader.Render(header)
}

func (t *TableFormatter) formatSeparator(w columnWidths) string {
	return t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, t.totalWidth(w)))
}

func (t *TableFormatter) formatRow(row ElementRow, w columnWidths) string {
	marker := " "
	if row.Active {
		marker = t.styles.ActiveMark.Render(activeSymbol)
	}

	// Pad before styling so escape codes do not count toward the width.
	typ := t.styles.ForKind(row.Kind).Render(fmt.Sprintf("%-*s", w.typ, row.Type))

	return fmt.Sprintf("%s %*d  %s  %-*s  %-*s  %s",
		marker,
		w.index, row.Index,
		typ,
		w.rng, row.Range,
		w.location, row.Location,
		TruncateCell(row.Raw, w.raw),
	)
}

func (t *TableFormatter) formatSummary(rows []ElementRow) string {
	counts := make(map[syntax.Kind]int)
	var order []syntax.Kind
	active := 0
	for _, row := range rows {
		if counts[row.Kind] == 0 {
			order = append(order, row.Kind)
		}
		counts[row.Kind]++
		if row.Active {
			active++
		}
	}

	parts := []string{fmt.Sprintf("%d elements", len(rows))}
	for _, kind := range order {
		parts = append(parts, t.styles.ForKind(kind).Render(fmt.Sprintf("%d %s", counts[kind], kind)))
	}
	if active > 0 {
		parts = append(parts, t.styles.ActiveMark.Render(fmt.Sprintf("%s %d active", activeSymbol, active)))
	}
	return " " + strings.Join(parts, t.styles.Dim.Render(" | "))
}

// TruncateCell shortens s to at most width display cells, marking the cut
// with an ellipsis.
func TruncateCell(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if uniseg.StringWidth(s) <= width {
		return s
	}
	if width <= len(ellipsis) {
		return truncate.String(s, uint(width))
	}
	return truncate.StringWithTail(s, uint(width), ellipsis)
}

// TerminalWidth returns the width of writer if it is a terminal.
func TerminalWidth(writer io.Writer) int {
	if f, ok := writer.(interface{ Fd() uintptr }); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > 0 {
			return width
		}
	}
	return defaultTermWidth
}
