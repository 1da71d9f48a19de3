package textpos

import (
	"fmt"

	"github.com/rivo/uniseg"
)

// Cursor is a cursor position in an editor buffer.
//
// Absolute is the only field the live editing engine reads and writes
// authoritatively; Line and Column (both 0-based, Column in bytes) are kept
// for display by the layer that owns the buffer.
type Cursor struct {
	Line     int `json:"line"`
	Column   int `json:"column"`
	Absolute int `json:"absolute"`
}

// NewCursor returns a cursor with all three coordinates set.
func NewCursor(line, column, absolute int) Cursor {
	return Cursor{Line: line, Column: column, Absolute: absolute}
}

// At returns a cursor that only carries an absolute offset.
func At(absolute int) Cursor {
	return Cursor{Absolute: absolute}
}

// Start returns the cursor at the beginning of a document.
func Start() Cursor {
	return Cursor{}
}

// CursorAt derives line and column from an absolute offset into content.
func CursorAt(content string, absolute int) (Cursor, bool) {
	line, column, ok := NewLineIndex(content).LineAt(absolute)
	if !ok {
		return Cursor{}, false
	}
	return Cursor{Line: line, Column: column, Absolute: absolute}, true
}

// CursorFromLineColumn derives the absolute offset from a line and column.
func CursorFromLineColumn(content string, line, column int) (Cursor, bool) {
	absolute, ok := NewLineIndex(content).Offset(line, column)
	if !ok {
		return Cursor{}, false
	}
	return Cursor{Line: line, Column: column, Absolute: absolute}, true
}

// IsValidFor reports whether all three coordinates agree with content.
func (c Cursor) IsValidFor(content string) bool {
	if c.Absolute < 0 || c.Absolute > len(content) {
		return false
	}
	line, column, ok := NewLineIndex(content).LineAt(c.Absolute)
	return ok && line == c.Line && column == c.Column
}

// Sync recomputes Line and Column from Absolute. Out-of-range cursors are
// clamped to the end of content.
func (c Cursor) Sync(content string) Cursor {
	abs := c.Absolute
	if abs < 0 {
		abs = 0
	}
	if abs > len(content) {
		abs = len(content)
	}
	synced, _ := CursorAt(content, abs)
	return synced
}

// DisplayColumn returns the terminal cell width of the text between the
// start of the cursor's line and the cursor.
func (c Cursor) DisplayColumn(content string) int {
	idx := NewLineIndex(content)
	text, ok := idx.LineContent(c.Line)
	if !ok {
		return 0
	}
	col := c.Column
	if col > len(text) {
		col = len(text)
	}
	return uniseg.StringWidth(text[:col])
}

// Distance returns the absolute-offset distance between two cursors.
func (c Cursor) Distance(other Cursor) int {
	if c.Absolute > other.Absolute {
		return c.Absolute - other.Absolute
	}
	return other.Absolute - c.Absolute
}

func (c Cursor) String() string {
	return fmt.Sprintf("%d:%d@%d", c.Line, c.Column, c.Absolute)
}
