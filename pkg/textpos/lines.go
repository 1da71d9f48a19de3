package textpos

import "sort"

// LineInfo holds metadata for a single line.
type LineInfo struct {
	// StartOffset is the byte index of the line start.
	StartOffset int

	// NewlineStart is the byte index where newline characters begin.
	// For lines without a trailing newline (e.g., last line), this equals EndOffset.
	NewlineStart int

	// EndOffset is the byte index just after the newline (or end of content).
	EndOffset int
}

// Range returns the line's content range, excluding the line terminator.
func (l LineInfo) Range() Range {
	return Range{Start: l.StartOffset, End: l.NewlineStart}
}

// BuildLines constructs line metadata from content.
// It handles both LF (\n) and CRLF (\r\n) line endings.
func BuildLines(content string) []LineInfo {
	if len(content) == 0 {
		return []LineInfo{}
	}

	var lines []LineInfo
	lineStart := 0

	for idx := 0; idx < len(content); idx++ {
		if content[idx] != '\n' {
			continue
		}

		newlineStart := idx
		if idx > lineStart && content[idx-1] == '\r' {
			newlineStart = idx - 1
		}

		lines = append(lines, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: newlineStart,
			EndOffset:    idx + 1,
		})
		lineStart = idx + 1
	}

	// Handle last line (may not have trailing newline).
	if lineStart <= len(content) {
		lines = append(lines, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: len(content),
			EndOffset:    len(content),
		})
	}

	return lines
}

// LineIndex answers offset <-> line/column questions for one piece of content.
type LineIndex struct {
	content string
	lines   []LineInfo
}

// NewLineIndex builds the line index for content.
func NewLineIndex(content string) *LineIndex {
	return &LineIndex{content: content, lines: BuildLines(content)}
}

// Lines returns the line metadata.
func (x *LineIndex) Lines() []LineInfo {
	return x.lines
}

// LineCount returns the number of lines.
func (x *LineIndex) LineCount() int {
	return len(x.lines)
}

// LineAt converts a byte offset to 0-based line and column numbers.
// Column counts bytes, not runes. Returns ok=false if the offset is out of range.
func (x *LineIndex) LineAt(offset int) (line, column int, ok bool) {
	if offset < 0 || offset > len(x.content) {
		return 0, 0, false
	}
	if len(x.lines) == 0 {
		return 0, 0, offset == 0
	}

	if offset == len(x.content) {
		last := x.lines[len(x.lines)-1]
		return len(x.lines) - 1, offset - last.StartOffset, true
	}

	idx := sort.Search(len(x.lines), func(i int) bool {
		return x.lines[i].EndOffset > offset
	})
	if idx >= len(x.lines) {
		idx = len(x.lines) - 1
	}

	info := x.lines[idx]
	if offset < info.StartOffset {
		return 0, 0, false
	}

	return idx, offset - info.StartOffset, true
}

// Offset converts 0-based line and column numbers to a byte offset.
// The column may point at the end of the line text (for cursor placement).
func (x *LineIndex) Offset(line, column int) (int, bool) {
	if line < 0 || column < 0 {
		return 0, false
	}
	if len(x.lines) == 0 && line == 0 && column == 0 {
		return 0, true
	}
	if line >= len(x.lines) {
		return 0, false
	}

	info := x.lines[line]
	offset := info.StartOffset + column
	if offset > info.NewlineStart {
		return 0, false
	}

	return offset, true
}

// LineContent returns the text of a 0-based line, excluding the newline.
func (x *LineIndex) LineContent(line int) (string, bool) {
	if line < 0 || line >= len(x.lines) {
		return "", false
	}
	info := x.lines[line]
	return x.content[info.StartOffset:info.NewlineStart], true
}
