package textpos_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdlive/pkg/textpos"
)

func TestRange(t *testing.T) {
	t.Parallel()

	r := textpos.NewRange(5, 10)

	assert.True(t, r.Contains(7))
	assert.True(t, r.Contains(5))
	assert.False(t, r.Contains(10))
	assert.False(t, r.Contains(4))
	assert.Equal(t, 5, r.Len())
	assert.False(t, r.IsEmpty())

	assert.True(t, r.Overlaps(textpos.NewRange(8, 15)))
	assert.False(t, r.Overlaps(textpos.NewRange(15, 20)))
	assert.False(t, r.Overlaps(textpos.NewRange(10, 12)), "adjacent ranges do not overlap")
	assert.False(t, textpos.NewRange(3, 3).Overlaps(r))

	assert.Equal(t, textpos.NewRange(3, 8), r.Shift(-2))
	assert.Equal(t, "[5,10)", r.String())
}

func TestRangeSlice(t *testing.T) {
	t.Parallel()

	content := "This is **bold** text"
	assert.Equal(t, "**bold**", textpos.NewRange(8, 16).Slice(content))
	assert.Empty(t, textpos.NewRange(8, 100).Slice(content))
	assert.Empty(t, textpos.NewRange(-1, 2).Slice(content))
}

func TestBuildLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected []textpos.LineInfo
	}{
		{
			name:     "empty content",
			content:  "",
			expected: []textpos.LineInfo{},
		},
		{
			name:    "single line no newline",
			content: "hello",
			expected: []textpos.LineInfo{
				{StartOffset: 0, NewlineStart: 5, EndOffset: 5},
			},
		},
		{
			name:    "single line with LF",
			content: "hello\n",
			expected: []textpos.LineInfo{
				{StartOffset: 0, NewlineStart: 5, EndOffset: 6},
				{StartOffset: 6, NewlineStart: 6, EndOffset: 6},
			},
		},
		{
			name:    "multiple lines CRLF",
			content: "line1\r\nline2\r\n",
			expected: []textpos.LineInfo{
				{StartOffset: 0, NewlineStart: 5, EndOffset: 7},
				{StartOffset: 7, NewlineStart: 12, EndOffset: 14},
				{StartOffset: 14, NewlineStart: 14, EndOffset: 14},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, textpos.BuildLines(tt.content))
		})
	}
}

func TestLineIndex(t *testing.T) {
	t.Parallel()

	idx := textpos.NewLineIndex("ab\ncd\n")

	tests := []struct {
		offset   int
		wantLine int
		wantCol  int
		wantOK   bool
	}{
		{0, 0, 0, true},
		{2, 0, 2, true},
		{3, 1, 0, true},
		{5, 1, 2, true},
		{6, 2, 0, true},
		{7, 0, 0, false},
		{-1, 0, 0, false},
	}

	for _, tt := range tests {
		line, col, ok := idx.LineAt(tt.offset)
		assert.Equal(t, tt.wantOK, ok, "offset %d", tt.offset)
		if ok {
			assert.Equal(t, tt.wantLine, line, "offset %d line", tt.offset)
			assert.Equal(t, tt.wantCol, col, "offset %d column", tt.offset)

			back, ok := idx.Offset(line, col)
			require.True(t, ok)
			assert.Equal(t, tt.offset, back)
		}
	}

	_, ok := idx.Offset(0, 3)
	assert.False(t, ok, "column past end of line")

	text, ok := idx.LineContent(1)
	require.True(t, ok)
	assert.Equal(t, "cd", text)
}

func TestCursorAt(t *testing.T) {
	t.Parallel()

	content := "# Title\nbody"

	c, ok := textpos.CursorAt(content, 10)
	require.True(t, ok)
	assert.Equal(t, textpos.NewCursor(1, 2, 10), c)
	assert.True(t, c.IsValidFor(content))

	_, ok = textpos.CursorAt(content, 99)
	assert.False(t, ok)

	fromLC, ok := textpos.CursorFromLineColumn(content, 1, 2)
	require.True(t, ok)
	assert.Equal(t, c, fromLC)

	assert.Equal(t, textpos.NewCursor(1, 4, 12), textpos.At(40).Sync(content))
	assert.False(t, textpos.NewCursor(0, 0, 10).IsValidFor(content))
}

func TestCursorDisplayColumn(t *testing.T) {
	t.Parallel()

	content := "日本語 text"
	c, ok := textpos.CursorAt(content, len("日本語"))
	require.True(t, ok)

	assert.Equal(t, 9, c.Column, "columns count bytes")
	assert.Equal(t, 6, c.DisplayColumn(content), "wide runes take two cells")
}

func TestCursorDistance(t *testing.T) {
	t.Parallel()

	a := textpos.At(0)
	b := textpos.At(5)
	c := textpos.NewCursor(1, 0, 10)

	assert.Equal(t, 5, a.Distance(b))
	assert.Equal(t, 5, b.Distance(a))
	assert.Equal(t, 10, a.Distance(c))
}
