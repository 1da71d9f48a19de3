// Package textpos defines the byte ranges, cursor positions and line index
// shared by the live editing packages.
//
// All offsets are byte offsets into UTF-8 text.
package textpos

import "fmt"

// Range is a half-open byte range [Start, End).
type Range struct {
	// Start is the byte index where the range begins (inclusive).
	Start int `json:"start"`

	// End is the byte index where the range ends (exclusive).
	End int `json:"end"`
}

// NewRange returns the range [start, end).
func NewRange(start, end int) Range {
	return Range{Start: start, End: end}
}

// Len returns the length of the range in bytes.
func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

// IsEmpty returns true if the range covers no bytes.
func (r Range) IsEmpty() bool {
	return r.Start >= r.End
}

// Contains returns true if the given offset is within this range.
func (r Range) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// Overlaps returns true if the two ranges share at least one byte.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// Shift returns the range moved by delta bytes.
func (r Range) Shift(delta int) Range {
	return Range{Start: r.Start + delta, End: r.End + delta}
}

// Slice returns content[Start:End], or "" when the range does not fit.
func (r Range) Slice(content string) string {
	if r.Start < 0 || r.End > len(content) || r.Start > r.End {
		return ""
	}
	return content[r.Start:r.End]
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}
