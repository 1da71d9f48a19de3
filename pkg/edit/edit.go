// Package edit describes byte-range replacements on a document and applies
// them.
package edit

import (
	"fmt"

	"github.com/yaklabco/mdlive/pkg/textpos"
)

// TextEdit replaces the bytes [StartOffset, EndOffset) with NewText.
type TextEdit struct {
	StartOffset int    `json:"start"`
	EndOffset   int    `json:"end"`
	NewText     string `json:"text"`
}

// Replace returns an edit that replaces [start, end) with text.
func Replace(start, end int, text string) TextEdit {
	return TextEdit{StartOffset: start, EndOffset: end, NewText: text}
}

// Range returns the replaced byte range.
func (e TextEdit) Range() textpos.Range {
	return textpos.NewRange(e.StartOffset, e.EndOffset)
}

// Delta is the change in document length caused by the edit.
func (e TextEdit) Delta() int {
	return len(e.NewText) - (e.EndOffset - e.StartOffset)
}

func (e TextEdit) String() string {
	return fmt.Sprintf("[%d:%d]%q", e.StartOffset, e.EndOffset, e.NewText)
}

// Builder accumulates edits for one document.
type Builder struct {
	Edits []TextEdit
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{Edits: make([]TextEdit, 0)}
}

// ReplaceRange adds an edit that replaces bytes [start, end) with newText.
func (b *Builder) ReplaceRange(start, end int, newText string) *Builder {
	b.Edits = append(b.Edits, Replace(start, end, newText))
	return b
}

// Insert adds an edit that inserts text at offset.
func (b *Builder) Insert(offset int, text string) *Builder {
	return b.ReplaceRange(offset, offset, text)
}

// Delete adds an edit that deletes bytes [start, end).
func (b *Builder) Delete(start, end int) *Builder {
	return b.ReplaceRange(start, end, "")
}

// Apply applies the accumulated edits to content.
func (b *Builder) Apply(content string) (string, error) {
	return Apply(content, b.Edits)
}
