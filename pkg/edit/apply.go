package edit

import "strings"

// Apply prepares edits against content and applies them all at once. Offsets
// refer to the original content.
func Apply(content string, edits []TextEdit) (string, error) {
	prepared, err := Prepare(edits, len(content))
	if err != nil {
		return "", err
	}
	return applyPrepared(content, prepared), nil
}

func applyPrepared(content string, edits []TextEdit) string {
	if len(edits) == 0 {
		return content
	}

	delta := 0
	for _, e := range edits {
		delta += e.Delta()
	}

	var out strings.Builder
	out.Grow(max(len(content)+delta, 0))

	last := 0
	for _, e := range edits {
		out.WriteString(content[last:e.StartOffset])
		out.WriteString(e.NewText)
		last = e.EndOffset
	}
	out.WriteString(content[last:])

	return out.String()
}

// AdjustOffset moves offset to account for e having been applied. Offsets
// inside the replaced range move to the end of the new text.
func (e TextEdit) AdjustOffset(offset int) int {
	switch {
	case offset >= e.EndOffset:
		return offset + e.Delta()
	case offset >= e.StartOffset:
		return e.StartOffset + len(e.NewText)
	default:
		return offset
	}
}
