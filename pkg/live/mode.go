package live

import (
	"fmt"
	"strings"
)

// Mode is the presentation an editor is showing.
type Mode string

// Editor modes.
const (
	// ModeRaw shows the markdown source.
	ModeRaw Mode = "raw"
	// ModeLive shows rendered markdown with the element under the cursor in raw form.
	ModeLive Mode = "live"
	// ModePreview shows rendered markdown only.
	ModePreview Mode = "preview"
)

func (m Mode) String() string {
	return string(m)
}

// ParseMode converts a mode name, ignoring case.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeRaw, ModeLive, ModePreview:
		return m, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want raw, live or preview)", s)
	}
}
