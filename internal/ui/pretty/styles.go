// Package pretty provides Lipgloss-based styled output utilities.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/yaklabco/mdlive/pkg/syntax"
)

// Color modes accepted by IsColorEnabled.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Styles contains all styled renderers for CLI output.
type Styles struct {
	// Element kinds
	Header     lipgloss.Style
	Emphasis   lipgloss.Style
	Code       lipgloss.Style
	Link       lipgloss.Style
	ListItem   lipgloss.Style
	ActiveMark lipgloss.Style

	// Table
	TableHeader    lipgloss.Style
	TableSeparator lipgloss.Style
	TableLegend    lipgloss.Style

	// Status
	Success lipgloss.Style
	Failure lipgloss.Style
	Warning lipgloss.Style

	// Misc
	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles creates a new Styles with the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return newNoColorStyles()
	}
	return newColorStyles()
}

func newColorStyles() *Styles {
	return &Styles{
		Header:     lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
		Emphasis:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Code:       lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Link:       lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Underline(true),
		ListItem:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		ActiveMark: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),

		TableHeader:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")),
		TableSeparator: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		TableLegend:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),

		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Failure: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),

		Dim:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold: lipgloss.NewStyle().Bold(true),
	}
}

func newNoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Header:         plain,
		Emphasis:       plain,
		Code:           plain,
		Link:           plain,
		ListItem:       plain,
		ActiveMark:     plain,
		TableHeader:    plain,
		TableSeparator: plain,
		TableLegend:    plain,
		Success:        plain,
		Failure:        plain,
		Warning:        plain,
		Dim:            plain,
		Bold:           plain,
	}
}

// ForKind returns the style used for elements of kind.
func (s *Styles) ForKind(kind syntax.Kind) lipgloss.Style {
	switch kind {
	case syntax.KindHeader:
		return s.Header
	case syntax.KindBold, syntax.KindItalic:
		return s.Emphasis
	case syntax.KindInlineCode, syntax.KindCodeBlock:
		return s.Code
	case syntax.KindLink:
		return s.Link
	case syntax.KindUnorderedListItem, syntax.KindOrderedListItem:
		return s.ListItem
	default:
		return lipgloss.NewStyle()
	}
}

// IsColorEnabled determines if color should be enabled based on mode and writer.
// In auto mode, color is enabled only if the writer is a TTY and NO_COLOR is not set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		// https://no-color.org/
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}
