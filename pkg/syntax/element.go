// Package syntax tokenizes markdown into positioned syntax elements.
//
// Each construct is recognised by an independent pass over the source, so
// elements may overlap: a bold span also yields an italic span starting one
// byte later. Full CommonMark parsing is done by goldmark in pkg/export.
package syntax

import (
	"fmt"

	"github.com/yaklabco/mdlive/pkg/textpos"
)

// Kind identifies the markdown construct an element represents.
type Kind uint8

// Element kinds.
const (
	KindHeader Kind = iota
	KindBold
	KindItalic
	KindInlineCode
	KindCodeBlock
	KindLink
	KindUnorderedListItem
	KindOrderedListItem
)

var kindNames = [...]string{
	KindHeader:            "header",
	KindBold:              "bold",
	KindItalic:            "italic",
	KindInlineCode:        "inline_code",
	KindCodeBlock:         "code_block",
	KindLink:              "link",
	KindUnorderedListItem: "unordered_list_item",
	KindOrderedListItem:   "ordered_list_item",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ElementType is a Kind plus the parameters that kind carries.
// Fields that do not apply to the kind are zero.
type ElementType struct {
	Kind Kind

	// Level is the header level (1-6) or the list indent level (0-based).
	Level int

	// Number is the ordinal written in an ordered list marker.
	Number int

	// Language is the code block language, if known.
	Language string

	// URL and Title are the link destination and optional title.
	URL   string
	Title string
}

// Header returns the type of a header of the given level.
func Header(level int) ElementType { return ElementType{Kind: KindHeader, Level: level} }

// Bold returns the bold type.
func Bold() ElementType { return ElementType{Kind: KindBold} }

// Italic returns the italic type.
func Italic() ElementType { return ElementType{Kind: KindItalic} }

// InlineCode returns the inline code type.
func InlineCode() ElementType { return ElementType{Kind: KindInlineCode} }

// CodeBlock returns the type of a fenced code block.
func CodeBlock(language string) ElementType {
	return ElementType{Kind: KindCodeBlock, Language: language}
}

// Link returns the type of an inline link.
func Link(url, title string) ElementType {
	return ElementType{Kind: KindLink, URL: url, Title: title}
}

// UnorderedListItem returns the type of a bullet list item.
func UnorderedListItem(level int) ElementType {
	return ElementType{Kind: KindUnorderedListItem, Level: level}
}

// OrderedListItem returns the type of a numbered list item.
func OrderedListItem(level, number int) ElementType {
	return ElementType{Kind: KindOrderedListItem, Level: level, Number: number}
}

// IsBlock reports whether the element occupies whole lines.
func (t ElementType) IsBlock() bool {
	switch t.Kind {
	case KindHeader, KindCodeBlock, KindUnorderedListItem, KindOrderedListItem:
		return true
	default:
		return false
	}
}

// IsListItem reports whether the element is an ordered or unordered list item.
func (t ElementType) IsListItem() bool {
	return t.Kind == KindUnorderedListItem || t.Kind == KindOrderedListItem
}

// String returns a short label such as "header(2)" or "link".
func (t ElementType) String() string {
	switch t.Kind {
	case KindHeader:
		return fmt.Sprintf("header(%d)", t.Level)
	case KindCodeBlock:
		if t.Language != "" {
			return fmt.Sprintf("code_block(%s)", t.Language)
		}
	case KindUnorderedListItem:
		return fmt.Sprintf("unordered_list_item(%d)", t.Level)
	case KindOrderedListItem:
		return fmt.Sprintf("ordered_list_item(%d,%d)", t.Level, t.Number)
	}
	return t.Kind.String()
}

// Element is one recognised construct in a document.
type Element struct {
	Type  ElementType
	Range textpos.Range

	// RawContent is the source text covered by Range, markers included.
	RawContent string

	// RenderedContent is the visible text with markers stripped.
	RenderedContent string

	IsActive bool
}

// NewElement returns an inactive element.
func NewElement(typ ElementType, rng textpos.Range, raw, rendered string) Element {
	return Element{
		Type:            typ,
		Range:           rng,
		RawContent:      raw,
		RenderedContent: rendered,
	}
}

// ContainsCursor reports whether pos falls inside the element's range.
func (e Element) ContainsCursor(pos int) bool {
	return e.Range.Contains(pos)
}

// SetActive marks the element as the one being edited.
func (e *Element) SetActive(active bool) {
	e.IsActive = active
}
