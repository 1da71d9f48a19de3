package inline

import (
	"maps"
	"slices"
	"strings"

	"github.com/yaklabco/mdlive/pkg/syntax"
	"github.com/yaklabco/mdlive/pkg/textpos"
)

// Class names added by the renderer regardless of prefix.
const (
	ClassEditing      = "editing"
	ClassCursorActive = "cursor-active"
)

// Attribute is a plain HTML attribute such as href.
type Attribute struct {
	Key   string
	Value string
}

// RenderedElement is the HTML form of one syntax element.
type RenderedElement struct {
	// Tag is the element's HTML tag name.
	Tag string

	// HTML is the bare rendered fragment, e.g. <strong>bold</strong>.
	HTML string

	// Inner is the already-escaped content between the open and close tags.
	Inner string

	// Attributes are emitted before class and data attributes, in order.
	Attributes []Attribute

	// CSSClasses is ordered and free of duplicates.
	CSSClasses []string

	// DataAttributes are emitted as data-<key>, sorted by key.
	DataAttributes map[string]string

	IsEditing  bool
	RawContent string

	// RenderedRange is the byte span of HTML within the preview document.
	// It is filled by Renderer.Preview and is zero until then.
	RenderedRange textpos.Range
}

// AddClass appends class unless it is already present.
func (e *RenderedElement) AddClass(class string) {
	if !slices.Contains(e.CSSClasses, class) {
		e.CSSClasses = append(e.CSSClasses, class)
	}
}

// RemoveClass removes class if present.
func (e *RenderedElement) RemoveClass(class string) {
	e.CSSClasses = slices.DeleteFunc(e.CSSClasses, func(c string) bool { return c == class })
}

// HasClass reports whether class is present.
func (e RenderedElement) HasClass(class string) bool {
	return slices.Contains(e.CSSClasses, class)
}

// AddDataAttribute sets data-<key>.
func (e *RenderedElement) AddDataAttribute(key, value string) {
	if e.DataAttributes == nil {
		e.DataAttributes = make(map[string]string)
	}
	e.DataAttributes[key] = value
}

// SetEditing switches between rendered and raw presentation and keeps the
// editing class in step.
func (e *RenderedElement) SetEditing(editing bool) {
	e.IsEditing = editing
	if editing {
		e.AddClass(ClassEditing)
	} else {
		e.RemoveClass(ClassEditing)
	}
}

// ToHTML returns the element with its classes and data attributes. An editing
// element wraps its escaped raw markdown in a contenteditable tag instead of
// the rendered content.
func (e RenderedElement) ToHTML() string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(e.Tag)
	writeAttributes(&b, e.Attributes)

	if len(e.CSSClasses) > 0 {
		writeAttribute(&b, "class", strings.Join(e.CSSClasses, " "))
	}
	for _, key := range slices.Sorted(maps.Keys(e.DataAttributes)) {
		writeAttribute(&b, "data-"+key, e.DataAttributes[key])
	}

	if e.IsEditing {
		b.WriteString(` contenteditable="true">`)
		b.WriteString(HTMLEscape(e.RawContent))
	} else {
		b.WriteString(">")
		b.WriteString(e.Inner)
	}

	b.WriteString("</")
	b.WriteString(e.Tag)
	b.WriteString(">")
	return b.String()
}

func writeAttributes(b *strings.Builder, attrs []Attribute) {
	for _, attr := range attrs {
		writeAttribute(b, attr.Key, attr.Value)
	}
}

func writeAttribute(b *strings.Builder, key, value string) {
	b.WriteString(" ")
	b.WriteString(key)
	b.WriteString(`="`)
	b.WriteString(HTMLEscape(value))
	b.WriteString(`"`)
}

// Pair binds a syntax element to its rendered form.
type Pair struct {
	Element  syntax.Element
	Rendered RenderedElement
}

// Zip pairs elements[i] with rendered[i]. Entries beyond the shorter slice are
// dropped.
func Zip(elements []syntax.Element, rendered []RenderedElement) []Pair {
	n := min(len(elements), len(rendered))
	pairs := make([]Pair, n)
	for i := range n {
		pairs[i] = Pair{Element: elements[i], Rendered: rendered[i]}
	}
	return pairs
}

// Elements returns the syntax elements of pairs.
func Elements(pairs []Pair) []syntax.Element {
	out := make([]syntax.Element, len(pairs))
	for i := range pairs {
		out[i] = pairs[i].Element
	}
	return out
}

// RenderedElements returns the rendered elements of pairs.
func RenderedElements(pairs []Pair) []RenderedElement {
	out := make([]RenderedElement, len(pairs))
	for i := range pairs {
		out[i] = pairs[i].Rendered
	}
	return out
}

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
)

// HTMLEscape escapes the five HTML-significant characters.
func HTMLEscape(s string) string {
	return htmlReplacer.Replace(s)
}
