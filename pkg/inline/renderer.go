// Package inline renders syntax elements to HTML fragments and composes them
// into a document, switching the element under the cursor to its raw form.
package inline

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/yaklabco/mdlive/pkg/syntax"
	"github.com/yaklabco/mdlive/pkg/textpos"
)

// DefaultClassPrefix prefixes every CSS class the renderer generates.
const DefaultClassPrefix = "md"

// Renderer turns syntax elements into RenderedElements.
type Renderer struct {
	classPrefix string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithClassPrefix replaces the "md" class prefix.
func WithClassPrefix(prefix string) Option {
	return func(r *Renderer) {
		r.classPrefix = prefix
	}
}

// New returns a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{classPrefix: DefaultClassPrefix}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ClassPrefix returns the configured class prefix.
func (r *Renderer) ClassPrefix() string {
	return r.classPrefix
}

func (r *Renderer) class(base string) string {
	if r.classPrefix == "" {
		return base
	}
	return r.classPrefix + "-" + base
}

// tags maps each kind to its HTML tag. Headers are resolved by level.
var tags = map[syntax.Kind]string{
	syntax.KindBold:              "strong",
	syntax.KindItalic:            "em",
	syntax.KindInlineCode:        "code",
	syntax.KindCodeBlock:         "pre",
	syntax.KindLink:              "a",
	syntax.KindUnorderedListItem: "li",
	syntax.KindOrderedListItem:   "li",
}

// TagFor returns the HTML tag used for an element type.
func TagFor(typ syntax.ElementType) string {
	if typ.Kind == syntax.KindHeader {
		return "h" + strconv.Itoa(min(max(typ.Level, 1), 6))
	}
	if tag, ok := tags[typ.Kind]; ok {
		return tag
	}
	return "span"
}

// RenderElement renders one element in its non-editing form.
func (r *Renderer) RenderElement(el syntax.Element) RenderedElement {
	out := RenderedElement{
		Tag:        TagFor(el.Type),
		Inner:      HTMLEscape(el.RenderedContent),
		RawContent: el.RawContent,
	}

	switch typ := el.Type; typ.Kind {
	case syntax.KindHeader:
		level := min(max(typ.Level, 1), 6)
		out.AddClass(r.class("header"))
		out.AddClass(r.class(fmt.Sprintf("header-%d", level)))
		out.AddDataAttribute("level", strconv.Itoa(level))

	case syntax.KindBold:
		out.AddClass(r.class("bold"))

	case syntax.KindItalic:
		out.AddClass(r.class("italic"))

	case syntax.KindInlineCode:
		out.AddClass(r.class("code"))
		out.AddClass(r.class("inline-code"))

	case syntax.KindCodeBlock:
		codeClass := r.class("code-block")
		out.AddClass(codeClass)
		if typ.Language != "" {
			langClass := "language-" + typ.Language
			codeClass += " " + langClass
			out.AddClass(langClass)
			out.AddDataAttribute("language", typ.Language)
		}
		out.Inner = `<code class="` + HTMLEscape(codeClass) + `">` + out.Inner + `</code>`

	case syntax.KindLink:
		out.Attributes = append(out.Attributes, Attribute{Key: "href", Value: typ.URL})
		if typ.Title != "" {
			out.Attributes = append(out.Attributes, Attribute{Key: "title", Value: typ.Title})
			out.AddDataAttribute("title", typ.Title)
		}
		out.AddClass(r.class("link"))
		out.AddDataAttribute("url", typ.URL)

	case syntax.KindUnorderedListItem, syntax.KindOrderedListItem:
		listType := "unordered"
		if typ.Kind == syntax.KindOrderedListItem {
			listType = "ordered"
			out.AddDataAttribute("number", strconv.Itoa(typ.Number))
		}
		out.AddClass(r.class("list-item"))
		out.AddClass(r.class("list-item-" + listType))
		if typ.Level > 0 {
			out.AddClass(r.class(fmt.Sprintf("level-%d", typ.Level)))
		}
		out.AddDataAttribute("level", strconv.Itoa(typ.Level))
		out.AddDataAttribute("type", listType)
	}

	out.HTML = bareHTML(out)
	return out
}

// bareHTML is the fragment without classes or data attributes.
func bareHTML(e RenderedElement) string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(e.Tag)
	writeAttributes(&b, e.Attributes)
	b.WriteString(">")
	b.WriteString(e.Inner)
	b.WriteString("</")
	b.WriteString(e.Tag)
	b.WriteString(">")
	return b.String()
}

// RenderElementsWithCursor renders every element; those containing the cursor
// are switched to editing and tagged with the cursor-active class.
func (r *Renderer) RenderElementsWithCursor(elements []syntax.Element, cursor textpos.Cursor) []Pair {
	pairs := make([]Pair, len(elements))
	for i, el := range elements {
		rendered := r.RenderElement(el)
		if IsCursorInElement(el, cursor) {
			rendered.SetEditing(true)
			rendered.AddClass(ClassCursorActive)
		}
		pairs[i] = Pair{Element: el, Rendered: rendered}
	}
	return pairs
}

// RenderDocument renders content with every element replaced by its HTML and
// the text between elements escaped. Elements containing the cursor are
// emitted in editing form.
func (r *Renderer) RenderDocument(content string, elements []syntax.Element, cursor textpos.Cursor) string {
	sorted := make([]syntax.Element, len(elements))
	copy(sorted, elements)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Range.Start < sorted[j].Range.Start
	})

	pairs := make([]Pair, len(sorted))
	for i, el := range sorted {
		rendered := r.RenderElement(el)
		if IsCursorInElement(el, cursor) {
			rendered.SetEditing(true)
		}
		pairs[i] = Pair{Element: el, Rendered: rendered}
	}

	html, _ := Compose(content, pairs, func(_ int, p Pair) string {
		return p.Rendered.ToHTML()
	})
	return html
}

// Preview composes the fully rendered document from the bare fragments of
// pairs and records in each pair where its fragment landed. Those ranges
// define the rendered coordinate space used for position mapping.
func (r *Renderer) Preview(content string, pairs []Pair) string {
	html, spans := Compose(content, pairs, func(_ int, p Pair) string {
		return p.Rendered.HTML
	})
	for i := range pairs {
		pairs[i].Rendered.RenderedRange = spans[i]
	}
	return html
}

// Compose walks pairs in order, writing escaped source text for the gaps
// between elements and fragment(i, pair) for each element. Pairs must be
// sorted by start; overlapping elements are all emitted. It returns the
// output and the span each fragment occupies in it.
func Compose(content string, pairs []Pair, fragment func(i int, p Pair) string) (string, []textpos.Range) {
	var b strings.Builder
	spans := make([]textpos.Range, len(pairs))
	last := 0

	for i, p := range pairs {
		start := min(max(p.Element.Range.Start, 0), len(content))
		if start > last {
			b.WriteString(HTMLEscape(content[last:start]))
		}

		frag := fragment(i, p)
		spans[i] = textpos.NewRange(b.Len(), b.Len()+len(frag))
		b.WriteString(frag)

		last = max(last, min(p.Element.Range.End, len(content)))
	}

	if last < len(content) {
		b.WriteString(HTMLEscape(content[last:]))
	}
	return b.String(), spans
}

// ExtractRawContent returns the raw markdown behind a rendered element.
func ExtractRawContent(rendered RenderedElement) string {
	return rendered.RawContent
}

// IsCursorInElement reports whether the cursor's absolute offset is inside el.
func IsCursorInElement(el syntax.Element, cursor textpos.Cursor) bool {
	return el.ContainsCursor(cursor.Absolute)
}
