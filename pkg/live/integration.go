// Package live combines parsing, rendering and cursor mapping into the live
// editing view: the document is rendered as HTML except for the element being
// edited, which is shown as raw, editable markdown.
package live

import (
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdlive/internal/logging"
	"github.com/yaklabco/mdlive/pkg/cursor"
	"github.com/yaklabco/mdlive/pkg/inline"
	"github.com/yaklabco/mdlive/pkg/syntax"
	"github.com/yaklabco/mdlive/pkg/textpos"
	"github.com/yaklabco/mdlive/pkg/trigger"
)

// NoElement is the index reported when no element is active.
const NoElement = -1

// Result is the outcome of processing a document.
type Result struct {
	RenderedContent    string                   `json:"rendered_content"`
	ActiveElementIndex int                      `json:"active_element_index"`
	SyntaxElements     []syntax.Element         `json:"-"`
	RenderedElements   []inline.RenderedElement `json:"-"`
	Stats              cursor.MappingStats      `json:"stats"`
}

// HasActiveElement reports whether an element is being edited.
func (r Result) HasActiveElement() bool {
	return r.ActiveElementIndex != NoElement
}

// ClickResult describes a click on the rendered view.
type ClickResult struct {
	Success      bool           `json:"success"`
	ElementIndex int            `json:"element_index"`
	RawContent   string         `json:"raw_content,omitempty"`
	Cursor       textpos.Cursor `json:"cursor"`
	ElementRange textpos.Range  `json:"element_range"`
}

// ModeSwitchResult describes where the cursor lands after a mode change.
// Mapped is false when the cursor could not be translated and the input
// cursor was kept.
type ModeSwitchResult struct {
	Cursor        textpos.Cursor `json:"cursor"`
	NeedsRerender bool           `json:"needs_rerender"`
	Mapped        bool           `json:"mapped"`
}

// Integration holds the state of one live editing view. It is not safe for
// concurrent use.
type Integration struct {
	parser   *syntax.Parser
	renderer *inline.Renderer
	manager  *cursor.Manager
	logger   *log.Logger

	content string
	pairs   []inline.Pair
	active  int
}

// Option configures an Integration.
type Option func(*Integration)

// WithParser replaces the default parser.
func WithParser(p *syntax.Parser) Option {
	return func(i *Integration) {
		if p != nil {
			i.parser = p
		}
	}
}

// WithRenderer replaces the default renderer.
func WithRenderer(r *inline.Renderer) Option {
	return func(i *Integration) {
		if r != nil {
			i.renderer = r
		}
	}
}

// WithLogger sets the logger used for debug output. It is also handed to the
// cursor manager.
func WithLogger(logger *log.Logger) Option {
	return func(i *Integration) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// New returns an Integration with no document loaded.
func New(opts ...Option) *Integration {
	i := &Integration{
		parser:   syntax.New(),
		renderer: inline.New(),
		logger:   logging.Discard(),
		active:   NoElement,
	}
	for _, opt := range opts {
		opt(i)
	}
	i.manager = cursor.New(cursor.WithLogger(i.logger))
	return i
}

// ProcessContentWithCursor reparses content and renders it for a cursor
// position. Events decide whether the element under the cursor becomes the
// active one: a space or a completed block activates it, and any event other
// than a content change clears activation when the cursor is outside every
// element.
func (i *Integration) ProcessContentWithCursor(content string, cur textpos.Cursor, events []trigger.Event) Result {
	i.content = content
	elements := i.parser.ParseDocument(content)

	if i.active >= len(elements) {
		i.active = NoElement
	}
	if idx, ok := syntax.FindElementAtPosition(elements, cur.Absolute); ok {
		if trigger.HasKind(events, trigger.KindSpaceKey, trigger.KindBlockElementCompleted) {
			i.active = idx
		}
	} else if trigger.HasKind(events, trigger.KindSpaceKey, trigger.KindCursorMovement, trigger.KindBlockElementCompleted) {
		i.active = NoElement
	}

	i.pairs = i.renderer.RenderElementsWithCursor(elements, cur)
	if i.active != NoElement {
		i.pairs[i.active].Element.SetActive(true)
		i.pairs[i.active].Rendered.SetEditing(true)
	}

	i.manager.SetRawPosition(cur.Absolute)
	preview := i.renderer.Preview(content, i.pairs)
	i.manager.UpdateElementMappings(i.pairs, content, preview)

	html, _ := inline.Compose(content, i.pairs, func(idx int, p inline.Pair) string {
		if p.Rendered.IsEditing || idx == i.active {
			return editableSpan(idx, p.Element.RawContent)
		}
		return p.Rendered.ToHTML()
	})

	i.logger.Debug("processed content",
		logging.FieldContentLen, len(content),
		logging.FieldElements, len(elements),
		logging.FieldCursor, cur,
		logging.FieldActiveIndex, i.active)

	return Result{
		RenderedContent:    html,
		ActiveElementIndex: i.active,
		SyntaxElements:     inline.Elements(i.pairs),
		RenderedElements:   inline.RenderedElements(i.pairs),
		Stats:              i.manager.Stats(),
	}
}

func editableSpan(idx int, raw string) string {
	return `<span class="editable-element" data-element-index="` + strconv.Itoa(idx) +
		`" contenteditable="true">` + inline.HTMLEscape(raw) + `</span>`
}

// HandleClickToEdit activates the element containing position in the most
// recently processed document. The returned cursor's Column is relative to
// the element start and its Line is the line of the click in content.
func (i *Integration) HandleClickToEdit(position int, content string) ClickResult {
	idx, ok := syntax.FindElementAtPosition(inline.Elements(i.pairs), position)
	if !ok {
		i.ClearActiveElement()
		return ClickResult{ElementIndex: NoElement}
	}

	i.setActive(idx)
	el := i.pairs[idx].Element

	line, _, found := textpos.NewLineIndex(content).LineAt(position)
	if !found {
		line = 0
	}

	i.logger.Debug("click to edit",
		logging.FieldRawPosition, position,
		logging.FieldActiveIndex, idx)

	return ClickResult{
		Success:      true,
		ElementIndex: idx,
		RawContent:   el.RawContent,
		Cursor:       textpos.NewCursor(line, position-el.Range.Start, position),
		ElementRange: el.Range,
	}
}

// HandleModeSwitch carries the cursor from one mode to another. Switching
// between raw and live maps the cursor through the current position
// mappings; other changes keep it. Any change clears the active element.
func (i *Integration) HandleModeSwitch(from, to Mode, cur textpos.Cursor) ModeSwitchResult {
	if from == to {
		return ModeSwitchResult{Cursor: cur}
	}

	result := ModeSwitchResult{Cursor: cur, NeedsRerender: true}

	switch {
	case from == ModeRaw && to == ModeLive:
		i.manager.SetRawPosition(cur.Absolute)
		mapped, err := i.manager.PreservePositionForModeSwitch(true, false)
		if err != nil {
			i.logger.Debug("cursor kept across mode switch",
				logging.FieldMode, to,
				logging.FieldError, err)
			break
		}
		result.Cursor, result.Mapped = mapped, true

	case from == ModeLive && to == ModeRaw:
		i.manager.SetRenderedPosition(cur.Absolute)
		mapped, err := i.manager.PreservePositionForModeSwitch(false, true)
		if err != nil {
			break
		}
		result.Cursor, result.Mapped = mapped.Sync(i.content), true
	}

	i.ClearActiveElement()

	i.logger.Debug("mode switch",
		logging.FieldMode, to,
		logging.FieldCursor, result.Cursor)
	return result
}

func (i *Integration) setActive(idx int) {
	i.ClearActiveElement()
	i.active = idx
	i.pairs[idx].Element.SetActive(true)
	i.pairs[idx].Rendered.SetEditing(true)
	i.manager.SetElementActive(cursor.ElementID(idx), true)
}

// ClearActiveElement leaves editing mode for the active element, if any.
func (i *Integration) ClearActiveElement() {
	if i.active != NoElement && i.active < len(i.pairs) {
		i.pairs[i.active].Element.SetActive(false)
		i.pairs[i.active].Rendered.SetEditing(false)
		i.manager.SetElementActive(cursor.ElementID(i.active), false)
	}
	i.active = NoElement
}

// ActiveIndex returns the index of the active element or NoElement.
func (i *Integration) ActiveIndex() int {
	return i.active
}

// ActiveElement returns the element being edited.
func (i *Integration) ActiveElement() (syntax.Element, bool) {
	if i.active == NoElement || i.active >= len(i.pairs) {
		return syntax.Element{}, false
	}
	return i.pairs[i.active].Element, true
}

// ActiveRenderedElement returns the rendered form of the element being edited.
func (i *Integration) ActiveRenderedElement() (inline.RenderedElement, bool) {
	if i.active == NoElement || i.active >= len(i.pairs) {
		return inline.RenderedElement{}, false
	}
	return i.pairs[i.active].Rendered, true
}

// UpdateActiveElementContent replaces the raw markdown of the active element
// until the next ProcessContentWithCursor. It reports whether an element was
// active.
func (i *Integration) UpdateActiveElementContent(raw string) bool {
	if i.active == NoElement || i.active >= len(i.pairs) {
		return false
	}
	i.pairs[i.active].Element.RawContent = raw
	i.pairs[i.active].Rendered.RawContent = raw
	return true
}

// Elements returns the elements of the most recently processed document.
func (i *Integration) Elements() []syntax.Element {
	return inline.Elements(i.pairs)
}

// Content returns the most recently processed document.
func (i *Integration) Content() string {
	return i.content
}

// CursorManager exposes the position mappings of the last render.
func (i *Integration) CursorManager() *cursor.Manager {
	return i.manager
}
