// Package cursor maps positions between raw markdown and the rendered preview.
//
// A Manager is rebuilt from rendered element pairs after every render. It
// answers queries from exact element-boundary anchors first, then by linear
// interpolation inside the element that contains the position, and finally by
// scaling against the total document lengths.
package cursor

import (
	"errors"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdlive/internal/logging"
	"github.com/yaklabco/mdlive/pkg/inline"
	"github.com/yaklabco/mdlive/pkg/textpos"
)

// ErrNoMapping is returned when a raw position cannot be placed in the
// rendered document.
var ErrNoMapping = errors.New("no position mapping")

// PositionMapping is an exact raw/rendered anchor at an element boundary.
type PositionMapping struct {
	RawPosition      int    `json:"raw_position"`
	RenderedPosition int    `json:"rendered_position"`
	ElementID        string `json:"element_id,omitempty"`
}

// ElementMapping pairs an element's raw range with its rendered range.
type ElementMapping struct {
	ID            string        `json:"id"`
	RawRange      textpos.Range `json:"raw_range"`
	RenderedRange textpos.Range `json:"rendered_range"`
	ElementType   string        `json:"element_type"`
	IsActive      bool          `json:"is_active"`
}

// MappingStats summarises the manager's state.
type MappingStats struct {
	ElementCount          int `json:"element_count"`
	PositionMappingCount  int `json:"position_mapping_count"`
	ActiveElementCount    int `json:"active_element_count"`
	RawContentLength      int `json:"raw_content_length"`
	RenderedContentLength int `json:"rendered_content_length"`
}

// ElementID returns the mapping ID for the i-th rendered element.
func ElementID(i int) string {
	return fmt.Sprintf("element_%d", i)
}

// Manager tracks the cursor in both coordinate spaces. It is not safe for
// concurrent use.
type Manager struct {
	rawPosition      int
	renderedPosition int
	hasRendered      bool

	elements []ElementMapping
	anchors  []PositionMapping

	rawLen      int
	renderedLen int

	logger *log.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithPosition sets the initial raw cursor position.
func WithPosition(raw int) Option {
	return func(m *Manager) {
		m.rawPosition = max(raw, 0)
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *log.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New returns an empty Manager.
func New(opts ...Option) *Manager {
	m := &Manager{logger: logging.Discard()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RawPosition returns the cached raw cursor offset.
func (m *Manager) RawPosition() int {
	return m.rawPosition
}

// RenderedPosition returns the cached rendered cursor offset, if known.
func (m *Manager) RenderedPosition() (int, bool) {
	return m.renderedPosition, m.hasRendered
}

// SetRawPosition sets the raw cursor offset.
func (m *Manager) SetRawPosition(pos int) {
	m.rawPosition = max(pos, 0)
}

// SetRenderedPosition sets the rendered cursor offset.
func (m *Manager) SetRenderedPosition(pos int) {
	m.renderedPosition = max(pos, 0)
	m.hasRendered = true
}

// MapRawToRendered converts a raw offset to a rendered offset.
func (m *Manager) MapRawToRendered(pos int) (int, bool) {
	if pos < 0 {
		return 0, false
	}

	if i := m.anchorByRaw(pos); i >= 0 {
		return m.anchors[i].RenderedPosition, true
	}

	for _, em := range m.elements {
		if em.RawRange.Contains(pos) {
			return interpolate(pos, em.RawRange, em.RenderedRange), true
		}
	}

	if m.rawLen > 0 && m.renderedLen > 0 {
		return min(pos*m.renderedLen/m.rawLen, m.renderedLen), true
	}
	return 0, false
}

// MapRenderedToRaw converts a rendered offset to a raw offset. It always
// produces a result; without any length information it clamps to the raw
// length.
func (m *Manager) MapRenderedToRaw(pos int) int {
	if pos < 0 {
		return 0
	}

	for _, a := range m.anchors {
		if a.RenderedPosition == pos {
			return a.RawPosition
		}
	}

	for _, em := range m.elements {
		if em.RenderedRange.Contains(pos) {
			return interpolate(pos, em.RenderedRange, em.RawRange)
		}
	}

	if m.rawLen > 0 && m.renderedLen > 0 {
		return min(pos*m.rawLen/m.renderedLen, m.rawLen)
	}
	return min(pos, m.rawLen)
}

// interpolate maps pos from one range onto another proportionally.
func interpolate(pos int, from, to textpos.Range) int {
	if from.Len() == 0 {
		return to.Start
	}
	return to.Start + (pos-from.Start)*to.Len()/from.Len()
}

// anchorByRaw returns the index of the first anchor at raw offset pos, or -1.
func (m *Manager) anchorByRaw(pos int) int {
	i := sort.Search(len(m.anchors), func(i int) bool {
		return m.anchors[i].RawPosition >= pos
	})
	if i < len(m.anchors) && m.anchors[i].RawPosition == pos {
		return i
	}
	return -1
}

// UpdateElementMappings rebuilds every mapping from pairs. Each pair's
// Rendered.RenderedRange must already be positioned in renderedContent.
func (m *Manager) UpdateElementMappings(pairs []inline.Pair, rawContent, renderedContent string) {
	m.rawLen = len(rawContent)
	m.renderedLen = len(renderedContent)
	m.elements = make([]ElementMapping, 0, len(pairs))
	m.anchors = make([]PositionMapping, 0, 2*len(pairs))

	for i, p := range pairs {
		id := ElementID(i)
		raw := p.Element.Range
		rendered := p.Rendered.RenderedRange

		m.elements = append(m.elements, ElementMapping{
			ID:            id,
			RawRange:      raw,
			RenderedRange: rendered,
			ElementType:   p.Element.Type.String(),
			IsActive:      p.Element.IsActive,
		})
		m.anchors = append(m.anchors,
			PositionMapping{RawPosition: raw.Start, RenderedPosition: rendered.Start, ElementID: id},
			PositionMapping{RawPosition: raw.End, RenderedPosition: rendered.End, ElementID: id},
		)
	}

	sort.SliceStable(m.anchors, func(i, j int) bool {
		return m.anchors[i].RawPosition < m.anchors[j].RawPosition
	})

	m.renderedPosition, m.hasRendered = m.MapRawToRendered(m.rawPosition)

	m.logger.Debug("rebuilt position mappings",
		logging.FieldElements, len(m.elements),
		logging.FieldMappings, len(m.anchors),
		logging.FieldRawPosition, m.rawPosition)
}

// HandleContentChange adjusts the cursor and mappings for an edit that
// replaced change in oldContent with newContent. Mappings overlapping the
// change are dropped and the rendered cursor is invalidated.
func (m *Manager) HandleContentChange(change textpos.Range, oldContent, newContent string) {
	delta := len(newContent) - change.Len()
	m.rawLen = max(m.rawLen+delta, 0)

	switch {
	case m.rawPosition >= change.End:
		m.rawPosition = max(m.rawPosition+delta, 0)
	case m.rawPosition >= change.Start:
		m.rawPosition = change.Start + len(newContent)
	}

	elements := m.elements[:0]
	for _, em := range m.elements {
		switch {
		case em.RawRange.Start >= change.End:
			em.RawRange = em.RawRange.Shift(delta)
			elements = append(elements, em)
		case em.RawRange.End <= change.Start:
			elements = append(elements, em)
		}
	}
	m.elements = elements

	anchors := m.anchors[:0]
	for _, a := range m.anchors {
		switch {
		case a.RawPosition >= change.End:
			a.RawPosition += delta
			anchors = append(anchors, a)
		case a.RawPosition < change.Start:
			anchors = append(anchors, a)
		}
	}
	m.anchors = anchors

	m.hasRendered = false
	m.renderedPosition = 0

	m.logger.Debug("applied content change",
		logging.FieldChange, change,
		logging.FieldContentLen, len(oldContent),
		logging.FieldElements, len(m.elements))
}

// PreservePositionForModeSwitch carries the cursor across a change between
// raw and non-raw presentation. Leaving raw mode maps the raw cursor into the
// rendered document and caches it; entering raw mode maps the cached rendered
// cursor back, or keeps the raw cursor when none is cached.
func (m *Manager) PreservePositionForModeSwitch(fromRaw, toRaw bool) (textpos.Cursor, error) {
	switch {
	case fromRaw && !toRaw:
		rendered, ok := m.MapRawToRendered(m.rawPosition)
		if !ok {
			return textpos.Cursor{}, fmt.Errorf("map raw position %d: %w", m.rawPosition, ErrNoMapping)
		}
		m.SetRenderedPosition(rendered)
		return textpos.At(rendered), nil

	case !fromRaw && toRaw:
		if m.hasRendered {
			m.rawPosition = m.MapRenderedToRaw(m.renderedPosition)
		}
		return textpos.At(m.rawPosition), nil

	case toRaw:
		return textpos.At(m.rawPosition), nil

	default:
		return textpos.At(m.renderedPosition), nil
	}
}

// ElementAtCursor returns the first mapping whose raw range contains the raw cursor.
func (m *Manager) ElementAtCursor() (ElementMapping, bool) {
	for _, em := range m.elements {
		if em.RawRange.Contains(m.rawPosition) {
			return em, true
		}
	}
	return ElementMapping{}, false
}

// IsCursorInActiveElement reports whether the element at the cursor is active.
func (m *Manager) IsCursorInActiveElement() bool {
	em, ok := m.ElementAtCursor()
	return ok && em.IsActive
}

// SetElementActive sets the active flag of the mapping with the given ID.
// It reports whether the ID was found.
func (m *Manager) SetElementActive(id string, active bool) bool {
	for i := range m.elements {
		if m.elements[i].ID == id {
			m.elements[i].IsActive = active
			return true
		}
	}
	return false
}

// ActiveElements returns the mappings marked active, in element order.
func (m *Manager) ActiveElements() []ElementMapping {
	var out []ElementMapping
	for _, em := range m.elements {
		if em.IsActive {
			out = append(out, em)
		}
	}
	return out
}

// ClearMappings drops all mappings and the cached rendered cursor. The raw
// cursor and document lengths are kept.
func (m *Manager) ClearMappings() {
	m.elements = nil
	m.anchors = nil
	m.hasRendered = false
	m.renderedPosition = 0
}

// ElementMappings returns a copy of the element mappings in element order.
func (m *Manager) ElementMappings() []ElementMapping {
	out := make([]ElementMapping, len(m.elements))
	copy(out, m.elements)
	return out
}

// PositionMappings returns a copy of the anchors sorted by raw position.
func (m *Manager) PositionMappings() []PositionMapping {
	out := make([]PositionMapping, len(m.anchors))
	copy(out, m.anchors)
	return out
}

// Stats returns counts and lengths describing the current mappings.
func (m *Manager) Stats() MappingStats {
	return MappingStats{
		ElementCount:          len(m.elements),
		PositionMappingCount:  len(m.anchors),
		ActiveElementCount:    len(m.ActiveElements()),
		RawContentLength:      m.rawLen,
		RenderedContentLength: m.renderedLen,
	}
}
