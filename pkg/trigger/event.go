// Package trigger decides when a live preview should re-render.
//
// Editor input is reported to a Detector as it happens. Qualifying events are
// queued and the caller polls ShouldTriggerRender, which fires once the
// debounce window since the most recent event has elapsed.
package trigger

import (
	"fmt"
	"slices"

	"github.com/yaklabco/mdlive/pkg/syntax"
	"github.com/yaklabco/mdlive/pkg/textpos"
)

// Kind identifies a trigger event.
type Kind uint8

// Event kinds.
const (
	KindSpaceKey Kind = iota
	KindCursorMovement
	KindBlockElementCompleted
	KindContentChange
)

func (k Kind) String() string {
	switch k {
	case KindSpaceKey:
		return "space_key"
	case KindCursorMovement:
		return "cursor_movement"
	case KindBlockElementCompleted:
		return "block_element_completed"
	case KindContentChange:
		return "content_change"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Event is one piece of editor input that may warrant a render. Only the
// fields relevant to Kind are set.
type Event struct {
	Kind Kind `json:"kind"`

	// CursorMovement.
	From textpos.Cursor `json:"from,omitzero"`
	To   textpos.Cursor `json:"to,omitzero"`

	// BlockElementCompleted.
	ElementType syntax.ElementType `json:"-"`
	Position    int                `json:"position,omitempty"`

	// ContentChange.
	ChangeStart int `json:"change_start,omitempty"`
	ChangeEnd   int `json:"change_end,omitempty"`
}

// SpaceKey returns a space key event.
func SpaceKey() Event {
	return Event{Kind: KindSpaceKey}
}

// CursorMovement returns a cursor movement event.
func CursorMovement(from, to textpos.Cursor) Event {
	return Event{Kind: KindCursorMovement, From: from, To: to}
}

// BlockElementCompleted returns an event for a finished header or list item.
func BlockElementCompleted(typ syntax.ElementType, position int) Event {
	return Event{Kind: KindBlockElementCompleted, ElementType: typ, Position: position}
}

// ContentChange returns an event for an edit of [start, end).
func ContentChange(start, end int) Event {
	return Event{Kind: KindContentChange, ChangeStart: start, ChangeEnd: end}
}

func (e Event) String() string {
	switch e.Kind {
	case KindCursorMovement:
		return fmt.Sprintf("%s(%d->%d)", e.Kind, e.From.Absolute, e.To.Absolute)
	case KindBlockElementCompleted:
		return fmt.Sprintf("%s(%s@%d)", e.Kind, e.ElementType, e.Position)
	case KindContentChange:
		return fmt.Sprintf("%s[%d,%d)", e.Kind, e.ChangeStart, e.ChangeEnd)
	default:
		return e.Kind.String()
	}
}

// HasKind reports whether any event is of one of the given kinds.
func HasKind(events []Event, kinds ...Kind) bool {
	return slices.ContainsFunc(events, func(e Event) bool {
		return slices.Contains(kinds, e.Kind)
	})
}

// ParseKind converts a kind name as produced by Kind.String.
func ParseKind(s string) (Kind, error) {
	for k := KindSpaceKey; k <= KindContentChange; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown trigger event %q", s)
}
