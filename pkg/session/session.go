// Package session owns one live editing view: the document, its cursor and
// mode, and the debounced render loop that keeps the view current.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/yaklabco/mdlive/internal/logging"
	"github.com/yaklabco/mdlive/pkg/edit"
	"github.com/yaklabco/mdlive/pkg/live"
	"github.com/yaklabco/mdlive/pkg/syntax"
	"github.com/yaklabco/mdlive/pkg/textpos"
	"github.com/yaklabco/mdlive/pkg/trigger"
)

// Snapshot is a copy of a session's state.
type Snapshot struct {
	ID      string         `json:"id"`
	Content string         `json:"content"`
	Cursor  textpos.Cursor `json:"cursor"`
	Mode    live.Mode      `json:"mode"`
	Pending int            `json:"pending"`
	Result  live.Result    `json:"result"`
}

// Session serialises access to an Integration and its Detector. All methods
// are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	id          string
	integration *live.Integration
	detector    *trigger.Detector
	logger      *log.Logger

	content string
	cursor  textpos.Cursor
	mode    live.Mode
	last    live.Result
}

// Option configures a Session.
type Option func(*Session)

// WithIntegration replaces the default Integration.
func WithIntegration(in *live.Integration) Option {
	return func(s *Session) {
		if in != nil {
			s.integration = in
		}
	}
}

// WithDetector replaces the default Detector.
func WithDetector(d *trigger.Detector) Option {
	return func(s *Session) {
		if d != nil {
			s.detector = d
		}
	}
}

// WithMode sets the initial mode. The default is live.
func WithMode(m live.Mode) Option {
	return func(s *Session) {
		s.mode = m
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New returns a session for content with the cursor at the start. The
// document is rendered once before New returns.
func New(content string, opts ...Option) *Session {
	s := &Session{
		id:      uuid.New().String(),
		logger:  logging.Discard(),
		content: content,
		mode:    live.ModeLive,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.integration == nil {
		s.integration = live.New(live.WithLogger(s.logger))
	}
	if s.detector == nil {
		s.detector = trigger.New(trigger.DefaultConfig(), trigger.WithLogger(s.logger))
	}
	s.logger = s.logger.With(logging.FieldSession, s.id)

	s.cursor = textpos.Start().Sync(content)
	s.render(nil)
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Content returns the current document.
func (s *Session) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content
}

// Cursor returns the raw cursor.
func (s *Session) Cursor() textpos.Cursor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Mode returns the current mode.
func (s *Session) Mode() live.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// ApplyEdit applies e to the document, moves the cursor with it and queues a
// content change. A cursor left at the end of a header or list item also
// queues a block completion.
func (s *Session) ApplyEdit(e edit.TextEdit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, err := edit.Apply(s.content, []edit.TextEdit{e})
	if err != nil {
		return fmt.Errorf("apply edit %s: %w", e, err)
	}

	old := s.content
	s.content = updated
	s.cursor = textpos.At(e.AdjustOffset(s.cursor.Absolute)).Sync(updated)

	s.integration.CursorManager().HandleContentChange(e.Range(), old, e.NewText)
	elements := syntax.UpdateElementsAfterChange(s.integration.Elements(), e.Range(), e.NewText)

	s.detector.DetectContentChange(updated, e.StartOffset, e.StartOffset+len(e.NewText))
	s.detector.DetectBlockCompletion(updated, s.cursor, elements)

	s.logger.Debug("edit applied",
		logging.FieldChange, e.Range(),
		logging.FieldContentLen, len(updated),
		logging.FieldCursor, s.cursor)
	return nil
}

// MoveCursor moves the raw cursor. Out-of-range positions are clamped.
func (s *Session) MoveCursor(c textpos.Cursor) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cursor = c.Sync(s.content)
	s.detector.DetectCursorMovement(s.cursor)
}

// PressSpace reports a space key press at the cursor. The inserted space
// itself arrives through ApplyEdit.
func (s *Session) PressSpace() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.detector.DetectSpaceKey(s.cursor)
}

// Poll renders when the debounce window has elapsed. It returns the last
// result and false otherwise.
func (s *Session) Poll() (live.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.detector.PendingEvents()
	if !s.detector.ShouldTriggerRender() {
		return s.last, false
	}
	return s.render(events), true
}

// Flush renders immediately with whatever events are pending.
func (s *Session) Flush() live.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.detector.PendingEvents()
	s.detector.ForceTrigger()
	return s.render(events)
}

func (s *Session) render(events []trigger.Event) live.Result {
	s.last = s.integration.ProcessContentWithCursor(s.content, s.cursor, events)
	s.logger.Debug("rendered",
		logging.FieldPending, len(events),
		logging.FieldActiveIndex, s.last.ActiveElementIndex)
	return s.last
}

// Click activates the element at a raw offset and moves the cursor there.
func (s *Session) Click(pos int) live.ClickResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.integration.HandleClickToEdit(pos, s.content)
	if res.Success {
		s.cursor = textpos.At(pos).Sync(s.content)
	}
	return res
}

// SwitchMode changes mode and returns where the cursor lands in the new
// mode. Leaving live mode for raw adopts the mapped raw cursor.
func (s *Session) SwitchMode(to live.Mode) live.ModeSwitchResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	from := s.mode
	cur := s.cursor
	if from != live.ModeRaw {
		if rendered, ok := s.integration.CursorManager().RenderedPosition(); ok {
			cur = textpos.At(rendered)
		}
	}

	res := s.integration.HandleModeSwitch(from, to, cur)
	if to == live.ModeRaw && res.Mapped {
		s.cursor = res.Cursor
	}
	s.mode = to

	s.logger.Debug("mode switched",
		logging.FieldMode, to,
		logging.FieldCursor, res.Cursor)
	return res
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		ID:      s.id,
		Content: s.content,
		Cursor:  s.cursor,
		Mode:    s.mode,
		Pending: len(s.detector.PendingEvents()),
		Result:  s.last,
	}
}

// Run polls every interval until ctx is done, calling onRender after each
// debounced render. A non-positive interval polls at half the debounce
// delay. Run returns ctx.Err().
func (s *Session) Run(ctx context.Context, interval time.Duration, onRender func(live.Result)) error {
	if interval <= 0 {
		s.mu.Lock()
		interval = max(s.detector.Config().DebounceDelay/2, time.Millisecond)
		s.mu.Unlock()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if res, ok := s.Poll(); ok && onRender != nil {
				onRender(res)
			}
		}
	}
}
