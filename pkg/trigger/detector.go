package trigger

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdlive/internal/logging"
	"github.com/yaklabco/mdlive/pkg/syntax"
	"github.com/yaklabco/mdlive/pkg/textpos"
)

// DefaultDebounceDelay is the quiet period before a queued render fires.
const DefaultDebounceDelay = 150 * time.Millisecond

// Config controls which input triggers a render and how long to wait.
type Config struct {
	DebounceDelay             time.Duration
	TriggerOnSpace            bool
	TriggerOnCursorMovement   bool
	TriggerOnBlockCompletion  bool
	MinCursorMovementDistance int
}

// DefaultConfig returns the default trigger configuration.
func DefaultConfig() Config {
	return Config{
		DebounceDelay:             DefaultDebounceDelay,
		TriggerOnSpace:            true,
		TriggerOnCursorMovement:   true,
		TriggerOnBlockCompletion:  true,
		MinCursorMovementDistance: 1,
	}
}

// Detector queues trigger events and debounces renders. It is not safe for
// concurrent use.
type Detector struct {
	config Config
	now    func() time.Time
	logger *log.Logger

	pending     []Event
	lastTrigger time.Time
	scheduled   bool

	lastCursor    textpos.Cursor
	hasLastCursor bool
	lastContent   string
}

// Option configures a Detector.
type Option func(*Detector)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(d *Detector) {
		if now != nil {
			d.now = now
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *log.Logger) Option {
	return func(d *Detector) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// New returns a Detector using cfg.
func New(cfg Config, opts ...Option) *Detector {
	d := &Detector{
		config: cfg,
		now:    time.Now,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Config returns the current configuration.
func (d *Detector) Config() Config {
	return d.config
}

// UpdateConfig replaces the configuration. Pending events are kept.
func (d *Detector) UpdateConfig(cfg Config) {
	d.config = cfg
}

// DetectSpaceKey records a space key press.
// It reports whether this event scheduled a new render.
func (d *Detector) DetectSpaceKey(_ textpos.Cursor) bool {
	if !d.config.TriggerOnSpace {
		return false
	}
	return d.add(SpaceKey())
}

// DetectCursorMovement records a cursor move. The first call only remembers
// the position; later calls queue an event when the cursor moved at least
// MinCursorMovementDistance bytes from the last recorded position.
func (d *Detector) DetectCursorMovement(to textpos.Cursor) bool {
	if !d.config.TriggerOnCursorMovement {
		return false
	}

	if !d.hasLastCursor {
		d.lastCursor, d.hasLastCursor = to, true
		return false
	}

	if d.lastCursor.Distance(to) < d.config.MinCursorMovementDistance {
		return false
	}

	from := d.lastCursor
	d.lastCursor = to
	return d.add(CursorMovement(from, to))
}

// DetectBlockCompletion queues an event when the cursor sits at the end of a
// header or list item.
func (d *Detector) DetectBlockCompletion(content string, cursor textpos.Cursor, elements []syntax.Element) bool {
	if !d.config.TriggerOnBlockCompletion {
		return false
	}

	for _, el := range elements {
		if el.Type.Kind != syntax.KindHeader && !el.Type.IsListItem() {
			continue
		}
		if atBlockEnd(content, cursor.Absolute, el.Range) {
			return d.add(BlockElementCompleted(el.Type, cursor.Absolute))
		}
	}
	return false
}

// atBlockEnd reports whether pos is within one byte past rng and sits at the
// end of the document or next to a newline.
func atBlockEnd(content string, pos int, rng textpos.Range) bool {
	if pos < rng.Start || pos > rng.End+1 {
		return false
	}
	switch {
	case pos >= len(content):
		return true
	case pos > 0 && content[pos-1] == '\n':
		return true
	default:
		return content[pos] == '\n'
	}
}

// DetectContentChange records an edit of [start, end). Content changes are
// always queued.
func (d *Detector) DetectContentChange(newContent string, start, end int) bool {
	d.lastContent = newContent
	return d.add(ContentChange(start, end))
}

// LastContent returns the content passed to the most recent DetectContentChange.
func (d *Detector) LastContent() string {
	return d.lastContent
}

func (d *Detector) add(ev Event) bool {
	d.pending = append(d.pending, ev)
	d.lastTrigger = d.now()

	d.logger.Debug("trigger event",
		logging.FieldEvent, ev,
		logging.FieldPending, len(d.pending))

	if d.scheduled {
		return false
	}
	d.scheduled = true
	return true
}

// ShouldTriggerRender reports whether the debounce window has elapsed since
// the last queued event. A true result clears the queue.
func (d *Detector) ShouldTriggerRender() bool {
	if len(d.pending) == 0 {
		return false
	}
	if d.now().Sub(d.lastTrigger) < d.config.DebounceDelay {
		return false
	}
	d.reset()
	return true
}

// Deadline returns when the current debounce window expires. ok is false
// when nothing is pending.
func (d *Detector) Deadline() (deadline time.Time, ok bool) {
	if len(d.pending) == 0 {
		return time.Time{}, false
	}
	return d.lastTrigger.Add(d.config.DebounceDelay), true
}

// ForceTrigger clears the queue without waiting. It reports whether anything
// was pending.
func (d *Detector) ForceTrigger() bool {
	if len(d.pending) == 0 {
		return false
	}
	d.reset()
	return true
}

// PendingEvents returns a copy of the queued events.
func (d *Detector) PendingEvents() []Event {
	out := make([]Event, len(d.pending))
	copy(out, d.pending)
	return out
}

// ClearPendingEvents drops the queue.
func (d *Detector) ClearPendingEvents() {
	d.reset()
}

func (d *Detector) reset() {
	d.pending = nil
	d.scheduled = false
}
