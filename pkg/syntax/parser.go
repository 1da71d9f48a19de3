package syntax

import (
	"sort"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdlive/internal/logging"
	"github.com/yaklabco/mdlive/pkg/textpos"
)

// DefaultWindow is the number of bytes re-scanned on each side of an edit by
// ParseIncremental.
const DefaultWindow = 100

// Parser scans markdown source into elements. The zero value is not usable;
// construct one with New. A Parser holds no per-document state and may be
// shared.
type Parser struct {
	window         int
	detectLanguage bool
	logger         *log.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithWindow sets the incremental re-scan window. Negative values are treated as 0.
func WithWindow(n int) Option {
	return func(p *Parser) {
		p.window = max(n, 0)
	}
}

// WithLanguageDetection enables guessing the language of fenced code blocks
// that have no info string.
func WithLanguageDetection(enabled bool) Option {
	return func(p *Parser) {
		p.detectLanguage = enabled
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *log.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New returns a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{
		window: DefaultWindow,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Window returns the incremental re-scan window.
func (p *Parser) Window() int {
	return p.window
}

// ParseDocument returns every element found in content, ordered by start offset.
func (p *Parser) ParseDocument(content string) []Element {
	elements := p.scanAll(content, 0)
	p.logger.Debug("parsed document",
		logging.FieldContentLen, len(content),
		logging.FieldElements, len(elements))
	return elements
}

// ParseLine scans a single line that begins at lineStart in its document.
// Fenced code blocks span lines and are never reported.
func (p *Parser) ParseLine(line string, lineStart int) []Element {
	var elements []Element

	info := textpos.LineInfo{StartOffset: 0, NewlineStart: len(line), EndOffset: len(line)}
	if el, ok := scanHeaderLine(line, info, lineStart); ok {
		elements = append(elements, el)
	}
	if el, ok := scanListLine(line, info, lineStart); ok {
		elements = append(elements, el)
	}
	elements = append(elements, scanInline(line, lineStart)...)
	elements = append(elements, scanLinks(line, lineStart)...)

	sortByStart(elements)
	return elements
}

// ParseIncremental re-scans the neighbourhood of an edit. The scanned region
// extends Window bytes either side of change, or of cursor when change is nil.
// Returned elements are in document coordinates; nothing outside the region is
// reported.
func (p *Parser) ParseIncremental(content string, cursor int, change *textpos.Range) []Element {
	anchorStart, anchorEnd := cursor, cursor
	if change != nil {
		anchorStart, anchorEnd = change.Start, change.End
	}

	start := clamp(anchorStart-p.window, 0, len(content))
	end := clamp(anchorEnd+p.window, start, len(content))

	for start > 0 && start < len(content) && !utf8.RuneStart(content[start]) {
		start--
	}
	for end < len(content) && !utf8.RuneStart(content[end]) {
		end++
	}

	elements := p.scanAll(content[start:end], start)
	p.logger.Debug("parsed window",
		logging.FieldWindow, textpos.NewRange(start, end),
		logging.FieldElements, len(elements))
	return elements
}

// FindElementAtPosition returns the index of the first element containing pos.
func FindElementAtPosition(elements []Element, pos int) (int, bool) {
	for i := range elements {
		if elements[i].ContainsCursor(pos) {
			return i, true
		}
	}
	return -1, false
}

// UpdateElementsAfterChange adjusts elements for an edit that replaced change
// with newContent, without re-scanning. Elements overlapping change are
// dropped; elements starting at or after change.End are shifted. The input
// slice is not modified.
func UpdateElementsAfterChange(elements []Element, change textpos.Range, newContent string) []Element {
	delta := len(newContent) - change.Len()

	out := make([]Element, 0, len(elements))
	for _, el := range elements {
		if el.Range.Overlaps(change) {
			continue
		}
		if el.Range.Start >= change.End {
			el.Range = el.Range.Shift(delta)
		}
		out = append(out, el)
	}
	return out
}

// scanAll runs every scanner over content, whose first byte sits at offset in
// its document.
func (p *Parser) scanAll(content string, offset int) []Element {
	lines := textpos.BuildLines(content)

	var elements []Element
	elements = append(elements, scanHeaders(content, lines, offset)...)
	elements = append(elements, scanInline(content, offset)...)
	elements = append(elements, scanLinks(content, offset)...)
	elements = append(elements, scanLists(content, lines, offset)...)
	elements = append(elements, scanCodeBlocks(content, lines, offset, p.detectLanguage)...)

	sortByStart(elements)
	return elements
}

func sortByStart(elements []Element) {
	sort.SliceStable(elements, func(i, j int) bool {
		return elements[i].Range.Start < elements[j].Range.Start
	})
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
