package syntax

import (
	"strconv"
	"strings"

	"github.com/yaklabco/mdlive/pkg/langdetect"
	"github.com/yaklabco/mdlive/pkg/textpos"
)

const maxHeaderLevel = 6

// Scanners take content plus the document offset of content[0] and report
// ranges in document coordinates. RawContent is always the exact source
// slice covered by the range.

func newScanned(typ ElementType, content string, start, end, offset int, rendered string) Element {
	return NewElement(typ, textpos.NewRange(offset+start, offset+end), content[start:end], rendered)
}

// leadingBlank returns the number of leading space and tab bytes in s.
func leadingBlank(s string) int {
	n := 0
	for n < len(s) && (s[n] == ' ' || s[n] == '\t') {
		n++
	}
	return n
}

func scanHeaders(content string, lines []textpos.LineInfo, offset int) []Element {
	var elements []Element
	for _, line := range lines {
		if el, ok := scanHeaderLine(content, line, offset); ok {
			elements = append(elements, el)
		}
	}
	return elements
}

// scanHeaderLine recognises an ATX header: optional indentation, one to six
// '#', a space or tab, then non-blank text.
func scanHeaderLine(content string, line textpos.LineInfo, offset int) (Element, bool) {
	text := content[line.StartOffset:line.NewlineStart]
	markerStart := leadingBlank(text)

	level := 0
	for markerStart+level < len(text) && text[markerStart+level] == '#' {
		level++
	}
	if level == 0 || level > maxHeaderLevel {
		return Element{}, false
	}

	rest := text[markerStart+level:]
	if rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
		return Element{}, false
	}
	title := strings.TrimSpace(rest)
	if title == "" {
		return Element{}, false
	}

	start := line.StartOffset + markerStart
	return newScanned(Header(level), content, start, line.NewlineStart, offset, title), true
}

// scanInline finds emphasis and inline code starting at every marker byte.
func scanInline(content string, offset int) []Element {
	var elements []Element
	for i := 0; i < len(content); i++ {
		switch content[i] {
		case '*', '_':
			if el, ok := scanEmphasis(content, i, offset); ok {
				elements = append(elements, el)
			}
		case '`':
			if el, ok := scanInlineCode(content, i, offset); ok {
				elements = append(elements, el)
			}
		}
	}
	return elements
}

// scanEmphasis matches a doubled marker against the next doubled marker
// (bold) and a single marker against the next single marker (italic).
func scanEmphasis(content string, start, offset int) (Element, bool) {
	marker := content[start]
	double := start+1 < len(content) && content[start+1] == marker

	if double {
		closeAt := strings.Index(content[start+2:], string([]byte{marker, marker}))
		if closeAt < 0 {
			return Element{}, false
		}
		inner := start + 2 + closeAt
		return newScanned(Bold(), content, start, inner+2, offset, content[start+2:inner]), true
	}

	closeAt := strings.IndexByte(content[start+1:], marker)
	if closeAt < 0 {
		return Element{}, false
	}
	inner := start + 1 + closeAt
	return newScanned(Italic(), content, start, inner+1, offset, content[start+1:inner]), true
}

func scanInlineCode(content string, start, offset int) (Element, bool) {
	closeAt := strings.IndexByte(content[start+1:], '`')
	if closeAt < 0 {
		return Element{}, false
	}
	inner := start + 1 + closeAt
	return newScanned(InlineCode(), content, start, inner+1, offset, content[start+1:inner]), true
}

func scanLinks(content string, offset int) []Element {
	var elements []Element
	for i := 0; i < len(content); i++ {
		if content[i] != '[' {
			continue
		}
		if el, ok := scanLink(content, i, offset); ok {
			elements = append(elements, el)
		}
	}
	return elements
}

// scanLink matches [text](url) or [text](url "title") with no nesting: the
// first ']' must be followed by '(' and the first ')' closes the link.
func scanLink(content string, start, offset int) (Element, bool) {
	textEnd := strings.IndexByte(content[start+1:], ']')
	if textEnd < 0 {
		return Element{}, false
	}
	textEnd += start + 1
	if textEnd+1 >= len(content) || content[textEnd+1] != '(' {
		return Element{}, false
	}

	destStart := textEnd + 2
	destEnd := strings.IndexByte(content[destStart:], ')')
	if destEnd < 0 {
		return Element{}, false
	}
	destEnd += destStart

	url, title := splitLinkDestination(content[destStart:destEnd])
	return newScanned(Link(url, title), content, start, destEnd+1, offset, content[start+1:textEnd]), true
}

// splitLinkDestination separates `url "title"` into its parts.
func splitLinkDestination(dest string) (url, title string) {
	dest = strings.TrimSpace(dest)
	sp := strings.IndexAny(dest, " \t")
	if sp < 0 {
		return dest, ""
	}
	rest := strings.TrimSpace(dest[sp:])
	if len(rest) >= 2 && rest[0] == '"' && rest[len(rest)-1] == '"' {
		return dest[:sp], rest[1 : len(rest)-1]
	}
	return dest, ""
}

func scanLists(content string, lines []textpos.LineInfo, offset int) []Element {
	var elements []Element
	for _, line := range lines {
		if el, ok := scanListLine(content, line, offset); ok {
			elements = append(elements, el)
		}
	}
	return elements
}

// scanListLine recognises "- ", "* ", "+ " and "N. " items. The element covers
// the whole line, indentation included; every two bytes of indentation is one
// nesting level.
func scanListLine(content string, line textpos.LineInfo, offset int) (Element, bool) {
	text := content[line.StartOffset:line.NewlineStart]
	indent := leadingBlank(text)
	body := text[indent:]
	level := indent / 2

	if len(body) >= 2 && body[1] == ' ' && strings.IndexByte("-*+", body[0]) >= 0 {
		return newScanned(UnorderedListItem(level), content,
			line.StartOffset, line.NewlineStart, offset, body[2:]), true
	}

	dot := strings.Index(body, ". ")
	if dot < 1 || dot > 9 || !allDigits(body[:dot]) {
		return Element{}, false
	}
	number, err := strconv.Atoi(body[:dot])
	if err != nil {
		return Element{}, false
	}
	return newScanned(OrderedListItem(level, number), content,
		line.StartOffset, line.NewlineStart, offset, body[dot+2:]), true
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// fence describes an opening or closing code fence line.
type fence struct {
	char   byte
	length int
	info   string
}

// parseFence reports whether text is a fence line: up to three spaces, then
// at least three backticks or tildes.
func parseFence(text string) (fence, bool) {
	spaces := 0
	for spaces < len(text) && spaces < 3 && text[spaces] == ' ' {
		spaces++
	}
	text = text[spaces:]
	if text == "" || (text[0] != '`' && text[0] != '~') {
		return fence{}, false
	}

	char := text[0]
	n := 0
	for n < len(text) && text[n] == char {
		n++
	}
	if n < 3 {
		return fence{}, false
	}

	info := strings.TrimSpace(text[n:])
	if char == '`' && strings.IndexByte(info, '`') >= 0 {
		return fence{}, false
	}
	return fence{char: char, length: n, info: info}, true
}

// closes reports whether f is a valid closing fence for open.
func (f fence) closes(open fence) bool {
	return f.char == open.char && f.length >= open.length && f.info == ""
}

// scanCodeBlocks finds fenced code blocks. The element runs from the opening
// fence marker to the end of the closing fence line; an unterminated fence
// produces nothing.
func scanCodeBlocks(content string, lines []textpos.LineInfo, offset int, detect bool) []Element {
	var elements []Element

	for i := 0; i < len(lines); i++ {
		openLine := lines[i]
		openText := content[openLine.StartOffset:openLine.NewlineStart]
		open, ok := parseFence(openText)
		if !ok {
			continue
		}

		closeIdx := -1
		for j := i + 1; j < len(lines); j++ {
			candidate, ok := parseFence(content[lines[j].StartOffset:lines[j].NewlineStart])
			if ok && candidate.closes(open) {
				closeIdx = j
				break
			}
		}
		if closeIdx < 0 {
			break
		}
		closeLine := lines[closeIdx]

		body := ""
		if closeIdx > i+1 {
			body = content[openLine.EndOffset:lines[closeIdx-1].NewlineStart]
		}

		language := ""
		if fields := strings.Fields(open.info); len(fields) > 0 {
			language = fields[0]
		}
		if language == "" && detect {
			if guess, ok := langdetect.DetectString(body); ok {
				language = guess
			}
		}

		start := openLine.StartOffset + leadingBlank(openText)
		elements = append(elements, newScanned(CodeBlock(language), content,
			start, closeLine.NewlineStart, offset, body))
		i = closeIdx
	}

	return elements
}
