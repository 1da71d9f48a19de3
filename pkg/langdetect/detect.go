// Package langdetect guesses the language of an unlabelled fenced code block
// so the renderer can tag it with a language class.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Text is returned when no language can be determined.
const Text = "text"

// candidates restricts the classifier to languages that commonly appear in
// markdown documents.
var candidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown", "Dockerfile",
}

// hint is a cheap pattern check that runs before the classifier.
type hint struct {
	lang  string
	match func(code, trimmed []byte) bool
}

var hints = []hint{
	{"go", func(_, t []byte) bool {
		return bytes.HasPrefix(t, []byte("package ")) || bytes.HasPrefix(t, []byte("func "))
	}},
	{"python", func(c, _ []byte) bool {
		return bytes.Contains(c, []byte("def ")) && bytes.Contains(c, []byte("):")) ||
			bytes.Contains(c, []byte("__name__"))
	}},
	{"html", func(_, t []byte) bool {
		lower := bytes.ToLower(t)
		return bytes.HasPrefix(lower, []byte("<!doctype html")) || bytes.HasPrefix(lower, []byte("<html"))
	}},
	{"json", func(_, t []byte) bool {
		return len(t) > 1 && (t[0] == '{' && t[len(t)-1] == '}' || t[0] == '[' && t[len(t)-1] == ']') &&
			bytes.Contains(t, []byte(`":`))
	}},
	{"dockerfile", func(c, t []byte) bool {
		return bytes.HasPrefix(t, []byte("FROM ")) && bytes.Contains(c, []byte("\nRUN "))
	}},
	{"sql", func(_, t []byte) bool {
		upper := strings.ToUpper(string(t))
		for _, kw := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
			if strings.HasPrefix(upper, kw) {
				return true
			}
		}
		return false
	}},
	{"rust", func(c, _ []byte) bool {
		return bytes.Contains(c, []byte("fn main()")) || bytes.Contains(c, []byte("println!")) ||
			bytes.Contains(c, []byte("let mut "))
	}},
	{"javascript", func(c, _ []byte) bool {
		return bytes.Contains(c, []byte("console.log")) || bytes.Contains(c, []byte("=>")) ||
			bytes.Contains(c, []byte("const "))
	}},
	{"yaml", func(c, _ []byte) bool { return yamlKeys(c) >= 2 }},
}

// Detect returns a lowercase fence tag for code, or Text when nothing is
// confident enough.
func Detect(code []byte) string {
	if len(bytes.TrimSpace(code)) == 0 {
		return Text
	}

	if lang, safe := enry.GetLanguageByShebang(code); safe {
		return normalize(lang)
	}

	trimmed := bytes.TrimSpace(code)
	for _, h := range hints {
		if h.match(code, trimmed) {
			return h.lang
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(code, candidates); safe && lang != "" {
		return normalize(lang)
	}

	return Text
}

// DetectString is Detect for string input. ok is false when the result is Text.
func DetectString(code string) (lang string, ok bool) {
	lang = Detect([]byte(code))
	return lang, lang != Text
}

func yamlKeys(code []byte) int {
	count := 0
	for _, line := range bytes.Split(code, []byte("\n")) {
		line = bytes.TrimSpace(line)
		switch {
		case len(line) == 0, line[0] == '#':
		case bytes.HasPrefix(line, []byte("- ")):
			count++
		case bytes.Contains(line, []byte(": ")) && !bytes.ContainsAny(line, "({") && line[0] != '"':
			count++
		}
	}
	return count
}

func normalize(lang string) string {
	if lang == "Shell" {
		return "bash"
	}
	return strings.ToLower(lang)
}
