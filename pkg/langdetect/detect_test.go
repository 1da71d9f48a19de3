package langdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/mdlive/pkg/langdetect"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{"empty", "", "text"},
		{"whitespace only", "  \n\t", "text"},
		{"shebang bash", "#!/bin/bash\necho hello", "bash"},
		{"shebang python", "#!/usr/bin/env python3\nprint('hello')", "python"},
		{"go code", "package main\n\nfunc main() {\n\tfmt.Println(\"hello\")\n}", "go"},
		{"python code", "def foo():\n    pass\n\nif __name__ == '__main__':\n    foo()", "python"},
		{"json object", `{"key": "value", "number": 123}`, "json"},
		{"sql", "SELECT id FROM users WHERE id = 1;", "sql"},
		{"rust", "fn main() {\n    println!(\"hi\");\n}", "rust"},
		{"javascript", "const x = () => 42;\nconsole.log(x());", "javascript"},
		{"yaml", "name: mdlive\nversion: 1\n", "yaml"},
		{"html", "<!DOCTYPE html>\n<html></html>", "html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, langdetect.Detect([]byte(tt.content)))
		})
	}
}

func TestDetectString(t *testing.T) {
	t.Parallel()

	lang, ok := langdetect.DetectString("package main")
	assert.True(t, ok)
	assert.Equal(t, "go", lang)

	_, ok = langdetect.DetectString("")
	assert.False(t, ok)
}
