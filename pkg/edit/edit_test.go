package edit_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/yaklabco/mdlive/pkg/edit"
	"github.com/yaklabco/mdlive/pkg/textpos"
)

func TestApply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		edits   []edit.TextEdit
		want    string
	}{
		{
			name:    "no edits",
			content: "hello world",
			want:    "hello world",
		},
		{
			name:    "replacement",
			content: "hello world",
			edits:   []edit.TextEdit{edit.Replace(0, 5, "hi")},
			want:    "hi world",
		},
		{
			name:    "insertion",
			content: "Some bold text",
			edits:   []edit.TextEdit{edit.Replace(5, 5, "**"), edit.Replace(9, 9, "**")},
			want:    "Some **bold** text",
		},
		{
			name:    "deletion",
			content: "hello world",
			edits:   []edit.TextEdit{edit.Replace(5, 11, "")},
			want:    "hello",
		},
		{
			name:    "unsorted input",
			content: "abcdef",
			edits:   []edit.TextEdit{edit.Replace(4, 6, "EF"), edit.Replace(0, 2, "AB")},
			want:    "ABcdEF",
		},
		{
			name:    "adjacent edits",
			content: "abcdef",
			edits:   []edit.TextEdit{edit.Replace(0, 3, "X"), edit.Replace(3, 6, "Y")},
			want:    "XY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := edit.Apply(tt.content, tt.edits)
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Apply() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApplyErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		edits        []edit.TextEdit
		wantConflict bool
		errMsg       string
	}{
		{"negative start", []edit.TextEdit{edit.Replace(-1, 2, "")}, false, "start offset is negative"},
		{"end before start", []edit.TextEdit{edit.Replace(4, 2, "")}, false, "end offset is before start offset"},
		{"past end", []edit.TextEdit{edit.Replace(2, 20, "")}, false, "exceeds content length"},
		{"overlap", []edit.TextEdit{edit.Replace(0, 4, "a"), edit.Replace(2, 6, "b")}, true, "overlapping edits"},
		{"same insertion point", []edit.TextEdit{edit.Replace(3, 3, "a"), edit.Replace(3, 3, "b")}, true, "overlapping edits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := edit.Apply("abcdef", tt.edits)
			if err == nil {
				t.Fatal("Apply() expected error")
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("error = %q, want it to contain %q", err, tt.errMsg)
			}

			var conflict *edit.ConflictError
			var invalid *edit.ValidationError
			if tt.wantConflict && !errors.As(err, &conflict) {
				t.Errorf("error %T is not a *ConflictError", err)
			}
			if !tt.wantConflict && !errors.As(err, &invalid) {
				t.Errorf("error %T is not a *ValidationError", err)
			}
		})
	}
}

func TestPrepareDoesNotModifyInput(t *testing.T) {
	t.Parallel()

	edits := []edit.TextEdit{edit.Replace(4, 5, "x"), edit.Replace(0, 1, "y")}
	sorted, err := edit.Prepare(edits, 10)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if sorted[0].StartOffset != 0 || sorted[1].StartOffset != 4 {
		t.Errorf("Prepare() = %v, want sorted by start", sorted)
	}
	if edits[0].StartOffset != 4 {
		t.Error("Prepare() reordered its input")
	}
}

func TestBuilder(t *testing.T) {
	t.Parallel()

	b := edit.NewBuilder().
		Insert(0, "# ").
		Delete(5, 6).
		ReplaceRange(6, 11, "there")

	got, err := b.Apply("Title\nworld")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if want := "# Titlethere"; got != want {
		t.Errorf("Apply() = %q, want %q", got, want)
	}
	if len(b.Edits) != 3 {
		t.Errorf("len(Edits) = %d, want 3", len(b.Edits))
	}
}

func TestTextEditHelpers(t *testing.T) {
	t.Parallel()

	e := edit.Replace(2, 6, "xy")

	if got := e.Range(); got != textpos.NewRange(2, 6) {
		t.Errorf("Range() = %v", got)
	}
	if got := e.Delta(); got != -2 {
		t.Errorf("Delta() = %d, want -2", got)
	}
	if got := e.String(); got != `[2:6]"xy"` {
		t.Errorf("String() = %s", got)
	}

	for _, tt := range []struct{ in, want int }{
		{0, 0},
		{2, 4},
		{5, 4},
		{6, 4},
		{10, 8},
	} {
		if got := e.AdjustOffset(tt.in); got != tt.want {
			t.Errorf("AdjustOffset(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func FuzzApply(f *testing.F) {
	f.Add("hello", 0, 5, "world")
	f.Add("hello world", 5, 5, " beautiful")
	f.Add("abcdef", 6, 6, "suffix")
	f.Add("abcdef", 2, 4, "")

	f.Fuzz(func(t *testing.T, content string, start, end int, newText string) {
		if start < 0 || end < start || end > len(content) {
			return
		}

		result, err := edit.Apply(content, []edit.TextEdit{edit.Replace(start, end, newText)})
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}

		if want := content[:start] + newText + content[end:]; result != want {
			t.Errorf("Apply() = %q, want %q", result, want)
		}
	})
}
