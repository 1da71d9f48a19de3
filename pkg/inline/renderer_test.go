package inline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdlive/pkg/inline"
	"github.com/yaklabco/mdlive/pkg/syntax"
	"github.com/yaklabco/mdlive/pkg/textpos"
)

func TestRenderElement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		element     syntax.Element
		wantTag     string
		wantHTML    string
		wantClasses []string
		wantData    map[string]string
		wantToHTML  string
	}{
		{
			name:        "header",
			element:     syntax.NewElement(syntax.Header(1), textpos.NewRange(0, 8), "# Header", "Header"),
			wantTag:     "h1",
			wantHTML:    "<h1>Header</h1>",
			wantClasses: []string{"md-header", "md-header-1"},
			wantData:    map[string]string{"level": "1"},
			wantToHTML:  `<h1 class="md-header md-header-1" data-level="1">Header</h1>`,
		},
		{
			name:        "bold",
			element:     syntax.NewElement(syntax.Bold(), textpos.NewRange(0, 8), "**bold**", "bold"),
			wantTag:     "strong",
			wantHTML:    "<strong>bold</strong>",
			wantClasses: []string{"md-bold"},
			wantToHTML:  `<strong class="md-bold">bold</strong>`,
		},
		{
			name:        "italic",
			element:     syntax.NewElement(syntax.Italic(), textpos.NewRange(0, 8), "*italic*", "italic"),
			wantTag:     "em",
			wantHTML:    "<em>italic</em>",
			wantClasses: []string{"md-italic"},
			wantToHTML:  `<em class="md-italic">italic</em>`,
		},
		{
			name:        "inline code escapes content",
			element:     syntax.NewElement(syntax.InlineCode(), textpos.NewRange(0, 7), "`a<b>`", "a<b>"),
			wantTag:     "code",
			wantHTML:    "<code>a&lt;b&gt;</code>",
			wantClasses: []string{"md-code", "md-inline-code"},
			wantToHTML:  `<code class="md-code md-inline-code">a&lt;b&gt;</code>`,
		},
		{
			name:        "code block with language",
			element:     syntax.NewElement(syntax.CodeBlock("go"), textpos.NewRange(0, 16), "```go\nx := 1\n```", "x := 1"),
			wantTag:     "pre",
			wantHTML:    `<pre><code class="md-code-block language-go">x := 1</code></pre>`,
			wantClasses: []string{"md-code-block", "language-go"},
			wantData:    map[string]string{"language": "go"},
			wantToHTML:  `<pre class="md-code-block language-go" data-language="go"><code class="md-code-block language-go">x := 1</code></pre>`,
		},
		{
			name:        "link with title",
			element:     syntax.NewElement(syntax.Link("https://x.io", "T"), textpos.NewRange(0, 20), `[X](https://x.io "T")`, "X"),
			wantTag:     "a",
			wantHTML:    `<a href="https://x.io" title="T">X</a>`,
			wantClasses: []string{"md-link"},
			wantData:    map[string]string{"url": "https://x.io", "title": "T"},
			wantToHTML:  `<a href="https://x.io" title="T" class="md-link" data-title="T" data-url="https://x.io">X</a>`,
		},
		{
			name:        "nested ordered list item",
			element:     syntax.NewElement(syntax.OrderedListItem(1, 3), textpos.NewRange(0, 10), "  3. First", "First"),
			wantTag:     "li",
			wantHTML:    "<li>First</li>",
			wantClasses: []string{"md-list-item", "md-list-item-ordered", "md-level-1"},
			wantData:    map[string]string{"level": "1", "number": "3", "type": "ordered"},
			wantToHTML:  `<li class="md-list-item md-list-item-ordered md-level-1" data-level="1" data-number="3" data-type="ordered">First</li>`,
		},
		{
			name:        "top level unordered list item",
			element:     syntax.NewElement(syntax.UnorderedListItem(0), textpos.NewRange(0, 6), "- Item", "Item"),
			wantTag:     "li",
			wantHTML:    "<li>Item</li>",
			wantClasses: []string{"md-list-item", "md-list-item-unordered"},
			wantData:    map[string]string{"level": "0", "type": "unordered"},
			wantToHTML:  `<li class="md-list-item md-list-item-unordered" data-level="0" data-type="unordered">Item</li>`,
		},
	}

	r := inline.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := r.RenderElement(tt.element)
			assert.Equal(t, tt.wantTag, got.Tag)
			assert.Equal(t, tt.wantHTML, got.HTML)
			assert.Equal(t, tt.wantClasses, got.CSSClasses)
			if tt.wantData == nil {
				assert.Empty(t, got.DataAttributes)
			} else {
				assert.Equal(t, tt.wantData, got.DataAttributes)
			}
			assert.Equal(t, tt.element.RawContent, got.RawContent)
			assert.Equal(t, tt.element.RawContent, inline.ExtractRawContent(got))
			assert.False(t, got.IsEditing)
			assert.Equal(t, tt.wantToHTML, got.ToHTML())
		})
	}
}

func TestTagFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "h1", inline.TagFor(syntax.Header(0)))
	assert.Equal(t, "h6", inline.TagFor(syntax.Header(9)))
	assert.Equal(t, "h3", inline.TagFor(syntax.Header(3)))
	assert.Equal(t, "li", inline.TagFor(syntax.OrderedListItem(0, 1)))
}

func TestClassPrefix(t *testing.T) {
	t.Parallel()

	r := inline.New(inline.WithClassPrefix("live"))
	got := r.RenderElement(syntax.NewElement(syntax.Bold(), textpos.NewRange(0, 5), "**x**", "x"))

	assert.Equal(t, "live", r.ClassPrefix())
	assert.Equal(t, []string{"live-bold"}, got.CSSClasses)
}

func TestRenderElementsWithCursor(t *testing.T) {
	t.Parallel()

	content := "This is **bold** text"
	elements := syntax.New().ParseDocument(content)
	r := inline.New()

	pairs := r.RenderElementsWithCursor(elements, textpos.At(10))
	require.Len(t, pairs, 2)

	bold := pairs[0].Rendered
	assert.True(t, bold.IsEditing)
	assert.Equal(t, []string{"md-bold", "editing", "cursor-active"}, bold.CSSClasses)
	assert.Equal(t,
		`<strong class="md-bold editing cursor-active" contenteditable="true">**bold**</strong>`,
		bold.ToHTML())

	outside := r.RenderElementsWithCursor(elements, textpos.At(0))
	for _, p := range outside {
		assert.False(t, p.Rendered.IsEditing)
		assert.False(t, p.Rendered.HasClass(inline.ClassCursorActive))
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	t.Parallel()

	content := "# Title\n\nSome **bold** and [a](http://b \"c\")\n- item `x`"
	elements := syntax.New().ParseDocument(content)
	r := inline.New()

	for _, pos := range []int{0, 3, 12, 30, len(content)} {
		first := r.RenderElementsWithCursor(elements, textpos.At(pos))
		second := r.RenderElementsWithCursor(elements, textpos.At(pos))
		assert.Equal(t, first, second, "cursor %d", pos)

		for i := range first {
			assert.Equal(t, first[i].Rendered.ToHTML(), second[i].Rendered.ToHTML())
		}

		assert.Equal(t,
			r.RenderDocument(content, elements, textpos.At(pos)),
			r.RenderDocument(content, elements, textpos.At(pos)))
	}
}

func TestRenderDocument(t *testing.T) {
	t.Parallel()

	r := inline.New()

	t.Run("no elements escapes content", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "a &lt; b", r.RenderDocument("a < b", nil, textpos.Start()))
	})

	t.Run("overlapping elements are emitted in sequence", func(t *testing.T) {
		t.Parallel()

		content := "This is **bold** text"
		elements := syntax.New().ParseDocument(content)

		got := r.RenderDocument(content, elements, textpos.Start())
		assert.Equal(t,
			`This is <strong class="md-bold">bold</strong><em class="md-italic">bold</em> text`,
			got)
	})

	t.Run("element under cursor is raw", func(t *testing.T) {
		t.Parallel()

		content := "a *b* c"
		elements := syntax.New().ParseDocument(content)

		got := r.RenderDocument(content, elements, textpos.At(3))
		assert.Equal(t, `a <em class="md-italic editing" contenteditable="true">*b*</em> c`, got)
	})

	t.Run("unsorted input", func(t *testing.T) {
		t.Parallel()

		content := "*a* *b*"
		var reversed []syntax.Element
		for _, el := range syntax.New().ParseDocument(content) {
			if el.RawContent == "*a*" || el.RawContent == "*b*" {
				reversed = append([]syntax.Element{el}, reversed...)
			}
		}
		require.Len(t, reversed, 2)
		require.Equal(t, "*b*", reversed[0].RawContent)

		got := r.RenderDocument(content, reversed, textpos.At(len(content)))
		assert.Equal(t, `<em class="md-italic">a</em> <em class="md-italic">b</em>`, got)
	})
}

func TestPreview(t *testing.T) {
	t.Parallel()

	content := "Some **bold** text"
	bold := syntax.NewElement(syntax.Bold(), textpos.NewRange(5, 13), "**bold**", "bold")

	r := inline.New()
	pairs := r.RenderElementsWithCursor([]syntax.Element{bold}, textpos.At(7))
	html := r.Preview(content, pairs)

	assert.Equal(t, "Some <strong>bold</strong> text", html)
	assert.Equal(t, textpos.NewRange(5, 26), pairs[0].Rendered.RenderedRange)
	assert.Equal(t, "<strong>bold</strong>", pairs[0].Rendered.RenderedRange.Slice(html))
}

func TestCompose(t *testing.T) {
	t.Parallel()

	content := "x & *y*"
	el := syntax.NewElement(syntax.Italic(), textpos.NewRange(4, 7), "*y*", "y")
	pairs := []inline.Pair{{Element: el}}

	html, spans := inline.Compose(content, pairs, func(i int, p inline.Pair) string {
		assert.Equal(t, 0, i)
		return "[" + p.Element.RenderedContent + "]"
	})

	assert.Equal(t, "x &amp; [y]", html)
	require.Len(t, spans, 1)
	assert.Equal(t, "[y]", spans[0].Slice(html))
}

func TestZip(t *testing.T) {
	t.Parallel()

	elements := syntax.New().ParseDocument("*a* *b*")
	require.Len(t, elements, 3)

	rendered := []inline.RenderedElement{{Tag: "em"}, {Tag: "em"}}
	pairs := inline.Zip(elements, rendered)

	require.Len(t, pairs, 2, "pairs beyond the shorter slice are dropped")
	assert.Equal(t, elements[:2], inline.Elements(pairs))
	assert.Equal(t, rendered, inline.RenderedElements(pairs))
}

func TestRenderedElementClasses(t *testing.T) {
	t.Parallel()

	var e inline.RenderedElement
	e.AddClass("a")
	e.AddClass("a")
	e.AddClass("b")
	assert.Equal(t, []string{"a", "b"}, e.CSSClasses)

	e.SetEditing(true)
	assert.True(t, e.HasClass(inline.ClassEditing))
	e.SetEditing(false)
	assert.False(t, e.HasClass(inline.ClassEditing))
	assert.False(t, e.IsEditing)

	e.RemoveClass("a")
	assert.Equal(t, []string{"b"}, e.CSSClasses)
}

func TestIsCursorInElement(t *testing.T) {
	t.Parallel()

	el := syntax.NewElement(syntax.Bold(), textpos.NewRange(5, 13), "**bold**", "bold")
	assert.True(t, inline.IsCursorInElement(el, textpos.At(5)))
	assert.True(t, inline.IsCursorInElement(el, textpos.At(12)))
	assert.False(t, inline.IsCursorInElement(el, textpos.At(13)))
}

func TestHTMLEscape(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"&lt;a href=&quot;x&quot;&gt;&#x27;&amp;&#x27;&lt;/a&gt;",
		inline.HTMLEscape(`<a href="x">'&'</a>`))
	assert.Equal(t, "&amp;lt;", inline.HTMLEscape("&lt;"))
}
