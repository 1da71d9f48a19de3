// Package export converts whole documents between markdown and HTML. It is
// independent of the live view: exports are full CommonMark renders, not the
// element-level fragments the live view produces.
package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Options configures an HTMLExporter.
type Options struct {
	// GFM enables tables, strikethrough, autolinks and task lists.
	GFM bool

	// Unsafe passes raw HTML in the source through unchanged.
	Unsafe bool

	// HeadingIDs adds generated id attributes to headings.
	HeadingIDs bool

	// Standalone wraps the body in a complete HTML document.
	Standalone bool

	// Title is the document title used when Standalone is set.
	Title string
}

// DefaultOptions returns GFM with heading IDs, fragment output.
func DefaultOptions() Options {
	return Options{GFM: true, HeadingIDs: true}
}

// HTMLExporter renders markdown documents to HTML.
type HTMLExporter struct {
	opts Options
	md   goldmark.Markdown
}

// NewHTMLExporter returns an exporter configured by opts.
func NewHTMLExporter(opts Options) *HTMLExporter {
	var (
		extensions []goldmark.Extender
		parserOpts []parser.Option
	)
	if opts.GFM {
		extensions = append(extensions, extension.GFM)
	}
	if opts.HeadingIDs {
		parserOpts = append(parserOpts, parser.WithAutoHeadingID())
	}

	gmOpts := []goldmark.Option{
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(parserOpts...),
	}
	if opts.Unsafe {
		gmOpts = append(gmOpts, goldmark.WithRendererOptions(html.WithUnsafe()))
	}

	return &HTMLExporter{opts: opts, md: goldmark.New(gmOpts...)}
}

// Options returns the exporter configuration.
func (e *HTMLExporter) Options() Options {
	return e.opts
}

// Convert renders markdown to HTML.
func (e *HTMLExporter) Convert(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := e.Write(&buf, markdown); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Write renders markdown to w.
func (e *HTMLExporter) Write(w io.Writer, markdown string) error {
	if !e.opts.Standalone {
		if err := e.md.Convert([]byte(markdown), w); err != nil {
			return fmt.Errorf("convert markdown: %w", err)
		}
		return nil
	}

	var body bytes.Buffer
	if err := e.md.Convert([]byte(markdown), &body); err != nil {
		return fmt.Errorf("convert markdown: %w", err)
	}

	title := e.opts.Title
	if title == "" {
		title = "Document"
	}

	var doc strings.Builder
	doc.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	doc.WriteString(escapeTitle(title))
	doc.WriteString("</title>\n</head>\n<body>\n")
	doc.Write(body.Bytes())
	doc.WriteString("</body>\n</html>\n")

	if _, err := io.WriteString(w, doc.String()); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

var titleReplacer = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeTitle(s string) string {
	return titleReplacer.Replace(s)
}

// ToMarkdown converts HTML, such as an edited export, back to markdown.
func ToMarkdown(htmlContent string) (string, error) {
	if strings.TrimSpace(htmlContent) == "" {
		return "", nil
	}

	markdown, err := htmltomarkdown.ConvertString(htmlContent)
	if err != nil {
		return "", fmt.Errorf("convert html: %w", err)
	}
	return strings.TrimSpace(markdown), nil
}
