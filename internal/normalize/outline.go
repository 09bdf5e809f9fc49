// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// OutlineEntry is one heading as a CommonMark parser sees it.
type OutlineEntry struct {
	Level int    `json:"level" yaml:"level"`
	Text  string `json:"text" yaml:"text"`
	// Line is 1-based.
	Line int `json:"line" yaml:"line"`
}

// Outline parses src as CommonMark and returns its headings in document
// order. Unlike Analyze it ignores '#' lines inside code blocks and lines
// such as "#tag" that CommonMark does not treat as headings.
func Outline(src []byte) []OutlineEntry {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var entries []OutlineEntry
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		entry := OutlineEntry{Level: h.Level}
		lines := h.Lines()
		if lines.Len() > 0 {
			first := lines.At(0)
			entry.Line = bytes.Count(src[:first.Start], []byte("\n")) + 1
			var b strings.Builder
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				b.Write(seg.Value(src))
			}
			entry.Text = strings.TrimSpace(b.String())
		}
		entries = append(entries, entry)
		return ast.WalkSkipChildren, nil
	})
	return entries
}

// FormatOutline writes entries as an indented tree.
func FormatOutline(entries []OutlineEntry, w io.Writer) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No headings found.")
		return
	}
	for _, e := range entries {
		indent := strings.Repeat("  ", max(e.Level-1, 0))
		fmt.Fprintf(w, "%4d  %s%s\n", e.Line, indent, e.Text)
	}
}
