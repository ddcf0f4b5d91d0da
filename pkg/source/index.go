// Package source maps byte offsets in a source text to line/column positions.
//
// An Index is built once per file from the raw text and is read-only
// afterwards, so it can be shared by every rule analyzing that file.
package source

import (
	"sort"
	"strings"

	"github.com/leapstack-labs/sollint/pkg/token"
)

// Index answers position queries against one source text.
type Index struct {
	text     string
	newlines []int // byte offsets of every '\n', ascending
}

// NewIndex builds the newline table for text.
func NewIndex(text string) *Index {
	newlines := make([]int, 0, strings.Count(text, "\n"))
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			newlines = append(newlines, i)
		}
	}
	return &Index{text: text, newlines: newlines}
}

// Text returns the indexed source text.
func (ix *Index) Text() string {
	return ix.text
}

// Len returns the length of the source text in bytes.
func (ix *Index) Len() int {
	return len(ix.text)
}

// Slice returns the text between start and end, clamped to the source.
func (ix *Index) Slice(start, end int) string {
	start, end = ix.clamp(start), ix.clamp(end)
	if end < start {
		return ""
	}
	return ix.text[start:end]
}

// Line returns the 1-based line of offset: one plus the number of newlines
// preceding it.
func (ix *Index) Line(offset int) int {
	return ix.newlinesBefore(ix.clamp(offset)) + 1
}

// Column returns the 0-based column of offset: its distance from the
// character following the closest preceding newline.
func (ix *Index) Column(offset int) int {
	offset = ix.clamp(offset)
	k := ix.newlinesBefore(offset)
	if k == 0 {
		return offset
	}
	return offset - ix.newlines[k-1] - 1
}

// EndLine returns the line holding the last character of a range ending at
// end. Trailing whitespace is not counted, so a range that swallows the
// final newline still ends on the line of its last visible character.
func (ix *Index) EndLine(end int) int {
	end = ix.clamp(end)
	trimmed := len(strings.TrimRight(ix.text[:end], " \t\r\n\f\v"))
	return ix.newlinesBefore(trimmed) + 1
}

// EndColumn returns the 0-based column of the last character of a range
// ending (exclusively) at end.
func (ix *Index) EndColumn(end int) int {
	end = ix.clamp(end)
	if end == 0 {
		return 0
	}
	last := end - 1
	k := ix.newlinesBefore(last)
	if k == 0 {
		return last
	}
	return last - ix.newlines[k-1] - 1
}

// Position returns the start position of offset.
func (ix *Index) Position(offset int) token.Position {
	offset = ix.clamp(offset)
	return token.Position{
		Line:   ix.Line(offset),
		Column: ix.Column(offset),
		Offset: offset,
	}
}

// EndPosition returns the end-inclusive position of a range ending at end.
// Offset keeps the exclusive end so spans stay half-open.
func (ix *Index) EndPosition(end int) token.Position {
	end = ix.clamp(end)
	return token.Position{
		Line:   ix.EndLine(end),
		Column: ix.EndColumn(end),
		Offset: end,
	}
}

// Span returns the positions of the half-open range [start, end).
func (ix *Index) Span(start, end int) token.Span {
	return token.Span{Start: ix.Position(start), End: ix.EndPosition(end)}
}

// newlinesBefore counts newline characters at offsets strictly below offset.
func (ix *Index) newlinesBefore(offset int) int {
	return sort.SearchInts(ix.newlines, offset)
}

func (ix *Index) clamp(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(ix.text) {
		return len(ix.text)
	}
	return offset
}
