package lambdust

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Location is a line/column/byte-offset position within a source text.
// Line and Column are 1-based; Cursor is the 0-based byte offset.
type Location struct {
	Line   int32
	Column int32
	Cursor int
}

// Span is a half-open [Start, End) range within a source text, carried by
// every AST node, bytecode instruction, and error.
type Span struct{ Start, End Location }

// NewSpan builds a span from two locations.
func NewSpan(start, end Location) Span { return Span{Start: start, End: end} }

func (s Span) String() string {
	startLine, startCol := s.Start.Line, s.Start.Column
	endLine, endCol := s.End.Line, s.End.Column
	if startLine == endLine && startCol == endCol {
		return fmt.Sprintf("%d:%d", startLine, startCol)
	}
	if startLine == endLine {
		return fmt.Sprintf("%d:%d..%d", startLine, startCol, endCol)
	}
	return fmt.Sprintf("%d:%d..%d:%d", startLine, startCol, endLine, endCol)
}

// Contains reports whether other is fully nested within s.
func (s Span) Contains(other Span) bool {
	return other.Start.Cursor >= s.Start.Cursor && other.End.Cursor <= s.End.Cursor
}

// LineIndex converts byte cursor offsets to line/column pairs in O(log
// lines) by binary-searching precomputed line starts.
type LineIndex struct {
	input     []byte
	lineStart []int
}

// NewLineIndex scans input once, recording the byte offset of every line
// start, so later lookups are fast. Intended to be built once per source
// text and reused for every span it produces.
func NewLineIndex(input []byte) *LineIndex {
	lineStart := make([]int, 1, 64)
	lineStart[0] = 0
	for i, b := range input {
		if b == '\n' {
			lineStart = append(lineStart, i+1)
		}
	}
	return &LineIndex{input: input, lineStart: lineStart}
}

// LocationAt returns the Location for a byte cursor offset, clamped to the
// bounds of the input.
func (li *LineIndex) LocationAt(cursor int) Location {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(li.input) {
		cursor = len(li.input)
	}
	lineIdx := sort.Search(len(li.lineStart), func(i int) bool {
		return li.lineStart[i] > cursor
	}) - 1
	if lineIdx < 0 {
		lineIdx = 0
	}
	lineStart := li.lineStart[lineIdx]
	col := int32(utf8.RuneCount(li.input[lineStart:cursor])) + 1
	return Location{Line: int32(lineIdx + 1), Column: col, Cursor: cursor}
}

// SpanOf converts a [start,end) byte range into a Span.
func (li *LineIndex) SpanOf(start, end int) Span {
	return Span{Start: li.LocationAt(start), End: li.LocationAt(end)}
}
