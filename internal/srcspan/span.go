// Package srcspan holds byte-offset source spans and the line/column index
// built from a single source file, mirroring the teacher's ast.Pos/Span but
// kept as its own leaf package (per spec.md §2 item 1) since both the
// surface AST and the typed AST need it without depending on each other.
package srcspan

import "sort"

// Span is a half-open byte range [Start, End) into exactly one source file.
// Zero value is the empty span at offset 0.
type Span struct {
	Start int
	End   int
}

// NewSpan builds a Span, normalising a caller that passed the bounds
// reversed (defensive only — callers should never do this, but a reversed
// span would otherwise silently corrupt downstream slicing).
func NewSpan(start, end int) Span {
	if end < start {
		start, end = end, start
	}
	return Span{Start: start, End: end}
}

// Merge returns the smallest span containing both a and b.
func Merge(a, b Span) Span {
	start := a.Start
	if b.Start < start {
		start = b.Start
	}
	end := a.End
	if b.End > end {
		end = b.End
	}
	return Span{Start: start, End: end}
}

// Contains reports whether offset lies within the span.
func (s Span) Contains(offset int) bool { return offset >= s.Start && offset < s.End }

// Position is a 1-indexed (line, column) pair.
type Position struct {
	Line   int
	Column int
}

// LineNumbers maps byte offsets in one source file to (line, column) pairs.
// It is built once per file and is immutable thereafter.
type LineNumbers struct {
	src        string
	lineStarts []int // byte offset of the first byte of each line
}

// NewLineNumbers scans src once for newlines.
func NewLineNumbers(src string) *LineNumbers {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineNumbers{src: src, lineStarts: starts}
}

// LineCol converts a byte offset into a 1-indexed line/column pair. Columns
// are counted in bytes, not runes, matching the teacher's lexer/parser
// convention (ASCII-oriented source, UTF-8 multi-byte sequences rare in
// identifiers and normalised by internal/lexer before tokenising).
func (l *LineNumbers) LineCol(offset int) Position {
	// lineStarts is sorted by construction; binary-search the greatest
	// start <= offset.
	idx := sort.Search(len(l.lineStarts), func(i int) bool {
		return l.lineStarts[i] > offset
	}) - 1
	if idx < 0 {
		idx = 0
	}
	line := idx + 1
	col := offset - l.lineStarts[idx] + 1
	return Position{Line: line, Column: col}
}

// Text returns the substring covered by span, clamped to the source bounds.
func (l *LineNumbers) Text(span Span) string {
	start, end := span.Start, span.End
	if start < 0 {
		start = 0
	}
	if end > len(l.src) {
		end = len(l.src)
	}
	if start > end {
		return ""
	}
	return l.src[start:end]
}

// LineText returns the full source line (without trailing newline)
// containing offset, used when rendering a caret diagnostic.
func (l *LineNumbers) LineText(offset int) string {
	pos := l.LineCol(offset)
	start := l.lineStarts[pos.Line-1]
	end := len(l.src)
	if pos.Line < len(l.lineStarts) {
		end = l.lineStarts[pos.Line] - 1
		if end < start {
			end = start
		}
	}
	return l.src[start:end]
}
