package token

import "strconv"

// Position represents a location in the source code.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
	Offset int // 0-based byte offset
}

// IsValid returns true if the position is valid (line > 0).
func (p Position) IsValid() bool {
	return p.Line > 0
}

// String renders the position as line:column.
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Span represents a range in source code. End is exclusive.
type Span struct {
	Start Position
	End   Position
}

// Contains returns true if the span contains the given offset.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start.Offset && offset < s.End.Offset
}

// IsValid returns true if both start and end positions are valid.
func (s Span) IsValid() bool {
	return s.Start.IsValid() && s.End.IsValid()
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}

// Overlaps reports whether two spans share at least one byte.
// Empty spans never overlap anything.
func (s Span) Overlaps(o Span) bool {
	if s.Len() <= 0 || o.Len() <= 0 {
		return false
	}
	return s.Start.Offset < o.End.Offset && o.Start.Offset < s.End.Offset
}

// String renders the span as line:column-line:column.
func (s Span) String() string {
	return s.Start.String() + "-" + s.End.String()
}
