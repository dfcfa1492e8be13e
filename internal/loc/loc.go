// Package loc defines the byte-offset span every AST node carries.
package loc

// Span is a range of bytes in the source text. The start is inclusive,
// the end is exclusive.
type Span struct {
	Start, End int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Offset returns a span shifted by n bytes. Used when translating an
// embedded program's spans into the enclosing file's coordinates.
func (s Span) Offset(n int) Span {
	return Span{Start: s.Start + n, End: s.End + n}
}

// Contains reports whether other lies entirely within s.
func (s Span) Contains(other Span) bool {
	return other.Start >= s.Start && other.End <= s.End
}

// Text returns the slice of source covered by the span.
func (s Span) Text(source string) string {
	return source[s.Start:s.End]
}
