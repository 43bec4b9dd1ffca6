// Package token defines the lexical tokens produced by the lexer.
package token

import "fmt"

// Kind classifies a token.
type Kind int

// Token kinds.
const (
	Unlexable Kind = iota
	Keyword
	Identifier
	Literal
	Whitespace
	Comment
	Newline
	Symbol
	EOF
)

var kindNames = [...]string{
	Unlexable:  "unlexable",
	Keyword:    "keyword",
	Identifier: "identifier",
	Literal:    "literal",
	Whitespace: "whitespace",
	Comment:    "comment",
	Newline:    "newline",
	Symbol:     "symbol",
	EOF:        "eof",
}

// String returns the lowercase kind name. It doubles as the segment type of
// leaves that wrap a token of this kind.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsCode returns true for tokens that carry grammar meaning.
// Whitespace, newlines, comments and EOF are trivia.
func (k Kind) IsCode() bool {
	switch k {
	case Whitespace, Newline, Comment, EOF:
		return false
	}
	return true
}

// Token is a contiguous slice of source text.
type Token struct {
	Kind Kind
	Raw  string
	Pos  Position
}

// End returns the position immediately after the token.
func (t Token) End() Position {
	return Advance(t.Pos, t.Raw)
}

// Span returns the source range covered by the token.
func (t Token) Span() Span {
	return Span{Start: t.Pos, End: t.End()}
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Kind, t.Raw, t.Pos.Line, t.Pos.Column)
}

// Advance moves pos past text, tracking lines and columns.
// "\r\n" counts as a single line break.
func Advance(pos Position, text string) Position {
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			pos.Line++
			pos.Column = 1
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				pos.Offset++
				continue
			}
			pos.Line++
			pos.Column = 1
		default:
			// Count columns in runes, not bytes.
			if text[i]&0xC0 != 0x80 {
				pos.Column++
			}
		}
		pos.Offset++
	}
	return pos
}
