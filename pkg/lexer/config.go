package lexer

import (
	"sort"
	"strings"
)

// QuotePair describes an opening and closing quote for delimited identifiers.
type QuotePair struct {
	Open  byte
	Close byte
}

// Config holds the dialect specific lexing rules.
type Config struct {
	// StringQuotes open and close string literals (usually just ').
	StringQuotes []byte
	// IdentifierQuotes delimit quoted identifiers ("x", `x`, [x]).
	IdentifierQuotes []QuotePair
	// LineComments start a comment that runs to the end of the line.
	LineComments []string
	// BlockCommentOpen and BlockCommentClose delimit block comments.
	BlockCommentOpen  string
	BlockCommentClose string
	// NestedBlockComments allows /* /* */ */ nesting.
	NestedBlockComments bool
	// BackslashEscapes treats \ as an escape inside string literals.
	BackslashEscapes bool
	// DollarQuotedStrings enables $$...$$ and $tag$...$tag$ literals.
	DollarQuotedStrings bool
	// Operators are multi-character symbols matched before single characters.
	Operators []string
	// Keywords maps uppercase words to true. Words not in the set lex as identifiers.
	Keywords map[string]bool
}

// DefaultConfig returns the ANSI lexing rules with an empty keyword set.
func DefaultConfig() Config {
	return Config{
		StringQuotes:      []byte{'\''},
		IdentifierQuotes:  []QuotePair{{Open: '"', Close: '"'}},
		LineComments:      []string{"--"},
		BlockCommentOpen:  "/*",
		BlockCommentClose: "*/",
		Operators:         []string{"<>", "!=", "<=", ">=", "||"},
		Keywords:          map[string]bool{},
	}
}

// Clone returns a deep copy that can be patched without affecting the original.
func (c Config) Clone() Config {
	out := c
	out.StringQuotes = append([]byte(nil), c.StringQuotes...)
	out.IdentifierQuotes = append([]QuotePair(nil), c.IdentifierQuotes...)
	out.LineComments = append([]string(nil), c.LineComments...)
	out.Operators = append([]string(nil), c.Operators...)
	out.Keywords = make(map[string]bool, len(c.Keywords))
	for k, v := range c.Keywords {
		out.Keywords[k] = v
	}
	return out
}

// IsKeyword reports whether word lexes as a keyword.
func (c Config) IsKeyword(word string) bool {
	return c.Keywords[strings.ToUpper(word)]
}

// sortedOperators returns operators longest first so matching is greedy.
func (c Config) sortedOperators() []string {
	ops := append([]string(nil), c.Operators...)
	sort.SliceStable(ops, func(i, j int) bool {
		return len(ops[i]) > len(ops[j])
	})
	return ops
}
