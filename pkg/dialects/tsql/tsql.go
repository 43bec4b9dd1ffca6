// Package tsql provides the Microsoft T-SQL dialect.
package tsql

import (
	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/dialects/ansi"
	"github.com/leapstack-labs/leaplint/pkg/lexer"
)

func init() {
	dialect.Register(TSQL)
}

// TSQL uses bracket identifiers, SELECT TOP and OFFSET/FETCH instead of
// LIMIT, @variables and nested block comments.
var TSQL = dialect.New("tsql").
	Extends(ansi.ANSI.Name).
	Lexer(func(c *lexer.Config) {
		c.NestedBlockComments = true
	}).
	IdentifierQuotes(
		lexer.QuotePair{Open: '[', Close: ']'},
		lexer.QuotePair{Open: '"', Close: '"'},
	).
	Replace("select_clause", `SELECT [ select_clause_modifier ] [ top_clause ] select_clause_element { "," select_clause_element }`).
	Insert("top_clause", `TOP ( <number> | "(" expression ")" ) [ PERCENT ] [ WITH TIES ]`).
	Replace("limit_clause", `OFFSET expression ( ROWS | ROW ) [ FETCH ( FIRST | NEXT ) expression ( ROWS | ROW ) ONLY ]`).
	Replace("parameter", `"?" | "@" <identifier>`).
	Replace("binary_operator", `"+" | "-"`).
	Reserved("TOP", "PERCENT", "FETCH").
	RemoveKeywords("LIMIT").
	MustBuild()
