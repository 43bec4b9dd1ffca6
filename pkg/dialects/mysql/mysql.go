// Package mysql provides the MySQL dialect.
package mysql

import (
	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/dialects/ansi"
	"github.com/leapstack-labs/leaplint/pkg/lexer"
)

func init() {
	dialect.Register(MySQL)
}

// ReservedWords contains the MySQL reserved words beyond ANSI.
var ReservedWords = []string{
	"DIV", "DUAL", "FORCE", "IGNORE", "INDEX", "KEY", "MOD", "REGEXP", "RLIKE",
	"STRAIGHT_JOIN", "XOR",
}

// MySQL swaps the quoting rules (backticks for identifiers, both quote styles
// for strings), adds # comments, the <=> operator and LIMIT offset, count.
var MySQL = dialect.New("mysql").
	Extends(ansi.ANSI.Name).
	Lexer(func(c *lexer.Config) {
		c.StringQuotes = []byte{'\'', '"'}
		c.LineComments = append(c.LineComments, "#")
		c.BackslashEscapes = true
	}).
	IdentifierQuotes(lexer.QuotePair{Open: '`', Close: '`'}).
	Operators("<=>", ":=", "&&").
	Replace("comparison_operator", `"=" | "<=>" | "<>" | "!=" | "<=" | ">=" | "<" | ">"`).
	Replace("_like_operator", `LIKE | REGEXP | RLIKE`).
	Replace("_multiplicative", `_unary { ( "*" | "/" | "%" | DIV | MOD ) _unary }`).
	Replace("_or_expression", `_xor_expression { ( OR | "||" ) _xor_expression }`).
	Insert("_xor_expression", `_and_expression { XOR _and_expression }`).
	Replace("_and_expression", `_not_expression { ( AND | "&&" ) _not_expression }`).
	Replace("binary_operator", `"+" | "-"`).
	Replace("limit_clause", `LIMIT expression [ "," expression | OFFSET expression ]`).
	Replace("insert_statement", `( INSERT [ IGNORE ] | REPLACE ) [ INTO ] table_reference [ insert_column_list ]
		( values_clause | _query ) [ on_duplicate_clause ]`).
	Insert("on_duplicate_clause", `ON DUPLICATE KEY UPDATE set_clause { "," set_clause }`).
	Reserved(ReservedWords...).
	MustBuild()
