// Package sqlite provides the SQLite dialect.
package sqlite

import (
	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/dialects/ansi"
	"github.com/leapstack-labs/leaplint/pkg/lexer"
)

func init() {
	dialect.Register(SQLite)
}

// SQLite accepts three identifier quote styles, == comparisons,
// INSERT OR <conflict> and the GLOB and REGEXP operators.
var SQLite = dialect.New("sqlite").
	Extends(ansi.ANSI.Name).
	IdentifierQuotes(
		lexer.QuotePair{Open: '"', Close: '"'},
		lexer.QuotePair{Open: '`', Close: '`'},
		lexer.QuotePair{Open: '[', Close: ']'},
	).
	Operators("==").
	Replace("comparison_operator", `"==" | "=" | "<>" | "!=" | "<=" | ">=" | "<" | ">"`).
	Replace("_like_operator", `LIKE | GLOB | REGEXP | MATCH`).
	Replace("insert_statement", `( INSERT [ OR conflict_resolution ] | REPLACE ) INTO table_reference
		[ insert_column_list ] ( values_clause | _query | DEFAULT VALUES )`).
	Insert("conflict_resolution", `REPLACE | IGNORE | ABORT | FAIL | ROLLBACK`).
	Replace("create_table_statement", `CREATE [ TEMPORARY | TEMP ] TABLE [ IF NOT EXISTS ] table_reference
		( "(" table_element { "," table_element } ")" [ WITHOUT ROWID ] | AS _query )`).
	Reserved("GLOB", "REGEXP", "MATCH").
	MustBuild()
