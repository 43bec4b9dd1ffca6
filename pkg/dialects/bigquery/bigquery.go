// Package bigquery provides the Google BigQuery dialect.
package bigquery

import (
	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/dialects/ansi"
	"github.com/leapstack-labs/leaplint/pkg/dialects/internal/common"
	"github.com/leapstack-labs/leaplint/pkg/lexer"
)

func init() {
	dialect.Register(BigQuery)
}

// ReservedWords contains the BigQuery reserved words beyond ANSI.
var ReservedWords = []string{
	"ANY", "ARRAY", "ASSERT_ROWS_MODIFIED", "COLLATE", "CONTAINS", "CUBE",
	"DEFINE", "ENUM", "ESCAPE", "EXCLUDE", "EXTRACT", "FETCH", "FOLLOWING",
	"FOR", "GROUPING", "GROUPS", "HASH", "IF", "IGNORE", "INTERVAL", "LATERAL",
	"LOOKUP", "MERGE", "NEW", "NO", "NULLS", "OF", "PRECEDING", "PROTO",
	"QUALIFY", "RANGE", "RECURSIVE", "RESPECT", "ROLLUP", "ROWS", "SOME",
	"STRUCT", "TABLESAMPLE", "TO", "TREAT", "UNBOUNDED", "WINDOW", "WITHIN",
}

// BigQuery uses backtick identifiers, both quote styles for strings,
// # comments, QUALIFY and SELECT * EXCEPT/REPLACE.
var BigQuery = dialect.New("bigquery").
	Extends(ansi.ANSI.Name).
	Lexer(func(c *lexer.Config) {
		c.StringQuotes = []byte{'\'', '"'}
		c.LineComments = append(c.LineComments, "#")
		c.BackslashEscapes = true
	}).
	IdentifierQuotes(lexer.QuotePair{Open: '`', Close: '`'}).
	Replace("select_statement", common.SelectWithQualify).
	Insert("qualify_clause", common.QualifyClause).
	Insert("window_clause", common.WindowClause).
	Replace("wildcard_expression", common.WildcardWithModifiers).
	Insert("wildcard_exclude", common.WildcardExclude("EXCEPT")).
	Insert("wildcard_replace", common.WildcardReplace).
	Replace("set_operator", `( UNION | INTERSECT | EXCEPT ) ( ALL | DISTINCT )`).
	Replace("function_name", `<identifier> { "." <identifier> } | LEFT | RIGHT | IF`).
	Replace("table_reference", `<identifier> { ( "." | "-" ) <identifier> }`).
	Reserved(ReservedWords...).
	MustBuild()
