// Package postgres provides the PostgreSQL dialect.
//
// This package is pure Go with no database driver dependencies.
package postgres

import (
	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/dialects/ansi"
	"github.com/leapstack-labs/leaplint/pkg/dialects/internal/common"
	"github.com/leapstack-labs/leaplint/pkg/lexer"
)

func init() {
	dialect.Register(Postgres)
}

// ReservedWords contains the PostgreSQL reserved words beyond ANSI.
var ReservedWords = []string{
	"ANY", "ARRAY", "ASYMMETRIC", "AUTHORIZATION", "BOTH", "CHECK", "COLLATE",
	"COLUMN", "CURRENT_CATALOG", "CURRENT_ROLE", "CURRENT_SCHEMA", "DEFERRABLE",
	"DO", "FETCH", "FOR", "FOREIGN", "GRANT", "ILIKE", "INITIALLY", "LATERAL",
	"LEADING", "LOCALTIME", "LOCALTIMESTAMP", "ONLY", "PLACING", "RETURNING",
	"SIMILAR", "SOME", "SYMMETRIC", "TO", "TRAILING", "USER", "VARIADIC", "WINDOW",
}

// Postgres extends ANSI with :: casts, ILIKE, RETURNING, DISTINCT ON,
// array literals, dollar quoting and nested block comments.
var Postgres = dialect.New("postgres").
	Extends(ansi.ANSI.Name).
	Lexer(func(c *lexer.Config) {
		c.NestedBlockComments = true
		c.DollarQuotedStrings = true
	}).
	Operators("::", "->>", "->", "#>>", "#>", "@>", "<@").
	Insert("shorthand_cast", common.ShorthandCast).
	Replace("_postfix", common.PostfixWithCast).
	Replace("_like_operator", `LIKE | ILIKE | SIMILAR TO`).
	Replace("binary_operator", `"+" | "-" | "||" | "->>" | "->" | "#>>" | "#>" | "@>" | "<@"`).
	Replace("select_clause_modifier", `DISTINCT ON bracketed_expression | DISTINCT | ALL`).
	Replace("function_name", `<identifier> { "." <identifier> } | LEFT | RIGHT | ANY | SOME`).
	Replace("_primary", `case_expression | cast_expression | exists_expression | typed_literal
		| array_literal | function | bare_function | bracketed_query | bracketed_expression
		| NULL | TRUE | FALSE | <literal> | column_reference | parameter`).
	Insert("array_literal", `ARRAY "[" [ expression { "," expression } ] "]"`).
	Replace("parameter", `"?" | ":" <identifier> | "$" <number>`).
	Replace("insert_statement", `INSERT INTO table_reference [ insert_column_list ] ( values_clause | _query )
		[ on_conflict_clause ] [ returning_clause ]`).
	Insert("on_conflict_clause", `ON CONFLICT [ insert_column_list ] DO ( NOTHING | UPDATE set_clause_list [ where_clause ] )`).
	Replace("update_statement", `UPDATE [ ONLY ] table_reference [ alias_expression ] set_clause_list [ from_clause ]
		[ where_clause ] [ returning_clause ]`).
	Replace("delete_statement", `DELETE FROM [ ONLY ] table_reference [ alias_expression ] [ using_clause ]
		[ where_clause ] [ returning_clause ]`).
	Insert("using_clause", `USING from_expression { "," from_expression }`).
	Insert("returning_clause", `RETURNING select_clause_element { "," select_clause_element }`).
	Reserved(ReservedWords...).
	MustBuild()
