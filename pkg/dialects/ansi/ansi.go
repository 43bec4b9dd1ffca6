// Package ansi provides the root ANSI SQL dialect.
//
// This dialect serves as the foundation for all other SQL dialects. Child
// dialects extend it by replacing or inserting grammar rules and patching
// its keyword sets and lexing rules.
package ansi

import (
	"github.com/leapstack-labs/leaplint/pkg/dialect"
)

func init() {
	dialect.Register(ANSI)
}

// ReservedWords are the ANSI keywords that can never be bare identifiers.
var ReservedWords = []string{
	"ALL", "AND", "AS", "ASC", "BETWEEN", "BY", "CASE", "CAST", "CONSTRAINT",
	"CREATE", "CROSS", "CURRENT_DATE", "CURRENT_TIME", "CURRENT_TIMESTAMP",
	"CURRENT_USER", "DEFAULT", "DELETE", "DESC", "DISTINCT", "DROP", "ELSE",
	"END", "EXCEPT", "EXISTS", "FALSE", "FROM", "FULL", "GROUP", "HAVING", "IN",
	"INNER", "INSERT", "INTERSECT", "INTO", "IS", "JOIN", "LEFT", "LIKE",
	"LIMIT", "NATURAL", "NOT", "NULL", "OFFSET", "ON", "OR", "ORDER", "OUTER",
	"OVER", "PARTITION", "PRIMARY", "REFERENCES", "RIGHT", "SELECT",
	"SESSION_USER", "SET", "TABLE", "THEN", "TRUE", "UNION", "UNIQUE",
	"UPDATE", "USING", "VALUES", "VIEW", "WHEN", "WHERE", "WITH",
}

// ANSI is the root dialect.
var ANSI = dialect.New("ansi").
	// Statements
	Insert("statement", `with_compound_statement | set_expression | select_statement
		| insert_statement | update_statement | delete_statement
		| create_table_statement | create_view_statement | drop_statement`).
	Insert("_query", `with_compound_statement | set_expression | select_statement | bracketed_query`).
	Insert("bracketed_query", `"(" _query ")"`).
	Insert("with_compound_statement", `WITH [ RECURSIVE ] cte_definition { "," cte_definition }
		( set_expression | select_statement | insert_statement | update_statement | delete_statement )`).
	Insert("cte_definition", `<identifier> [ cte_column_list ] AS bracketed_query`).
	Insert("cte_column_list", `"(" <identifier> { "," <identifier> } ")"`).
	Insert("set_expression", `_set_operand ( set_operator _set_operand )+ [ orderby_clause ] [ limit_clause ]`).
	Insert("_set_operand", `select_statement | bracketed_query`).
	Insert("set_operator", `( UNION | INTERSECT | EXCEPT ) [ ALL | DISTINCT ]`).

	// SELECT
	Insert("select_statement", `select_clause [ from_clause ] [ where_clause ] [ groupby_clause ]
		[ having_clause ] [ orderby_clause ] [ limit_clause ]`).
	Insert("select_clause", `SELECT [ select_clause_modifier ] select_clause_element { "," select_clause_element }`).
	Insert("select_clause_modifier", `DISTINCT | ALL`).
	Insert("select_clause_element", `wildcard_expression | expression [ alias_expression ]`).
	Insert("wildcard_expression", `[ ( <identifier> "." )+ ] "*"`).
	Insert("alias_expression", `[ AS ] <identifier>`).
	Insert("from_clause", `FROM from_expression { "," from_expression }`).
	Insert("from_expression", `from_expression_element { join_clause }`).
	Insert("from_expression_element", `table_expression [ alias_expression ]`).
	Insert("table_expression", `bracketed_query | function | table_reference`).
	Insert("table_reference", `<identifier> { "." <identifier> }`).
	Insert("join_clause", `( CROSS JOIN | NATURAL [ join_type ] JOIN ) from_expression_element
		| [ join_type ] JOIN from_expression_element [ join_on_condition | join_using_condition ]`).
	Insert("join_type", `INNER | LEFT [ OUTER ] | RIGHT [ OUTER ] | FULL [ OUTER ]`).
	Insert("join_on_condition", `ON expression`).
	Insert("join_using_condition", `USING "(" <identifier> { "," <identifier> } ")"`).
	Insert("where_clause", `WHERE expression`).
	Insert("groupby_clause", `GROUP BY expression { "," expression }`).
	Insert("having_clause", `HAVING expression`).
	Insert("orderby_clause", `ORDER BY ordering_expression { "," ordering_expression }`).
	Insert("ordering_expression", `expression [ ASC | DESC ] [ NULLS ( FIRST | LAST ) ]`).
	Insert("limit_clause", `LIMIT expression [ OFFSET expression ] | OFFSET expression [ ROWS | ROW ]`).

	// Expressions, lowest precedence first. Underscore rules are transparent
	// so operators and operands stay flat inside one expression segment.
	Insert("expression", `_or_expression`).
	Insert("_or_expression", `_and_expression { OR _and_expression }`).
	Insert("_and_expression", `_not_expression { AND _not_expression }`).
	Insert("_not_expression", `NOT _not_expression | _comparison`).
	Insert("_comparison", `_additive [ _comparison_tail ]`).
	Insert("_comparison_tail", `comparison_operator _additive
		| IS [ NOT ] ( NULL | TRUE | FALSE | DISTINCT FROM _additive )
		| [ NOT ] IN "(" ( _query | expression { "," expression } ) ")"
		| [ NOT ] BETWEEN _additive AND _additive
		| [ NOT ] _like_operator _additive [ ESCAPE _additive ]`).
	Insert("_like_operator", `LIKE`).
	Insert("comparison_operator", `"=" | "<>" | "!=" | "<=" | ">=" | "<" | ">"`).
	Insert("_additive", `_multiplicative { binary_operator _multiplicative }`).
	Insert("binary_operator", `"+" | "-" | "||"`).
	Insert("_multiplicative", `_unary { ( "*" | "/" | "%" ) _unary }`).
	Insert("_unary", `( "-" | "+" ) _unary | _postfix`).
	Insert("_postfix", `_primary`).
	Insert("_primary", `case_expression | cast_expression | exists_expression | typed_literal
		| function | bare_function | bracketed_query | bracketed_expression
		| NULL | TRUE | FALSE | <literal> | column_reference | parameter`).
	Insert("bracketed_expression", `"(" expression { "," expression } ")"`).
	Insert("column_reference", `<identifier> { "." <identifier> }`).
	Insert("parameter", `"?" | ":" <identifier>`).
	Insert("typed_literal", `( DATE | TIME | TIMESTAMP | INTERVAL ) <string>`).
	Insert("bare_function", `CURRENT_DATE | CURRENT_TIME | CURRENT_TIMESTAMP | CURRENT_USER | SESSION_USER`).
	Insert("exists_expression", `EXISTS bracketed_query`).
	Insert("case_expression", `CASE [ expression ] ( when_clause )+ [ else_clause ] END`).
	Insert("when_clause", `WHEN expression THEN expression`).
	Insert("else_clause", `ELSE expression`).
	Insert("cast_expression", `CAST "(" expression AS data_type ")"`).
	Insert("data_type", `( DOUBLE PRECISION | CHARACTER VARYING | <identifier> ) [ "(" <number> { "," <number> } ")" ]`).
	Insert("function", `function_name function_contents [ over_clause ]`).
	Insert("function_name", `<identifier> { "." <identifier> } | LEFT | RIGHT`).
	Insert("function_contents", `"(" [ DISTINCT | ALL ] [ "*" | expression { "," expression } ] [ orderby_clause ] ")"`).
	Insert("over_clause", `OVER ( window_specification | <identifier> )`).
	Insert("window_specification", `"(" [ partitionby_clause ] [ orderby_clause ] [ frame_clause ] ")"`).
	Insert("partitionby_clause", `PARTITION BY expression { "," expression }`).
	Insert("frame_clause", `( ROWS | RANGE ) ( BETWEEN frame_bound AND frame_bound | frame_bound )`).
	Insert("frame_bound", `UNBOUNDED ( PRECEDING | FOLLOWING ) | CURRENT ROW | expression ( PRECEDING | FOLLOWING )`).

	// DML
	Insert("insert_statement", `INSERT INTO table_reference [ insert_column_list ] ( values_clause | _query )`).
	Insert("insert_column_list", `"(" <identifier> { "," <identifier> } ")"`).
	Insert("values_clause", `VALUES values_row { "," values_row }`).
	Insert("values_row", `"(" expression { "," expression } ")"`).
	Insert("update_statement", `UPDATE table_reference [ alias_expression ] set_clause_list [ from_clause ] [ where_clause ]`).
	Insert("set_clause_list", `SET set_clause { "," set_clause }`).
	Insert("set_clause", `column_reference "=" expression`).
	Insert("delete_statement", `DELETE FROM table_reference [ alias_expression ] [ where_clause ]`).

	// DDL
	Insert("create_table_statement", `CREATE [ TEMPORARY | TEMP ] TABLE [ IF NOT EXISTS ] table_reference
		( "(" table_element { "," table_element } ")" | AS _query )`).
	Insert("table_element", `table_constraint | column_definition`).
	Insert("column_definition", `<identifier> data_type { column_constraint }`).
	Insert("column_constraint", `NOT NULL | NULL | PRIMARY KEY | UNIQUE | DEFAULT _primary
		| REFERENCES table_reference [ "(" <identifier> ")" ]`).
	Insert("table_constraint", `[ CONSTRAINT <identifier> ] ( PRIMARY KEY | UNIQUE ) "(" <identifier> { "," <identifier> } ")"`).
	Insert("create_view_statement", `CREATE [ OR REPLACE ] VIEW table_reference AS _query`).
	Insert("drop_statement", `DROP ( TABLE | VIEW ) [ IF EXISTS ] table_reference { "," table_reference } [ CASCADE | RESTRICT ]`).
	Reserved(ReservedWords...).
	MustBuild()
