// Package databricks provides the Databricks (Spark SQL) dialect.
package databricks

import (
	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/dialects/ansi"
	"github.com/leapstack-labs/leaplint/pkg/dialects/internal/common"
	"github.com/leapstack-labs/leaplint/pkg/lexer"
)

func init() {
	dialect.Register(Databricks)
}

// Databricks uses backtick identifiers, both quote styles for strings,
// :: casts, QUALIFY and the LEFT SEMI / LEFT ANTI joins.
var Databricks = dialect.New("databricks").
	Extends(ansi.ANSI.Name).
	Lexer(func(c *lexer.Config) {
		c.StringQuotes = []byte{'\'', '"'}
		c.BackslashEscapes = true
	}).
	IdentifierQuotes(lexer.QuotePair{Open: '`', Close: '`'}).
	Operators("::", "<=>", "==").
	Insert("shorthand_cast", common.ShorthandCast).
	Replace("_postfix", common.PostfixWithCast).
	Replace("_like_operator", common.LikeWithILike).
	Replace("comparison_operator", `"=" | "==" | "<=>" | "<>" | "!=" | "<=" | ">=" | "<" | ">"`).
	Replace("select_statement", common.SelectWithQualify).
	Insert("qualify_clause", common.QualifyClause).
	Insert("window_clause", common.WindowClause).
	Replace("wildcard_expression", common.WildcardWithModifiers).
	Insert("wildcard_exclude", common.WildcardExclude("EXCEPT")).
	Insert("wildcard_replace", common.WildcardReplace).
	Replace("join_type", `INNER | LEFT [ OUTER | SEMI | ANTI ] | RIGHT [ OUTER ] | FULL [ OUTER ] | SEMI | ANTI`).
	Reserved("QUALIFY", "ILIKE", "RLIKE", "SEMI", "ANTI", "MINUS").
	MustBuild()
