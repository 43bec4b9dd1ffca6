// Package snowflake provides the Snowflake dialect.
package snowflake

import (
	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/dialects/ansi"
	"github.com/leapstack-labs/leaplint/pkg/dialects/internal/common"
	"github.com/leapstack-labs/leaplint/pkg/lexer"
)

func init() {
	dialect.Register(Snowflake)
}

// ReservedWords contains the Snowflake reserved words beyond ANSI.
var ReservedWords = []string{
	"ILIKE", "INCREMENT", "LATERAL", "MINUS", "QUALIFY", "REGEXP", "RLIKE",
	"SAMPLE", "SOME", "TABLESAMPLE", "TRY_CAST",
}

// Snowflake adds QUALIFY, ILIKE, :: casts, MINUS, $$ strings, // comments
// and SELECT * EXCLUDE.
var Snowflake = dialect.New("snowflake").
	Extends(ansi.ANSI.Name).
	Lexer(func(c *lexer.Config) {
		c.DollarQuotedStrings = true
		c.LineComments = append(c.LineComments, "//")
	}).
	Operators("::").
	Insert("shorthand_cast", common.ShorthandCast).
	Replace("_postfix", common.PostfixWithCast).
	Replace("_like_operator", common.LikeWithILike+` | REGEXP`).
	Replace("select_statement", common.SelectWithQualify).
	Insert("qualify_clause", common.QualifyClause).
	Insert("window_clause", common.WindowClause).
	Replace("wildcard_expression", common.WildcardWithModifiers).
	Insert("wildcard_exclude", common.WildcardExclude("EXCLUDE")).
	Insert("wildcard_replace", common.WildcardReplace).
	Replace("set_operator", `( UNION | INTERSECT | EXCEPT | MINUS ) [ ALL | DISTINCT ]`).
	Replace("cast_expression", `( CAST | TRY_CAST ) "(" expression AS data_type ")"`).
	Reserved(ReservedWords...).
	MustBuild()
