// Package common holds grammar fragments shared by several dialects.
package common

// Grammar fragments for the QUALIFY clause.
const (
	QualifyClause = `QUALIFY expression`

	SelectWithQualify = `select_clause [ from_clause ] [ where_clause ] [ groupby_clause ]
		[ having_clause ] [ window_clause ] [ qualify_clause ] [ orderby_clause ] [ limit_clause ]`

	WindowClause = `WINDOW <identifier> AS window_specification { "," <identifier> AS window_specification }`
)

// Grammar fragments for the postfix :: cast operator.
const (
	ShorthandCast = `_primary ( "::" data_type [ "[" "]" ] )+`

	PostfixWithCast = `shorthand_cast | _primary`
)

// LikeWithILike extends the LIKE family with case-insensitive matching.
const LikeWithILike = `LIKE | ILIKE | RLIKE`

// WildcardWithModifiers allows `* EXCLUDE (...)` and `* REPLACE (...)`.
const WildcardWithModifiers = `[ ( <identifier> "." )+ ] "*" [ wildcard_exclude ] [ wildcard_replace ]`

// Fragments referenced by WildcardWithModifiers. keyword is EXCLUDE or EXCEPT.
func WildcardExclude(keyword string) string {
	return keyword + ` ( "(" <identifier> { "," <identifier> } ")" | <identifier> )`
}

const WildcardReplace = `REPLACE "(" expression [ AS ] <identifier> { "," expression [ AS ] <identifier> } ")"`
