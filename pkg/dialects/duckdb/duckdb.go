// Package duckdb provides the DuckDB dialect.
//
// DuckDB follows PostgreSQL syntax and adds QUALIFY, GROUP BY ALL,
// ORDER BY ALL and the star modifiers EXCLUDE and REPLACE.
package duckdb

import (
	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/dialects/internal/common"
	"github.com/leapstack-labs/leaplint/pkg/dialects/postgres"
)

func init() {
	dialect.Register(DuckDB)
}

// DuckDB is the DuckDB dialect.
var DuckDB = dialect.New("duckdb").
	Extends(postgres.Postgres.Name).
	Replace("select_statement", common.SelectWithQualify).
	Insert("qualify_clause", common.QualifyClause).
	Insert("window_clause", common.WindowClause).
	Replace("wildcard_expression", common.WildcardWithModifiers).
	Insert("wildcard_exclude", common.WildcardExclude("EXCLUDE")).
	Insert("wildcard_replace", common.WildcardReplace).
	Replace("groupby_clause", `GROUP BY ( ALL | expression { "," expression } )`).
	Replace("orderby_clause", `ORDER BY ( ALL [ ASC | DESC ] | ordering_expression { "," ordering_expression } )`).
	Replace("join_type", `INNER | LEFT [ OUTER | SEMI | ANTI ] | RIGHT [ OUTER ] | FULL [ OUTER ] | SEMI | ANTI | ASOF [ LEFT ]`).
	Reserved("QUALIFY", "SEMI", "ANTI", "ASOF").
	MustBuild()
