// Package redshift provides the Amazon Redshift dialect.
package redshift

import (
	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/dialects/postgres"
)

func init() {
	dialect.Register(Redshift)
}

// Redshift extends PostgreSQL with SELECT TOP and QUALIFY.
var Redshift = dialect.New("redshift").
	Extends(postgres.Postgres.Name).
	Replace("select_clause", `SELECT [ select_clause_modifier ] [ top_clause ] select_clause_element { "," select_clause_element }`).
	Insert("top_clause", `TOP <number>`).
	Replace("select_statement", `select_clause [ from_clause ] [ where_clause ] [ groupby_clause ]
		[ having_clause ] [ qualify_clause ] [ orderby_clause ] [ limit_clause ]`).
	Insert("qualify_clause", `QUALIFY expression`).
	Reserved("TOP", "QUALIFY").
	MustBuild()
