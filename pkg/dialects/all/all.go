// Package all registers every bundled dialect. Import it for side effects.
package all

import (
	// Register all dialects.
	_ "github.com/leapstack-labs/leaplint/pkg/dialects/ansi"
	_ "github.com/leapstack-labs/leaplint/pkg/dialects/bigquery"
	_ "github.com/leapstack-labs/leaplint/pkg/dialects/databricks"
	_ "github.com/leapstack-labs/leaplint/pkg/dialects/duckdb"
	_ "github.com/leapstack-labs/leaplint/pkg/dialects/mysql"
	_ "github.com/leapstack-labs/leaplint/pkg/dialects/postgres"
	_ "github.com/leapstack-labs/leaplint/pkg/dialects/redshift"
	_ "github.com/leapstack-labs/leaplint/pkg/dialects/snowflake"
	_ "github.com/leapstack-labs/leaplint/pkg/dialects/sqlite"
	_ "github.com/leapstack-labs/leaplint/pkg/dialects/tsql"
)
