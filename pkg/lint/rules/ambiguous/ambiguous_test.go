package ambiguous_test

import (
	"testing"

	"github.com/leapstack-labs/leaplint/internal/testutil/ruletest"
)

func TestAM01_Distinct(t *testing.T) {
	ruletest.Run(t, "AM01", []ruletest.Case{
		{
			Name:    "distinct with group by",
			SQL:     "SELECT DISTINCT a FROM t GROUP BY a",
			Message: "DISTINCT is redundant with GROUP BY",
		},
		{
			Name:    "in a subquery",
			SQL:     "SELECT * FROM (SELECT DISTINCT a FROM t GROUP BY a) AS s",
			Message: "DISTINCT is redundant with GROUP BY",
		},
		{
			Name: "group by only",
			SQL:  "SELECT a FROM t GROUP BY a",
		},
		{
			Name: "distinct only",
			SQL:  "SELECT DISTINCT a FROM t",
		},
		{
			Name: "select all with group by",
			SQL:  "SELECT ALL a FROM t GROUP BY a",
		},
	})
}

func TestAM02_Union(t *testing.T) {
	ruletest.Run(t, "AM02", []ruletest.Case{
		{
			Name:    "bare union",
			SQL:     "SELECT a FROM t UNION SELECT a FROM u",
			Message: "Use UNION DISTINCT or UNION ALL instead of bare UNION",
			Fixed:   "SELECT a FROM t UNION DISTINCT SELECT a FROM u",
		},
		{
			Name:    "lower case",
			SQL:     "select a from t union select a from u",
			Message: "Use UNION DISTINCT or UNION ALL instead of bare UNION",
			Fixed:   "select a from t union distinct select a from u",
		},
		{
			Name: "union all",
			SQL:  "SELECT a FROM t UNION ALL SELECT a FROM u",
		},
		{
			Name: "union distinct",
			SQL:  "SELECT a FROM t UNION DISTINCT SELECT a FROM u",
		},
		{
			Name: "intersect",
			SQL:  "SELECT a FROM t INTERSECT SELECT a FROM u",
		},
	})
}
