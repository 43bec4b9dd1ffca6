package structure_test

import (
	"testing"

	"github.com/leapstack-labs/leaplint/internal/testutil/ruletest"
)

func TestST01_ElseNull(t *testing.T) {
	ruletest.Run(t, "ST01", []ruletest.Case{
		{
			Name:    "else null",
			SQL:     "SELECT CASE WHEN a THEN 1 ELSE NULL END FROM t",
			Message: "Redundant ELSE NULL in CASE expression",
			Fixed:   "SELECT CASE WHEN a THEN 1 END FROM t",
		},
		{
			Name:    "else null on its own line",
			SQL:     "SELECT\n  CASE\n    WHEN a THEN 1\n    ELSE NULL\n  END\nFROM t\n",
			Message: "Redundant ELSE NULL in CASE expression",
			Fixed:   "SELECT\n  CASE\n    WHEN a THEN 1\n  END\nFROM t\n",
		},
		{
			Name: "else value",
			SQL:  "SELECT CASE WHEN a THEN 1 ELSE 0 END FROM t",
		},
		{
			Name: "no else",
			SQL:  "SELECT CASE WHEN a THEN 1 END FROM t",
		},
	})
}

func TestST10_ConstantExpression(t *testing.T) {
	ruletest.Run(t, "ST10", []ruletest.Case{
		{
			Name:    "one equals one",
			SQL:     "SELECT * FROM t WHERE 1 = 1 AND a > 0",
			Message: "Comparison 1 = 1 is always true",
		},
		{
			Name:    "decimal aware",
			SQL:     "SELECT * FROM t WHERE 1.0 = 1",
			Message: "Comparison 1.0 = 1 is always true",
		},
		{
			Name:    "always false",
			SQL:     "SELECT * FROM t WHERE a > 0 OR 1 = 0",
			Message: "Comparison 1 = 0 is always false",
		},
		{
			Name:    "not equal strings",
			SQL:     "SELECT * FROM t WHERE 'a' <> 'a'",
			Message: "Comparison 'a' <> 'a' is always false",
		},
		{
			Name: "column comparison",
			SQL:  "SELECT * FROM t WHERE a = 1",
		},
		{
			Name: "arithmetic operand",
			SQL:  "SELECT * FROM t WHERE 1 + 1 = 2",
		},
		{
			Name: "mixed literal kinds",
			SQL:  "SELECT * FROM t WHERE 1 = '1'",
		},
		{
			Name: "ordering comparison",
			SQL:  "SELECT * FROM t WHERE 1 < 2",
		},
	})
}
