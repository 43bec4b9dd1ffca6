package ambiguous

import (
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
)

func init() {
	lint.Register(Distinct)
}

// Distinct flags SELECT DISTINCT combined with GROUP BY.
var Distinct = lint.RuleDef{
	ID:          "AM01",
	Name:        "ambiguous.distinct",
	Group:       "ambiguous",
	Description: "Ambiguous use of DISTINCT in a SELECT statement with GROUP BY.",
	Severity:    core.SeverityWarning,
	Crawls:      []string{"select_statement"},
	Check:       checkDistinct,
	Rationale:   "GROUP BY already produces one row per group, so DISTINCT is redundant.",
	BadExample:  "SELECT DISTINCT a FROM t GROUP BY a",
	GoodExample: "SELECT a FROM t GROUP BY a",
}

func checkDistinct(ctx *lint.Context) ([]lint.Violation, error) {
	var modifier, groupBy bool
	for _, c := range ctx.Tree.Children(ctx.Segment) {
		switch ctx.Tree.Type(c) {
		case "select_clause":
			for _, m := range ctx.Tree.Children(c) {
				if ctx.Tree.Type(m) == "select_clause_modifier" &&
					strings.EqualFold(strings.TrimSpace(ctx.Raw(m)), "DISTINCT") {
					modifier = true
				}
			}
		case "groupby_clause":
			groupBy = true
		}
	}
	if !modifier || !groupBy {
		return nil, nil
	}
	return []lint.Violation{ctx.Violation(ctx.Segment,
		"DISTINCT is redundant with GROUP BY", nil)}, nil
}
