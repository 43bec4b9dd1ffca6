package aliasing

import (
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
)

func init() {
	lint.Register(Column)
}

// Column flags column aliases written without AS.
var Column = lint.RuleDef{
	ID:          "AL02",
	Name:        "aliasing.column",
	Group:       "aliasing",
	Description: "Implicit/explicit aliasing of columns.",
	Severity:    core.SeverityInfo,
	Crawls:      []string{"alias_expression"},
	Fixable:     true,
	ConfigKeys:  []string{"aliasing"},
	Check:       checkAlias("select_clause_element", "columns"),
	Rationale:   "Without AS a missing comma silently turns a column into an alias.",
	BadExample:  "SELECT a b FROM t",
	GoodExample: "SELECT a AS b FROM t",
}
