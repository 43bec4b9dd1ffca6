package aliasing

import (
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
)

func init() {
	lint.Register(Table)
}

// Table flags table aliases written without AS.
var Table = lint.RuleDef{
	ID:          "AL01",
	Name:        "aliasing.table",
	Group:       "aliasing",
	Description: "Implicit/explicit aliasing of tables.",
	Severity:    core.SeverityInfo,
	Crawls:      []string{"alias_expression"},
	Fixable:     true,
	ConfigKeys:  []string{"aliasing"},
	Check:       checkAlias("from_expression_element", "tables"),
	Rationale:   "An explicit AS separates the alias from the table name at a glance.",
	BadExample:  "SELECT u.id FROM users u",
	GoodExample: "SELECT u.id FROM users AS u",
}
