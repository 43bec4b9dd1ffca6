package ambiguous

import (
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/lint/rules/internal/casing"
)

func init() {
	lint.Register(Union)
}

// Union requires UNION to say whether duplicates are removed.
var Union = lint.RuleDef{
	ID:          "AM02",
	Name:        "ambiguous.union",
	Group:       "ambiguous",
	Description: "UNION [DISTINCT|ALL] is preferred over just UNION.",
	Severity:    core.SeverityWarning,
	Crawls:      []string{"set_operator"},
	Fixable:     true,
	Check:       checkUnion,
	Rationale:   "A bare UNION silently removes duplicates, which is often unintended.",
	BadExample:  "SELECT a FROM t UNION SELECT a FROM u",
	GoodExample: "SELECT a FROM t UNION DISTINCT SELECT a FROM u",
}

func checkUnion(ctx *lint.Context) ([]lint.Violation, error) {
	leaves := ctx.Tree.CodeLeaves(ctx.Segment)
	if len(leaves) != 1 || !strings.EqualFold(ctx.Raw(leaves[0]), "UNION") {
		return nil, nil
	}
	union := leaves[0]
	return []lint.Violation{ctx.Violation(union,
		"Use UNION DISTINCT or UNION ALL instead of bare UNION",
		lint.NewFix(lint.InsertAfter(union, " "+casing.Match(ctx.Raw(union), "DISTINCT"))))}, nil
}
