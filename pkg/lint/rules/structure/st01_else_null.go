package structure

import (
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/token"
)

func init() {
	lint.Register(ElseNull)
}

// ElseNull flags ELSE NULL, which is what CASE returns anyway.
var ElseNull = lint.RuleDef{
	ID:          "ST01",
	Name:        "structure.else_null",
	Group:       "structure",
	Description: "Do not specify 'else null' in a case when statement (redundant).",
	Severity:    core.SeverityInfo,
	Crawls:      []string{"else_clause"},
	Fixable:     true,
	Check:       checkElseNull,
	BadExample:  "SELECT CASE WHEN a THEN 1 ELSE NULL END FROM t",
	GoodExample: "SELECT CASE WHEN a THEN 1 END FROM t",
}

func checkElseNull(ctx *lint.Context) ([]lint.Violation, error) {
	leaves := ctx.Tree.CodeLeaves(ctx.Segment)
	if len(leaves) != 2 || !strings.EqualFold(ctx.Raw(leaves[1]), "NULL") {
		return nil, nil
	}

	edits := []lint.Edit{lint.Delete(ctx.Segment)}
	siblings := ctx.Siblings()
	for i := ctx.Index() - 1; i >= 0; i-- {
		s := ctx.Tree.Get(siblings[i])
		if !s.IsLeaf() || (s.Kind != token.Whitespace && s.Kind != token.Newline) {
			break
		}
		edits = append(edits, lint.Delete(siblings[i]))
	}
	return []lint.Violation{ctx.Violation(ctx.Segment,
		"Redundant ELSE NULL in CASE expression", lint.NewFix(edits...))}, nil
}
