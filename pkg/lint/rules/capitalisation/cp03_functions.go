package capitalisation

import (
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/lint/rules/internal/casing"
	"github.com/leapstack-labs/leaplint/pkg/parser"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func init() {
	lint.Register(Functions)
}

// Functions enforces a single capitalisation style for function names.
// Only the final part of a qualified name is checked; quoted names and
// names that are keywords are left to CP01.
var Functions = lint.RuleDef{
	ID:          "CP03",
	Name:        "capitalisation.functions",
	Group:       "capitalisation",
	Description: "Inconsistent capitalisation of function names.",
	Severity:    core.SeverityWarning,
	Crawls:      []string{segment.TypeFile},
	Fixable:     true,
	ConfigKeys:  []string{"extended_capitalisation_policy"},
	Check:       checkFunctions,
	BadExample:  "SELECT COUNT(*), sum(a) FROM t",
	GoodExample: "SELECT COUNT(*), SUM(a) FROM t",
}

func checkFunctions(ctx *lint.Context) ([]lint.Violation, error) {
	style, err := policy(ctx, "extended_capitalisation_policy")
	if err != nil {
		return nil, err
	}
	tracker := casing.NewTracker(style)

	var violations []lint.Violation
	for _, fn := range ctx.Find("function_name") {
		name, ok := lastIdentifier(ctx.Tree, fn)
		if !ok {
			continue
		}
		fixed, ok := tracker.Check(ctx.Raw(name))
		if ok {
			continue
		}
		violations = append(violations, ctx.Violation(name,
			"Function names must be "+casing.Describe(tracker.Expected()),
			lint.NewFix(lint.ReplaceWith(name, fixed))))
	}
	return violations, nil
}

func lastIdentifier(tree *segment.Tree, fn segment.ID) (segment.ID, bool) {
	leaves := tree.CodeLeaves(fn)
	if len(leaves) == 0 {
		return 0, false
	}
	last := leaves[len(leaves)-1]
	return last, tree.Type(last) == parser.TypeIdentifier
}
