package capitalisation

import (
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/lint/rules/internal/casing"
	"github.com/leapstack-labs/leaplint/pkg/parser"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func init() {
	lint.Register(Keywords)
}

// Keywords enforces a single capitalisation style for keywords.
var Keywords = lint.RuleDef{
	ID:          "CP01",
	Name:        "capitalisation.keywords",
	Group:       "capitalisation",
	Description: "Inconsistent capitalisation of keywords.",
	Severity:    core.SeverityWarning,
	Crawls:      []string{segment.TypeFile},
	Fixable:     true,
	ConfigKeys:  []string{"capitalisation_policy"},
	Check:       checkKeywords,
	Rationale:   "Mixed keyword case makes the structure of a query harder to see.",
	BadExample:  "SELECT a from t",
	GoodExample: "SELECT a FROM t",
}

func checkKeywords(ctx *lint.Context) ([]lint.Violation, error) {
	style, err := policy(ctx, "capitalisation_policy")
	if err != nil {
		return nil, err
	}
	tracker := casing.NewTracker(style)

	var violations []lint.Violation
	for _, id := range ctx.ParsedLeaves() {
		if ctx.Tree.Type(id) != parser.TypeKeyword {
			continue
		}
		raw := ctx.Raw(id)
		fixed, ok := tracker.Check(raw)
		if ok {
			continue
		}
		violations = append(violations, ctx.Violation(id,
			"Keywords must be "+casing.Describe(tracker.Expected()),
			lint.NewFix(lint.ReplaceWith(id, fixed))))
	}
	return violations, nil
}
