package convention

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/lint/rules/internal/casing"
	"github.com/leapstack-labs/leaplint/pkg/parser"
)

func init() {
	lint.Register(Coalesce)
}

// Coalesce flags the dialect-specific two-argument null replacements.
var Coalesce = lint.RuleDef{
	ID:          "CV02",
	Name:        "convention.coalesce",
	Group:       "convention",
	Description: "Use COALESCE instead of IFNULL or NVL.",
	Severity:    core.SeverityWarning,
	Crawls:      []string{"function_name"},
	Fixable:     true,
	Check:       checkCoalesce,
	Rationale:   "COALESCE is portable and accepts any number of arguments.",
	BadExample:  "SELECT IFNULL(a, 0) FROM t",
	GoodExample: "SELECT COALESCE(a, 0) FROM t",
}

func checkCoalesce(ctx *lint.Context) ([]lint.Violation, error) {
	leaves := ctx.Tree.CodeLeaves(ctx.Segment)
	if len(leaves) != 1 || ctx.Tree.Type(leaves[0]) != parser.TypeIdentifier {
		return nil, nil
	}
	raw := ctx.Raw(leaves[0])
	switch strings.ToUpper(raw) {
	case "IFNULL", "NVL":
	default:
		return nil, nil
	}
	return []lint.Violation{ctx.Violation(leaves[0],
		fmt.Sprintf("Use COALESCE instead of %s", strings.ToUpper(raw)),
		lint.NewFix(lint.ReplaceWith(leaves[0], casing.Match(raw, "COALESCE"))))}, nil
}
