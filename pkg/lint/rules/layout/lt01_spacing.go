package layout

import (
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/parser"
	"github.com/leapstack-labs/leaplint/pkg/segment"
	"github.com/leapstack-labs/leaplint/pkg/token"
)

func init() {
	lint.Register(Spacing)
}

// Spacing flags excess, trailing and missing whitespace between tokens.
var Spacing = lint.RuleDef{
	ID:          "LT01",
	Name:        "layout.spacing",
	Group:       "layout",
	Description: "Inappropriate spacing: excess or trailing whitespace, whitespace before a comma or none after it.",
	Severity:    core.SeverityWarning,
	Crawls:      []string{segment.TypeFile},
	Fixable:     true,
	Check:       checkSpacing,
	Rationale:   "Consistent single spacing keeps diffs small and queries easy to scan.",
	BadExample:  "SELECT a ,b  FROM t   ",
	GoodExample: "SELECT a, b FROM t",
}

func checkSpacing(ctx *lint.Context) ([]lint.Violation, error) {
	var violations []lint.Violation
	leaves := ctx.Leaves()
	kind := func(i int) token.Kind {
		if i < 0 || i >= len(leaves) {
			return token.EOF
		}
		return ctx.Tree.Get(leaves[i]).Kind
	}

	for i, id := range leaves {
		seg := ctx.Tree.Get(id)

		if seg.Type == parser.TypeComma && kind(i+1).IsCode() {
			violations = append(violations, ctx.Violation(id,
				"Expected single whitespace after comma",
				lint.NewFix(lint.InsertAfter(id, " "))))
			continue
		}
		if seg.Kind != token.Whitespace {
			continue
		}

		prev, next := kind(i-1), kind(i+1)
		switch {
		case next == token.Newline || next == token.EOF:
			violations = append(violations, ctx.Violation(id,
				"Unnecessary trailing whitespace",
				lint.NewFix(lint.Delete(id))))
		case i == 0 || prev == token.Newline:
			// Indentation.
		case next == token.Comment:
			// Alignment of trailing comments.
		case i+1 < len(leaves) && ctx.Tree.Type(leaves[i+1]) == parser.TypeComma:
			violations = append(violations, ctx.Violation(id,
				"Unexpected whitespace before comma",
				lint.NewFix(lint.Delete(id))))
		case seg.Raw != " ":
			violations = append(violations, ctx.Violation(id,
				"Expected only single space",
				lint.NewFix(lint.ReplaceWith(id, " "))))
		}
	}
	return violations, nil
}
