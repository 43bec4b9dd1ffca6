package convention

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func init() {
	lint.Register(NotEqual)
}

// Not-equal styles for preferred_not_equal_style.
const (
	StyleConsistent = "consistent"
	StyleCStyle     = "c_style"
	StyleANSI       = "ansi"
)

var notEqualOps = map[string]string{
	StyleCStyle: "!=",
	StyleANSI:   "<>",
}

// NotEqual enforces one spelling of the not-equal operator.
var NotEqual = lint.RuleDef{
	ID:          "CV01",
	Name:        "convention.not_equal",
	Group:       "convention",
	Description: "Consistent usage of != or <> for the not-equal operator.",
	Severity:    core.SeverityHint,
	Crawls:      []string{segment.TypeFile},
	Fixable:     true,
	ConfigKeys:  []string{"preferred_not_equal_style"},
	Check:       checkNotEqual,
	BadExample:  "SELECT * FROM t WHERE a != 1 AND b <> 2",
	GoodExample: "SELECT * FROM t WHERE a != 1 AND b != 2",
}

func checkNotEqual(ctx *lint.Context) ([]lint.Violation, error) {
	style := strings.ToLower(lint.GetStringOption(ctx.Options, "preferred_not_equal_style", StyleConsistent))
	want, fixed := notEqualOps[style]
	if !fixed && style != StyleConsistent {
		return nil, fmt.Errorf("invalid preferred_not_equal_style %q", style)
	}

	var violations []lint.Violation
	for _, op := range ctx.Find("comparison_operator") {
		raw := ctx.Raw(op)
		if raw != "!=" && raw != "<>" {
			continue
		}
		if want == "" {
			want = raw
			continue
		}
		if raw == want {
			continue
		}
		violations = append(violations, ctx.Violation(op,
			fmt.Sprintf("Use %s instead of %s", want, raw),
			lint.NewFix(lint.ReplaceWith(op, want))))
	}
	return violations, nil
}
