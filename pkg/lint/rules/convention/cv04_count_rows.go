package convention

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func init() {
	lint.Register(CountRows)
}

// CountRows enforces COUNT(*) over COUNT(1) and COUNT(0), or COUNT(1)
// when prefer_count_1 is set.
var CountRows = lint.RuleDef{
	ID:          "CV04",
	Name:        "convention.count_rows",
	Group:       "convention",
	Description: "Use consistent syntax to express \"count number of rows\".",
	Severity:    core.SeverityInfo,
	Crawls:      []string{"function"},
	Fixable:     true,
	ConfigKeys:  []string{"prefer_count_1"},
	Check:       checkCountRows,
	BadExample:  "SELECT COUNT(1) FROM t",
	GoodExample: "SELECT COUNT(*) FROM t",
}

func checkCountRows(ctx *lint.Context) ([]lint.Violation, error) {
	arg, ok := countArgument(ctx.Tree, ctx.Segment)
	if !ok {
		return nil, nil
	}

	raw := ctx.Raw(arg)
	want := "*"
	if lint.GetBoolOption(ctx.Options, "prefer_count_1", false) {
		want = "1"
	}
	switch {
	case raw == want:
		return nil, nil
	case raw != "*" && raw != "1" && raw != "0":
		return nil, nil
	}
	return []lint.Violation{ctx.Violation(arg,
		fmt.Sprintf("Use COUNT(%s) instead of COUNT(%s)", want, raw),
		lint.NewFix(lint.ReplaceWith(arg, want)))}, nil
}

// countArgument returns the single argument leaf of a COUNT call. Calls
// with DISTINCT or more than one argument token are ignored.
func countArgument(tree *segment.Tree, fn segment.ID) (segment.ID, bool) {
	var name, contents segment.ID
	var haveName, haveContents bool
	for _, c := range tree.Children(fn) {
		switch tree.Type(c) {
		case "function_name":
			name, haveName = c, true
		case "function_contents":
			contents, haveContents = c, true
		}
	}
	if !haveName || !haveContents || !strings.EqualFold(strings.TrimSpace(tree.Raw(name)), "COUNT") {
		return 0, false
	}
	leaves := tree.CodeLeaves(contents)
	if len(leaves) != 3 {
		return 0, false
	}
	return leaves[1], true
}
