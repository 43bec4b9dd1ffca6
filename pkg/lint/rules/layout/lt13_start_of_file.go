package layout

import (
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/segment"
	"github.com/leapstack-labs/leaplint/pkg/token"
)

func init() {
	lint.Register(StartOfFile)
}

// StartOfFile flags blank lines and whitespace before the first content.
var StartOfFile = lint.RuleDef{
	ID:          "LT13",
	Name:        "layout.start_of_file",
	Group:       "layout",
	Description: "Files must not begin with newlines or whitespace.",
	Severity:    core.SeverityWarning,
	Crawls:      []string{segment.TypeFile},
	Fixable:     true,
	Check:       checkStartOfFile,
	BadExample:  "\n\n  SELECT a FROM t\n",
	GoodExample: "SELECT a FROM t\n",
}

func checkStartOfFile(ctx *lint.Context) ([]lint.Violation, error) {
	leaves := ctx.Leaves()
	n := 0
	for n < len(leaves) && isLayout(ctx.Tree.Get(leaves[n]).Kind) {
		n++
	}
	if n == 0 || n == len(leaves) || ctx.Tree.Get(leaves[n]).Kind == token.EOF {
		return nil, nil
	}

	edits := make([]lint.Edit, 0, n)
	for _, id := range leaves[:n] {
		edits = append(edits, lint.Delete(id))
	}
	return []lint.Violation{ctx.Violation(leaves[0],
		"Files must not begin with newlines or whitespace", lint.NewFix(edits...))}, nil
}
