package layout

import (
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/segment"
	"github.com/leapstack-labs/leaplint/pkg/token"
)

func init() {
	lint.Register(EndOfFile)
}

// EndOfFile requires exactly one newline after the last content of a file.
var EndOfFile = lint.RuleDef{
	ID:          "LT12",
	Name:        "layout.end_of_file",
	Group:       "layout",
	Description: "Files must end with a single trailing newline.",
	Severity:    core.SeverityWarning,
	Crawls:      []string{segment.TypeFile},
	Phase:       lint.PhasePost,
	Fixable:     true,
	Check:       checkEndOfFile,
	Rationale:   "Tools that concatenate or diff files expect a single final newline.",
	BadExample:  "SELECT a FROM t\n\n\n",
	GoodExample: "SELECT a FROM t\n",
}

func checkEndOfFile(ctx *lint.Context) ([]lint.Violation, error) {
	leaves := ctx.Leaves()

	// Trailing run of whitespace and newlines before EOF.
	end := len(leaves) - 1
	if end < 0 || ctx.Tree.Get(leaves[end]).Kind != token.EOF {
		return nil, nil
	}
	eof := leaves[end]
	start := end
	for start > 0 && isLayout(ctx.Tree.Get(leaves[start-1]).Kind) {
		start--
	}
	if start == 0 {
		return nil, nil
	}
	tail := leaves[start:end]

	var newlines, others []segment.ID
	for _, id := range tail {
		if ctx.Tree.Get(id).Kind == token.Newline {
			newlines = append(newlines, id)
		} else {
			others = append(others, id)
		}
	}
	if len(newlines) == 1 && len(others) == 0 {
		return nil, nil
	}

	var edits []lint.Edit
	switch {
	case len(newlines) == 0:
		for _, id := range others {
			edits = append(edits, lint.Delete(id))
		}
		edits = append(edits, lint.InsertBefore(eof, newlineStyle(ctx.Raw(ctx.Segment))))
	default:
		for _, id := range tail {
			if id != newlines[0] {
				edits = append(edits, lint.Delete(id))
			}
		}
	}

	anchor := leaves[start-1]
	if len(tail) > 0 {
		anchor = tail[0]
	}
	msg := "Files must end with a single trailing newline"
	if len(newlines) == 0 {
		msg = "Files must end with a trailing newline"
	}
	return []lint.Violation{ctx.Violation(anchor, msg, lint.NewFix(edits...))}, nil
}

func isLayout(k token.Kind) bool {
	return k == token.Whitespace || k == token.Newline
}

func newlineStyle(src string) string {
	if strings.Contains(src, "\r\n") {
		return "\r\n"
	}
	return "\n"
}
