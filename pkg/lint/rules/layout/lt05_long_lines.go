package layout

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func init() {
	lint.Register(LongLines)
}

// DefaultMaxLineLength is used when max_line_length is not configured.
const DefaultMaxLineLength = 80

// LongLines flags lines wider than max_line_length display columns.
var LongLines = lint.RuleDef{
	ID:          "LT05",
	Name:        "layout.long_lines",
	Group:       "layout",
	Description: "Line is too long.",
	Severity:    core.SeverityWarning,
	Crawls:      []string{segment.TypeFile},
	ConfigKeys:  []string{"max_line_length", "ignore_comment_lines"},
	Check:       checkLongLines,
	Rationale:   "Long lines are hard to read in terminals, diffs and code review.",
}

func checkLongLines(ctx *lint.Context) ([]lint.Violation, error) {
	limit := lint.GetIntOption(ctx.Options, "max_line_length", DefaultMaxLineLength)
	if limit <= 0 {
		return nil, fmt.Errorf("max_line_length must be positive, got %d", limit)
	}
	ignoreComments := lint.GetBoolOption(ctx.Options, "ignore_comment_lines", false)

	// First leaf starting on each line and whether the line holds code.
	first := make(map[int]segment.ID)
	hasCode := make(map[int]bool)
	for _, id := range ctx.Leaves() {
		line := ctx.Span(id).Start.Line
		if _, ok := first[line]; !ok {
			first[line] = id
		}
		if ctx.Tree.Get(id).IsCode() {
			hasCode[line] = true
		}
	}

	var violations []lint.Violation
	lines := strings.Split(ctx.Raw(ctx.Segment), "\n")
	for i, line := range lines {
		lineNo := i + 1
		width := runewidth.StringWidth(strings.TrimRight(line, "\r"))
		if width <= limit {
			continue
		}
		if ignoreComments && !hasCode[lineNo] {
			continue
		}
		id, ok := first[lineNo]
		if !ok {
			id = ctx.Segment
		}
		violations = append(violations, ctx.Violation(id,
			fmt.Sprintf("Line is too long (%d > %d)", width, limit), nil))
	}
	return violations, nil
}
