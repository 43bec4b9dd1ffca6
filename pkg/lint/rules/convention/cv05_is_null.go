package convention

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/lint/rules/internal/casing"
	"github.com/leapstack-labs/leaplint/pkg/parser"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func init() {
	lint.Register(IsNull)
}

// IsNull flags equality comparisons against NULL, which are never true.
var IsNull = lint.RuleDef{
	ID:          "CV05",
	Name:        "convention.is_null",
	Group:       "convention",
	Description: "Comparisons with NULL should use IS or IS NOT.",
	Severity:    core.SeverityWarning,
	Crawls:      []string{"comparison_operator"},
	Fixable:     true,
	Check:       checkIsNull,
	Rationale:   "a = NULL evaluates to NULL, not TRUE, for every row.",
	BadExample:  "SELECT * FROM t WHERE a = NULL",
	GoodExample: "SELECT * FROM t WHERE a IS NULL",
}

func checkIsNull(ctx *lint.Context) ([]lint.Violation, error) {
	leaves := ctx.Tree.CodeLeaves(ctx.Segment)
	if len(leaves) != 1 {
		return nil, nil
	}
	op := leaves[0]
	var replacement string
	switch ctx.Raw(op) {
	case "=":
		replacement = "IS"
	case "!=", "<>":
		replacement = "IS NOT"
	default:
		return nil, nil
	}

	next, ok := ctx.NextCode(op)
	if !ok || ctx.Tree.Type(next) != parser.TypeKeyword || !strings.EqualFold(ctx.Raw(next), "NULL") {
		return nil, nil
	}
	if !endsOperand(ctx, next) {
		return nil, nil
	}
	replacement = casing.Match(ctx.Raw(next), replacement)
	text := padded(ctx, op, replacement)

	return []lint.Violation{ctx.Violation(op,
		fmt.Sprintf("Use %s NULL instead of %s NULL", strings.ToUpper(replacement), ctx.Raw(op)),
		lint.NewFix(lint.ReplaceWith(op, text)))}, nil
}

// endsOperand reports whether the code following leaf closes the comparison
// operand, so NULL is the whole right-hand side and not the start of
// "NULL + 1" or "NULL || 'x'".
func endsOperand(ctx *lint.Context, leaf segment.ID) bool {
	next, ok := ctx.NextCode(leaf)
	if !ok {
		return true
	}
	switch ctx.Tree.Type(next) {
	case parser.TypeKeyword, parser.TypeIdentifier, parser.TypeQuotedIdentifier,
		parser.TypeComma, parser.TypeEndBracket, parser.TypeEndOfFile, segment.TypeTerminator:
		return true
	}
	return ctx.Raw(next) == "]"
}

// padded surrounds word with spaces where the neighbouring leaves are code,
// so that "a=NULL" does not become "aISNULL".
func padded(ctx *lint.Context, leaf segment.ID, word string) string {
	leaves := ctx.Leaves()
	i := slices.Index(leaves, leaf)
	if i > 0 && ctx.Tree.Get(leaves[i-1]).Kind.IsCode() {
		word = " " + word
	}
	if i+1 < len(leaves) && ctx.Tree.Get(leaves[i+1]).Kind.IsCode() {
		word += " "
	}
	return word
}
