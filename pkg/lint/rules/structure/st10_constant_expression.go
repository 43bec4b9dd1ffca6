package structure

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/parser"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func init() {
	lint.Register(ConstantExpression)
}

// ConstantExpression flags comparisons between two literals.
var ConstantExpression = lint.RuleDef{
	ID:          "ST10",
	Name:        "structure.constant_expression",
	Group:       "structure",
	Description: "Redundant constant expression.",
	Severity:    core.SeverityInfo,
	Crawls:      []string{"comparison_operator"},
	Check:       checkConstantExpression,
	Rationale:   "Conditions such as 1 = 1 are placeholders or mistakes and hide intent.",
	BadExample:  "SELECT * FROM t WHERE 1 = 1 AND a > 0",
	GoodExample: "SELECT * FROM t WHERE a > 0",
}

func checkConstantExpression(ctx *lint.Context) ([]lint.Violation, error) {
	op := strings.TrimSpace(ctx.Raw(ctx.Segment))
	var negate bool
	switch op {
	case "=":
	case "!=", "<>":
		negate = true
	default:
		return nil, nil
	}

	siblings := ctx.Siblings()
	i := ctx.Index()
	left, ok := operand(ctx.Tree, siblings, i-1, -1)
	if !ok {
		return nil, nil
	}
	right, ok := operand(ctx.Tree, siblings, i+1, 1)
	if !ok {
		return nil, nil
	}

	equal, ok := literalsEqual(ctx.Tree, left, right)
	if !ok {
		return nil, nil
	}
	result := "true"
	if equal == negate {
		result = "false"
	}
	return []lint.Violation{ctx.Violation(ctx.Segment,
		fmt.Sprintf("Comparison %s %s %s is always %s", ctx.Raw(left), op, ctx.Raw(right), result), nil)}, nil
}

// operand walks from siblings[i] in direction step up to a logical
// operator or the end of the parent. It succeeds when the code segments on
// the way are exactly one literal leaf.
func operand(tree *segment.Tree, siblings []segment.ID, i, step int) (segment.ID, bool) {
	var found []segment.ID
	for ; i >= 0 && i < len(siblings); i += step {
		s := tree.Get(siblings[i])
		if s.IsLeaf() && !s.IsCode() {
			continue
		}
		if s.Type == parser.TypeKeyword && isLogical(s.Raw) {
			break
		}
		found = append(found, siblings[i])
	}
	if len(found) != 1 {
		return 0, false
	}
	switch tree.Type(found[0]) {
	case parser.TypeNumericLiteral, parser.TypeStringLiteral:
		return found[0], true
	}
	return 0, false
}

func isLogical(word string) bool {
	switch strings.ToUpper(word) {
	case "AND", "OR", "NOT":
		return true
	}
	return false
}

func literalsEqual(tree *segment.Tree, a, b segment.ID) (bool, bool) {
	ta, tb := tree.Type(a), tree.Type(b)
	if ta != tb {
		return false, false
	}
	if ta == parser.TypeStringLiteral {
		return tree.Raw(a) == tree.Raw(b), true
	}
	da, err := decimal.NewFromString(tree.Raw(a))
	if err != nil {
		return false, false
	}
	db, err := decimal.NewFromString(tree.Raw(b))
	if err != nil {
		return false, false
	}
	return da.Equal(db), true
}
