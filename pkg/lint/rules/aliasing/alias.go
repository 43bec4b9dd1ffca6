package aliasing

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/lint/rules/internal/casing"
	"github.com/leapstack-labs/leaplint/pkg/parser"
	"github.com/leapstack-labs/leaplint/pkg/segment"
	"github.com/leapstack-labs/leaplint/pkg/token"
)

// Values of the aliasing option.
const (
	Explicit = "explicit"
	Implicit = "implicit"
)

// checkAlias returns a check for alias expressions whose parent has type
// owner. kind names the aliased thing in messages.
func checkAlias(owner, kind string) lint.CheckFunc {
	return func(ctx *lint.Context) ([]lint.Violation, error) {
		parent, ok := ctx.Parent()
		if !ok || ctx.Tree.Type(parent) != owner {
			return nil, nil
		}
		mode := strings.ToLower(lint.GetStringOption(ctx.Options, "aliasing", Explicit))

		leaves := ctx.Tree.CodeLeaves(ctx.Segment)
		if len(leaves) == 0 {
			return nil, nil
		}
		first := leaves[0]
		hasAS := ctx.Tree.Type(first) == parser.TypeKeyword && strings.EqualFold(ctx.Raw(first), "AS")

		switch mode {
		case Explicit:
			if hasAS {
				return nil, nil
			}
			as := casing.Match(keywordTemplate(ctx), "AS") + " "
			return []lint.Violation{ctx.Violation(ctx.Segment,
				fmt.Sprintf("Implicit aliasing of %s not allowed, use AS", kind),
				lint.NewFix(lint.InsertBefore(first, as)))}, nil
		case Implicit:
			if !hasAS {
				return nil, nil
			}
			edits := []lint.Edit{lint.Delete(first)}
			if ws, ok := followingWhitespace(ctx.Tree, ctx.Segment, first); ok {
				edits = append(edits, lint.Delete(ws))
			}
			return []lint.Violation{ctx.Violation(ctx.Segment,
				fmt.Sprintf("Explicit aliasing of %s not allowed, remove AS", kind),
				lint.NewFix(edits...))}, nil
		}
		return nil, fmt.Errorf("invalid aliasing %q", mode)
	}
}

// keywordTemplate returns the first keyword of the file so inserted
// keywords follow its case.
func keywordTemplate(ctx *lint.Context) string {
	for _, l := range ctx.ParsedLeaves() {
		if ctx.Tree.Type(l) == parser.TypeKeyword {
			return ctx.Raw(l)
		}
	}
	return "AS"
}

func followingWhitespace(tree *segment.Tree, alias, leaf segment.ID) (segment.ID, bool) {
	leaves := tree.Leaves(alias)
	for i, l := range leaves {
		if l == leaf && i+1 < len(leaves) && tree.Get(leaves[i+1]).Kind == token.Whitespace {
			return leaves[i+1], true
		}
	}
	return 0, false
}
