// Package fix applies lint fixes to a segment tree.
//
// Fixes are accepted in the order given. A fix whose edits touch the same
// region as an already accepted fix is skipped and left for a later pass.
// All accepted edits are applied together, producing a single new tree that
// shares every untouched subtree with the input.
package fix

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/lexer"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/parser"
	"github.com/leapstack-labs/leaplint/pkg/segment"
	"github.com/leapstack-labs/leaplint/pkg/token"
)

// Reasons a fix is rejected.
var (
	ErrNoEdits       = errors.New("fix has no edits")
	ErrMissingTarget = errors.New("edit target is not part of the tree")
	ErrRootTarget    = errors.New("edit targets the file segment")
	ErrUnlexable     = errors.New("replacement text contains unlexable input")
	ErrUnparsable    = errors.New("fix would leave the file with more unparsable regions")
)

// Result is the outcome of Apply.
type Result struct {
	// Tree is the edited tree, or the input tree when nothing was applied.
	Tree *segment.Tree
	// Applied lists the IDs of accepted fixes in application order.
	Applied []string
	// Skipped lists the IDs of fixes that were not applied, either because
	// they conflict with an earlier fix or because they were rejected.
	Skipped []string
	// Rejected maps the IDs of invalid fixes to the reason.
	Rejected map[string]error
}

// planned is one edit resolved against the input tree.
type planned struct {
	op     lint.EditOp
	target segment.ID
	parent segment.ID
	index  int
	start  int
	end    int
	text   string
	with   []segment.ID
}

func (p planned) point() bool {
	return p.start == p.end
}

// Apply applies fixes to tree in order. A fix is all-or-nothing: if any of
// its edits conflicts or fails to lex or reparse, none of them are applied.
//
// The edited file is reparsed. When it has more parse errors than the
// input, fixes are accepted again one at a time and each fix that adds a
// parse error is rejected with ErrUnparsable.
func Apply(tree *segment.Tree, d *dialect.Dialect, fixes []*lint.Fix) (*Result, error) {
	res := &Result{Tree: tree, Rejected: make(map[string]error)}
	if len(fixes) == 0 {
		return res, nil
	}

	a := &applier{
		tree:      tree,
		d:         d,
		positions: tree.Positions(),
		parents:   tree.Parents(),
	}
	accepted := a.accept(fixes, res, nil)
	if len(accepted) == 0 {
		return res, nil
	}
	out, err := a.splice(accepted)
	if err != nil {
		return nil, err
	}

	base := a.parseErrors(tree)
	if a.parseErrors(out) > base {
		res = &Result{Tree: tree, Rejected: make(map[string]error)}
		accepted = a.accept(fixes, res, func(edits []planned) error {
			trial, err := a.splice(edits)
			if err != nil {
				return err
			}
			if a.parseErrors(trial) > base {
				return ErrUnparsable
			}
			return nil
		})
		if len(accepted) == 0 {
			return res, nil
		}
		if out, err = a.splice(accepted); err != nil {
			return nil, err
		}
	}
	res.Tree = out
	return res, nil
}

type applier struct {
	tree      *segment.Tree
	d         *dialect.Dialect
	positions *segment.Positions
	parents   map[segment.ID]segment.ID
}

// accept plans and builds fixes in order, recording the outcome of each in
// res. When check is non-nil it is called with the edits accepted so far
// plus those of the candidate fix, and an error rejects the candidate.
func (a *applier) accept(fixes []*lint.Fix, res *Result, check func([]planned) error) []planned {
	var accepted []planned
	for _, f := range fixes {
		edits, err := a.plan(f)
		if err != nil {
			res.Skipped = append(res.Skipped, f.ID)
			res.Rejected[f.ID] = err
			continue
		}
		if a.conflicting(edits, accepted) {
			res.Skipped = append(res.Skipped, f.ID)
			continue
		}
		if err := a.build(edits); err != nil {
			res.Skipped = append(res.Skipped, f.ID)
			res.Rejected[f.ID] = err
			continue
		}
		if check != nil {
			trial := append(accepted[:len(accepted):len(accepted)], edits...)
			if err := check(trial); err != nil {
				res.Skipped = append(res.Skipped, f.ID)
				res.Rejected[f.ID] = err
				continue
			}
		}
		accepted = append(accepted, edits...)
		res.Applied = append(res.Applied, f.ID)
	}
	return accepted
}

// splice applies accepted edits to the input tree.
func (a *applier) splice(accepted []planned) (*segment.Tree, error) {
	splices := make([]segment.Splice, 0, len(accepted))
	for _, e := range accepted {
		splices = append(splices, e.splice())
	}
	out, err := a.tree.Splice(splices)
	if err != nil {
		return nil, fmt.Errorf("apply fixes: %w", err)
	}
	if want, got := expected(a.tree.Serialize(), accepted), out.Serialize(); want != got {
		return nil, fmt.Errorf("apply fixes: rewritten tree does not match edited text")
	}
	return out, nil
}

// parseErrors reparses the text of t and counts its parse errors. Text that
// no longer lexes counts as worse than any parse.
func (a *applier) parseErrors(t *segment.Tree) int {
	toks, err := lexer.Lex(t.Serialize(), a.d.LexerConfig())
	if err != nil {
		return math.MaxInt
	}
	return len(parser.Parse(toks, a.d).Errors)
}

// plan resolves the edits of f and checks them against each other.
func (a *applier) plan(f *lint.Fix) ([]planned, error) {
	if len(f.Edits) == 0 {
		return nil, ErrNoEdits
	}
	out := make([]planned, 0, len(f.Edits))
	for _, ed := range f.Edits {
		span, ok := a.positions.Span(ed.Target)
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrMissingTarget, ed.Target)
		}
		if ed.Target == a.tree.Root {
			return nil, ErrRootTarget
		}
		parent := a.parents[ed.Target]
		p := planned{
			op:     ed.Op,
			target: ed.Target,
			parent: parent,
			index:  indexOf(a.tree.Children(parent), ed.Target),
			start:  span.Start.Offset,
			end:    span.End.Offset,
			text:   ed.Text,
		}
		switch ed.Op {
		case lint.OpInsertBefore:
			p.end = p.start
		case lint.OpInsertAfter:
			p.start = p.end
		case lint.OpDelete:
			p.text = ""
		}
		if a.conflicting([]planned{p}, out) {
			return nil, fmt.Errorf("edits of fix %s overlap", f.ID)
		}
		out = append(out, p)
	}
	return out, nil
}

// conflicting reports whether any edit in edits collides with one in
// accepted.
func (a *applier) conflicting(edits, accepted []planned) bool {
	for _, e := range edits {
		for _, o := range accepted {
			if a.conflict(e, o) {
				return true
			}
		}
	}
	return false
}

func (a *applier) conflict(x, y planned) bool {
	if x.target == y.target || a.ancestor(x.target, y.target) || a.ancestor(y.target, x.target) {
		return true
	}
	switch {
	case x.point() && y.point():
		return x.start == y.start
	case x.point():
		return y.start < x.start && x.start < y.end
	case y.point():
		return x.start < y.start && y.start < x.end
	}
	return x.span().Overlaps(y.span())
}

func (p planned) span() token.Span {
	return token.Span{Start: token.Position{Offset: p.start}, End: token.Position{Offset: p.end}}
}

// ancestor reports whether a is a proper ancestor of b.
func (a *applier) ancestor(anc, id segment.ID) bool {
	for p, ok := a.parents[id]; ok; p, ok = a.parents[p] {
		if p == anc {
			return true
		}
	}
	return false
}

// build lexes the text of every edit and allocates the replacement
// segments.
func (a *applier) build(edits []planned) error {
	for i := range edits {
		e := &edits[i]
		if e.op == lint.OpDelete || e.text == "" {
			continue
		}
		toks, err := lexer.Lex(e.text, a.d.LexerConfig())
		if err != nil {
			return err
		}
		for _, t := range toks {
			if t.Kind == token.Unlexable {
				return fmt.Errorf("%w: %q", ErrUnlexable, t.Raw)
			}
		}

		target := a.tree.Get(e.target)
		if e.op == lint.OpReplace && !target.IsLeaf() {
			if _, ok := a.d.Rule(target.Type); ok {
				with, err := parser.New(a.d, toks, a.tree.Arena()).ParseRule(target.Type)
				if err != nil {
					return fmt.Errorf("reparse %s: %w", target.Type, err)
				}
				e.with = with
				continue
			}
		}

		code := toks[:len(toks)-1]
		keepType := e.op == lint.OpReplace && target.IsLeaf() && len(code) == 1 && code[0].Kind == target.Kind
		for _, t := range code {
			typ := parser.LeafType(t)
			if keepType {
				typ = target.Type
			}
			e.with = append(e.with, a.tree.Arena().Leaf(t, typ))
		}
	}
	return nil
}

func (p planned) splice() segment.Splice {
	switch p.op {
	case lint.OpInsertBefore:
		return segment.Splice{Parent: p.parent, Start: p.index, End: p.index, With: p.with}
	case lint.OpInsertAfter:
		return segment.Splice{Parent: p.parent, Start: p.index + 1, End: p.index + 1, With: p.with}
	}
	return segment.Splice{Parent: p.parent, Start: p.index, End: p.index + 1, With: p.with}
}

// expected applies edits to the source text directly.
func expected(src string, edits []planned) string {
	sorted := append([]planned(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].start != sorted[j].start {
			return sorted[i].start < sorted[j].start
		}
		return sorted[i].end < sorted[j].end
	})
	var sb strings.Builder
	pos := 0
	for _, e := range sorted {
		sb.WriteString(src[pos:e.start])
		sb.WriteString(e.text)
		pos = e.end
	}
	sb.WriteString(src[pos:])
	return sb.String()
}

func indexOf(ids []segment.ID, id segment.ID) int {
	for i, x := range ids {
		if x == id {
			return i
		}
	}
	return -1
}
