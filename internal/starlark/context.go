package starlark

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

// Segment exposes one segment of the tree being linted.
// Accessible as: seg.type, seg.raw, seg.children, seg.find("keyword"), etc.
type Segment struct {
	lc *lint.Context
	id segment.ID
}

var (
	_ starlark.HasAttrs   = (*Segment)(nil)
	_ starlark.Comparable = (*Segment)(nil)
)

var segmentAttrs = []string{
	"children", "code_leaves", "column", "find", "id", "is_code", "is_leaf", "line", "raw", "type",
}

func newSegment(lc *lint.Context, id segment.ID) *Segment {
	return &Segment{lc: lc, id: id}
}

func (s *Segment) String() string {
	return fmt.Sprintf("segment(%s, %q)", s.lc.Tree.Type(s.id), s.lc.Raw(s.id))
}

// Type implements starlark.Value.
func (s *Segment) Type() string          { return "segment" }
func (s *Segment) Freeze()               {}
func (s *Segment) Truth() starlark.Bool  { return starlark.True }
func (s *Segment) Hash() (uint32, error) { return uint32(s.id), nil }

// CompareSameType supports == and != by segment identity.
func (s *Segment) CompareSameType(op syntax.Token, y starlark.Value, _ int) (bool, error) {
	other, ok := y.(*Segment)
	if !ok {
		return false, fmt.Errorf("cannot compare segment with %s", y.Type())
	}
	switch op {
	case syntax.EQL:
		return s.id == other.id, nil
	case syntax.NEQ:
		return s.id != other.id, nil
	default:
		return false, fmt.Errorf("segment %s segment not supported", op)
	}
}

// Attr implements starlark.HasAttrs.
func (s *Segment) Attr(name string) (starlark.Value, error) {
	seg := s.lc.Tree.Get(s.id)
	switch name {
	case "id":
		return starlark.MakeUint(uint(s.id)), nil
	case "type":
		return starlark.String(seg.Type), nil
	case "raw":
		return starlark.String(s.lc.Raw(s.id)), nil
	case "is_leaf":
		return starlark.Bool(seg.IsLeaf()), nil
	case "is_code":
		return starlark.Bool(seg.IsCode()), nil
	case "line":
		return starlark.MakeInt(s.lc.Span(s.id).Start.Line), nil
	case "column":
		return starlark.MakeInt(s.lc.Span(s.id).Start.Column), nil
	case "children":
		return segmentList(s.lc, s.lc.Tree.Children(s.id)), nil
	case "code_leaves":
		return segmentList(s.lc, s.lc.Tree.CodeLeaves(s.id)), nil
	case "find":
		return starlark.NewBuiltin("find", s.find), nil
	}
	return nil, nil
}

// AttrNames implements starlark.HasAttrs.
func (s *Segment) AttrNames() []string {
	return segmentAttrs
}

func (s *Segment) find(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var typ string
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &typ); err != nil {
		return nil, err
	}
	return segmentList(s.lc, s.lc.Tree.Find(s.id, typ)), nil
}

func segmentList(lc *lint.Context, ids []segment.ID) *starlark.List {
	elems := make([]starlark.Value, len(ids))
	for i, id := range ids {
		elems[i] = newSegment(lc, id)
	}
	l := starlark.NewList(elems)
	l.Freeze()
	return l
}

// RuleContext is the single argument of a check function. It describes the
// segment being evaluated and collects the violations the check reports.
type RuleContext struct {
	lc      *lint.Context
	options starlark.Value
	found   []lint.Violation
}

var _ starlark.HasAttrs = (*RuleContext)(nil)

var contextAttrs = []string{
	"ancestors", "dialect", "has_ancestor", "next_code", "options", "parent", "prev_code", "report", "segment", "siblings",
}

// NewRuleContext wraps a lint context for one check call.
func NewRuleContext(lc *lint.Context) (*RuleContext, error) {
	opts, err := GoToStarlark(lc.Options)
	if err != nil {
		return nil, fmt.Errorf("options: %w", err)
	}
	if opts == starlark.None {
		d := starlark.NewDict(0)
		d.Freeze()
		opts = d
	}
	return &RuleContext{lc: lc, options: opts}, nil
}

// Violations returns what the check reported.
func (c *RuleContext) Violations() []lint.Violation {
	return c.found
}

func (c *RuleContext) String() string        { return "rule_context" }
func (c *RuleContext) Type() string          { return "rule_context" }
func (c *RuleContext) Freeze()               {}
func (c *RuleContext) Truth() starlark.Bool  { return starlark.True }
func (c *RuleContext) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: rule_context") }

// Attr implements starlark.HasAttrs.
func (c *RuleContext) Attr(name string) (starlark.Value, error) {
	switch name {
	case "segment":
		return newSegment(c.lc, c.lc.Segment), nil
	case "dialect":
		return starlark.String(c.lc.Dialect.Name()), nil
	case "options":
		return c.options, nil
	case "parent":
		if p, ok := c.lc.Parent(); ok {
			return newSegment(c.lc, p), nil
		}
		return starlark.None, nil
	case "ancestors":
		return segmentList(c.lc, c.lc.Ancestors()), nil
	case "siblings":
		return segmentList(c.lc, c.lc.Siblings()), nil
	case "has_ancestor":
		return starlark.NewBuiltin("has_ancestor", c.hasAncestor), nil
	case "next_code":
		return starlark.NewBuiltin("next_code", c.neighbour(c.lc.NextCode)), nil
	case "prev_code":
		return starlark.NewBuiltin("prev_code", c.neighbour(c.lc.PrevCode)), nil
	case "report":
		return starlark.NewBuiltin("report", c.report), nil
	}
	return nil, nil
}

// AttrNames implements starlark.HasAttrs.
func (c *RuleContext) AttrNames() []string {
	return contextAttrs
}

func (c *RuleContext) hasAncestor(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var typ string
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &typ); err != nil {
		return nil, err
	}
	return starlark.Bool(c.lc.HasAncestor(typ)), nil
}

func (c *RuleContext) neighbour(step func(segment.ID) (segment.ID, bool)) func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
	return func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var v starlark.Value
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &v); err != nil {
			return nil, err
		}
		seg, err := asSegment(b.Name(), v)
		if err != nil {
			return nil, err
		}
		if next, ok := step(seg.id); ok {
			return newSegment(c.lc, next), nil
		}
		return starlark.None, nil
	}
}

// report(segment, message, fix=None) records a violation. fix is an edit
// or a list of edits applied together.
func (c *RuleContext) report(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		target  starlark.Value
		message string
		fix     starlark.Value = starlark.None
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "segment", &target, "message", &message, "fix?", &fix); err != nil {
		return nil, err
	}
	seg, err := asSegment(b.Name(), target)
	if err != nil {
		return nil, err
	}
	edits, err := asEdits(b.Name(), fix)
	if err != nil {
		return nil, err
	}
	var f *lint.Fix
	if len(edits) > 0 {
		f = lint.NewFix(edits...)
	}
	c.found = append(c.found, c.lc.Violation(seg.id, message, f))
	return starlark.None, nil
}

func asSegment(fn string, v starlark.Value) (*Segment, error) {
	seg, ok := v.(*Segment)
	if !ok {
		return nil, fmt.Errorf("%s: got %s, want segment", fn, v.Type())
	}
	return seg, nil
}

func asEdits(fn string, v starlark.Value) ([]lint.Edit, error) {
	switch val := v.(type) {
	case starlark.NoneType:
		return nil, nil
	case *Edit:
		return []lint.Edit{val.edit}, nil
	case starlark.Indexable:
		edits := make([]lint.Edit, 0, val.Len())
		for i := 0; i < val.Len(); i++ {
			e, ok := val.Index(i).(*Edit)
			if !ok {
				return nil, fmt.Errorf("%s: fix[%d]: got %s, want edit", fn, i, val.Index(i).Type())
			}
			edits = append(edits, e.edit)
		}
		return edits, nil
	default:
		return nil, fmt.Errorf("%s: fix: got %s, want edit or list of edits", fn, v.Type())
	}
}
