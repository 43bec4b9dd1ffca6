package lint

import (
	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/segment"
	"github.com/leapstack-labs/leaplint/pkg/token"
)

// Context gives a rule read access to the segment being evaluated and the
// tree around it. A Context is only valid during the Evaluate call.
type Context struct {
	Tree    *segment.Tree
	Segment segment.ID
	Dialect *dialect.Dialect
	Options map[string]any

	ancestors []segment.ID
	positions *segment.Positions
	leaves    []segment.ID
	leafIndex map[segment.ID]int
	parsed    []segment.ID
	rule      Rule
}

// Type returns the type of the current segment.
func (c *Context) Type() string {
	return c.Tree.Type(c.Segment)
}

// Raw returns the source text of a segment.
func (c *Context) Raw(id segment.ID) string {
	return c.Tree.Raw(id)
}

// Span returns the source span of a segment.
func (c *Context) Span(id segment.ID) token.Span {
	s, _ := c.positions.Span(id)
	return s
}

// Ancestors returns the path from the root to the parent of the current
// segment. The slice must not be modified.
func (c *Context) Ancestors() []segment.ID {
	return c.ancestors
}

// Parent returns the parent of the current segment.
func (c *Context) Parent() (segment.ID, bool) {
	if len(c.ancestors) == 0 {
		return 0, false
	}
	return c.ancestors[len(c.ancestors)-1], true
}

// Siblings returns the children of the parent, including the current segment.
func (c *Context) Siblings() []segment.ID {
	p, ok := c.Parent()
	if !ok {
		return []segment.ID{c.Segment}
	}
	return c.Tree.Children(p)
}

// Index returns the position of the current segment among its siblings.
func (c *Context) Index() int {
	for i, s := range c.Siblings() {
		if s == c.Segment {
			return i
		}
	}
	return -1
}

// HasAncestor reports whether any ancestor has the given type.
func (c *Context) HasAncestor(typ string) bool {
	for _, a := range c.ancestors {
		if c.Tree.Type(a) == typ {
			return true
		}
	}
	return false
}

// Leaves returns all leaves of the file in source order.
func (c *Context) Leaves() []segment.ID {
	return c.leaves
}

// ParsedLeaves returns the leaves of the file that lie outside unparsable
// segments, in source order.
func (c *Context) ParsedLeaves() []segment.ID {
	if c.parsed != nil {
		return c.parsed
	}
	c.parsed = make([]segment.ID, 0, len(c.leaves))
	c.Tree.Walk(func(id segment.ID, _ []segment.ID) bool {
		s := c.Tree.Get(id)
		if s.Type == segment.TypeUnparsable {
			return false
		}
		if s.IsLeaf() {
			c.parsed = append(c.parsed, id)
		}
		return true
	})
	return c.parsed
}

// Find returns the segments of the given type below the current segment.
func (c *Context) Find(typ string) []segment.ID {
	return c.Tree.Find(c.Segment, typ)
}

// NextCode returns the first code leaf after leaf, skipping trivia.
func (c *Context) NextCode(leaf segment.ID) (segment.ID, bool) {
	i, ok := c.leafIndex[leaf]
	if !ok {
		return 0, false
	}
	for j := i + 1; j < len(c.leaves); j++ {
		if c.Tree.Get(c.leaves[j]).IsCode() {
			return c.leaves[j], true
		}
	}
	return 0, false
}

// PrevCode returns the last code leaf before leaf, skipping trivia.
func (c *Context) PrevCode(leaf segment.ID) (segment.ID, bool) {
	i, ok := c.leafIndex[leaf]
	if !ok {
		return 0, false
	}
	for j := i - 1; j >= 0; j-- {
		if c.Tree.Get(c.leaves[j]).IsCode() {
			return c.leaves[j], true
		}
	}
	return 0, false
}

// Violation builds a violation against id with the rule's default severity.
// The engine applies severity overrides afterwards.
func (c *Context) Violation(id segment.ID, message string, fix *Fix) Violation {
	v := Violation{
		Message: message,
		Segment: id,
		Span:    c.Span(id),
		Fix:     fix,
	}
	if c.rule != nil {
		v.RuleID = c.rule.ID()
		v.Severity = c.rule.DefaultSeverity()
	}
	return v
}
