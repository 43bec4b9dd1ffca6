package segment

import "github.com/leapstack-labs/leaplint/pkg/token"

// Positions holds the source span of every segment reachable in a tree.
// Spans are derived from cumulative leaf lengths each time they are computed.
type Positions struct {
	spans map[ID]token.Span
}

// Positions computes spans for the current tree.
func (t *Tree) Positions() *Positions {
	p := &Positions{spans: make(map[ID]token.Span)}
	pos := token.Position{Line: 1, Column: 1}
	var visit func(ID)
	visit = func(id ID) {
		start := pos
		s := t.arena.segs[id]
		if s.leaf {
			pos = token.Advance(pos, s.Raw)
		} else {
			for _, c := range s.Children {
				visit(c)
			}
		}
		p.spans[id] = token.Span{Start: start, End: pos}
	}
	visit(t.Root)
	return p
}

// Span returns the span of id and whether id is part of the tree.
func (p *Positions) Span(id ID) (token.Span, bool) {
	s, ok := p.spans[id]
	return s, ok
}

// Start returns the start position of id.
func (p *Positions) Start(id ID) token.Position {
	return p.spans[id].Start
}
