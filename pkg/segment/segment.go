// Package segment implements the lossless concrete syntax tree.
//
// Segments live in an Arena and are addressed by ID. A Tree is a root ID
// into an arena. Segments are never mutated: edits build new branch
// segments along the path from the root to each edited parent and leave
// untouched subtrees shared with the previous tree.
package segment

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"github.com/leapstack-labs/leaplint/pkg/token"
)

// ID addresses a segment in its arena.
type ID uint32

// Well-known segment types.
const (
	TypeFile       = "file"
	TypeUnparsable = "unparsable"
	TypeTerminator = "statement_terminator"
)

// Segment is either a leaf wrapping one token or a branch with children.
type Segment struct {
	Type     string
	Kind     token.Kind // leaves only
	Raw      string     // leaves only
	Children []ID       // branches only
	leaf     bool
}

// IsLeaf reports whether the segment wraps a token.
func (s Segment) IsLeaf() bool {
	return s.leaf
}

// IsCode reports whether the segment is a leaf carrying grammar meaning.
func (s Segment) IsCode() bool {
	return s.leaf && s.Kind.IsCode()
}

// Arena owns segment storage.
type Arena struct {
	segs []Segment
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{segs: make([]Segment, 0, 256)}
}

func (a *Arena) add(s Segment) ID {
	id, err := safecast.Conv[uint32](len(a.segs))
	if err != nil {
		panic(fmt.Sprintf("segment arena overflow: %v", err))
	}
	a.segs = append(a.segs, s)
	return ID(id)
}

// Leaf allocates a leaf for tok. An empty typ defaults to the token kind name.
func (a *Arena) Leaf(tok token.Token, typ string) ID {
	if typ == "" {
		typ = tok.Kind.String()
	}
	return a.add(Segment{Type: typ, Kind: tok.Kind, Raw: tok.Raw, leaf: true})
}

// Branch allocates a branch owning children.
func (a *Arena) Branch(typ string, children []ID) ID {
	return a.add(Segment{Type: typ, Children: append([]ID(nil), children...)})
}

// Get returns the segment with the given id.
func (a *Arena) Get(id ID) Segment {
	return a.segs[id]
}

// Len returns the number of allocated segments, reachable or not.
func (a *Arena) Len() int {
	return len(a.segs)
}

// Tree is a root segment and the arena it lives in.
type Tree struct {
	arena *Arena
	Root  ID
}

// NewTree wraps root.
func NewTree(a *Arena, root ID) *Tree {
	return &Tree{arena: a, Root: root}
}

// Arena returns the backing arena.
func (t *Tree) Arena() *Arena {
	return t.arena
}

// Get returns a segment of the tree.
func (t *Tree) Get(id ID) Segment {
	return t.arena.Get(id)
}

// Type returns the segment type.
func (t *Tree) Type(id ID) string {
	return t.arena.segs[id].Type
}

// Children returns the children of a branch (nil for leaves).
func (t *Tree) Children(id ID) []ID {
	return t.arena.segs[id].Children
}

// Raw concatenates the leaf text below id.
func (t *Tree) Raw(id ID) string {
	var sb strings.Builder
	t.writeRaw(&sb, id)
	return sb.String()
}

func (t *Tree) writeRaw(sb *strings.Builder, id ID) {
	s := t.arena.segs[id]
	if s.leaf {
		sb.WriteString(s.Raw)
		return
	}
	for _, c := range s.Children {
		t.writeRaw(sb, c)
	}
}

// Serialize regenerates the source text of the whole tree.
func (t *Tree) Serialize() string {
	return t.Raw(t.Root)
}

// Walk visits segments depth first in source order. ancestors holds the path
// from the root to the parent of id and must not be retained. Returning false
// skips the children of id.
func (t *Tree) Walk(fn func(id ID, ancestors []ID) bool) {
	var stack []ID
	var visit func(id ID)
	visit = func(id ID) {
		if !fn(id, stack) {
			return
		}
		s := t.arena.segs[id]
		if s.leaf {
			return
		}
		stack = append(stack, id)
		for _, c := range s.Children {
			visit(c)
		}
		stack = stack[:len(stack)-1]
	}
	visit(t.Root)
}

// Leaves returns the leaves below id in source order.
func (t *Tree) Leaves(id ID) []ID {
	var out []ID
	var visit func(ID)
	visit = func(id ID) {
		s := t.arena.segs[id]
		if s.leaf {
			out = append(out, id)
			return
		}
		for _, c := range s.Children {
			visit(c)
		}
	}
	visit(id)
	return out
}

// CodeLeaves returns the non-trivia leaves below id.
func (t *Tree) CodeLeaves(id ID) []ID {
	var out []ID
	for _, l := range t.Leaves(id) {
		if t.arena.segs[l].IsCode() {
			out = append(out, l)
		}
	}
	return out
}

// Find returns every segment of the given type below and including id.
func (t *Tree) Find(id ID, typ string) []ID {
	var out []ID
	sub := &Tree{arena: t.arena, Root: id}
	sub.Walk(func(x ID, _ []ID) bool {
		if t.arena.segs[x].Type == typ {
			out = append(out, x)
		}
		return true
	})
	return out
}

// Parents maps every non-root segment of the tree to its parent.
func (t *Tree) Parents() map[ID]ID {
	parents := make(map[ID]ID)
	t.Walk(func(id ID, ancestors []ID) bool {
		if len(ancestors) > 0 {
			parents[id] = ancestors[len(ancestors)-1]
		}
		return true
	})
	return parents
}
