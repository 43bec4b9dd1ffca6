package segment

import (
	"fmt"
	"sort"
)

// Splice replaces the children [Start, End) of Parent with With.
// Start == End inserts; an empty With deletes.
type Splice struct {
	Parent ID
	Start  int
	End    int
	With   []ID
}

// Splice returns a new tree with every splice applied at once. Splices on
// the same parent must not overlap. The receiver is left unchanged.
func (t *Tree) Splice(splices []Splice) (*Tree, error) {
	if len(splices) == 0 {
		return t, nil
	}

	byParent := make(map[ID][]Splice)
	for _, sp := range splices {
		s := t.arena.segs[sp.Parent]
		if s.leaf {
			return nil, fmt.Errorf("splice parent %d is a leaf", sp.Parent)
		}
		if sp.Start < 0 || sp.End < sp.Start || sp.End > len(s.Children) {
			return nil, fmt.Errorf("splice [%d,%d) out of range for %d children", sp.Start, sp.End, len(s.Children))
		}
		byParent[sp.Parent] = append(byParent[sp.Parent], sp)
	}

	parents := t.Parents()
	dirty := make(map[ID]bool)
	for p, list := range byParent {
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].Start != list[j].Start {
				return list[i].Start < list[j].Start
			}
			return list[i].End < list[j].End
		})
		for i := 1; i < len(list); i++ {
			prev := list[i-1]
			if list[i].Start < prev.End || (list[i].Start == prev.Start && prev.Start == prev.End && list[i].Start == list[i].End) {
				return nil, fmt.Errorf("overlapping splices on segment %d", p)
			}
		}
		if _, ok := parents[p]; !ok && p != t.Root {
			return nil, fmt.Errorf("splice parent %d is not part of the tree", p)
		}
		for x, ok := p, true; ok; x, ok = parents[x] {
			dirty[x] = true
		}
	}

	var rebuild func(ID) ID
	rebuild = func(id ID) ID {
		if !dirty[id] {
			return id
		}
		s := t.arena.segs[id]
		list := byParent[id]
		children := make([]ID, 0, len(s.Children))
		next := 0
		for i := 0; i <= len(s.Children); i++ {
			for next < len(list) && list[next].Start == i {
				children = append(children, list[next].With...)
				i = list[next].End
				next++
			}
			if i < len(s.Children) {
				children = append(children, rebuild(s.Children[i]))
			}
		}
		return t.arena.Branch(s.Type, children)
	}

	return &Tree{arena: t.arena, Root: rebuild(t.Root)}, nil
}
