package starlark

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/leapstack-labs/leaplint/pkg/lint"
)

// Edit is a proposed change to one segment, built by replace(), delete(),
// insert_before() and insert_after().
type Edit struct {
	edit lint.Edit
}

var _ starlark.Value = (*Edit)(nil)

func (e *Edit) String() string        { return fmt.Sprintf("edit(%s)", e.edit.Op) }
func (e *Edit) Type() string          { return "edit" }
func (e *Edit) Freeze()               {}
func (e *Edit) Truth() starlark.Bool  { return starlark.True }
func (e *Edit) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: edit") }

// editBuiltin builds an edit constructor. withText selects whether the
// builtin takes a replacement text after the segment.
func editBuiltin(name string, withText bool, build func(seg *Segment, text string) lint.Edit) *starlark.Builtin {
	return starlark.NewBuiltin(name, func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var (
			target starlark.Value
			text   string
		)
		var err error
		if withText {
			err = starlark.UnpackArgs(b.Name(), args, kwargs, "segment", &target, "text", &text)
		} else {
			err = starlark.UnpackArgs(b.Name(), args, kwargs, "segment", &target)
		}
		if err != nil {
			return nil, err
		}
		seg, err := asSegment(b.Name(), target)
		if err != nil {
			return nil, err
		}
		return &Edit{edit: build(seg, text)}, nil
	})
}

// Predeclared returns the globals available to rule files: rule, replace,
// delete, insert_before, insert_after and struct.
func Predeclared() starlark.StringDict {
	return starlark.StringDict{
		"rule": starlark.NewBuiltin("rule", defineRule),
		"replace": editBuiltin("replace", true, func(seg *Segment, text string) lint.Edit {
			return lint.ReplaceWith(seg.id, text)
		}),
		"delete": editBuiltin("delete", false, func(seg *Segment, _ string) lint.Edit {
			return lint.Delete(seg.id)
		}),
		"insert_before": editBuiltin("insert_before", true, func(seg *Segment, text string) lint.Edit {
			return lint.InsertBefore(seg.id, text)
		}),
		"insert_after": editBuiltin("insert_after", true, func(seg *Segment, text string) lint.Edit {
			return lint.InsertAfter(seg.id, text)
		}),
		"struct": starlark.NewBuiltin("struct", starlarkstruct.Make),
	}
}
