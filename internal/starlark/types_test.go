package starlark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
)

func TestGoToStarlark(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "None"},
		{"string", "leading", `"leading"`},
		{"bool", true, "True"},
		{"int", 80, "80"},
		{"int64", int64(120), "120"},
		{"float", 0.5, "0.5"},
		{"strings", []string{"a", "b"}, `["a", "b"]`},
		{"mixed list", []any{"a", 1}, `["a", 1]`},
		{"map sorted", map[string]any{"z": 1, "a": []any{true}}, `{"a": [True], "z": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := GoToStarlark(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestGoToStarlark_FrozenAndUnsupported(t *testing.T) {
	v, err := GoToStarlark(map[string]any{"k": []any{1}})
	require.NoError(t, err)
	err = v.(*starlark.Dict).SetKey(starlark.String("x"), starlark.None)
	assert.Error(t, err, "option values are frozen")

	_, err = GoToStarlark(map[string]any{"k": struct{}{}})
	assert.ErrorContains(t, err, `dict key "k"`)
}

func TestStringList(t *testing.T) {
	got, err := stringList("crawls", starlark.NewList([]starlark.Value{starlark.String("keyword")}))
	require.NoError(t, err)
	assert.Equal(t, []string{"keyword"}, got)

	got, err = stringList("crawls", nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = stringList("crawls", starlark.NewList([]starlark.Value{starlark.MakeInt(1)}))
	assert.ErrorContains(t, err, "crawls[0]: got int, want string")
}
