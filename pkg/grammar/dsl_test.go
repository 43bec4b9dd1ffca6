package grammar

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want Expr
	}{
		{
			name: "keyword",
			src:  "SELECT",
			want: Keyword{Word: "SELECT"},
		},
		{
			name: "reference",
			src:  "select_list",
			want: Ref{Name: "select_list"},
		},
		{
			name: "sequence with symbol",
			src:  `"(" expression ")"`,
			want: Seq{Items: []Expr{Symbol{Text: "("}, Ref{Name: "expression"}, Symbol{Text: ")"}}},
		},
		{
			name: "alternation keeps order",
			src:  "UNION | INTERSECT | EXCEPT",
			want: OneOf{Alts: []Expr{Keyword{Word: "UNION"}, Keyword{Word: "INTERSECT"}, Keyword{Word: "EXCEPT"}}},
		},
		{
			name: "optional and repeat",
			src:  `select_item { "," select_item }`,
			want: Seq{Items: []Expr{
				Ref{Name: "select_item"},
				Repeat{Item: Seq{Items: []Expr{Symbol{Text: ","}, Ref{Name: "select_item"}}}},
			}},
		},
		{
			name: "one or more",
			src:  "( join_clause )+",
			want: Repeat{Item: Ref{Name: "join_clause"}, Min: 1},
		},
		{
			name: "token class",
			src:  "[ AS ] <identifier>",
			want: Seq{Items: []Expr{Optional{Item: Keyword{Word: "AS"}}, Match{Class: ClassIdentifier}}},
		},
		{
			name: "operator symbol",
			src:  `expr ( "||" | "::" ) expr`,
			want: Seq{Items: []Expr{
				Ref{Name: "expr"},
				OneOf{Alts: []Expr{Symbol{Text: "||"}, Symbol{Text: "::"}}},
				Ref{Name: "expr"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.src)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.src, diff)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, src := range []string{"", "[ SELECT", "<bogus>", `""`, "a | | b"} {
		t.Run(src, func(t *testing.T) {
			_, err := Parse(src)
			assert.Error(t, err)
		})
	}
}

func TestString_RoundTrip(t *testing.T) {
	for _, src := range []string{
		`SELECT [ DISTINCT | ALL ] select_list [ from_clause ]`,
		`"(" expression { "," expression } ")"`,
		`( join_clause )+ <identifier>`,
	} {
		e := MustParse(src)
		again, err := Parse(e.String())
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(e, again))
	}
}

func TestRefsAndKeywords(t *testing.T) {
	e := MustParse(`SELECT select_list [ FROM table_ref { "," table_ref } ] [ where_clause ]`)
	assert.Equal(t, []string{"select_list", "table_ref", "where_clause"}, Refs(e))
	assert.Equal(t, []string{"SELECT", "FROM"}, Keywords(e))
}
