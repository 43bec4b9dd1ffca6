package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/pkg/grammar"
	"github.com/leapstack-labs/leaplint/pkg/lexer"
)

func rootDef() *Definition {
	return New("base").
		Insert("statement", "select_statement").
		Insert("select_statement", "SELECT expression [ from_clause ]").
		Insert("from_clause", "FROM <identifier>").
		Insert("expression", "<literal> | <identifier>").
		Reserved("SELECT", "FROM").
		MustBuild()
}

func TestNewRegistry_Inheritance(t *testing.T) {
	child := New("child").
		Extends("base").
		Replace("expression", `<literal> | <identifier> | "*"`).
		Insert("limit_clause", "LIMIT <number>").
		Replace("select_statement", "SELECT expression [ from_clause ] [ limit_clause ]").
		Reserved("LIMIT").
		IdentifierQuotes(lexer.QuotePair{Open: '`', Close: '`'}).
		MustBuild()
	grandchild := New("grandchild").Extends("child").Unreserved("QUALIFY").MustBuild()

	reg, err := NewRegistry(grandchild, child, rootDef())
	require.NoError(t, err)

	base, err := reg.Resolve("base")
	require.NoError(t, err)
	d, err := reg.Resolve("GrandChild")
	require.NoError(t, err)

	assert.Equal(t, []string{"base", "child", "grandchild"}, d.Chain())
	assert.Equal(t, "child", d.Parent())

	r, ok := d.Rule("expression")
	require.True(t, ok)
	assert.Equal(t, `<literal> | <identifier> | "*"`, r.Expr.String(), "child override wins")

	_, ok = base.Rule("limit_clause")
	assert.False(t, ok, "parent is unaffected by child insertions")
	_, ok = d.Rule("limit_clause")
	assert.True(t, ok, "insertions are inherited")

	assert.True(t, d.IsReserved("limit"))
	assert.False(t, base.IsKeyword("LIMIT"))
	assert.True(t, d.IsKeyword("qualify"))
	assert.False(t, d.IsReserved("qualify"))

	assert.Equal(t, []lexer.QuotePair{{Open: '`', Close: '`'}}, d.LexerConfig().IdentifierQuotes)
	assert.Equal(t, []lexer.QuotePair{{Open: '"', Close: '"'}}, base.LexerConfig().IdentifierQuotes)

	assert.Equal(t, []Info{
		{Name: "base"},
		{Name: "child", Parent: "base"},
		{Name: "grandchild", Parent: "child"},
	}, reg.List())
}

func TestNewRegistry_RuleIndexIsStable(t *testing.T) {
	reg, err := NewRegistry(rootDef())
	require.NoError(t, err)
	d, err := reg.Resolve("base")
	require.NoError(t, err)

	for i := 0; i < d.RuleCount(); i++ {
		r := d.RuleAt(i)
		idx, ok := d.RuleIndex(r.Name)
		require.True(t, ok)
		assert.Equal(t, i, idx)
	}
}

func TestNewRegistry_GrammarKeywordsLexAsKeywords(t *testing.T) {
	reg, err := NewRegistry(rootDef())
	require.NoError(t, err)
	d, err := reg.Resolve("base")
	require.NoError(t, err)

	assert.True(t, d.LexerConfig().IsKeyword("select"))
	assert.True(t, d.IsReserved("from"))
}

func TestNewRegistry_Errors(t *testing.T) {
	tests := []struct {
		name    string
		defs    func() []*Definition
		wantErr string
		check   func(t *testing.T, err error)
	}{
		{
			name: "cycle",
			defs: func() []*Definition {
				return []*Definition{
					New("a").Extends("b").MustBuild(),
					New("b").Extends("a").MustBuild(),
				}
			},
			check: func(t *testing.T, err error) {
				var cycle *CycleError
				require.ErrorAs(t, err, &cycle)
				assert.Equal(t, []string{"a", "b", "a"}, cycle.Path)
			},
		},
		{
			name: "self parent",
			defs: func() []*Definition {
				return []*Definition{New("a").Extends("a").MustBuild()}
			},
			wantErr: "dialect inheritance cycle: a -> a",
		},
		{
			name: "unknown parent",
			defs: func() []*Definition {
				return []*Definition{rootDef(), New("x").Extends("nope").MustBuild()}
			},
			wantErr: `dialect "x" extends unknown dialect "nope"`,
		},
		{
			name: "dangling reference",
			defs: func() []*Definition {
				return []*Definition{
					rootDef(),
					New("broken").Extends("base").Replace("from_clause", "FROM table_ref").MustBuild(),
				}
			},
			check: func(t *testing.T, err error) {
				var dangling *DanglingRefError
				require.ErrorAs(t, err, &dangling)
				assert.Equal(t, "broken", dangling.Dialect)
				assert.Equal(t, "table_ref", dangling.Ref)
			},
		},
		{
			name: "replace of a missing rule",
			defs: func() []*Definition {
				return []*Definition{rootDef(), New("x").Extends("base").Replace("nope", "SELECT").MustBuild()}
			},
			wantErr: `replaces rule "nope"`,
		},
		{
			name: "insert of an existing rule",
			defs: func() []*Definition {
				return []*Definition{rootDef(), New("x").Extends("base").Insert("statement", "SELECT").MustBuild()}
			},
			wantErr: `inserts rule "statement"`,
		},
		{
			name: "missing statement rule",
			defs: func() []*Definition {
				return []*Definition{New("empty").Insert("x", "SELECT").MustBuild()}
			},
			wantErr: `does not define the "statement" rule`,
		},
		{
			name: "duplicate",
			defs: func() []*Definition {
				return []*Definition{rootDef(), rootDef()}
			},
			wantErr: "registered twice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.defs()...)
			require.Error(t, err)
			if tt.wantErr != "" {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, err)
			}
		})
	}
}

func TestResolve_Unknown(t *testing.T) {
	reg, err := NewRegistry(rootDef())
	require.NoError(t, err)

	_, err = reg.Resolve("not_a_real_dialect")
	var unknown *UnknownDialectError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "not_a_real_dialect", unknown.Name)
}

func TestBuilder_GrammarError(t *testing.T) {
	_, err := New("bad").Insert("statement", "[ SELECT").Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `rule "statement"`)
}

func TestRule_Transparent(t *testing.T) {
	def := New("t").
		Insert("statement", "_items").
		Insert("_items", "<identifier> { \",\" <identifier> }").
		MustBuild()
	reg, err := NewRegistry(def)
	require.NoError(t, err)
	d, _ := reg.Resolve("t")

	r, ok := d.Rule("_items")
	require.True(t, ok)
	assert.True(t, r.Transparent)
	assert.IsType(t, grammar.Seq{}, r.Expr)
}
