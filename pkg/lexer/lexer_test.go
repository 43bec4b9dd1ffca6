package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/pkg/token"
)

func testConfig() Config {
	cfg := DefaultConfig()
	for _, kw := range []string{"SELECT", "FROM", "WHERE"} {
		cfg.Keywords[kw] = true
	}
	return cfg
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func concat(toks []token.Token) string {
	var sb strings.Builder
	for _, t := range toks {
		sb.WriteString(t.Raw)
	}
	return sb.String()
}

func TestLex_Lossless(t *testing.T) {
	inputs := []string{
		"",
		"select  1 from t",
		"SELECT a, b -- trailing\nFROM t /* block */ WHERE x <> 'it''s'\r\n",
		"select \"quoted \"\" id\" from t;",
		"select 1.5e10, .5, 3 from t",
		"select ¤¤ from t",
		"select 'unterminated",
		"/* open comment",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			toks, err := Lex(in, testConfig())
			require.NoError(t, err)
			assert.Equal(t, in, concat(toks))
			require.NotEmpty(t, toks)
			assert.Equal(t, token.EOF, toks[len(toks)-1].Kind)
		})
	}
}

func TestLex_Kinds(t *testing.T) {
	toks, err := Lex("select  a1 from t;", testConfig())
	require.NoError(t, err)

	assert.Equal(t, []token.Kind{
		token.Keyword, token.Whitespace, token.Identifier, token.Whitespace,
		token.Keyword, token.Whitespace, token.Identifier, token.Symbol, token.EOF,
	}, kinds(toks))
	assert.Equal(t, "  ", toks[1].Raw)
	assert.Equal(t, token.Position{Line: 1, Column: 7, Offset: 6}, toks[1].Pos)
}

func TestLex_Positions(t *testing.T) {
	toks, err := Lex("a\n  b", testConfig())
	require.NoError(t, err)
	require.Len(t, toks, 5)

	b := toks[3]
	assert.Equal(t, "b", b.Raw)
	assert.Equal(t, token.Position{Line: 2, Column: 3, Offset: 4}, b.Pos)
}

func TestLex_Operators(t *testing.T) {
	toks, err := Lex("a<>b!=c<=d||e", testConfig())
	require.NoError(t, err)

	var syms []string
	for _, tok := range toks {
		if tok.Kind == token.Symbol {
			syms = append(syms, tok.Raw)
		}
	}
	assert.Equal(t, []string{"<>", "!=", "<=", "||"}, syms)
}

func TestLex_Unlexable(t *testing.T) {
	toks, err := Lex("select ¤¤ from", testConfig())
	require.NoError(t, err)

	assert.Equal(t, token.Unlexable, toks[2].Kind)
	assert.Equal(t, "¤¤", toks[2].Raw)
	assert.Equal(t, token.Keyword, toks[4].Kind, "lexing resumes after the unlexable span")
}

func TestLex_UnterminatedString(t *testing.T) {
	toks, err := Lex("select 'abc", testConfig())
	require.NoError(t, err)
	assert.Equal(t, token.Unlexable, toks[2].Kind)
	assert.Equal(t, "'abc", toks[2].Raw)
}

func TestLex_DialectRules(t *testing.T) {
	t.Run("backtick identifiers and hash comments", func(t *testing.T) {
		cfg := testConfig()
		cfg.IdentifierQuotes = []QuotePair{{Open: '`', Close: '`'}}
		cfg.LineComments = []string{"--", "#"}

		toks, err := Lex("select `a b` # note", cfg)
		require.NoError(t, err)
		assert.Equal(t, token.Identifier, toks[2].Kind)
		assert.Equal(t, "`a b`", toks[2].Raw)
		assert.Equal(t, token.Comment, toks[4].Kind)
	})

	t.Run("bracket identifiers", func(t *testing.T) {
		cfg := testConfig()
		cfg.IdentifierQuotes = append(cfg.IdentifierQuotes, QuotePair{Open: '[', Close: ']'})

		toks, err := Lex("select [my col]", cfg)
		require.NoError(t, err)
		assert.Equal(t, "[my col]", toks[2].Raw)
		assert.Equal(t, token.Identifier, toks[2].Kind)
	})

	t.Run("nested block comments", func(t *testing.T) {
		cfg := testConfig()
		cfg.NestedBlockComments = true

		toks, err := Lex("/* a /* b */ c */select", cfg)
		require.NoError(t, err)
		assert.Equal(t, token.Comment, toks[0].Kind)
		assert.Equal(t, "/* a /* b */ c */", toks[0].Raw)
		assert.Equal(t, token.Keyword, toks[1].Kind)
	})

	t.Run("dollar quoted strings", func(t *testing.T) {
		cfg := testConfig()
		cfg.DollarQuotedStrings = true

		toks, err := Lex("select $fn$ it's $fn$", cfg)
		require.NoError(t, err)
		assert.Equal(t, token.Literal, toks[2].Kind)
		assert.Equal(t, "$fn$ it's $fn$", toks[2].Raw)
	})

	t.Run("backslash escapes", func(t *testing.T) {
		cfg := testConfig()
		cfg.BackslashEscapes = true

		toks, err := Lex(`select 'a\'b'`, cfg)
		require.NoError(t, err)
		assert.Equal(t, `'a\'b'`, toks[2].Raw)
	})
}

func TestLex_InvalidUTF8(t *testing.T) {
	_, err := Lex("select \xff", testConfig())
	require.Error(t, err)

	var lexErr *LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, 8, lexErr.Pos.Column)
	assert.Contains(t, err.Error(), "lexer error at line 1, column 8")
}
