package lint_test

import (
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/internal/testutil"
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/dialects/ansi"
	"github.com/leapstack-labs/leaplint/pkg/lexer"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/parser"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func parseANSI(t *testing.T, sql string) (*segment.Tree, *dialect.Dialect) {
	t.Helper()
	reg, err := dialect.NewRegistry(ansi.ANSI)
	require.NoError(t, err)
	d, err := reg.Resolve("ansi")
	require.NoError(t, err)
	toks, err := lexer.Lex(sql, d.LexerConfig())
	require.NoError(t, err)
	return parser.Parse(toks, d).Tree, d
}

// keywordRule flags every keyword leaf that is not upper case.
var keywordRule = lint.Wrap(lint.RuleDef{
	ID:       "TK01",
	Name:     "test.keywords",
	Severity: core.SeverityWarning,
	Crawls:   []string{parser.TypeKeyword},
	Fixable:  true,
	Check: func(ctx *lint.Context) ([]lint.Violation, error) {
		raw := ctx.Raw(ctx.Segment)
		if raw == strings.ToUpper(raw) {
			return nil, nil
		}
		fix := lint.NewFix(lint.ReplaceWith(ctx.Segment, strings.ToUpper(raw)))
		return []lint.Violation{ctx.Violation(ctx.Segment, "keyword not upper case", fix)}, nil
	},
})

func TestEngine_DispatchesByType(t *testing.T) {
	tree, d := parseANSI(t, "select a from t")
	e := lint.NewEngine(nil, testutil.NewTestLogger(t))

	res := e.Run(tree, d, []lint.Rule{keywordRule}, 0)
	require.Len(t, res.Violations, 2)
	assert.Empty(t, res.Errors)

	first := res.Violations[0]
	assert.Equal(t, "TK01", first.RuleID)
	assert.Equal(t, core.SeverityWarning, first.Severity)
	assert.Equal(t, 1, first.Span.Start.Column)
	assert.Equal(t, 10, res.Violations[1].Span.Start.Column)

	require.NotNil(t, first.Fix)
	assert.Equal(t, "TK01", first.Fix.RuleID)
	assert.NotEmpty(t, first.Fix.ID)
	assert.Len(t, res.Fixes(), 2)
}

func TestEngine_FixIDsAreDeterministic(t *testing.T) {
	e := lint.NewEngine(nil, nil)

	tree1, d := parseANSI(t, "select a from t")
	tree2, _ := parseANSI(t, "select a from t")
	a := e.Run(tree1, d, []lint.Rule{keywordRule}, 0)
	b := e.Run(tree2, d, []lint.Rule{keywordRule}, 0)
	c := e.Run(tree2, d, []lint.Rule{keywordRule}, 1)

	assert.Equal(t, a.Violations[0].Fix.ID, b.Violations[0].Fix.ID)
	assert.NotEqual(t, a.Violations[0].Fix.ID, a.Violations[1].Fix.ID)
	assert.NotEqual(t, a.Violations[0].Fix.ID, c.Violations[0].Fix.ID, "pass is part of the ID")
}

func TestEngine_RuleOrderIsRegistrationOrder(t *testing.T) {
	fileRule := lint.Wrap(lint.RuleDef{
		ID:     "TK00",
		Crawls: []string{segment.TypeFile},
		Check: func(ctx *lint.Context) ([]lint.Violation, error) {
			return []lint.Violation{ctx.Violation(ctx.Segment, "file", nil)}, nil
		},
	})
	tree, d := parseANSI(t, "select a")

	res := lint.NewEngine(nil, nil).Run(tree, d, []lint.Rule{keywordRule, fileRule}, 0)
	require.Len(t, res.Violations, 2)
	assert.Equal(t, "TK01", res.Violations[0].RuleID)
	assert.Equal(t, "TK00", res.Violations[1].RuleID)
}

func TestEngine_IsolatesFailingRules(t *testing.T) {
	panics := lint.Wrap(lint.RuleDef{
		ID: "TK02",
		Check: func(*lint.Context) ([]lint.Violation, error) {
			panic("boom")
		},
	})
	fails := lint.Wrap(lint.RuleDef{
		ID:     "TK03",
		Crawls: []string{parser.TypeKeyword},
		Check: func(*lint.Context) ([]lint.Violation, error) {
			return nil, errors.New("bad option")
		},
	})
	tree, d := parseANSI(t, "select a from t")

	logs, logger := testutil.NewLogRecorder(t)
	res := lint.NewEngine(nil, logger).Run(tree, d, []lint.Rule{panics, fails, keywordRule}, 0)
	assert.Len(t, res.Violations, 2, "healthy rule still reports")
	assert.Equal(t, []string{"rule failed", "rule failed"}, logs.Messages(slog.LevelWarn))
	rule, ok := logs.Attr(slog.LevelWarn, 0, "rule")
	require.True(t, ok)
	assert.Equal(t, "TK02", rule.String())
	require.Len(t, res.Errors, 2, "each failing rule reported once")
	assert.Equal(t, "TK02", res.Errors[0].RuleID)
	assert.Contains(t, res.Errors[0].Error(), "panic: boom")
	assert.Equal(t, "TK03", res.Errors[1].RuleID)
	assert.ErrorContains(t, res.Errors[1], "bad option")
}

func TestEngine_SeverityOverrideAndDisable(t *testing.T) {
	cfg := lint.NewConfig().SetSeverity("tk01", core.SeverityError)
	e := lint.NewEngine(cfg, nil)
	tree, d := parseANSI(t, "select a")

	res := e.Run(tree, d, e.Enabled([]lint.Rule{keywordRule}), 0)
	require.Len(t, res.Violations, 1)
	assert.Equal(t, core.SeverityError, res.Violations[0].Severity)

	cfg.Disable("TK01")
	assert.Empty(t, e.Enabled([]lint.Rule{keywordRule}))
}

func TestEngine_Noqa(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want int
	}{
		{"no directive", "select a\nfrom t", 2},
		{"bare noqa", "select a -- noqa\nfrom t", 1},
		{"listed rule", "select a -- noqa: TK01\nfrom t", 1},
		{"other rule", "select a -- noqa: CP01\nfrom t", 2},
		{"prefix", "select a -- noqa: TK*\nfrom t", 1},
		{"range", "-- noqa: disable=TK01\nselect a\nfrom t", 0},
		{"range re-enabled", "-- noqa: disable=all\nselect a\n-- noqa: enable=all\nfrom t", 1},
		{"block comment", "select a /* noqa */\nfrom t", 1},
		{"not a directive", "select a -- noqa is great\nfrom t", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, d := parseANSI(t, tt.sql)
			res := lint.NewEngine(nil, nil).Run(tree, d, []lint.Rule{keywordRule}, 0)
			assert.Len(t, res.Violations, tt.want)
			assert.Equal(t, 2-tt.want, res.Suppressed)
		})
	}
}
