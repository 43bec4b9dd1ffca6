package starlark

import (
	"context"
	"os"
	"strings"
	"sync"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/internal/testutil"
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/linter"
)

func writeRule(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func loadRules(t *testing.T, src string) []lint.Rule {
	t.Helper()
	path := writeRule(t, t.TempDir(), "rules.star", src)
	rules, err := NewLoader(testutil.NewTestLogger(t), 0).Load(path)
	require.NoError(t, err)
	return rules
}

const noStar = `
def check(ctx):
    ctx.report(ctx.segment, "Avoid SELECT *")

rule(
    id = "CU01",
    description = "Wildcards hide the selected columns.",
    crawls = ["wildcard_expression"],
    check = check,
)
`

func TestLoad_ReportsViolations(t *testing.T) {
	rules := loadRules(t, noStar)
	require.Len(t, rules, 1)

	info := lint.GetRuleInfo(rules[0])
	assert.Equal(t, "CU01", info.ID)
	assert.Equal(t, "custom.cu01", info.Name)
	assert.Equal(t, "custom", info.Group)
	assert.Equal(t, core.SeverityWarning, info.DefaultSeverity)
	assert.False(t, info.Fixable)

	rep, err := linter.New(linter.WithRules(rules...)).Lint("SELECT * FROM t\n", "ansi", nil)
	require.NoError(t, err)
	require.Len(t, rep.Violations, 1)
	v := rep.Violations[0]
	assert.Equal(t, "CU01", v.RuleID)
	assert.Equal(t, "Avoid SELECT *", v.Message)
	assert.Equal(t, 1, v.Pos().Line)
	assert.Equal(t, 8, v.Pos().Column)
}

func TestLoad_FixIsApplied(t *testing.T) {
	rules := loadRules(t, `
def check(ctx):
    seg = ctx.segment
    if seg.raw != seg.raw.upper():
        ctx.report(seg, "Keywords must be upper case", fix = replace(seg, seg.raw.upper()))

rule(id = "CU02", severity = "error", crawls = ["keyword"], fixable = True, check = check)
`)
	l := linter.New(linter.WithRules(rules...))

	rep, err := l.Fix("select a from t\n", "ansi", nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT a FROM t\n", rep.FixedText)
	assert.True(t, rep.Converged)
	assert.Len(t, rep.Applied, 2)
	assert.Empty(t, rep.Violations)
}

func TestLoad_OptionsAndNavigation(t *testing.T) {
	rules := loadRules(t, `
def too_many(ctx):
    limit = ctx.options.get("max_columns", 2)
    n = len(ctx.segment.find("select_clause_element"))
    if n > limit:
        ctx.report(ctx.segment, "%d columns exceed %d" % (n, limit))

def from_table(ctx):
    seg = ctx.segment
    if seg.raw.upper() != "FROM":
        return
    nxt = ctx.next_code(seg)
    if nxt != None and ctx.has_ancestor("select_statement"):
        ctx.report(nxt, "reads %s on %s" % (nxt.raw, ctx.dialect))

rule(id = "CU03", crawls = ["select_clause"], config_keys = ["max_columns"], check = too_many)
rule(id = "CU04", crawls = ["keyword"], severity = "info", check = from_table)
`)
	require.Len(t, rules, 2)
	l := linter.New(linter.WithRules(rules...))

	rep, err := l.Lint("SELECT a, b FROM t\n", "postgres", nil)
	require.NoError(t, err)
	require.Len(t, rep.Violations, 1)
	assert.Equal(t, "CU04", rep.Violations[0].RuleID)
	assert.Equal(t, "reads t on postgres", rep.Violations[0].Message)
	assert.Equal(t, core.SeverityInfo, rep.Violations[0].Severity)

	cfg := lint.NewConfig().SetRuleOptions("CU03", map[string]any{"max_columns": 1})
	rep, err = l.Lint("SELECT a, b FROM t\n", "postgres", cfg)
	require.NoError(t, err)
	var messages []string
	for _, v := range rep.Violations {
		messages = append(messages, v.RuleID+": "+v.Message)
	}
	assert.Contains(t, messages, "CU03: 2 columns exceed 1")
}

func TestLoad_RuntimeFailuresBecomeRuleErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		substr string
	}{
		{
			name:   "fail",
			src:    "def check(ctx):\n    fail(\"boom\")\n",
			substr: "boom",
		},
		{
			name:   "frozen globals",
			src:    "seen = []\ndef check(ctx):\n    seen.append(ctx.segment)\n",
			substr: "frozen",
		},
		{
			name:   "rule outside load",
			src:    "def check(ctx):\n    rule(id = \"X\", check = check)\n",
			substr: "only allowed while loading",
		},
		{
			name:   "bad report argument",
			src:    "def check(ctx):\n    ctx.report(\"x\", \"msg\")\n",
			substr: "want segment",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := loadRules(t, tt.src+"rule(id = \"CU09\", crawls = [\"keyword\"], check = check)\n")

			rep, err := linter.New(linter.WithRules(rules...)).Lint("SELECT 1\n", "ansi", nil)
			require.NoError(t, err)
			require.Len(t, rep.RuleErrors, 1)
			assert.Equal(t, "CU09", rep.RuleErrors[0].RuleID)
			assert.Contains(t, rep.RuleErrors[0].Error(), tt.substr)
		})
	}
}

func TestLoad_StepLimit(t *testing.T) {
	path := writeRule(t, t.TempDir(), "slow.star", `
def check(ctx):
    for i in range(1000000):
        pass

rule(id = "CU05", crawls = ["keyword"], check = check)
`)
	rules, err := NewLoader(nil, 1000).Load(path)
	require.NoError(t, err)

	rep, err := linter.New(linter.WithRules(rules...)).Lint("SELECT 1\n", "ansi", nil)
	require.NoError(t, err)
	require.Len(t, rep.RuleErrors, 1)
	assert.Contains(t, rep.RuleErrors[0].Error(), "too many steps")
}

func TestLoad_Directory(t *testing.T) {
	dir := t.TempDir()
	writeRule(t, dir, "b.star", `rule(id = "CU02", check = lambda ctx: None)`)
	writeRule(t, dir, "a.star", `rule(id = "CU01", check = lambda ctx: None)`)
	writeRule(t, dir, "notes.txt", "ignored")

	rules, err := NewLoader(nil, 0).Load(dir)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "CU01", rules[0].ID())
	assert.Equal(t, "CU02", rules[1].ID())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		substr string
	}{
		{"syntax error", "rule(id = \n", "rules.star"},
		{"no rules", "x = 1\n", "defines no rules"},
		{"unknown severity", `rule(id = "CU01", severity = "fatal", check = lambda ctx: None)`, "unknown severity"},
		{"bad phase", `rule(id = "CU01", phase = "late", check = lambda ctx: None)`, "phase must be"},
		{"empty id", `rule(id = " ", check = lambda ctx: None)`, "id must not be empty"},
		{"missing check", `rule(id = "CU01")`, "missing argument for check"},
		{"bad crawls", `rule(id = "CU01", crawls = [1], check = lambda ctx: None)`, "crawls[0]"},
		{"duplicate id", `rule(id = "CU01", check = lambda ctx: None)
rule(id = "cu01", check = lambda ctx: None)`, "already defined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeRule(t, t.TempDir(), "rules.star", tt.src)

			_, err := NewLoader(nil, 0).Load(path)
			require.Error(t, err)
			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, path, loadErr.File)
			assert.Contains(t, err.Error(), tt.substr)
		})
	}
}

func TestLoad_MissingPath(t *testing.T) {
	_, err := NewLoader(nil, 0).Load(filepath.Join(t.TempDir(), "absent.star"))
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

type reportCache struct {
	mu      sync.Mutex
	reports map[string]*linter.LintReport
}

func (c *reportCache) Get(_ context.Context, key string) (*linter.LintReport, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.reports[key]
	return r, ok, nil
}

func (c *reportCache) Put(_ context.Context, key string, r *linter.LintReport) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports[key] = r
	return nil
}

func TestLoad_EditedRuleMissesCache(t *testing.T) {
	dir := t.TempDir()
	rulePath := writeRule(t, dir, "rules.star", noStar)
	sqlPath := filepath.Join(dir, "q.sql")
	require.NoError(t, os.WriteFile(sqlPath, []byte("SELECT * FROM t\n"), 0o600))

	cache := &reportCache{reports: make(map[string]*linter.LintReport)}
	lintWith := func() linter.FileResult {
		t.Helper()
		rules, err := NewLoader(testutil.NewTestLogger(t), 0).Load(rulePath)
		require.NoError(t, err)
		l := linter.New(linter.WithRules(rules...), linter.WithCache(cache))
		results, err := l.LintPaths(context.Background(), []string{sqlPath}, linter.PathOptions{Dialect: "ansi"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		require.NoError(t, results[0].Err)
		return results[0]
	}

	first := lintWith()
	assert.False(t, first.Cached)
	assert.True(t, lintWith().Cached, "unchanged rule file hits the cache")

	writeRule(t, dir, "rules.star", strings.Replace(noStar, "Avoid SELECT *", "List the columns", 1))
	edited := lintWith()
	assert.False(t, edited.Cached, "edited rule file misses the cache")
	require.Len(t, edited.Lint.Violations, 1)
	assert.Equal(t, "List the columns", edited.Lint.Violations[0].Message)
}

func TestLoad_FingerprintTracksContent(t *testing.T) {
	a := loadRules(t, noStar)[0].(lint.Fingerprinter).Fingerprint()
	b := loadRules(t, noStar)[0].(lint.Fingerprinter).Fingerprint()
	c := loadRules(t, noStar+"\n# changed\n")[0].(lint.Fingerprinter).Fingerprint()

	assert.NotEmpty(t, a)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
