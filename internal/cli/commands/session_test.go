package commands

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/internal/cache"
	"github.com/leapstack-labs/leaplint/internal/cli/config"
	"github.com/leapstack-labs/leaplint/internal/cli/testutil"
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/linter"
)

func testContext(t *testing.T) (*CommandContext, *testutil.TestRenderer) {
	t.Helper()
	tr := testutil.NewTestRendererMarkdown()
	return &CommandContext{
		Cfg:      config.Default(),
		Logger:   slog.New(slog.DiscardHandler),
		Renderer: tr.Renderer,
	}, tr
}

func TestInitCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "project")

	out, _, err := execute(t, NewInitCommand(), "", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Created "+filepath.Join(dir, "leaplint.yaml"))
	assert.FileExists(t, filepath.Join(dir, config.IgnoreFile))

	t.Cleanup(config.ResetConfig)
	cfg, err := config.LoadConfig(filepath.Join(dir, "leaplint.yaml"), nil)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultDialect, cfg.Dialect)
	assert.Equal(t, config.DefaultMaxIterations, cfg.MaxIterations)
	assert.True(t, cfg.Cache.Enabled)

	_, _, err = execute(t, NewInitCommand(), "", dir)
	assert.ErrorContains(t, err, "already exists")

	_, _, err = execute(t, NewInitCommand(), "", "--force", dir)
	assert.NoError(t, err)
}

func TestInitCommand_TOML(t *testing.T) {
	dir := t.TempDir()

	_, _, err := execute(t, NewInitCommand(), "", "--format", "toml", dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "leaplint.toml"))
	require.NoError(t, err)
	var cfg config.Config
	require.NoError(t, toml.Unmarshal(data, &cfg))
	assert.Equal(t, "ansi", cfg.Dialect)
	assert.Equal(t, []string{".sql"}, cfg.Extensions)

	_, _, err = execute(t, NewInitCommand(), "", "--format", "ini", t.TempDir())
	assert.ErrorContains(t, err, `unknown config format "ini"`)
}

func TestREPLSession_Statements(t *testing.T) {
	cc, tr := testContext(t)
	s := newREPLSession(cc, linter.New())
	s.cfg.Only("LT01")

	prompt, quit := s.handleLine("select  1")
	assert.Equal(t, replContinuePrompt, prompt, "statement continues until ;")
	assert.False(t, quit)
	assert.Empty(t, tr.Output())

	prompt, _ = s.handleLine("from t;")
	assert.Equal(t, replPrompt, prompt)
	assert.Contains(t, tr.Output(), "LT01")
	assert.Contains(t, tr.Output(), "```sql\nselect  1\n")

	tr.Reset()
	s.handleLine("select 1 from t;")
	assert.Contains(t, tr.Output(), "No issues")
}

func TestREPLSession_FixMode(t *testing.T) {
	cc, tr := testContext(t)
	s := newREPLSession(cc, linter.New())
	s.cfg.Only("LT01")

	s.handleLine(".fix")
	assert.Contains(t, tr.Output(), "Fix mode on")

	tr.Reset()
	s.handleLine("select  1 from t;")
	assert.Contains(t, tr.Output(), "select 1 from t;\n")
	assert.Contains(t, tr.Output(), "No issues")
}

func TestREPLSession_DotCommands(t *testing.T) {
	cc, tr := testContext(t)
	s := newREPLSession(cc, linter.New())

	s.handleLine(".help")
	assert.Contains(t, tr.Output(), ".dialect [name]")

	s.handleLine(".dialect postgres")
	assert.Equal(t, "postgres", s.dialect)

	tr.Reset()
	s.handleLine(".dialects")
	assert.Contains(t, tr.Output(), "* postgres")
	assert.Contains(t, tr.Output(), "  redshift (extends postgres)")

	s.handleLine(".dialect oracle")
	assert.Equal(t, "postgres", s.dialect)
	assert.Contains(t, tr.ErrorOutput(), `unknown dialect "oracle"`)

	s.handleLine(".disable lt01 CP01")
	assert.True(t, s.cfg.IsDisabled("LT01"))
	assert.True(t, s.cfg.IsDisabled("cp01"))

	s.handleLine(".bogus")
	assert.Contains(t, tr.ErrorOutput(), "Unknown command: .bogus")

	_, quit := s.handleLine(".quit")
	assert.True(t, quit)
	_, quit = s.handleLine("  .EXIT  ")
	assert.True(t, quit)
}

func TestREPLSession_DotInsideStatement(t *testing.T) {
	cc, _ := testContext(t)
	s := newREPLSession(cc, linter.New())

	s.handleLine("select")
	_, quit := s.handleLine(".quit")
	assert.False(t, quit, "a dot line inside a statement is SQL")
	s.reset()
	assert.Zero(t, s.buf.Len())
}

func TestCacheCommands(t *testing.T) {
	root := inProject(t)
	path := filepath.Join(root, config.DefaultCachePath)

	out, _, err := execute(t, NewCacheCommand(), "", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "No cache at")

	store, err := cache.Open(path)
	require.NoError(t, err)
	rep, err := linter.New().Lint(testutil.SpacingSQL, "ansi", nil)
	require.NoError(t, err)
	require.NoError(t, store.Put(context.Background(), "k", rep))
	require.NoError(t, store.Close())

	out, _, err = execute(t, NewCacheCommand(), "", "prune", "--older-than", "1h")
	require.NoError(t, err)
	assert.Contains(t, out, "Pruned 0 cached reports")

	out, _, err = execute(t, NewCacheCommand(), "", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cache cleared")

	store, err = cache.Open(path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	_, ok, err := store.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = execute(t, NewCacheCommand(), "", "prune", "--older-than", "0s")
	assert.ErrorContains(t, err, "must be positive")
}

func TestFilterBySeverity(t *testing.T) {
	results := []linter.FileResult{
		{Path: "a.sql", Lint: &linter.LintReport{Violations: []lint.Violation{
			{RuleID: "A", Severity: core.SeverityError},
			{RuleID: "B", Severity: core.SeverityWarning},
			{RuleID: "C", Severity: core.SeverityHint},
		}}},
		{Path: "b.sql"},
	}

	got := filterBySeverity(results, core.SeverityWarning)
	require.Len(t, got[0].Lint.Violations, 2)
	assert.Equal(t, "A", got[0].Lint.Violations[0].RuleID)
	assert.Equal(t, "B", got[0].Lint.Violations[1].RuleID)
	assert.Nil(t, got[1].Lint)

	summary := summarize(got)
	assert.Equal(t, 2, summary.FilesAnalyzed)
	assert.Equal(t, 2, summary.TotalIssues)
	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, 1, summary.Warnings)
}

func TestHasExtension(t *testing.T) {
	exts := []string{".sql", ".ddl"}
	assert.True(t, hasExtension("models/a.sql", exts))
	assert.True(t, hasExtension("A.SQL", exts))
	assert.True(t, hasExtension("b.ddl", exts))
	assert.False(t, hasExtension("notes.md", exts))
	assert.False(t, hasExtension("sql", exts))
}

func TestWatch_RerunsOnChange(t *testing.T) {
	dir := t.TempDir()
	cc, _ := testContext(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watch(ctx, cc, []string{dir}, func() { runs.Add(1) })
	}()

	// Writes repeat until the watcher is registered and picks one up.
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(dir, "notes.md"), []byte("ignored\n"), 0o600)
		_ = os.WriteFile(filepath.Join(dir, "a.sql"), []byte("select 1\n"), 0o600)
		return runs.Load() > 0
	}, 5*time.Second, 200*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
