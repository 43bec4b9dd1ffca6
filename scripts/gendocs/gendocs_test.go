package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readDoc(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}

func TestGenerateCLIDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateCLIDocs(dir))

	index := readDoc(t, dir, "index.md")
	assert.Contains(t, index, "[`lint`](/cli/lint)")
	assert.Contains(t, index, "`LEAPLINT_DIALECT`")
	assert.Contains(t, index, "`--dialect`")

	lint := readDoc(t, dir, "lint.md")
	assert.Contains(t, lint, "leaplint lint [path...]")
	assert.Contains(t, lint, "`--severity`")
	assert.Contains(t, lint, "## Examples")
	assert.Contains(t, lint, "[`fix`](/cli/fix)", "fix shares --rule with lint")

	cache := readDoc(t, dir, "cache.md")
	assert.Contains(t, cache, "## cache prune")
	assert.Contains(t, cache, "`--older-than`")

	assert.FileExists(t, filepath.Join(dir, "fix.md"))
	assert.NoFileExists(t, filepath.Join(dir, "help.md"))
}

func TestGenerateLintDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateLintDocs(dir))

	index := readDoc(t, dir, "index.md")
	assert.Contains(t, index, "[Layout](/rules/rules#layout)")

	rules := readDoc(t, dir, "rules.md")
	assert.Contains(t, rules, "### LT01 - layout.spacing {#LT01}")
	assert.Contains(t, rules, "`max_line_length, ignore_comment_lines`")
	assert.Less(t, strings.Index(rules, "## Aliasing"), strings.Index(rules, "## Layout"))

	dialects := readDoc(t, dir, "dialects.md")
	assert.Contains(t, dialects, "| `redshift` | `postgres` |")
	assert.Contains(t, dialects, "| `ansi` | - |")
}

func TestGenerateConfigDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateConfigDocs(dir))

	doc := readDoc(t, dir, "configuration.md")
	assert.Contains(t, doc, "| `dialect` | string | `ansi` |")
	assert.Contains(t, doc, "| `cache.path` | string | `.leaplint/cache.db` |")
	assert.Contains(t, doc, "| `extensions` | list of string | `[.sql]` |")
	assert.Contains(t, doc, "max_iterations: 10")
}

func TestMarkdownWriter_Table(t *testing.T) {
	w := NewMarkdownWriter()
	w.Table([]string{"A", "B"}, [][]string{{"x|y", "z"}})
	w.Table([]string{"Empty"}, nil)

	assert.Equal(t, "| A | B |\n| --- | --- |\n| x\\|y | z |\n\n", string(w.Bytes()))
}

func TestCleanDescription(t *testing.T) {
	assert.Equal(t, "Lint SQL files", cleanDescription("  Lint SQL\n   files.  "))
}
