package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte("select 1\n"), 0o600))
	}
	return dir
}

func rel(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, len(paths))
	for i, p := range paths {
		r, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out[i] = filepath.ToSlash(r)
	}
	return out
}

func TestDiscover_WalksAndSorts(t *testing.T) {
	root := writeTree(t, "b.sql", "a.SQL", "models/c.sql", "notes.txt", ".git/x.sql")

	files, stats, err := Discover([]string{root}, Options{Root: root, Extensions: []string{".sql"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.SQL", "b.sql", "models/c.sql"}, rel(t, root, files))
	assert.Equal(t, Stats{Discovered: 3}, stats)
}

func TestDiscover_Deduplicates(t *testing.T) {
	root := writeTree(t, "a.sql", "models/b.sql")
	a := filepath.Join(root, "a.sql")

	files, _, err := Discover([]string{a, root, filepath.Join(root, "models", "..", "a.sql")},
		Options{Root: root, Extensions: []string{".sql"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.sql", "models/b.sql"}, rel(t, root, files))
}

func TestDiscover_ExplicitFileNeedsExtension(t *testing.T) {
	root := writeTree(t, "query.txt", "q.sql")

	files, _, err := Discover([]string{filepath.Join(root, "query.txt"), filepath.Join(root, "q.sql")},
		Options{Root: root, Extensions: []string{".sql"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"q.sql"}, rel(t, root, files))
}

func TestDiscover_IgnoreFiles(t *testing.T) {
	root := writeTree(t, "keep.sql", "build/out.sql", "models/tmp.gen.sql", "models/m.sql", "models/sub/n.sql")
	require.NoError(t, os.WriteFile(filepath.Join(root, DefaultIgnoreFile), []byte("build/\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "models", DefaultIgnoreFile), []byte("*.gen.sql\nsub/\n"), 0o600))

	files, stats, err := Discover([]string{root}, Options{Root: root, Extensions: []string{".sql"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.sql", "models/m.sql"}, rel(t, root, files))
	assert.Equal(t, 1, stats.Skipped, "pruned directories are never counted")

	// Files named exactly are still subject to ignore files.
	files, _, err = Discover([]string{filepath.Join(root, "models", "tmp.gen.sql")},
		Options{Root: root, Extensions: []string{".sql"}})
	require.NoError(t, err)
	assert.Empty(t, files)

	files, _, err = Discover([]string{root}, Options{Root: root, Extensions: []string{".sql"}, NoIgnoreFiles: true})
	require.NoError(t, err)
	assert.Len(t, files, 5)
}

func TestDiscover_Exclude(t *testing.T) {
	root := writeTree(t, "a.sql", "vendor/x/b.sql", "models/c.sql")

	files, _, err := Discover([]string{root}, Options{
		Root:       root,
		Extensions: []string{".sql"},
		Exclude:    []string{"vendor/**"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.sql", "models/c.sql"}, rel(t, root, files))

	_, _, err = Discover([]string{root}, Options{Root: root, Exclude: []string{"[unclosed"}})
	assert.ErrorContains(t, err, "invalid exclude pattern")
}

func TestDiscover_Glob(t *testing.T) {
	root := writeTree(t, "models/a.sql", "models/deep/b.sql", "other/c.sql")

	files, _, err := Discover([]string{filepath.Join(root, "models", "**", "*.sql")},
		Options{Root: root, Extensions: []string{".sql"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"models/a.sql", "models/deep/b.sql"}, rel(t, root, files))
}

func TestDiscover_MissingPath(t *testing.T) {
	_, _, err := Discover([]string{filepath.Join(t.TempDir(), "nope")}, Options{Extensions: []string{".sql"}})
	assert.ErrorIs(t, err, ErrNotFound)
}
