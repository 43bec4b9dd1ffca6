// Package discovery expands command-line paths into the SQL files to lint.
//
// Directories are walked recursively. Files are kept when their extension
// matches (case-insensitively) and no ignore file or exclude pattern
// matches them. An ignore file applies to the directory holding it and
// everything below. The result is cleaned, deduplicated and sorted.
package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// DefaultIgnoreFile is the ignore file name looked up in every directory.
const DefaultIgnoreFile = ".leaplintignore"

// ErrNotFound is returned for a path that does not exist.
var ErrNotFound = errors.New("path does not exist")

// Options controls discovery.
type Options struct {
	// Root anchors Exclude patterns. Empty means the working directory.
	Root string
	// Extensions lists accepted file extensions including the dot.
	Extensions []string
	// Exclude holds doublestar patterns relative to Root.
	Exclude []string
	// IgnoreFile overrides DefaultIgnoreFile.
	IgnoreFile string
	// NoIgnoreFiles disables ignore file processing.
	NoIgnoreFiles bool
}

// Stats counts what discovery saw.
type Stats struct {
	Discovered int // files with a matching extension
	Skipped    int // of those, files dropped by an ignore rule
}

type finder struct {
	opts     Options
	root     string
	ignores  map[string]*ignore.GitIgnore // by directory; nil when absent
	seen     map[string]bool
	files    []string
	stats    Stats
	excludes []string
}

// Discover expands paths. A path may be a file, a directory or a doublestar
// glob.
func Discover(paths []string, opts Options) ([]string, Stats, error) {
	if opts.IgnoreFile == "" {
		opts.IgnoreFile = DefaultIgnoreFile
	}
	root := opts.Root
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("resolve root: %w", err)
	}
	for _, p := range opts.Exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, Stats{}, fmt.Errorf("invalid exclude pattern %q", p)
		}
	}

	f := &finder{
		opts:     opts,
		root:     absRoot,
		ignores:  make(map[string]*ignore.GitIgnore),
		seen:     make(map[string]bool),
		excludes: opts.Exclude,
	}
	for _, p := range paths {
		if err := f.add(p); err != nil {
			return nil, f.stats, err
		}
	}
	sort.Strings(f.files)
	return f.files, f.stats, nil
}

func (f *finder) add(path string) error {
	if hasMeta(path) {
		matches, err := doublestar.FilepathGlob(path)
		if err != nil {
			return fmt.Errorf("glob %q: %w", path, err)
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || info.IsDir() {
				continue
			}
			f.consider(m)
		}
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return err
	}
	if !info.IsDir() {
		f.consider(path)
		return nil
	}

	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != path && (d.Name() == ".git" || f.ignored(p, true)) {
				return filepath.SkipDir
			}
			return nil
		}
		f.consider(p)
		return nil
	})
}

func (f *finder) consider(path string) {
	if !f.matchesExtension(path) {
		return
	}
	clean := filepath.Clean(path)
	if f.seen[clean] {
		return
	}
	f.seen[clean] = true
	f.stats.Discovered++
	if f.ignored(clean, false) {
		f.stats.Skipped++
		return
	}
	f.files = append(f.files, clean)
}

func (f *finder) matchesExtension(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	for _, ext := range f.opts.Extensions {
		if strings.HasSuffix(name, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// ignored reports whether an exclude pattern or an ignore file in one of
// the ancestor directories matches path.
func (f *finder) ignored(path string, dir bool) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	if rel, err := filepath.Rel(f.root, abs); err == nil && !strings.HasPrefix(rel, "..") {
		rel = filepath.ToSlash(rel)
		for _, pattern := range f.excludes {
			if ok, _ := doublestar.Match(pattern, rel); ok {
				return true
			}
		}
	}
	if f.opts.NoIgnoreFiles {
		return false
	}

	for d := filepath.Dir(abs); ; d = filepath.Dir(d) {
		if gi := f.ignoreFile(d); gi != nil {
			rel, err := filepath.Rel(d, abs)
			if err == nil {
				rel = filepath.ToSlash(rel)
				if dir {
					rel += "/"
				}
				if gi.MatchesPath(rel) {
					return true
				}
			}
		}
		if d == f.root || filepath.Dir(d) == d {
			return false
		}
	}
}

func (f *finder) ignoreFile(dir string) *ignore.GitIgnore {
	gi, ok := f.ignores[dir]
	if ok {
		return gi
	}
	gi, err := ignore.CompileIgnoreFile(filepath.Join(dir, f.opts.IgnoreFile))
	if err != nil {
		// A missing ignore file is the common case.
		gi = nil
	}
	f.ignores[dir] = gi
	return gi
}

func hasMeta(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}
