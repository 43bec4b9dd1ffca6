package linter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leaplint/pkg/lint"
)

// Cache stores lint reports of unchanged files between runs.
type Cache interface {
	Get(ctx context.Context, key string) (*LintReport, bool, error)
	Put(ctx context.Context, key string, report *LintReport) error
}

// FileResult is the outcome for one file of LintPaths.
type FileResult struct {
	Path   string      `json:"path"`
	Source string      `json:"-"`
	Lint   *LintReport `json:"lint,omitempty"`
	Fix    *FixReport  `json:"fix,omitempty"`
	Cached bool        `json:"cached,omitempty"`
	Err    error       `json:"-"`
}

// PathOptions controls LintPaths.
type PathOptions struct {
	Dialect string
	Config  *lint.Config
	// Fix runs Fix instead of Lint. Files are not written.
	Fix bool
	// Workers bounds the files processed at once; zero means GOMAXPROCS.
	Workers int
}

// LintPaths lints or fixes files in parallel. A file that cannot be read
// or processed records its error in FileResult.Err without affecting the
// others. Results are sorted by path.
func (l *Linter) LintPaths(ctx context.Context, paths []string, opts PathOptions) ([]FileResult, error) {
	// An unknown dialect fails every file the same way.
	if _, err := l.resolve(opts.Dialect); err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]FileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = l.processFile(gctx, path, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})
	return results, nil
}

func (l *Linter) processFile(ctx context.Context, path string, opts PathOptions) FileResult {
	res := FileResult{Path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = err
		return res
	}
	res.Source = string(data)

	if opts.Fix {
		res.Fix, res.Err = l.Fix(res.Source, opts.Dialect, opts.Config)
		return res
	}

	key := ""
	if l.cache != nil {
		key = l.cacheKey(res.Source, opts)
		report, ok, err := l.cache.Get(ctx, key)
		if err != nil {
			l.logger.Warn("cache lookup failed", "path", path, "error", err)
		} else if ok {
			res.Lint, res.Cached = report, true
			return res
		}
	}

	res.Lint, res.Err = l.Lint(res.Source, opts.Dialect, opts.Config)
	if res.Err == nil && l.cache != nil && len(res.Lint.RuleErrors) == 0 {
		if err := l.cache.Put(ctx, key, res.Lint); err != nil {
			l.logger.Warn("cache store failed", "path", path, "error", err)
		}
	}
	return res
}

// modulePath is the import path of this module in build info.
const modulePath = "github.com/leapstack-labs/leaplint"

// rulesetVersion is bumped when built-in rule behaviour changes in a way a
// release version would not capture, such as during development.
const rulesetVersion = "2"

// buildVersion identifies the leaplint build so upgrades invalidate the
// cache.
var buildVersion = sync.OnceValue(func() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	version := info.Main.Version
	if info.Main.Path != modulePath {
		for _, dep := range info.Deps {
			if dep.Path == modulePath {
				version = dep.Version + dep.Sum
			}
		}
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" || s.Key == "vcs.modified" {
			version += "+" + s.Value
		}
	}
	return version
})

// cacheKey identifies a lint run by content, dialect, rules and options.
// Rules contribute their fingerprint, so editing a custom rule file
// invalidates its reports.
func (l *Linter) cacheKey(source string, opts PathOptions) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00%s\x00", rulesetVersion, buildVersion(), opts.Dialect, source)
	for _, r := range l.rules {
		fmt.Fprintf(h, "%s", r.ID())
		if f, ok := r.(lint.Fingerprinter); ok {
			fmt.Fprintf(h, ":%s", f.Fingerprint())
		}
		h.Write([]byte{','})
	}
	if opts.Config != nil {
		// Map keys are sorted by encoding/json, so equal configs hash equally.
		if b, err := json.Marshal(opts.Config); err == nil {
			h.Write(b)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
