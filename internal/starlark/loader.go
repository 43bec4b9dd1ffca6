// Package starlark loads custom lint rules written in Starlark.
//
// A rule file calls rule() once per rule it defines:
//
//	def check(ctx):
//	    if ctx.segment.raw == "*":
//	        ctx.report(ctx.segment, "Avoid SELECT *")
//
//	rule(id = "CU01", crawls = ["wildcard_expression"], check = check)
//
// The check function receives a rule context per crawled segment and
// reports violations through ctx.report, optionally with a fix built from
// replace, delete, insert_before or insert_after.
package starlark

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.starlark.net/starlark"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
)

// Extension is the file extension of rule files.
const Extension = ".star"

const collectorKey = "leaplint.rules"

// Loader executes rule files and turns the rules they define into lint
// rules. The returned rules may be evaluated concurrently.
type Loader struct {
	pool   *ThreadPool
	logger *slog.Logger
}

// NewLoader creates a loader. Output of print() in rule files goes to
// logger at debug level. maxSteps bounds each check call; zero selects
// DefaultMaxSteps.
func NewLoader(logger *slog.Logger, maxSteps uint64) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	l := &Loader{logger: logger}
	l.pool = NewThreadPool(0, maxSteps, l.print)
	return l
}

func (l *Loader) print(thread *starlark.Thread, msg string) {
	l.logger.Debug(msg, "thread", thread.Name)
}

// LoadError represents an error loading a rule file.
type LoadError struct {
	File string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("custom rules %s: %v", e.File, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load executes every path, a rule file or a directory of them, and
// returns the rules in file order then definition order.
func (l *Loader) Load(paths ...string) ([]lint.Rule, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, &LoadError{File: p, Err: err}
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		// Glob returns matches in lexical order.
		matches, err := filepath.Glob(filepath.Join(p, "*"+Extension))
		if err != nil {
			return nil, &LoadError{File: p, Err: err}
		}
		files = append(files, matches...)
	}

	var rules []lint.Rule
	seen := make(map[string]string)
	for _, file := range files {
		loaded, err := l.loadFile(file)
		if err != nil {
			return nil, err
		}
		for _, r := range loaded {
			id := strings.ToUpper(r.ID())
			if prev, dup := seen[id]; dup {
				return nil, &LoadError{File: file, Err: fmt.Errorf("rule %s already defined in %s", r.ID(), prev)}
			}
			seen[id] = file
			rules = append(rules, r)
		}
		l.logger.Debug("loaded custom rules", "file", file, "count", len(loaded))
	}
	return rules, nil
}

// collector accumulates the rule() calls of one file.
type collector struct {
	defs   []lint.RuleDef
	checks []starlark.Callable
}

func (l *Loader) loadFile(path string) ([]lint.Rule, error) {
	content, err := os.ReadFile(path) //nolint:gosec // G304: path comes from configuration
	if err != nil {
		return nil, &LoadError{File: path, Err: err}
	}

	c := &collector{}
	thread := &starlark.Thread{
		Name:  "load:" + filepath.Base(path),
		Print: l.print,
	}
	thread.SetLocal(collectorKey, c)

	globals, err := starlark.ExecFile(thread, path, content, Predeclared()) //nolint:staticcheck // SA1019: will migrate to ExecFileOptions later
	if err != nil {
		return nil, &LoadError{File: path, Err: callError(err)}
	}
	// Checks run on many threads at once.
	globals.Freeze()

	if len(c.defs) == 0 {
		return nil, &LoadError{File: path, Err: errors.New("file defines no rules")}
	}
	sum := sha256.Sum256(content)
	rules := make([]lint.Rule, len(c.defs))
	for i, def := range c.defs {
		def.Check = l.check(def.ID, c.checks[i])
		def.Fingerprint = hex.EncodeToString(sum[:])
		rules[i] = lint.Wrap(def)
	}
	return rules, nil
}

// check adapts a Starlark check function to a lint check.
func (l *Loader) check(id string, fn starlark.Callable) lint.CheckFunc {
	return func(ctx *lint.Context) ([]lint.Violation, error) {
		rc, err := NewRuleContext(ctx)
		if err != nil {
			return nil, err
		}
		thread := l.pool.Get("check:" + id)
		if _, err := starlark.Call(thread, fn, starlark.Tuple{rc}, nil); err != nil {
			return nil, callError(err)
		}
		l.pool.Put(thread)
		return rc.Violations(), nil
	}
}

// callError replaces an evaluation error by its Starlark backtrace.
func callError(err error) error {
	var evalErr *starlark.EvalError
	if errors.As(err, &evalErr) {
		return errors.New(evalErr.Backtrace())
	}
	return err
}

// defineRule implements rule(id, check, ...).
func defineRule(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	c, ok := thread.Local(collectorKey).(*collector)
	if !ok {
		return nil, fmt.Errorf("%s: only allowed while loading a rule file", b.Name())
	}

	var (
		id, name, description     string
		rationale, bad, good      string
		fixable                   bool
		check                     starlark.Callable
		crawlList, configKeysList *starlark.List
	)
	group, severity, phase := "custom", "warning", lint.PhaseMain
	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"id", &id,
		"check", &check,
		"name?", &name,
		"group?", &group,
		"description?", &description,
		"severity?", &severity,
		"crawls?", &crawlList,
		"phase?", &phase,
		"fixable?", &fixable,
		"config_keys?", &configKeysList,
		"rationale?", &rationale,
		"bad_example?", &bad,
		"good_example?", &good,
	); err != nil {
		return nil, err
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%s: id must not be empty", b.Name())
	}
	sev, ok := core.ParseSeverity(severity)
	if !ok {
		return nil, fmt.Errorf("%s %s: unknown severity %q", b.Name(), id, severity)
	}
	if phase != lint.PhaseMain && phase != lint.PhasePost {
		return nil, fmt.Errorf("%s %s: phase must be %q or %q", b.Name(), id, lint.PhaseMain, lint.PhasePost)
	}
	crawls, err := stringList("crawls", crawlList)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", b.Name(), id, err)
	}
	configKeys, err := stringList("config_keys", configKeysList)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", b.Name(), id, err)
	}
	if name == "" {
		name = "custom." + strings.ToLower(id)
	}

	c.defs = append(c.defs, lint.RuleDef{
		ID:          id,
		Name:        name,
		Group:       group,
		Description: description,
		Severity:    sev,
		Crawls:      crawls,
		Phase:       phase,
		Fixable:     fixable,
		ConfigKeys:  configKeys,
		Rationale:   rationale,
		BadExample:  bad,
		GoodExample: good,
	})
	c.checks = append(c.checks, check)
	return starlark.None, nil
}
