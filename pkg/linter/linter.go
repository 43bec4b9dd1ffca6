// Package linter lints and fixes SQL source text.
//
// A Linter resolves the dialect, lexes and parses the source into a
// lossless segment tree and runs the enabled rules over it. Fix repeats
// that cycle, applying the proposed fixes between passes, until the text
// stops changing or the pass limit is reached.
package linter

import (
	"log/slog"
	"sort"

	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/lexer"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/parser"
	"github.com/leapstack-labs/leaplint/pkg/segment"

	// Built-in dialects and rules.
	_ "github.com/leapstack-labs/leaplint/pkg/dialects/all"
	_ "github.com/leapstack-labs/leaplint/pkg/lint/rules"
)

// DefaultMaxIterations caps the passes of the main fix phase.
const DefaultMaxIterations = 10

// postIterations caps the passes of the post fix phase.
const postIterations = 2

// Linter lints and fixes SQL. It is safe for concurrent use.
type Linter struct {
	rules         []lint.Rule
	dialects      *dialect.Registry
	logger        *slog.Logger
	maxIterations int
	cache         Cache
}

// Option configures a Linter.
type Option func(*Linter)

// WithRegistry uses the rules of reg, in registration order.
func WithRegistry(reg *lint.Registry) Option {
	return func(l *Linter) {
		l.rules = reg.All()
	}
}

// WithRules uses exactly the given rules, in the given order.
func WithRules(rules ...lint.Rule) Option {
	return func(l *Linter) {
		l.rules = rules
	}
}

// WithDialects resolves dialect names in reg instead of the process-wide
// dialect registry.
func WithDialects(reg *dialect.Registry) Option {
	return func(l *Linter) {
		l.dialects = reg
	}
}

// WithLogger sets the logger for state transitions and rule failures.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Linter) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithMaxIterations caps the passes of the main fix phase.
func WithMaxIterations(n int) Option {
	return func(l *Linter) {
		if n > 0 {
			l.maxIterations = n
		}
	}
}

// WithCache reuses lint reports across LintPaths calls.
func WithCache(c Cache) Option {
	return func(l *Linter) {
		l.cache = c
	}
}

// New creates a Linter. Without options it runs every registered rule
// against the built-in dialects.
func New(opts ...Option) *Linter {
	l := &Linter{
		rules:         lint.All(),
		logger:        slog.New(slog.DiscardHandler),
		maxIterations: DefaultMaxIterations,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Rules returns the rules the linter runs before configuration filtering.
func (l *Linter) Rules() []lint.Rule {
	return l.rules
}

// ListDialects returns the available dialects sorted by name.
func (l *Linter) ListDialects() []dialect.Info {
	if l.dialects != nil {
		return l.dialects.List()
	}
	return dialect.List()
}

// LintReport is the result of linting one source text.
type LintReport struct {
	Dialect     string               `json:"dialect"`
	Violations  []lint.Violation     `json:"violations"`
	ParseErrors []*parser.ParseError `json:"parse_errors,omitempty"`
	RuleErrors  []*lint.RuleError    `json:"rule_errors,omitempty"`
	Suppressed  int                  `json:"suppressed,omitempty"`
}

// HasIssues reports whether the report carries any violation or error.
func (r *LintReport) HasIssues() bool {
	return len(r.Violations) > 0 || len(r.ParseErrors) > 0 || len(r.RuleErrors) > 0
}

// Lint checks source with every enabled rule. An unknown dialect is
// reported before the source is lexed. Parse errors do not fail the call;
// they are returned in the report next to the violations found in the
// parsable regions.
func (l *Linter) Lint(source, dialectName string, cfg *lint.Config) (*LintReport, error) {
	d, err := l.resolve(dialectName)
	if err != nil {
		return nil, err
	}
	tree, perrs, err := parse(source, d)
	if err != nil {
		return nil, err
	}

	engine := lint.NewEngine(cfg, l.logger)
	res := engine.Run(tree, d, engine.Enabled(l.rules), 0)
	return &LintReport{
		Dialect:     d.Name(),
		Violations:  dedupe(res.Violations),
		ParseErrors: perrs,
		RuleErrors:  res.Errors,
		Suppressed:  res.Suppressed,
	}, nil
}

// Parse lexes and parses source without linting it. As with Lint, parse
// errors are returned next to the tree rather than failing the call.
func (l *Linter) Parse(source, dialectName string) (*segment.Tree, []*parser.ParseError, error) {
	d, err := l.resolve(dialectName)
	if err != nil {
		return nil, nil, err
	}
	return parse(source, d)
}

func (l *Linter) resolve(name string) (*dialect.Dialect, error) {
	if l.dialects != nil {
		return l.dialects.Resolve(name)
	}
	return dialect.Resolve(name)
}

// parse lexes and parses source. Only a LexError is returned as an error.
func parse(source string, d *dialect.Dialect) (*segment.Tree, []*parser.ParseError, error) {
	toks, err := lexer.Lex(source, d.LexerConfig())
	if err != nil {
		return nil, nil, err
	}
	res := parser.Parse(toks, d)
	return res.Tree, res.Errors, nil
}

// dedupe drops repeated (rule, position) violations, keeping the first,
// and orders the rest by position then rule.
func dedupe(vs []lint.Violation) []lint.Violation {
	type key struct {
		rule   string
		offset int
	}
	seen := make(map[key]bool, len(vs))
	out := make([]lint.Violation, 0, len(vs))
	for _, v := range vs {
		k := key{v.RuleID, v.Span.Start.Offset}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Span.Start.Offset < out[j].Span.Start.Offset
	})
	return out
}
