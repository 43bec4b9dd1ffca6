package lint

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

// fixNamespace scopes the name-based UUIDs used as fix IDs.
var fixNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("leaplint/fix"))

// Engine runs rules over segment trees.
type Engine struct {
	config *Config
	logger *slog.Logger
}

// NewEngine creates an engine. A nil config enables every rule and a nil
// logger discards output.
func NewEngine(config *Config, logger *slog.Logger) *Engine {
	if config == nil {
		config = NewConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{config: config, logger: logger}
}

// Config returns the engine configuration.
func (e *Engine) Config() *Config {
	return e.config
}

// Enabled filters rules through the configuration, keeping their order.
func (e *Engine) Enabled(rules []Rule) []Rule {
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if !e.config.IsDisabled(r.ID()) {
			out = append(out, r)
		}
	}
	return out
}

// Result holds the outcome of one engine run.
type Result struct {
	// Violations are ordered by rule order, then by source position.
	Violations []Violation
	Errors     []*RuleError
	// Suppressed counts violations silenced by noqa comments.
	Suppressed int
}

// Fixes returns the fixes carried by the violations, in violation order.
func (r *Result) Fixes() []*Fix {
	var out []*Fix
	for _, v := range r.Violations {
		if v.Fix != nil && len(v.Fix.Edits) > 0 {
			out = append(out, v.Fix)
		}
	}
	return out
}

type ruleState struct {
	rule   Rule
	opts   map[string]any
	found  []Violation
	failed bool
}

// Run evaluates rules against tree in a single traversal. Rules are not
// filtered by the configuration here; use Enabled. pass is folded into the
// fix IDs so that IDs from different passes of a fix run never collide.
func (e *Engine) Run(tree *segment.Tree, d *dialect.Dialect, rules []Rule, pass int) *Result {
	res := &Result{}
	if len(rules) == 0 {
		return res
	}

	positions := tree.Positions()
	leaves := tree.Leaves(tree.Root)
	leafIndex := make(map[segment.ID]int, len(leaves))
	for i, l := range leaves {
		leafIndex[l] = i
	}

	states := make([]*ruleState, len(rules))
	byType := make(map[string][]*ruleState)
	var crawlAll []*ruleState
	for i, r := range rules {
		st := &ruleState{rule: r, opts: e.config.GetRuleOptions(r.ID())}
		states[i] = st
		types := r.CrawlTypes()
		if len(types) == 0 {
			crawlAll = append(crawlAll, st)
			continue
		}
		for _, t := range types {
			byType[t] = append(byType[t], st)
		}
	}

	ctx := &Context{
		Tree:      tree,
		Dialect:   d,
		positions: positions,
		leaves:    leaves,
		leafIndex: leafIndex,
	}
	tree.Walk(func(id segment.ID, ancestors []segment.ID) bool {
		typ := tree.Type(id)
		for _, st := range byType[typ] {
			e.evaluate(st, ctx, id, ancestors, res)
		}
		for _, st := range crawlAll {
			e.evaluate(st, ctx, id, ancestors, res)
		}
		return true
	})

	noqa := ParseSuppressions(tree, positions)
	for _, st := range states {
		for _, v := range st.found {
			if noqa.Suppressed(v.RuleID, v.Span.Start.Line) {
				res.Suppressed++
				continue
			}
			if v.Fix != nil {
				v.Fix.RuleID = v.RuleID
				v.Fix.ID = fixID(v.Fix, pass, positions)
			}
			res.Violations = append(res.Violations, v)
		}
	}
	return res
}

// evaluate runs one rule on one segment, converting errors and panics into
// a RuleError. A failed rule is not evaluated again during this run.
func (e *Engine) evaluate(st *ruleState, ctx *Context, id segment.ID, ancestors []segment.ID, res *Result) {
	if st.failed {
		return
	}
	ctx.Segment = id
	ctx.ancestors = ancestors
	ctx.Options = st.opts
	ctx.rule = st.rule

	found, err := safeEvaluate(st.rule, ctx)
	if err != nil {
		st.failed = true
		res.Errors = append(res.Errors, &RuleError{RuleID: st.rule.ID(), Err: err})
		e.logger.Warn("rule failed", "rule", st.rule.ID(), "error", err)
		return
	}
	for _, v := range found {
		if v.RuleID == "" {
			v.RuleID = st.rule.ID()
		}
		v.Severity = e.config.GetSeverity(st.rule.ID(), v.Severity)
		st.found = append(st.found, v)
	}
}

func safeEvaluate(rule Rule, ctx *Context) (found []Violation, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return rule.Evaluate(ctx)
}

// fixID derives a deterministic ID from the rule, the pass and the
// resolved edits.
func fixID(f *Fix, pass int, positions *segment.Positions) string {
	var sb strings.Builder
	sb.WriteString(f.RuleID)
	sb.WriteByte('|')
	sb.WriteString(strconv.Itoa(pass))
	for _, ed := range f.Edits {
		span, _ := positions.Span(ed.Target)
		fmt.Fprintf(&sb, "|%s@%d-%d:%s", ed.Op, span.Start.Offset, span.End.Offset, ed.Text)
	}
	return uuid.NewSHA1(fixNamespace, []byte(sb.String())).String()
}
