package linter

import (
	"log/slog"

	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/fix"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/parser"
)

// State is a step of the fix loop.
type State string

// Fix loop states.
const (
	StateParsing               State = "parsing"
	StateLinting               State = "linting"
	StateReapplying            State = "reapplying"
	StateConverged             State = "converged"
	StateIterationLimitReached State = "iteration_limit_reached"
)

// FixReport is the result of fixing one source text.
type FixReport struct {
	Dialect   string `json:"dialect"`
	FixedText string `json:"fixed_text"`
	// Applied lists the IDs of applied fixes in application order.
	Applied []string `json:"applied,omitempty"`
	// Skipped lists the IDs of fixes that conflicted or were rejected.
	Skipped []string `json:"skipped,omitempty"`
	// IterationsUsed counts the passes that applied at least one fix and
	// changed the text. The final pass that finds nothing to fix is not
	// counted, so a clean file reports zero.
	IterationsUsed int `json:"iterations_used"`
	// Converged is false when a phase applied fixes on its last allowed
	// pass. No further pass runs to confirm the text is clean, so State is
	// StateIterationLimitReached even if the fixed text has no violations.
	Converged bool  `json:"converged"`
	State     State `json:"state"`

	// Violations, ParseErrors and RuleErrors describe the fixed text.
	Violations  []lint.Violation     `json:"violations"`
	ParseErrors []*parser.ParseError `json:"parse_errors,omitempty"`
	RuleErrors  []*lint.RuleError    `json:"rule_errors,omitempty"`
}

// Changed reports whether the fixed text differs from the input.
func (r *FixReport) Changed() bool {
	return r.IterationsUsed > 0
}

type phase struct {
	name  string
	limit int
}

// fixRun carries the state of one Fix call.
type fixRun struct {
	d      *dialect.Dialect
	engine *lint.Engine
	report *FixReport
	state  State
	pass   int
	logger *slog.Logger
}

func (r *fixRun) enter(s State) {
	if r.state == s {
		return
	}
	r.logger.Debug("fix state", "from", r.state, "to", s, "pass", r.pass)
	r.state = s
}

// Fix repeatedly lints source and applies the proposed fixes.
//
// Rules run in two phases. The main phase runs every rule except those
// registered for the post phase and stops after the configured number of
// passes; the post phase then runs the post rules for at most two passes.
// Only the first pass of the main phase evaluates rules that never propose
// fixes. A phase converges when a pass yields no applicable fix or leaves
// the text unchanged. The returned violations come from a final lint of
// the fixed text with every enabled rule.
func (l *Linter) Fix(source, dialectName string, cfg *lint.Config) (*FixReport, error) {
	d, err := l.resolve(dialectName)
	if err != nil {
		return nil, err
	}
	engine := lint.NewEngine(cfg, l.logger)
	run := &fixRun{
		d:      d,
		engine: engine,
		report: &FixReport{Dialect: d.Name(), Converged: true},
		logger: l.logger.With("dialect", d.Name()),
	}

	enabled := engine.Enabled(l.rules)
	text := source
	phases := []phase{
		{lint.PhaseMain, l.maxIterations},
		{lint.PhasePost, postIterations},
	}
	for i, ph := range phases {
		rules := inPhase(enabled, ph.name)
		if len(rules) == 0 {
			continue
		}
		next, converged, err := run.phase(text, rules, ph, i == 0)
		if err != nil {
			return nil, err
		}
		text = next
		if !converged {
			run.report.Converged = false
			run.logger.Warn("fix phase did not converge", "phase", ph.name, "passes", ph.limit)
		}
	}

	// Final lint of the fixed text.
	run.enter(StateParsing)
	tree, perrs, err := parse(text, d)
	if err != nil {
		return nil, err
	}
	run.enter(StateLinting)
	res := engine.Run(tree, d, enabled, run.pass)

	rep := run.report
	rep.FixedText = text
	rep.Violations = dedupe(res.Violations)
	rep.ParseErrors = perrs
	rep.RuleErrors = res.Errors
	if rep.Converged {
		rep.State = StateConverged
	} else {
		rep.State = StateIterationLimitReached
	}
	run.enter(rep.State)
	return rep, nil
}

// phase runs up to ph.limit passes and returns the resulting text and
// whether the phase converged.
func (r *fixRun) phase(text string, rules []lint.Rule, ph phase, first bool) (string, bool, error) {
	for loop := 0; loop < ph.limit; loop++ {
		r.enter(StateParsing)
		tree, _, err := parse(text, r.d)
		if err != nil {
			return "", false, err
		}

		r.enter(StateLinting)
		active := rules
		if !first || loop > 0 {
			active = fixCompatible(rules)
		}
		res := r.engine.Run(tree, r.d, active, r.pass)
		fixes := res.Fixes()
		if len(fixes) == 0 {
			return text, true, nil
		}

		r.enter(StateReapplying)
		applied, err := fix.Apply(tree, r.d, fixes)
		if err != nil {
			return "", false, err
		}
		r.report.Skipped = append(r.report.Skipped, applied.Skipped...)
		for id, reason := range applied.Rejected {
			r.logger.Debug("fix rejected", "fix", id, "error", reason)
		}

		next := applied.Tree.Serialize()
		if len(applied.Applied) == 0 || next == text {
			return text, true, nil
		}
		r.report.Applied = append(r.report.Applied, applied.Applied...)
		r.report.IterationsUsed++
		r.pass++
		text = next
	}
	return text, false, nil
}

func inPhase(rules []lint.Rule, name string) []lint.Rule {
	var out []lint.Rule
	for _, r := range rules {
		p := r.Phase()
		if p == "" {
			p = lint.PhaseMain
		}
		if p == name {
			out = append(out, r)
		}
	}
	return out
}

func fixCompatible(rules []lint.Rule) []lint.Rule {
	var out []lint.Rule
	for _, r := range rules {
		if r.FixCompatible() {
			out = append(out, r)
		}
	}
	return out
}
