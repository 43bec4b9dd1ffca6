package lint

import (
	"github.com/leapstack-labs/leaplint/pkg/core"
)

// Lint phases. Rules in the post phase run after the main phase has
// converged when fixing.
const (
	PhaseMain = "main"
	PhasePost = "post"
)

// Rule is the interface all lint rules implement.
type Rule interface {
	// ID returns the unique identifier, e.g., "AM01"
	ID() string

	// Name returns the human-readable name, e.g., "ambiguous.distinct"
	Name() string

	// Group returns the category, e.g., "ambiguous", "layout"
	Group() string

	// Description returns a human-readable description
	Description() string

	// DefaultSeverity returns the default severity for this rule
	DefaultSeverity() core.Severity

	// ConfigKeys returns configuration keys this rule accepts
	ConfigKeys() []string

	// CrawlTypes returns the segment types the rule is evaluated on.
	// An empty list means every segment.
	CrawlTypes() []string

	// Phase returns PhaseMain or PhasePost.
	Phase() string

	// FixCompatible reports whether the rule proposes fixes. Rules that do
	// not are skipped after the first pass of a fix run.
	FixCompatible() bool

	// Evaluate inspects the segment in ctx and reports violations.
	Evaluate(ctx *Context) ([]Violation, error)
}

// CheckFunc inspects one segment and returns violations.
type CheckFunc func(ctx *Context) ([]Violation, error)

// RuleDef is a data-driven rule definition.
// Rules are stateless - all context comes via the Context parameter.
type RuleDef struct {
	ID          string        // Unique identifier, e.g., "CV05"
	Name        string        // Human-readable name, e.g., "convention.is_null"
	Group       string        // Category, e.g., "convention"
	Description string        // Human-readable description
	Severity    core.Severity // Default severity
	Crawls      []string      // Segment types to evaluate; empty means all
	Phase       string        // PhaseMain (default) or PhasePost
	Fixable     bool          // Whether the rule proposes fixes
	ConfigKeys  []string      // Configuration keys this rule accepts
	Check       CheckFunc     // The check function

	// Fingerprint identifies the definition of rules loaded at run time,
	// such as a digest of their script. Built-in rules leave it empty.
	Fingerprint string

	// Documentation fields
	Rationale   string // Why this rule exists, what problems it prevents
	BadExample  string // Code showing the anti-pattern
	GoodExample string // Code showing the correct pattern
}

// ruleDef adapts a RuleDef to the Rule interface.
type ruleDef struct {
	def RuleDef
}

// Wrap returns def as a Rule.
func Wrap(def RuleDef) Rule {
	return &ruleDef{def: def}
}

func (r *ruleDef) ID() string                     { return r.def.ID }
func (r *ruleDef) Name() string                   { return r.def.Name }
func (r *ruleDef) Group() string                  { return r.def.Group }
func (r *ruleDef) Description() string            { return r.def.Description }
func (r *ruleDef) DefaultSeverity() core.Severity { return r.def.Severity }
func (r *ruleDef) ConfigKeys() []string           { return r.def.ConfigKeys }
func (r *ruleDef) CrawlTypes() []string           { return r.def.Crawls }
func (r *ruleDef) FixCompatible() bool            { return r.def.Fixable }

func (r *ruleDef) Phase() string {
	if r.def.Phase == "" {
		return PhaseMain
	}
	return r.def.Phase
}

func (r *ruleDef) Evaluate(ctx *Context) ([]Violation, error) {
	if r.def.Check == nil {
		return nil, nil
	}
	return r.def.Check(ctx)
}

// Fingerprint returns RuleDef.Fingerprint.
func (r *ruleDef) Fingerprint() string {
	return r.def.Fingerprint
}

// Unwrap returns the underlying RuleDef.
func (r *ruleDef) Unwrap() RuleDef {
	return r.def
}

// Fingerprinter is implemented by rules whose behaviour can change without
// their ID changing.
type Fingerprinter interface {
	Fingerprint() string
}

// documented is implemented by rules that carry documentation.
type documented interface {
	Unwrap() RuleDef
}

// GetRuleInfo extracts metadata from a Rule for documentation/tooling.
func GetRuleInfo(r Rule) core.RuleInfo {
	info := core.RuleInfo{
		ID:              r.ID(),
		Name:            r.Name(),
		Group:           r.Group(),
		Description:     r.Description(),
		DefaultSeverity: r.DefaultSeverity(),
		Phase:           r.Phase(),
		Fixable:         r.FixCompatible(),
		Crawls:          r.CrawlTypes(),
		ConfigKeys:      r.ConfigKeys(),
	}
	if d, ok := r.(documented); ok {
		def := d.Unwrap()
		info.Rationale = def.Rationale
		info.BadExample = def.BadExample
		info.GoodExample = def.GoodExample
	}
	return info
}
