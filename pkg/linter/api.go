package linter

import (
	"sync"

	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/lint"
)

var (
	defaultOnce   sync.Once
	defaultLinter *Linter
)

// Default returns a Linter with every built-in rule and dialect.
func Default() *Linter {
	defaultOnce.Do(func() {
		defaultLinter = New()
	})
	return defaultLinter
}

// Lint checks source with the default linter. rules may be nil.
func Lint(source, dialectName string, rules lint.RuleConfig) (*LintReport, error) {
	return Default().Lint(source, dialectName, rules.Config())
}

// Fix fixes source with the default linter. rules may be nil.
func Fix(source, dialectName string, rules lint.RuleConfig) (*FixReport, error) {
	return Default().Fix(source, dialectName, rules.Config())
}

// ListDialects returns the built-in dialects sorted by name.
func ListDialects() []dialect.Info {
	return Default().ListDialects()
}
