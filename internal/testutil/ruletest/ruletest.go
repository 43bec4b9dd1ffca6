// Package ruletest runs single lint rules over SQL snippets in tests.
package ruletest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/internal/testutil"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/linter"
)

// Config enables only ruleID and sets its options.
func Config(ruleID string, opts map[string]any) *lint.Config {
	cfg := lint.NewConfig().Only(ruleID)
	if opts != nil {
		cfg.SetRuleOptions(ruleID, opts)
	}
	return cfg
}

// Lint returns the violations of ruleID on sql in the ANSI dialect.
func Lint(t testing.TB, sql, ruleID string) []lint.Violation {
	t.Helper()
	return LintWith(t, sql, "ansi", Config(ruleID, nil))
}

// LintWith lints sql with an explicit dialect and configuration. Parse and
// rule errors fail the test.
func LintWith(t testing.TB, sql, dialect string, cfg *lint.Config) []lint.Violation {
	t.Helper()
	l := linter.New(linter.WithLogger(testutil.NewTestLogger(t)))
	rep, err := l.Lint(sql, dialect, cfg)
	require.NoError(t, err)
	require.Empty(t, rep.ParseErrors, "parse errors in %q", sql)
	require.Empty(t, rep.RuleErrors)
	return rep.Violations
}

// Fix returns sql fixed by ruleID alone in the ANSI dialect.
func Fix(t testing.TB, sql, ruleID string) string {
	t.Helper()
	return FixWith(t, sql, "ansi", Config(ruleID, nil))
}

// FixWith fixes sql with an explicit dialect and configuration and
// requires the fix loop to converge.
func FixWith(t testing.TB, sql, dialect string, cfg *lint.Config) string {
	t.Helper()
	l := linter.New(linter.WithLogger(testutil.NewTestLogger(t)))
	rep, err := l.Fix(sql, dialect, cfg)
	require.NoError(t, err)
	require.True(t, rep.Converged, "fix of %q did not converge", sql)
	return rep.FixedText
}

// Messages returns the messages of vs.
func Messages(vs []lint.Violation) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Message
	}
	return out
}

// Case is one table entry for Run.
type Case struct {
	Name string
	SQL  string
	// Opts are the rule's options.
	Opts map[string]any
	// Message is the expected single violation message, empty for none.
	Message string
	// Fixed is the expected fix result, empty when SQL stays unchanged.
	Fixed string
}

// Run checks each case against ruleID in the ANSI dialect: at most one
// violation with the expected message, and the expected fix result.
func Run(t *testing.T, ruleID string, cases []Case) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			cfg := Config(ruleID, tc.Opts)
			vs := LintWith(t, tc.SQL, "ansi", cfg)
			if tc.Message == "" {
				assert.Empty(t, vs, "violations: %v", Messages(vs))
			} else {
				require.Len(t, vs, 1, "violations: %v", Messages(vs))
				assert.Equal(t, ruleID, vs[0].RuleID)
				assert.Equal(t, tc.Message, vs[0].Message)
			}
			fixed := tc.Fixed
			if fixed == "" {
				fixed = tc.SQL
			}
			assert.Equal(t, fixed, FixWith(t, tc.SQL, "ansi", cfg))
		})
	}
}
