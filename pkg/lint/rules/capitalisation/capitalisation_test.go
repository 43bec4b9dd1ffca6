package capitalisation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/internal/testutil/ruletest"
	"github.com/leapstack-labs/leaplint/pkg/linter"
)

func TestCP01_Keywords(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		policy   string
		messages []string
		fixed    string
	}{
		{
			name:     "consistent follows first keyword upper",
			sql:      "SELECT a from t",
			messages: []string{"Keywords must be upper case"},
			fixed:    "SELECT a FROM t",
		},
		{
			name:     "consistent follows first keyword lower",
			sql:      "select a FROM t WHERE b",
			messages: []string{"Keywords must be lower case", "Keywords must be lower case"},
			fixed:    "select a from t where b",
		},
		{
			name:  "consistent capitalised",
			sql:   "Select a From t",
			fixed: "Select a From t",
		},
		{
			name:     "upper policy",
			sql:      "select a FROM t",
			policy:   "upper",
			messages: []string{"Keywords must be upper case"},
			fixed:    "SELECT a FROM t",
		},
		{
			name:     "lower policy",
			sql:      "SELECT a FROM t",
			policy:   "lower",
			messages: []string{"Keywords must be lower case", "Keywords must be lower case"},
			fixed:    "select a from t",
		},
		{
			name:     "capitalise policy",
			sql:      "select a from t",
			policy:   "capitalise",
			messages: []string{"Keywords must be capitalised", "Keywords must be capitalised"},
			fixed:    "Select a From t",
		},
		{
			name:  "identifiers are ignored",
			sql:   "SELECT MixedCase FROM Some_Table",
			fixed: "SELECT MixedCase FROM Some_Table",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts map[string]any
			if tt.policy != "" {
				opts = map[string]any{"capitalisation_policy": tt.policy}
			}
			cfg := ruletest.Config("CP01", opts)
			vs := ruletest.LintWith(t, tt.sql, "ansi", cfg)
			assert.Equal(t, tt.messages, nilIfEmpty(ruletest.Messages(vs)))
			assert.Equal(t, tt.fixed, ruletest.FixWith(t, tt.sql, "ansi", cfg))
		})
	}
}

func TestCP01_SkipsUnparsableRegions(t *testing.T) {
	rep, err := linter.New().Lint("SELECT 1;\nselect from from;\n", "ansi", ruletest.Config("CP01", nil))
	require.NoError(t, err)
	require.Len(t, rep.ParseErrors, 1)
	assert.Empty(t, rep.Violations)
}

func TestCP01_InvalidPolicy(t *testing.T) {
	cfg := ruletest.Config("CP01", map[string]any{"capitalisation_policy": "shouting"})
	rep, err := linter.New().Lint("SELECT 1", "ansi", cfg)
	require.NoError(t, err)
	require.Len(t, rep.RuleErrors, 1)
	assert.Equal(t, "CP01", rep.RuleErrors[0].RuleID)
	assert.Contains(t, rep.RuleErrors[0].Error(), `invalid capitalisation_policy "shouting"`)
}

func TestCP03_Functions(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		policy   string
		messages []string
		fixed    string
	}{
		{
			name:     "consistent with first function",
			sql:      "SELECT COUNT(*), sum(a) FROM t",
			messages: []string{"Function names must be upper case"},
			fixed:    "SELECT COUNT(*), SUM(a) FROM t",
		},
		{
			name:     "lower first",
			sql:      "SELECT count(*), Sum(a) FROM t",
			messages: []string{"Function names must be lower case"},
			fixed:    "SELECT count(*), sum(a) FROM t",
		},
		{
			name:     "lower policy",
			sql:      "SELECT COUNT(*) FROM t",
			policy:   "lower",
			messages: []string{"Function names must be lower case"},
			fixed:    "SELECT count(*) FROM t",
		},
		{
			name:  "quoted names are ignored",
			sql:   `SELECT COUNT(*), "sum"(a) FROM t`,
			fixed: `SELECT COUNT(*), "sum"(a) FROM t`,
		},
		{
			name:  "keyword functions are left to CP01",
			sql:   "SELECT left(a, 1), COUNT(*) FROM t",
			fixed: "SELECT left(a, 1), COUNT(*) FROM t",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts map[string]any
			if tt.policy != "" {
				opts = map[string]any{"extended_capitalisation_policy": tt.policy}
			}
			cfg := ruletest.Config("CP03", opts)
			vs := ruletest.LintWith(t, tt.sql, "ansi", cfg)
			assert.Equal(t, tt.messages, nilIfEmpty(ruletest.Messages(vs)))
			assert.Equal(t, tt.fixed, ruletest.FixWith(t, tt.sql, "ansi", cfg))
		})
	}
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}
