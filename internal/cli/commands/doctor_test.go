package commands

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/internal/cli/testutil"
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/linter"
	"github.com/leapstack-labs/leaplint/pkg/token"
)

func TestCalculateHealthScore(t *testing.T) {
	tests := []struct {
		name     string
		checks   []HealthCheck
		summary  ProjectSummary
		minScore int
		maxScore int
	}{
		{
			name:     "no checks returns 100",
			summary:  ProjectSummary{Files: 10},
			minScore: 100,
			maxScore: 100,
		},
		{
			name: "all passing returns 100",
			checks: []HealthCheck{
				{RuleID: "LT01", Status: "pass"},
				{RuleID: "CP01", Status: "pass"},
			},
			summary:  ProjectSummary{Files: 10},
			minScore: 100,
			maxScore: 100,
		},
		{
			name: "warnings reduce score",
			checks: []HealthCheck{
				{RuleID: "LT01", Status: "pass"},
				{RuleID: "CP01", Status: "warn", IssueCount: 2},
			},
			summary:  ProjectSummary{Files: 10},
			minScore: 80,
			maxScore: 99,
		},
		{
			name: "errors reduce score more",
			checks: []HealthCheck{
				{RuleID: "AM01", Status: "error", IssueCount: 2},
			},
			summary:  ProjectSummary{Files: 10},
			minScore: 70,
			maxScore: 80,
		},
		{
			name:     "parse errors count like errors",
			summary:  ProjectSummary{Files: 10, ParseErrors: 1},
			minScore: 90,
			maxScore: 90,
		},
		{
			name: "more files means less impact per issue",
			checks: []HealthCheck{
				{RuleID: "LT01", Status: "warn", IssueCount: 5},
			},
			summary:  ProjectSummary{Files: 101},
			minScore: 95,
			maxScore: 95,
		},
		{
			name: "many issues can reduce to 0",
			checks: []HealthCheck{
				{RuleID: "AM01", Status: "error", IssueCount: 20},
				{RuleID: "AM02", Status: "error", IssueCount: 20},
			},
			summary:  ProjectSummary{Files: 5},
			minScore: 0,
			maxScore: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := calculateHealthScore(tt.checks, tt.summary)
			assert.GreaterOrEqual(t, score, tt.minScore, "score should be >= %d", tt.minScore)
			assert.LessOrEqual(t, score, tt.maxScore, "score should be <= %d", tt.maxScore)
		})
	}
}

func TestGenerateRecommendations(t *testing.T) {
	checks := []HealthCheck{
		{RuleID: "LT01", Group: "layout", Status: "warn", IssueCount: 1},
		{RuleID: "LT02", Group: "layout", Status: "warn", IssueCount: 2},
		{RuleID: "CP01", Group: "capitalisation", Status: "pass"},
	}

	recommendations := generateRecommendations(checks, ProjectSummary{FixableIssues: 3})

	require.Len(t, recommendations, 2, "one per group with issues")
	assert.Contains(t, recommendations[0], "resolve 3 issues automatically")
	assert.Equal(t, groupRecommendations["layout"], recommendations[1])
}

func TestGenerateRecommendations_LimitTo5(t *testing.T) {
	var checks []HealthCheck
	for group := range groupRecommendations {
		checks = append(checks, HealthCheck{RuleID: "X", Group: group, Status: "warn", IssueCount: 1})
	}

	recommendations := generateRecommendations(checks, ProjectSummary{ParseErrors: 1, FixableIssues: 1})

	assert.Len(t, recommendations, maxRecommendations)
	assert.Contains(t, recommendations[0], "dialect")
}

func TestBuildDoctorOutput(t *testing.T) {
	results := []linter.FileResult{
		{Path: "a.sql", Source: "select  1\nfrom t", Lint: &linter.LintReport{Violations: []lint.Violation{
			{RuleID: "LT01", Severity: core.SeverityWarning, Message: "Expected single space",
				Span: token.Span{Start: token.Position{Line: 1, Column: 7}}},
		}}},
		{Path: "b.sql", Source: "select 1\n", Lint: &linter.LintReport{}},
		{Path: "c.sql", Err: assert.AnError},
	}
	rules := []core.RuleInfo{
		{ID: "LT01", Name: "layout.spacing", Group: "layout", DefaultSeverity: core.SeverityWarning},
		{ID: "AM01", Name: "ambiguous.distinct", Group: "ambiguous", DefaultSeverity: core.SeverityWarning},
	}

	out := buildDoctorOutput(results, rules, map[string]bool{"LT01": true})

	assert.Equal(t, ProjectSummary{Files: 3, Lines: 3, RulesEnabled: 2, FixableIssues: 1, FailedFiles: 1}, out.Summary)
	assert.Equal(t, 1, out.IssueCount)
	require.Len(t, out.HealthChecks, 2)
	assert.Equal(t, "AM01", out.HealthChecks[0].RuleID, "sorted by group")
	assert.Equal(t, "pass", out.HealthChecks[0].Status)
	assert.Equal(t, HealthCheck{
		RuleID:     "LT01",
		Name:       "layout.spacing",
		Group:      "layout",
		Status:     "warn",
		IssueCount: 1,
		Details:    []string{"a.sql:1:7 Expected single space"},
	}, out.HealthChecks[1])
}

func TestCountLines(t *testing.T) {
	assert.Equal(t, 0, countLines(""))
	assert.Equal(t, 1, countLines("select 1"))
	assert.Equal(t, 1, countLines("select 1\n"))
	assert.Equal(t, 2, countLines("select 1\nfrom t"))
}

func TestDoctorCommand(t *testing.T) {
	inProject(t)

	out, _, err := execute(t, NewDoctorCommand(), "", "--format", "json", "models")
	require.NoError(t, err)

	var doc DoctorOutput
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 2, doc.Summary.Files)
	assert.Equal(t, "ansi", doc.Summary.Dialect)
	assert.Equal(t, len(linter.New().Rules()), doc.Summary.RulesEnabled)
	assert.NotEmpty(t, doc.HealthChecks)
	assert.Positive(t, doc.IssueCount)
	assert.Less(t, doc.Score, 100)

	out, _, err = execute(t, NewDoctorCommand(), "", "--format", "markdown", "models")
	require.NoError(t, err)
	testutil.AssertValidMarkdown(t, out)
	assert.Contains(t, out, "# leaplint Project Health Report")
	assert.Contains(t, out, "## Health Score")
	assert.Contains(t, out, filepath.Join("models", "spacing.sql")+":1:")
}
