package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaplint/internal/cli/config"
	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/linter"
)

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Format string // Output format: text, markdown, json
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}
	cmd := &cobra.Command{
		Use:   "doctor [path...]",
		Short: "Report the lint health of a project",
		Long: `Lint every SQL file of a project and summarize the result per rule.

The report includes:
- Project summary (files, lines, dialect, config file)
- Health checks grouped by rule group
- Health score (0-100)
- Actionable recommendations

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Run health check
  leaplint doctor

  # Output as JSON
  leaplint doctor --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "markdown", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Summary         ProjectSummary `json:"summary"`
	HealthChecks    []HealthCheck  `json:"health_checks"`
	Score           int            `json:"score"`
	Recommendations []string       `json:"recommendations"`
	IssueCount      int            `json:"issue_count"`
}

// ProjectSummary contains project-level statistics.
type ProjectSummary struct {
	Files         int    `json:"files"`
	Lines         int    `json:"lines"`
	Dialect       string `json:"dialect"`
	ConfigFile    string `json:"config_file,omitempty"`
	RulesEnabled  int    `json:"rules_enabled"`
	FixableIssues int    `json:"fixable_issues"`
	ParseErrors   int    `json:"parse_errors"`
	FailedFiles   int    `json:"failed_files"`
}

// HealthCheck is the result of one rule across the project.
type HealthCheck struct {
	RuleID     string   `json:"rule_id"`
	Name       string   `json:"name"`
	Group      string   `json:"group"`
	Status     string   `json:"status"` // "pass", "warn", "error"
	IssueCount int      `json:"issue_count"`
	Details    []string `json:"details,omitempty"`
}

func runDoctor(cmd *cobra.Command, args []string, opts *DoctorOptions) error {
	cc := NewCommandContext(cmd)
	cc.WithFormat(cmd, opts.Format)

	l, cleanup, err := cc.NewLinter(true)
	if err != nil {
		return err
	}
	defer cleanup()

	lc := cc.LintConfig(nil, nil)
	results, err := cc.runInputs(cmd, l, args, linter.PathOptions{
		Dialect: cc.Cfg.Dialect,
		Config:  lc,
		Workers: cc.Cfg.Workers,
	})
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return nil
	}

	var rules []core.RuleInfo
	for _, r := range l.Rules() {
		if !lc.IsDisabled(r.ID()) {
			rules = append(rules, lint.GetRuleInfo(r))
		}
	}

	out := buildDoctorOutput(results, rules, fixableRules(l))
	out.Summary.Dialect = cc.Cfg.Dialect
	out.Summary.ConfigFile = config.GetConfigFileUsed()

	r := cc.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeMarkdown:
		renderDoctorMarkdown(r, out)
	default:
		renderDoctorText(r, out)
	}
	return nil
}

func buildDoctorOutput(results []linter.FileResult, rules []core.RuleInfo, fixable map[string]bool) *DoctorOutput {
	summary := ProjectSummary{Files: len(results), RulesEnabled: len(rules)}

	// Details are "path:line:col message".
	details := make(map[string][]string)
	issues := 0
	for _, res := range results {
		summary.Lines += countLines(res.Source)
		if res.Err != nil {
			summary.FailedFiles++
			continue
		}
		if res.Lint == nil {
			continue
		}
		summary.ParseErrors += len(res.Lint.ParseErrors)
		for _, v := range res.Lint.Violations {
			id := strings.ToUpper(v.RuleID)
			details[id] = append(details[id], fmt.Sprintf("%s:%s %s", res.Path, v.Pos(), v.Message))
			issues++
			if fixable[id] {
				summary.FixableIssues++
			}
		}
	}

	checks := make([]HealthCheck, 0, len(rules))
	for _, rule := range rules {
		ruleDetails := details[strings.ToUpper(rule.ID)]
		status := "pass"
		if len(ruleDetails) > 0 {
			if rule.DefaultSeverity == core.SeverityError {
				status = "error"
			} else {
				status = "warn"
			}
		}
		checks = append(checks, HealthCheck{
			RuleID:     rule.ID,
			Name:       rule.Name,
			Group:      rule.Group,
			Status:     status,
			IssueCount: len(ruleDetails),
			Details:    ruleDetails,
		})
	}

	sort.Slice(checks, func(i, j int) bool {
		if checks[i].Group != checks[j].Group {
			return checks[i].Group < checks[j].Group
		}
		return checks[i].RuleID < checks[j].RuleID
	})

	return &DoctorOutput{
		Summary:         summary,
		HealthChecks:    checks,
		Score:           calculateHealthScore(checks, summary),
		Recommendations: generateRecommendations(checks, summary),
		IssueCount:      issues,
	}
}

func countLines(source string) int {
	if source == "" {
		return 0
	}
	n := strings.Count(source, "\n")
	if !strings.HasSuffix(source, "\n") {
		n++
	}
	return n
}

// calculateHealthScore computes a health score from 0-100. Issues weigh
// less in larger projects; errors and unparsable files count double.
func calculateHealthScore(checks []HealthCheck, summary ProjectSummary) int {
	basePenalty := 5.0
	switch {
	case summary.Files > 100:
		basePenalty = 1.0
	case summary.Files > 50:
		basePenalty = 2.0
	case summary.Files > 10:
		basePenalty = 3.0
	}

	score := 100.0
	for _, check := range checks {
		switch check.Status {
		case "error":
			score -= float64(check.IssueCount) * basePenalty * 2
		case "warn":
			score -= float64(check.IssueCount) * basePenalty
		}
	}
	score -= float64(summary.ParseErrors+summary.FailedFiles) * basePenalty * 2

	return int(min(max(score, 0), 100))
}

// groupRecommendations holds the advice given when a group has issues.
var groupRecommendations = map[string]string{
	"aliasing":       "Use explicit AS for table and column aliases",
	"ambiguous":      "Remove ambiguous constructs such as DISTINCT with GROUP BY",
	"capitalisation": "Pick one case for keywords and function names",
	"convention":     "Align on one style for operators and COUNT",
	"layout":         "Normalize whitespace and keep lines short",
	"structure":      "Simplify query structure",
}

// maxRecommendations caps the recommendation list.
const maxRecommendations = 5

// generateRecommendations creates actionable recommendations based on findings.
func generateRecommendations(checks []HealthCheck, summary ProjectSummary) []string {
	var recommendations []string
	if summary.ParseErrors > 0 {
		recommendations = append(recommendations,
			fmt.Sprintf("Check the dialect setting: %d parse errors leave parts of files unlinted", summary.ParseErrors))
	}
	if summary.FixableIssues > 0 {
		recommendations = append(recommendations,
			fmt.Sprintf("Run `leaplint fix` to resolve %d issues automatically", summary.FixableIssues))
	}

	seen := make(map[string]bool)
	for _, check := range checks {
		if check.IssueCount == 0 || seen[check.Group] {
			continue
		}
		seen[check.Group] = true
		if rec, ok := groupRecommendations[check.Group]; ok {
			recommendations = append(recommendations, rec)
		}
	}

	if len(recommendations) > maxRecommendations {
		recommendations = recommendations[:maxRecommendations]
	}
	return recommendations
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render("leaplint Project Health Report"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	r.Println(styles.Header2.Render("Project Summary"))
	r.Printf("   Files: %d | Lines: %d | Dialect: %s\n", out.Summary.Files, out.Summary.Lines, out.Summary.Dialect)
	r.Printf("   Rules: %d | Parse Errors: %d | Unreadable: %d\n", out.Summary.RulesEnabled, out.Summary.ParseErrors, out.Summary.FailedFiles)
	if out.Summary.ConfigFile != "" {
		r.Printf("   Config: %s\n", styles.FilePath.Render(out.Summary.ConfigFile))
	}
	r.Println("")

	r.Println(styles.Header2.Render("Health Checks"))
	r.Println("")

	currentGroup := ""
	for i, check := range out.HealthChecks {
		if i == 0 || check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(styles.Bold.Render("   " + groupTitle(currentGroup)))
			r.Println(styles.Muted.Render("   " + strings.Repeat("-", 40)))
		}

		icon := styles.Success.Render("✓")
		switch check.Status {
		case "warn":
			icon = styles.Warning.Render("!")
		case "error":
			icon = styles.Error.Render("✗")
		}

		status := fmt.Sprintf("%s %s: %s", icon, check.RuleID, check.Name)
		if check.IssueCount > 0 {
			status += fmt.Sprintf(" (%d issues)", check.IssueCount)
		}
		r.Println("   " + status)

		for i, detail := range check.Details {
			if i >= 3 {
				r.Println(styles.Muted.Render(fmt.Sprintf("       ... and %d more", len(check.Details)-3)))
				break
			}
			r.Println(styles.Muted.Render("       - " + detail))
		}
	}
	r.Println("")

	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	scoreStyle := styles.Success
	if out.Score < 70 {
		scoreStyle = styles.Warning
	}
	if out.Score < 50 {
		scoreStyle = styles.Error
	}
	r.Printf("   Health Score: %s\n", scoreStyle.Render(fmt.Sprintf("%d/100", out.Score)))
	r.Println("")

	if len(out.Recommendations) > 0 {
		r.Println(styles.Header2.Render("Recommendations"))
		for i, rec := range out.Recommendations {
			r.Printf("   %d. %s\n", i+1, rec)
		}
		r.Println("")
	}
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) {
	r.Println("# leaplint Project Health Report")
	r.Println("")

	r.Println("## Project Summary")
	r.Println("")
	r.Printf("- **Files**: %d\n", out.Summary.Files)
	r.Printf("- **Lines**: %d\n", out.Summary.Lines)
	r.Printf("- **Dialect**: %s\n", out.Summary.Dialect)
	r.Printf("- **Rules**: %d\n", out.Summary.RulesEnabled)
	r.Printf("- **Parse Errors**: %d\n", out.Summary.ParseErrors)
	if out.Summary.ConfigFile != "" {
		r.Printf("- **Config**: `%s`\n", out.Summary.ConfigFile)
	}
	r.Println("")

	r.Println("## Health Checks")
	r.Println("")

	currentGroup := ""
	for i, check := range out.HealthChecks {
		if i == 0 || check.Group != currentGroup {
			currentGroup = check.Group
			r.Println("### " + groupTitle(currentGroup))
			r.Println("")
		}

		r.Printf("- **[%s]** %s: %s", strings.ToUpper(check.Status), check.RuleID, check.Name)
		if check.IssueCount > 0 {
			r.Printf(" (%d issues)", check.IssueCount)
		}
		r.Println("")

		for _, detail := range check.Details {
			r.Printf("  - %s\n", detail)
		}
	}
	r.Println("")

	r.Println("## Health Score")
	r.Println("")
	r.Printf("**%d/100**\n", out.Score)
	r.Println("")

	if len(out.Recommendations) > 0 {
		r.Println("## Recommendations")
		r.Println("")
		for i, rec := range out.Recommendations {
			r.Printf("%d. %s\n", i+1, rec)
		}
		r.Println("")
	}
}
