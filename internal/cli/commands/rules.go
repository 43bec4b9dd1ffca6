package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Group   string // Filter by group
	Fixable bool   // Only rules that propose fixes
	Verbose bool   // Show full documentation
	Format  string // Output format
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List available lint rules",
		Long: `List all available lint rules with their documentation.

Rules are organized by group (e.g., layout, capitalisation, ambiguous).
Custom rules from the custom_rules setting are listed next to the built-ins.
Use --verbose to see full documentation including examples.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # List all rules
  leaplint rules

  # Show details for a specific rule
  leaplint rules LT01

  # List rules in the layout group
  leaplint rules --group layout

  # List rules that leaplint fix can resolve
  leaplint rules --fixable

  # Output as JSON
  leaplint rules --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			cc.WithFormat(cmd, opts.Format)

			l, cleanup, err := cc.NewLinter(false)
			if err != nil {
				return err
			}
			defer cleanup()

			infos := ruleInfos(l.Rules())
			if len(args) > 0 {
				return showRule(cc.Renderer, infos, args[0])
			}
			return listRules(cc.Renderer, filterRules(infos, opts), opts.Verbose)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group")
	cmd.Flags().BoolVar(&opts.Fixable, "fixable", false, "Only list fixable rules")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "V", false, "Show full documentation")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}

// ruleInfos returns the metadata of rules sorted by group, then ID.
func ruleInfos(rules []lint.Rule) []core.RuleInfo {
	infos := make([]core.RuleInfo, 0, len(rules))
	for _, r := range rules {
		infos = append(infos, lint.GetRuleInfo(r))
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Group != infos[j].Group {
			return infos[i].Group < infos[j].Group
		}
		return infos[i].ID < infos[j].ID
	})
	return infos
}

func filterRules(rules []core.RuleInfo, opts *RulesOptions) []core.RuleInfo {
	if opts.Group == "" && !opts.Fixable {
		return rules
	}

	var filtered []core.RuleInfo
	for _, r := range rules {
		if opts.Group != "" && !strings.EqualFold(r.Group, opts.Group) {
			continue
		}
		if opts.Fixable && !r.Fixable {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

func listRules(r *output.Renderer, rules []core.RuleInfo, verbose bool) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return listRulesJSON(r, rules)
	case output.ModeMarkdown:
		listRulesMarkdown(r, rules, verbose)
	default:
		listRulesText(r, rules, verbose)
	}
	return nil
}

func showRule(r *output.Renderer, rules []core.RuleInfo, ruleID string) error {
	var rule *core.RuleInfo
	for i := range rules {
		if strings.EqualFold(rules[i].ID, ruleID) {
			rule = &rules[i]
			break
		}
	}
	if rule == nil {
		return fmt.Errorf("rule %q not found", ruleID)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(rule)
	case output.ModeMarkdown:
		showRuleMarkdown(r, rule)
	default:
		showRuleText(r, rule)
	}
	return nil
}

// listRulesText outputs rules in styled text format.
func listRulesText(r *output.Renderer, rules []core.RuleInfo, verbose bool) {
	styles := r.Styles()

	fixable := 0
	for _, rule := range rules {
		if rule.Fixable {
			fixable++
		}
	}

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Lint Rules (%d, %d fixable)", len(rules), fixable)))
	r.Println("")

	currentGroup := ""
	for i, rule := range rules {
		if i == 0 || rule.Group != currentGroup {
			currentGroup = rule.Group
			r.Println(styles.Header2.Render(groupTitle(currentGroup)))
		}

		marker := ""
		if rule.Fixable {
			marker = styles.Muted.Render(" [fixable]")
		}
		r.Printf("    %s  %s - %s%s\n",
			styles.Muted.Render(fmt.Sprintf("%-5s", rule.ID)),
			rule.Name,
			styles.Severity(rule.DefaultSeverity).Render(rule.DefaultSeverity.String()),
			marker,
		)

		if verbose {
			r.Println(styles.Muted.Render("          " + rule.Description))
			if rule.Rationale != "" {
				r.Println(styles.Muted.Render("          Why: " + output.Truncate(rule.Rationale, 80)))
			}
			r.Println("")
		}
	}

	r.Println("")
	r.Println(styles.Muted.Render("Use 'leaplint rules <rule-id>' for detailed documentation"))
	r.Println("")
}

// listRulesMarkdown outputs rules in markdown format.
func listRulesMarkdown(r *output.Renderer, rules []core.RuleInfo, verbose bool) {
	r.Println("# Lint Rules")
	r.Println("")

	currentGroup := ""
	for i, rule := range rules {
		if i == 0 || rule.Group != currentGroup {
			currentGroup = rule.Group
			r.Println("## " + groupTitle(currentGroup))
			r.Println("")
		}

		fix := ""
		if rule.Fixable {
			fix = " fixable"
		}
		r.Printf("- **%s** - %s (`%s`%s)\n", rule.ID, rule.Name, rule.DefaultSeverity.String(), fix)
		if verbose {
			r.Println("  " + rule.Description)
			if rule.Rationale != "" {
				r.Println("  > " + rule.Rationale)
			}
		}
	}

	r.Println("")
}

// RulesJSONOutput is the JSON output structure for rules listing.
type RulesJSONOutput struct {
	Rules []core.RuleInfo `json:"rules"`
	Count struct {
		Fixable int `json:"fixable"`
		Total   int `json:"total"`
	} `json:"count"`
}

func listRulesJSON(r *output.Renderer, rules []core.RuleInfo) error {
	out := RulesJSONOutput{Rules: rules}
	if out.Rules == nil {
		out.Rules = []core.RuleInfo{}
	}
	for _, rule := range rules {
		if rule.Fixable {
			out.Count.Fixable++
		}
	}
	out.Count.Total = len(rules)
	return r.JSON(out)
}

// showRuleText displays detailed rule info in text format.
func showRuleText(r *output.Renderer, rule *core.RuleInfo) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("%s - %s", rule.ID, rule.Name)))
	r.Println("")

	r.Printf("  %s: %s\n", styles.Bold.Render("Group"), rule.Group)
	r.Printf("  %s: %s\n", styles.Bold.Render("Severity"), rule.DefaultSeverity.String())
	r.Printf("  %s: %s\n", styles.Bold.Render("Phase"), rule.Phase)
	r.Printf("  %s: %s\n", styles.Bold.Render("Fixable"), yesNo(rule.Fixable))
	if len(rule.Crawls) > 0 {
		r.Printf("  %s: %s\n", styles.Bold.Render("Crawls"), strings.Join(rule.Crawls, ", "))
	}
	r.Println("")

	r.Println(styles.Bold.Render("Description"))
	r.Println("  " + rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println(styles.Bold.Render("Why This Matters"))
		r.Println("  " + rule.Rationale)
		r.Println("")
	}

	if rule.BadExample != "" {
		r.Println(styles.Bold.Render("Bad Example"))
		for _, line := range strings.Split(rule.BadExample, "\n") {
			r.Println(styles.Muted.Render("  " + line))
		}
		r.Println("")
	}

	if rule.GoodExample != "" {
		r.Println(styles.Bold.Render("Good Example"))
		for _, line := range strings.Split(rule.GoodExample, "\n") {
			r.Println(styles.Success.Render("  " + line))
		}
		r.Println("")
	}

	if len(rule.ConfigKeys) > 0 {
		r.Println(styles.Bold.Render("Configuration"))
		r.Printf("  Options: %s\n", strings.Join(rule.ConfigKeys, ", "))
		r.Println("")
	}
}

// showRuleMarkdown displays detailed rule info in markdown format.
func showRuleMarkdown(r *output.Renderer, rule *core.RuleInfo) {
	r.Printf("# %s - %s\n\n", rule.ID, rule.Name)
	r.Printf("**Group:** %s | **Severity:** `%s` | **Phase:** %s | **Fixable:** %s\n\n",
		rule.Group, rule.DefaultSeverity.String(), rule.Phase, yesNo(rule.Fixable))
	r.Println(rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println("## Why This Matters")
		r.Println("")
		r.Println(rule.Rationale)
		r.Println("")
	}

	if rule.BadExample != "" {
		r.Println("## Bad Example")
		r.Println("")
		r.Println("```sql")
		r.Println(rule.BadExample)
		r.Println("```")
		r.Println("")
	}

	if rule.GoodExample != "" {
		r.Println("## Good Example")
		r.Println("")
		r.Println("```sql")
		r.Println(rule.GoodExample)
		r.Println("```")
		r.Println("")
	}

	if len(rule.ConfigKeys) > 0 {
		r.Println("## Configuration")
		r.Println("")
		r.Printf("Options: `%s`\n", strings.Join(rule.ConfigKeys, "`, `"))
		r.Println("")
	}
}

var titleCaser = cases.Title(language.English)

func groupTitle(group string) string {
	if group == "" {
		return "Other"
	}
	return titleCaser.String(strings.ReplaceAll(group, "_", " "))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
