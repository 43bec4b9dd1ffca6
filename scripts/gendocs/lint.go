package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/linter"
)

// groupDescriptions provides human-readable descriptions for rule groups.
var groupDescriptions = map[string]string{
	"aliasing":       "Rules about alias usage and naming conventions.",
	"ambiguous":      "Rules about ambiguous SQL constructs that may cause confusion or errors.",
	"capitalisation": "Rules about the case of keywords, identifiers and function names.",
	"convention":     "Rules about SQL coding conventions and style consistency.",
	"layout":         "Rules about whitespace, indentation and line breaks.",
	"structure":      "Rules about SQL query structure and organization.",
}

// generateLintDocs writes the rule overview, the rule reference and the
// dialect list.
func generateLintDocs(outDir string) error {
	log.Printf("Generating lint docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	l := linter.New()
	grouped := groupRules(l.Rules())

	if err := generateLintIndex(outDir, grouped); err != nil {
		return err
	}
	log.Printf("  Generated index.md")

	if err := generateRulesPage(outDir, grouped); err != nil {
		return err
	}
	log.Printf("  Generated rules.md")

	if err := generateDialectsPage(outDir, l); err != nil {
		return err
	}
	log.Printf("  Generated dialects.md")

	return nil
}

type ruleGroup struct {
	name  string
	rules []core.RuleInfo
}

// groupRules organizes rules by group. Groups and the rules within them
// are sorted.
func groupRules(rules []lint.Rule) []ruleGroup {
	byGroup := make(map[string][]core.RuleInfo)
	for _, r := range rules {
		info := lint.GetRuleInfo(r)
		byGroup[info.Group] = append(byGroup[info.Group], info)
	}

	groups := make([]ruleGroup, 0, len(byGroup))
	for name, infos := range byGroup {
		sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
		groups = append(groups, ruleGroup{name: name, rules: infos})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].name < groups[j].name })
	return groups
}

func generateLintIndex(outDir string, groups []ruleGroup) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Rules", "Lint rules built into leaplint")
	w.GeneratedMarker()

	total, fixable := 0, 0
	for _, g := range groups {
		for _, r := range g.rules {
			total++
			if r.Fixable {
				fixable++
			}
		}
	}

	w.Header(1, "Rules")
	w.Paragraph(fmt.Sprintf("leaplint ships %s, %d of which can be fixed automatically with %s.",
		Bold(fmt.Sprintf("%d rules", total)), fixable, InlineCode("leaplint fix")))

	w.Header(2, "Severity Levels")
	w.Table(
		[]string{"Severity", "Description"},
		[][]string{
			{InlineCode(core.SeverityError.String()), "Critical issue that should be fixed"},
			{InlineCode(core.SeverityWarning.String()), "Potential issue that should be reviewed"},
			{InlineCode(core.SeverityInfo.String()), "Informational feedback"},
			{InlineCode(core.SeverityHint.String()), "Suggestion for improvement"},
		},
	)

	w.Header(2, "Configuration")
	w.Paragraph("Rules are configured under the `rules` key of `leaplint.yaml`:")
	w.CodeBlock("yaml", `rules:
  AM01:
    enabled: false       # disable rule
  LT05:
    severity: error      # override severity
    params:
      max_line_length: 100  # rule-specific option`)
	w.Paragraph("Inline comments suppress violations:")
	w.Table([]string{"Comment", "Effect"}, [][]string{
		{InlineCode("-- noqa"), "Suppress every rule on this line"},
		{InlineCode("-- noqa: LT01,CP*"), "Suppress the listed rules on this line"},
		{InlineCode("-- noqa: disable=LT01"), "Suppress LT01 from this line on"},
		{InlineCode("-- noqa: enable=all"), "Lift range suppressions from this line on"},
	})

	w.Header(2, "Rule Groups")
	var rows [][]string
	for _, g := range groups {
		rows = append(rows, []string{
			fmt.Sprintf("[%s](/rules/rules#%s)", groupName(g.name), g.name),
			fmt.Sprintf("%d", len(g.rules)),
			cleanDescription(groupDescriptions[g.name]),
		})
	}
	w.Table([]string{"Group", "Rules", "Description"}, rows)

	return os.WriteFile(filepath.Join(outDir, "index.md"), w.Bytes(), 0600)
}

func generateRulesPage(outDir string, groups []ruleGroup) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Rule Reference", "Every lint rule with examples")
	w.GeneratedMarker()
	w.Header(1, "Rule Reference")

	for _, g := range groups {
		w.Line(fmt.Sprintf("## %s {#%s}", groupName(g.name), g.name))
		w.Newline()
		if desc, ok := groupDescriptions[g.name]; ok {
			w.Paragraph(desc)
		}
		for _, r := range g.rules {
			writeRuleDoc(w, r)
		}
	}

	return os.WriteFile(filepath.Join(outDir, "rules.md"), w.Bytes(), 0600)
}

func generateDialectsPage(outDir string, l *linter.Linter) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Dialects", "SQL dialects understood by leaplint")
	w.GeneratedMarker()

	w.Header(1, "Dialects")
	w.Paragraph("A dialect inherits the keywords and grammar of the dialect it extends and overrides what differs. Select one with `--dialect` or the `dialect` config key.")

	var rows [][]string
	for _, d := range l.ListDialects() {
		parent := "-"
		if d.Parent != "" {
			parent = InlineCode(d.Parent)
		}
		rows = append(rows, []string{InlineCode(d.Name), parent})
	}
	w.Table([]string{"Dialect", "Extends"}, rows)

	return os.WriteFile(filepath.Join(outDir, "dialects.md"), w.Bytes(), 0600)
}

// writeRuleDoc writes detailed documentation for a single rule.
func writeRuleDoc(w *MarkdownWriter, rule core.RuleInfo) {
	// ### LT01 - layout.spacing {#LT01}
	w.Line(fmt.Sprintf("### %s - %s {#%s}", rule.ID, rule.Name, rule.ID))
	w.Newline()

	badges := []string{Bold("Severity:") + " " + InlineCode(rule.DefaultSeverity.String())}
	if rule.Fixable {
		badges = append(badges, Bold("Fixable"))
	}
	w.Line(strings.Join(badges, " | "))
	w.Newline()

	w.Paragraph(cleanDescription(rule.Description) + ".")

	if rule.Rationale != "" {
		w.Header(4, "Why This Matters")
		w.Paragraph(rule.Rationale)
	}
	if rule.BadExample != "" {
		w.Header(4, "Bad")
		w.CodeBlock("sql", rule.BadExample)
	}
	if rule.GoodExample != "" {
		w.Header(4, "Good")
		w.CodeBlock("sql", rule.GoodExample)
	}
	if len(rule.ConfigKeys) > 0 {
		w.Header(4, "Configuration")
		w.Paragraph(fmt.Sprintf("This rule accepts the following configuration options: %s",
			InlineCode(strings.Join(rule.ConfigKeys, ", "))))
	}

	w.Line("---")
	w.Newline()
}

// groupName capitalizes the first letter of a group.
func groupName(s string) string {
	if s == "" {
		return "Other"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
