package commands

import (
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/internal/cli/testutil"
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/linter"
)

func TestRulesCommand_Flags(t *testing.T) {
	cmd := NewRulesCommand()

	assert.Equal(t, "rules [rule-id]", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("group"))
	assert.NotNil(t, cmd.Flags().Lookup("fixable"))
	assert.Equal(t, "V", cmd.Flags().Lookup("verbose").Shorthand)
	assert.Equal(t, "f", cmd.Flags().Lookup("format").Shorthand)
}

func TestRulesCommand_JSON(t *testing.T) {
	inProject(t)

	out, _, err := execute(t, NewRulesCommand(), "", "--format", "json")
	require.NoError(t, err)

	var doc RulesJSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, len(linter.New().Rules()), doc.Count.Total)
	assert.Len(t, doc.Rules, doc.Count.Total)
	assert.Positive(t, doc.Count.Fixable)

	for i := 1; i < len(doc.Rules); i++ {
		prev, cur := doc.Rules[i-1], doc.Rules[i]
		assert.True(t, prev.Group < cur.Group || (prev.Group == cur.Group && prev.ID < cur.ID),
			"rules sorted by group then ID: %s before %s", prev.ID, cur.ID)
	}
}

func TestRulesCommand_Filters(t *testing.T) {
	inProject(t)

	out, _, err := execute(t, NewRulesCommand(), "", "--format", "json", "--group", "Layout")
	require.NoError(t, err)
	var doc RulesJSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.NotEmpty(t, doc.Rules)
	for _, r := range doc.Rules {
		assert.Equal(t, "layout", r.Group)
	}

	out, _, err = execute(t, NewRulesCommand(), "", "--format", "json", "--fixable")
	require.NoError(t, err)
	doc = RulesJSONOutput{}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.NotEmpty(t, doc.Rules)
	for _, r := range doc.Rules {
		assert.True(t, r.Fixable, r.ID)
	}

	out, _, err = execute(t, NewRulesCommand(), "", "--format", "json", "--group", "nope")
	require.NoError(t, err)
	doc = RulesJSONOutput{}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Empty(t, doc.Rules)
	assert.Zero(t, doc.Count.Total)
}

func TestRulesCommand_Markdown(t *testing.T) {
	inProject(t)

	out, _, err := execute(t, NewRulesCommand(), "", "--format", "markdown", "-V")
	require.NoError(t, err)
	testutil.AssertValidMarkdown(t, out)
	assert.Contains(t, out, "# Lint Rules")
	assert.Contains(t, out, "## Layout")
	assert.Contains(t, out, "- **LT01** - layout.spacing (`warning` fixable)")
	assert.Contains(t, out, "  > Consistent single spacing")
}

func TestRulesCommand_Detail(t *testing.T) {
	inProject(t)

	out, _, err := execute(t, NewRulesCommand(), "", "--format", "markdown", "lt01")
	require.NoError(t, err)
	testutil.AssertValidMarkdown(t, out)
	assert.Contains(t, out, "# LT01 - layout.spacing")
	assert.Contains(t, out, "**Fixable:** yes")
	assert.Contains(t, out, "## Bad Example")

	out, _, err = execute(t, NewRulesCommand(), "", "--format", "json", "LT01")
	require.NoError(t, err)
	var info core.RuleInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "LT01", info.ID)
	assert.Equal(t, core.SeverityWarning, info.DefaultSeverity)

	out, _, err = execute(t, NewRulesCommand(), "", "--format", "text", "LT01")
	require.NoError(t, err)
	out = testutil.StripANSI(out)
	assert.Contains(t, out, "Phase: ")
	assert.Contains(t, out, "Crawls: file")

	_, _, err = execute(t, NewRulesCommand(), "", "ZZ99")
	assert.ErrorContains(t, err, `rule "ZZ99" not found`)
}

func TestRulesCommand_CustomRules(t *testing.T) {
	root := inProject(t)
	path := testutil.WriteFile(t, root, "rules/no_star.star", `
rule(id = "CU01", group = "custom", check = lambda ctx: None)
`)
	cfg := getConfig()
	cc := &CommandContext{Cfg: cfg, Logger: slog.New(slog.DiscardHandler), Renderer: testutil.NewTestRendererJSON().Renderer}
	cfg.CustomRules = []string{path}

	reg, err := cc.ruleRegistry()
	require.NoError(t, err)
	_, ok := reg.Get("CU01")
	assert.True(t, ok)
	_, ok = reg.Get("LT01")
	assert.True(t, ok, "built-in rules stay registered")
}

func TestGroupTitle(t *testing.T) {
	assert.Equal(t, "Layout", groupTitle("layout"))
	assert.Equal(t, "Custom Rules", groupTitle("custom_rules"))
	assert.Equal(t, "Other", groupTitle(""))
}
