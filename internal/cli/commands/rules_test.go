package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/leapstack-labs/sitenav/internal/cli/testutil"
	"github.com/leapstack-labs/sitenav/internal/validate"
	"github.com/leapstack-labs/sitenav/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRulesCommand(t *testing.T) {
	cmd := NewRulesCommand()

	assert.Equal(t, "rules [rule]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	for _, flag := range []string{"group", "details"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRulesCommand_ListAll(t *testing.T) {
	cmd := NewRulesCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())

	// Non-TTY output falls back to markdown.
	out := buf.String()
	assert.Contains(t, out, "# Validation Rules")
	for _, rule := range validate.Rules() {
		assert.Contains(t, out, rule.ID)
	}
}

func TestRulesCommand_Text(t *testing.T) {
	tr := testutil.NewTestRendererText()
	require.NoError(t, listRules(tr.Renderer, &RulesOptions{}))

	out := tr.Output()
	assert.Contains(t, out, "Validation Rules (6)")
	assert.Contains(t, out, "Link")
	assert.Contains(t, out, "Sidebar")
	assert.Contains(t, out, "broken-link")
	assert.Contains(t, out, "(fatal)")
	assert.Contains(t, out, "(opt-in)")
}

func TestRulesCommand_FilterByGroup(t *testing.T) {
	tr := testutil.NewTestRendererMarkdown()
	require.NoError(t, listRules(tr.Renderer, &RulesOptions{Group: "sidebar"}))

	out := tr.Output()
	assert.Contains(t, out, validate.RuleAmbiguousPrefix)
	assert.Contains(t, out, validate.RuleUnreachableSidebar)
	assert.NotContains(t, out, validate.RuleBrokenLink)
	testutil.AssertNoANSI(t, out)
	testutil.AssertValidMarkdown(t, out)
}

func TestRulesCommand_UnknownGroup(t *testing.T) {
	tr := testutil.NewTestRendererMarkdown()
	err := listRules(tr.Renderer, &RulesOptions{Group: "sql"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no rules in group")
}

func TestRulesCommand_JSON(t *testing.T) {
	tr := testutil.NewTestRendererJSON()
	require.NoError(t, listRules(tr.Renderer, &RulesOptions{Group: "link"}))

	var result RulesJSONOutput
	require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &result))
	assert.Equal(t, 3, result.Count)
	assert.Len(t, result.Rules, 3)
	for _, rule := range result.Rules {
		assert.Equal(t, "link", rule.Group)
	}
}

func TestRulesCommand_Details(t *testing.T) {
	tr := testutil.NewTestRendererMarkdown()
	require.NoError(t, listRules(tr.Renderer, &RulesOptions{Details: true}))

	out := tr.Output()
	broken, ok := validate.LookupRule(validate.RuleBrokenLink)
	require.True(t, ok)
	assert.Contains(t, out, "## "+broken.ID+" "+broken.Name)
	assert.Contains(t, out, broken.Description)
}

func TestRulesCommand_ShowSpecificRule(t *testing.T) {
	cmd := NewRulesCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"unreachable-sidebar"})

	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, validate.RuleUnreachableSidebar)
	assert.Contains(t, out, "## How to Fix")
}

func TestRulesCommand_SingleRuleJSON(t *testing.T) {
	tr := testutil.NewTestRendererJSON()
	require.NoError(t, showRule(tr.Renderer, "lk01"))

	var rule core.RuleInfo
	require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &rule))
	assert.Equal(t, validate.RuleBrokenLink, rule.ID)
	assert.True(t, rule.Fatal)
	assert.Equal(t, core.SeverityError, rule.DefaultSeverity)
}

func TestRulesCommand_NotFound(t *testing.T) {
	cmd := NewRulesCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"XX99"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
