package commands_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/sitenav/internal/cli"
	"github.com/leapstack-labs/sitenav/internal/cli/commands"
	"github.com/leapstack-labs/sitenav/internal/cli/testutil"
	"github.com/leapstack-labs/sitenav/internal/docs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return testutil.ExecuteCommand(t, cli.NewRootCmd(), args...)
}

func TestProject_CheckClean(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	out, err := run(t, "check", "--project-dir", dir, "-o", "markdown")
	require.NoError(t, err, out)

	testutil.AssertNoANSI(t, out)
	testutil.AssertValidMarkdown(t, out)
	assert.Contains(t, out, "Navigation Check")
	assert.Contains(t, out, "- **Links checked:** 3")
	assert.Contains(t, out, "- **Errors:** 0")
}

func TestProject_CheckAfterBreakingSidebar(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	testutil.WriteFile(t, dir, "nav.yaml", `navbar:
  - text: Guide
    link: /guide/
sidebar:
  /guide/:
    - { text: Overview, link: /guide/ }
    - { text: Upgrade, link: /guide/upgrade }
`)

	out, err := run(t, "check", "--project-dir", dir, "-o", "markdown")
	require.ErrorIs(t, err, commands.ErrCheckFailed)
	assert.Contains(t, out, "`LK01`")
	assert.Contains(t, out, "/guide/upgrade")
	assert.Contains(t, out, "- **Errors:** 1")
}

func TestProject_BuildWritesSiteConfig(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	out, err := run(t, "build", "--project-dir", dir, "-o", "markdown")
	require.NoError(t, err, out)
	testutil.AssertValidMarkdown(t, out)

	data, err := os.ReadFile(filepath.Join(dir, ".sitenav", "config.json"))
	require.NoError(t, err)

	var site docs.SiteConfig
	require.NoError(t, json.Unmarshal(data, &site))
	assert.Equal(t, "Test Docs", site.Title)
	require.Contains(t, site.ThemeConfig.Sidebar, "/guide/")
	leaves, _ := site.ThemeConfig.Sidebar["/guide/"].Count()
	assert.Equal(t, 2, leaves)
	assert.FileExists(t, filepath.Join(dir, ".sitenav", "manifest.json"))
}

func TestProject_EnvOverridesConfigFile(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	t.Setenv("SITENAV_SITE__TITLE", "Handbook")
	t.Setenv("SITENAV_BUILD__FORMAT", "yaml")

	out, err := run(t, "build", "--project-dir", dir, "-o", "json")
	require.NoError(t, err, out)

	data, err := os.ReadFile(filepath.Join(dir, ".sitenav", "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "title: Handbook")
	assert.NoFileExists(t, filepath.Join(dir, ".sitenav", "config.json"))
}

func TestProject_ResolveInstallPage(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	out, err := run(t, "resolve", "--project-dir", dir, "-o", "json", "/guide/install", "/blog/")
	require.NoError(t, err, out)

	var results []commands.ResolveJSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "/guide/", results[0].Prefix)
	assert.Empty(t, results[1].Prefix)
	assert.Empty(t, results[1].Sidebar)
}

func TestProject_TreeHighlightsSourceLink(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	out, err := run(t, "tree", "/guide/", "--project-dir", dir, "-o", "markdown", "--active", "guide/install.md")
	require.NoError(t, err, out)

	testutil.AssertNoANSI(t, out)
	assert.Contains(t, out, "● Install → /guide/install")
	assert.NotContains(t, out, "● Overview")
}
