package validate

import (
	"errors"
	"testing"

	"github.com/leapstack-labs/sitenav/internal/loader"
	"github.com/leapstack-labs/sitenav/internal/registry"
	"github.com/leapstack-labs/sitenav/internal/testutil"
	"github.com/leapstack-labs/sitenav/pkg/core"
	"github.com/leapstack-labs/sitenav/pkg/nav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIndex(ids ...string) *loader.ContentIndex {
	docs := make([]*loader.Document, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, &loader.Document{ID: id, File: id[1:] + ".md"})
	}
	return loader.NewContentIndex(docs...)
}

func defaultIndex() *loader.ContentIndex {
	return testIndex(
		"/index",
		"/docs/ai/index",
		"/docs/ai/mcp",
		"/docs/container/index",
		"/docs/container/resources/pod",
		"/docs/tools/mq/index",
	)
}

func newValidator(t *testing.T, cfg Config) *Validator {
	t.Helper()
	v, err := New(cfg, testutil.NewTestLogger(t))
	require.NoError(t, err)
	return v
}

func newRegistry(t *testing.T, entries map[string]nav.List) *registry.SidebarRegistry {
	t.Helper()
	r := registry.NewSidebarRegistry()
	for prefix, tree := range entries {
		require.NoError(t, r.Register(prefix, tree))
	}
	return r
}

func diagnosticsFor(r *Report, ruleID string) []core.Diagnostic {
	var out []core.Diagnostic
	for _, d := range r.Diagnostics {
		if d.RuleID == ruleID {
			out = append(out, d)
		}
	}
	return out
}

func TestCheck_Clean(t *testing.T) {
	navbar := nav.List{
		nav.Leaf("人工智能", "/docs/ai/"),
		nav.Branch("架构", nav.Leaf("容器相关", "/docs/container/")),
		nav.Branch("工具", nav.Leaf("消息中间件", "/docs/tools/mq")),
	}
	reg := newRegistry(t, map[string]nav.List{
		"/docs/ai/": {nav.Leaf("概览", "/docs/ai/"), nav.Leaf("MCP", "/docs/ai/mcp")},
		"/docs/container/": {nav.Branch("容器",
			nav.Leaf("index", "/docs/container/index"),
			nav.Leaf("Pod", "/docs/container/resources/pod.md"),
		)},
		"/docs/tools/mq/": {nav.Leaf("MQ", "/docs/tools/mq/")},
	})

	report := newValidator(t, Config{}).Check(navbar, reg, defaultIndex())

	require.NoError(t, report.Err())
	assert.Empty(t, report.Diagnostics)
	assert.Equal(t, 8, report.Checked)
}

func TestCheck_BrokenLink(t *testing.T) {
	navbar := nav.List{
		nav.Leaf("人工智能", "/docs/ai/"),
		nav.Leaf("数据库", "/docs/database"),
	}
	reg := newRegistry(t, map[string]nav.List{
		"/docs/ai/": {nav.Branch("AI", nav.Leaf("SFT", "/docs/ai/llm/sft"))},
	})

	report := newValidator(t, Config{}).Check(navbar, reg, defaultIndex())

	err := report.Err()
	require.Error(t, err)

	var broken *BrokenLinkError
	require.True(t, errors.As(err, &broken))
	require.Len(t, broken.Links, 2, "every broken target is collected")
	assert.Equal(t, []string{"/docs/database", "/docs/ai/llm/sft"}, broken.Targets())

	assert.Equal(t, "navbar", broken.Links[0].Location)
	assert.Equal(t, []string{"数据库"}, broken.Links[0].Trail)
	assert.Equal(t, "sidebar /docs/ai/", broken.Links[1].Location)
	assert.Equal(t, []string{"AI", "SFT"}, broken.Links[1].Trail)

	assert.Contains(t, err.Error(), "/docs/database")
	assert.Len(t, diagnosticsFor(report, RuleBrokenLink), 2)
	assert.Equal(t, 2, report.Count(core.SeverityError))
}

func TestCheck_UnreachableSidebarIsWarning(t *testing.T) {
	navbar := nav.List{nav.Leaf("人工智能", "/docs/ai/")}
	reg := newRegistry(t, map[string]nav.List{
		"/docs/ai/":        {nav.Leaf("概览", "/docs/ai/")},
		"/docs/container/": {nav.Leaf("容器", "/docs/container/")},
	})

	report := newValidator(t, Config{}).Check(navbar, reg, defaultIndex())

	require.NoError(t, report.Err(), "warnings never fail the build")
	diags := diagnosticsFor(report, RuleUnreachableSidebar)
	require.Len(t, diags, 1)
	assert.Equal(t, "/docs/container/", diags[0].Target)
	assert.Equal(t, core.SeverityWarning, diags[0].Severity)
}

func TestCheck_NavbarLeafWithoutSlashReachesSidebar(t *testing.T) {
	navbar := nav.List{nav.Leaf("消息中间件", "/docs/tools/mq")}
	reg := newRegistry(t, map[string]nav.List{
		"/docs/tools/mq/": {nav.Leaf("MQ", "/docs/tools/mq/")},
	})

	report := newValidator(t, Config{}).Check(navbar, reg, defaultIndex())

	require.NoError(t, report.Err())
	assert.Empty(t, diagnosticsFor(report, RuleUnreachableSidebar))
}

func TestCheck_NavbarPageReachesSectionSidebar(t *testing.T) {
	// guide.md and guide/a.md: the navbar links the page, not the section index.
	index := testIndex("/docs/guide", "/docs/guide/a")
	navbar := nav.List{nav.Leaf("Guide", "/docs/guide")}
	reg := newRegistry(t, map[string]nav.List{
		"/docs/guide/": {nav.Leaf("A", "/docs/guide/a")},
	})

	report := newValidator(t, Config{}).Check(navbar, reg, index)

	require.NoError(t, report.Err())
	assert.Empty(t, diagnosticsFor(report, RuleUnreachableSidebar))
}

func TestCheck_NilRegistry(t *testing.T) {
	navbar := nav.List{nav.Leaf("消息中间件", "/docs/tools/mq")}

	var report *Report
	require.NotPanics(t, func() {
		report = newValidator(t, Config{}).Check(navbar, nil, defaultIndex())
	})
	require.NoError(t, report.Err())
	assert.Equal(t, 1, report.Checked)
}

func TestCheck_AmbiguousPrefix(t *testing.T) {
	index := testIndex("/docs/数据库/index")
	navbar := nav.List{nav.Leaf("数据库", "/docs/数据库/")}
	reg := newRegistry(t, map[string]nav.List{
		"/docs/数据库/":                          {nav.Leaf("a", "/docs/数据库/")},
		"/docs/%E6%95%B0%E6%8D%AE%E5%BA%93/": {nav.Leaf("b", "/docs/%E6%95%B0%E6%8D%AE%E5%BA%93/")},
	})

	report := newValidator(t, Config{}).Check(navbar, reg, index)

	var ambiguous *registry.AmbiguousPrefixError
	require.ErrorAs(t, report.Err(), &ambiguous)
	assert.Len(t, ambiguous.Prefixes, 2)
	assert.Len(t, diagnosticsFor(report, RuleAmbiguousPrefix), 1)
}

func TestCheck_RelativeLink(t *testing.T) {
	index := testIndex("/docs/container/standard")
	navbar := nav.List{nav.Leaf("规范", "docs/container/standard")}

	report := newValidator(t, Config{}).Check(navbar, registry.NewSidebarRegistry(), index)

	require.NoError(t, report.Err(), "relative links resolve after normalization")
	diags := diagnosticsFor(report, RuleRelativeLink)
	require.Len(t, diags, 1)
	assert.Equal(t, core.SeverityWarning, diags[0].Severity)
	assert.Equal(t, "docs/container/standard", diags[0].Target)
}

func TestCheck_DuplicateLinkInSidebar(t *testing.T) {
	navbar := nav.List{nav.Leaf("AI", "/docs/ai/")}
	reg := newRegistry(t, map[string]nav.List{
		"/docs/ai/": {
			nav.Leaf("概览", "/docs/ai/"),
			nav.Branch("更多", nav.Leaf("首页", "/docs/ai/index.md")),
		},
	})

	report := newValidator(t, Config{}).Check(navbar, reg, defaultIndex())

	diags := diagnosticsFor(report, RuleDuplicateLink)
	require.Len(t, diags, 1)
	assert.Equal(t, core.SeverityHint, diags[0].Severity)
	assert.Equal(t, []string{"更多", "首页"}, diags[0].Trail)
}

func TestCheck_ExternalLinksSkipped(t *testing.T) {
	navbar := nav.List{
		nav.Leaf("GitHub", "https://github.com/example/docs"),
		nav.Leaf("AI", "/docs/ai/"),
	}
	report := newValidator(t, Config{}).Check(navbar, registry.NewSidebarRegistry(), defaultIndex())

	require.NoError(t, report.Err())
	assert.Equal(t, 1, report.Checked)
}

func TestCheck_Orphans(t *testing.T) {
	navbar := nav.List{nav.Leaf("AI", "/docs/ai/")}
	index := loader.NewContentIndex(
		&loader.Document{ID: "/index", File: "index.md"},
		&loader.Document{ID: "/docs/ai/index", File: "docs/ai/index.md"},
		&loader.Document{ID: "/docs/ai/mcp", File: "docs/ai/mcp.md"},
		&loader.Document{ID: "/landing", File: "landing.md", Frontmatter: &loader.Frontmatter{Layout: "home"}},
	)

	off := newValidator(t, Config{}).Check(navbar, registry.NewSidebarRegistry(), index)
	assert.Empty(t, diagnosticsFor(off, RuleOrphanDocument), "orphan rule is opt-in")

	on := newValidator(t, Config{Orphans: true}).Check(navbar, registry.NewSidebarRegistry(), index)
	diags := diagnosticsFor(on, RuleOrphanDocument)
	require.Len(t, diags, 1)
	assert.Equal(t, "/docs/ai/mcp", diags[0].Target)
	assert.Equal(t, core.SeverityInfo, diags[0].Severity)
}

func TestCheck_Base(t *testing.T) {
	navbar := nav.List{nav.Leaf("AI", "/blog/docs/ai/")}
	report := newValidator(t, Config{Base: "/blog/"}).Check(navbar, registry.NewSidebarRegistry(), defaultIndex())
	require.NoError(t, report.Err())
}

func TestNew_RuleConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "disable by name", cfg: Config{Disabled: []string{"relative-link"}}},
		{name: "override by id", cfg: Config{Severity: map[string]string{"SB02": "error"}}},
		{name: "unknown rule", cfg: Config{Disabled: []string{"XX99"}}, wantErr: "unknown rule"},
		{name: "invalid severity", cfg: Config{Severity: map[string]string{"LK02": "loud"}}, wantErr: "invalid severity"},
		{name: "disable fatal", cfg: Config{Disabled: []string{"LK01"}}, wantErr: "cannot be disabled"},
		{name: "downgrade fatal", cfg: Config{Severity: map[string]string{"ambiguous-prefix": "warning"}}, wantErr: "cannot be downgraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg, nil)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			var cfgErr *RuleConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCheck_SeverityOverrideAndDisable(t *testing.T) {
	index := testIndex("/docs/container/standard", "/docs/ai/index")
	navbar := nav.List{nav.Leaf("规范", "docs/container/standard")}
	reg := newRegistry(t, map[string]nav.List{"/docs/ai/": {nav.Leaf("AI", "/docs/ai/")}})

	v := newValidator(t, Config{
		Disabled: []string{"LK02"},
		Severity: map[string]string{"unreachable-sidebar": "info"},
	})
	report := v.Check(navbar, reg, index)

	assert.Empty(t, diagnosticsFor(report, RuleRelativeLink))
	diags := diagnosticsFor(report, RuleUnreachableSidebar)
	require.Len(t, diags, 1)
	assert.Equal(t, core.SeverityInfo, diags[0].Severity)
	assert.Len(t, report.Filter(core.SeverityWarning), 0)
}

func TestRules(t *testing.T) {
	all := Rules()
	require.Len(t, all, 6)

	fatal := 0
	for _, r := range all {
		if r.Fatal {
			fatal++
			assert.Equal(t, core.SeverityError, r.DefaultSeverity)
		}
	}
	assert.Equal(t, 2, fatal)

	r, ok := LookupRule("Broken-Link")
	require.True(t, ok)
	assert.Equal(t, RuleBrokenLink, r.ID)
}
