package docs

import (
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/sitenav/internal/validate"
	"github.com/leapstack-labs/sitenav/pkg/core"
)

// Manifest describes one build. It is written next to the site config so
// that the config itself stays byte-for-byte reproducible.
type Manifest struct {
	BuildID     string    `json:"build_id" yaml:"build_id"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	Version     string    `json:"version,omitempty" yaml:"version,omitempty"`
	ConfigFile  string    `json:"config_file" yaml:"config_file"`
	Stats       Stats     `json:"stats" yaml:"stats"`
}

// Stats contains counts for the build summary.
type Stats struct {
	NavbarEntries  int `json:"navbar_entries" yaml:"navbar_entries"`
	NavbarDepth    int `json:"navbar_depth" yaml:"navbar_depth"`
	SidebarCount   int `json:"sidebar_count" yaml:"sidebar_count"`
	SidebarEntries int `json:"sidebar_entries" yaml:"sidebar_entries"`
	LinksChecked   int `json:"links_checked" yaml:"links_checked"`
	DocumentCount  int `json:"document_count" yaml:"document_count"`
	Warnings       int `json:"warnings" yaml:"warnings"`
	Hints          int `json:"hints" yaml:"hints"`
}

// GenerateManifest summarises a build of cfg.
func GenerateManifest(cfg *SiteConfig, report *validate.Report, documents int) *Manifest {
	stats := Stats{
		NavbarDepth:   cfg.ThemeConfig.Nav.Depth(),
		SidebarCount:  len(cfg.ThemeConfig.Sidebar),
		DocumentCount: documents,
	}

	leaves, branches := cfg.ThemeConfig.Nav.Count()
	stats.NavbarEntries = leaves + branches
	for _, tree := range cfg.ThemeConfig.Sidebar {
		leaves, branches := tree.Count()
		stats.SidebarEntries += leaves + branches
	}

	if report != nil {
		stats.LinksChecked = report.Checked
		stats.Warnings = report.Count(core.SeverityWarning)
		stats.Hints = report.Count(core.SeverityInfo) + report.Count(core.SeverityHint)
	}

	return &Manifest{
		BuildID:     uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Stats:       stats,
	}
}
