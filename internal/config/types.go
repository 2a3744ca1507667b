// Package config provides shared configuration types for sitenav.
// It is decoupled from CLI concerns so that the generator and its tests can
// load a project without going through cobra.
package config

import (
	"fmt"
	"strings"
	"time"
)

// SiteConfig holds the site-wide metadata passed through to the site engine.
type SiteConfig struct {
	Title       string `koanf:"title"`
	Description string `koanf:"description"`
	Base        string `koanf:"base"` // URL prefix the site is served under, "/" by default
	Lang        string `koanf:"lang"`
}

// SearchConfig describes the search widget. Options, including locale
// translation bags, are emitted unchanged.
type SearchConfig struct {
	Provider string         `koanf:"provider"`
	Options  map[string]any `koanf:"options"`
}

// ContentConfig controls how the content directory is scanned.
type ContentConfig struct {
	Dir               string   `koanf:"dir"`
	Exclude           []string `koanf:"exclude"`
	StrictFrontmatter bool     `koanf:"strict_frontmatter"`
}

// BuildConfig controls the emitted site configuration.
type BuildConfig struct {
	OutDir    string `koanf:"out_dir"`
	Format    string `koanf:"format"` // json, yaml
	CacheSize int    `koanf:"cache_size"`
}

// LintConfig holds validation rule configuration.
type LintConfig struct {
	// Disabled contains rule IDs or names to disable
	Disabled []string `koanf:"disabled"`

	// Severity maps rule ID to severity override (error, warning, info, hint)
	Severity map[string]string `koanf:"severity"`

	// Orphans enables the opt-in orphan-document rule
	Orphans bool `koanf:"orphans"`
}

// WatchConfig controls the watch command.
type WatchConfig struct {
	Debounce time.Duration `koanf:"debounce"`
}

// ProjectConfig holds the project configuration read from sitenav.yaml.
type ProjectConfig struct {
	// NavFile is the declarations file holding navbar and sidebars.
	NavFile string `koanf:"nav_file"`

	Site    SiteConfig    `koanf:"site"`
	Search  *SearchConfig `koanf:"search"`
	Content ContentConfig `koanf:"content"`
	Build   BuildConfig   `koanf:"build"`
	Lint    LintConfig    `koanf:"lint"`
	Watch   WatchConfig   `koanf:"watch"`
}

// Validate checks values that defaults cannot repair.
func (c *ProjectConfig) Validate() error {
	if c.Site.Base != "" && (!strings.HasPrefix(c.Site.Base, "/") || !strings.HasSuffix(c.Site.Base, "/")) {
		return fmt.Errorf("site.base %q must begin and end with \"/\"", c.Site.Base)
	}
	switch strings.ToLower(c.Build.Format) {
	case "", "json", "yaml", "yml":
	default:
		return fmt.Errorf("build.format %q must be one of: json, yaml", c.Build.Format)
	}
	if c.Build.CacheSize < 0 {
		return fmt.Errorf("build.cache_size must not be negative")
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	return nil
}
