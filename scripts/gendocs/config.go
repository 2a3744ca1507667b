package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/leapstack-labs/sitenav/internal/config"
)

// ConfigField represents a configuration field definition.
type ConfigField struct {
	Name        string
	Type        string
	Description string
	Category    string
}

// getConfigSchema lists the settings of ProjectConfig. Defaults are read
// from config.Defaults so the page cannot drift from the loader.
func getConfigSchema() []ConfigField {
	return []ConfigField{
		{Name: "nav_file", Type: "string", Description: "Navigation declarations file (navbar and sidebar)", Category: "project"},

		{Name: "site.title", Type: "string", Description: "Site title", Category: "site"},
		{Name: "site.description", Type: "string", Description: "Site description", Category: "site"},
		{Name: "site.base", Type: "string", Description: "URL prefix the site is served under; begins and ends with /", Category: "site"},
		{Name: "site.lang", Type: "string", Description: "Language tag of the site", Category: "site"},
		{Name: "search.provider", Type: "string", Description: "Search widget provider, emitted unchanged", Category: "site"},
		{Name: "search.options", Type: "map", Description: "Search options including locale translations, emitted unchanged", Category: "site"},

		{Name: "content.dir", Type: "string", Description: "Directory scanned for markdown documents", Category: "content"},
		{Name: "content.exclude", Type: "[]string", Description: "Glob patterns of files to skip", Category: "content"},
		{Name: "content.strict_frontmatter", Type: "bool", Description: "Reject unknown frontmatter keys", Category: "content"},

		{Name: "build.out_dir", Type: "string", Description: "Output directory for config and manifest files", Category: "build"},
		{Name: "build.format", Type: "string", Description: "Output format: json or yaml", Category: "build"},
		{Name: "build.cache_size", Type: "int", Description: "Entries kept in the sidebar resolve cache; 0 uses the default", Category: "build"},

		{Name: "lint.disabled", Type: "[]string", Description: "Non-fatal rules to turn off, by ID or name", Category: "lint"},
		{Name: "lint.severity", Type: "map[string]string", Description: "Severity overrides for non-fatal rules", Category: "lint"},
		{Name: "lint.orphans", Type: "bool", Description: "Report documents no menu links to", Category: "lint"},

		{Name: "watch.debounce", Type: "duration", Description: "Quiet period before the watcher rebuilds", Category: "watch"},
	}
}

var categories = []string{"project", "site", "content", "build", "lint", "watch"}

// generateConfigDocs writes configuration.md.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating configuration docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Configuration", "sitenav configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph("Project settings are read from `" + config.ConfigFileName + "` in the project root. Values are layered, lowest first: built-in defaults, the config file, `.env`, `SITENAV_` environment variables, then command-line flags.")

	defaults := config.Defaults()
	fields := getConfigSchema()
	for _, category := range categories {
		var rows [][]string
		for _, f := range fields {
			if f.Category != category {
				continue
			}
			def := ""
			if v, ok := defaults[f.Name]; ok {
				def = InlineCode(fmt.Sprint(v))
			}
			rows = append(rows, []string{InlineCode(f.Name), f.Type, def, f.Description})
		}
		if len(rows) == 0 {
			continue
		}
		w.Header(2, titleCaser.String(category))
		w.Table([]string{"Key", "Type", "Default", "Description"}, rows)
	}

	var keys []string
	for k := range defaults {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	var example []string
	for _, k := range keys {
		example = append(example, fmt.Sprintf("SITENAV_%s=%v", envName(k), defaults[k]))
	}
	w.Header(2, "Environment")
	w.CodeBlock("bash", joinLines(example))

	filename := filepath.Join(outDir, "configuration.md")
	if err := os.WriteFile(filename, w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated configuration.md")
	return nil
}

// envName turns a config key into its SITENAV_ variable suffix.
func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "__"))
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
