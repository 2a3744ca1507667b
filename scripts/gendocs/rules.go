package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/sitenav/internal/validate"
	"github.com/leapstack-labs/sitenav/pkg/core"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// groupDescriptions provides human-readable descriptions for rule groups.
var groupDescriptions = map[string]string{
	"link":    "Rules about individual navbar and sidebar targets.",
	"sidebar": "Rules about the registered sidebars as a whole.",
	"content": "Rules comparing the content directory with the menus.",
}

var titleCaser = cases.Title(language.English)

// generateRulesDocs writes rules.md.
func generateRulesDocs(outDir string) error {
	log.Printf("Generating rule docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rules := validate.Rules()
	w := NewMarkdownWriter()

	w.Frontmatter("Validation Rules", "Rules applied by sitenav check and sitenav build")
	w.GeneratedMarker()

	w.Header(1, "Validation Rules")
	w.Paragraph(fmt.Sprintf("sitenav applies **%d rules** to every check and build. Fatal rules stop the build; the others are reported and can be configured.", len(rules)))

	w.Header(2, "Severity Levels")
	w.Table(
		[]string{"Severity", "Description"},
		[][]string{
			{InlineCode("error"), "Fails the check; fatal rules always report at this level"},
			{InlineCode("warning"), "Likely mistake that still renders"},
			{InlineCode("info"), "Informational feedback"},
			{InlineCode("hint"), "Suggestion for improvement"},
		},
	)

	w.Header(2, "Configuration")
	w.Paragraph("Non-fatal rules can be configured in `sitenav.yaml`, by ID or name:")
	w.CodeBlock("yaml", `lint:
  disabled:
    - duplicate-link      # turn a rule off
  severity:
    SB02: error           # re-level a rule
  orphans: true           # enable the opt-in orphan check`)

	w.Header(2, "Rules")
	rows := make([][]string, 0, len(rules))
	for _, rule := range rules {
		rows = append(rows, []string{
			fmt.Sprintf("[%s](#%s)", rule.ID, anchor(rule)),
			InlineCode(rule.Name),
			rule.DefaultSeverity.String(),
			cleanDescription(rule.Description),
		})
	}
	w.Table([]string{"ID", "Name", "Severity", "Description"}, rows)

	group := ""
	for _, rule := range rules {
		if rule.Group != group {
			group = rule.Group
			w.Header(2, titleCaser.String(group)+" Rules")
			if desc := groupDescriptions[group]; desc != "" {
				w.Paragraph(desc)
			}
		}
		writeRuleDoc(w, rule)
	}

	filename := filepath.Join(outDir, "rules.md")
	if err := os.WriteFile(filename, w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated rules.md")
	return nil
}

func anchor(rule core.RuleInfo) string {
	return fmt.Sprintf("%s-%s", rule.ID, rule.Name)
}

// writeRuleDoc writes one rule's section.
func writeRuleDoc(w *MarkdownWriter, rule core.RuleInfo) {
	w.Header(3, rule.ID+"-"+rule.Name)

	meta := []string{
		Bold("Severity") + ": " + InlineCode(rule.DefaultSeverity.String()),
	}
	switch {
	case rule.Fatal:
		meta = append(meta, Bold("Fatal")+": cannot be disabled or downgraded")
	case rule.OptIn:
		meta = append(meta, Bold("Opt-in")+": enable with "+InlineCode("lint.orphans"))
	}
	w.BulletList(meta)

	w.Paragraph(rule.Description)
	if rule.Rationale != "" {
		w.Paragraph(Bold("Why:") + " " + rule.Rationale)
	}
	if rule.Fix != "" {
		w.Paragraph(Bold("Fix:") + " " + rule.Fix)
	}
}
