package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/sitenav/internal/cli/output"
	"github.com/leapstack-labs/sitenav/internal/docs"
	"github.com/leapstack-labs/sitenav/pkg/core"
	"github.com/spf13/cobra"
)

// NewBuildCommand creates the build command.
func NewBuildCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Validate navigation and write the site config",
		Long: `Run the full pipeline: load the navigation declarations, scan the
content, validate every link and write themeConfig for the site engine.

Two files are written to the output directory: config.<format> holds the
site configuration and manifest.<format> records the build ID, time and
statistics. Nothing is written when validation fails.`,
		Example: `  # Build into .sitenav/config.json
  sitenav build

  # Write YAML into a custom directory
  sitenav build --format yaml --out-dir .vitepress/generated`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, version)
		},
	}

	cmd.Flags().String("out-dir", "", "Output directory (default: .sitenav)")
	cmd.Flags().String("format", "", "Output file format: json, yaml")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{string(docs.FormatJSON), string(docs.FormatYAML)}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.MarkFlagDirname("out-dir")

	return cmd
}

func runBuild(cmd *cobra.Command, version string) error {
	cc := NewCommandContext(cmd)
	gen, err := cc.Generator(version)
	if err != nil {
		return err
	}

	result, err := gen.Build()
	if err != nil {
		if result != nil && result.Report != nil {
			renderReport(cc.Renderer, result.Report, core.SeverityWarning)
		}
		return err
	}

	r := cc.Renderer
	m := result.Manifest

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(struct {
			Config   string         `json:"config"`
			Manifest *docs.Manifest `json:"manifest"`
		}{result.ConfigPath, m})

	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Site Config Built"))
		r.Println("")
		r.Println(output.FormatKeyValue("Config", result.ConfigPath))
		r.Println(output.FormatKeyValue("Build ID", m.BuildID))
		r.Println(output.FormatKeyValue("Sidebars", fmt.Sprint(m.Stats.SidebarCount)))
		r.Println(output.FormatKeyValue("Links checked", fmt.Sprint(m.Stats.LinksChecked)))
		r.Println(output.FormatKeyValue("Warnings", fmt.Sprint(m.Stats.Warnings)))
		return nil
	}

	for _, d := range result.Report.Filter(core.SeverityWarning) {
		r.Warning(fmt.Sprintf("%s %s%s", d.RuleID, where(d), d.Message))
	}
	r.Success(fmt.Sprintf("Wrote %s", relToCwd(result.ConfigPath)))
	r.Muted(fmt.Sprintf("%d navbar entries, %d sidebars, %d documents, %d links checked",
		m.Stats.NavbarEntries, m.Stats.SidebarCount, m.Stats.DocumentCount, m.Stats.LinksChecked))
	return nil
}

// relToCwd shortens paths below the working directory for display.
func relToCwd(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	if rel, err := filepath.Rel(cwd, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}
