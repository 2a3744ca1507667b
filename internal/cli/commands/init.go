package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/sitenav/internal/cli/output"
	sharedcfg "github.com/leapstack-labs/sitenav/internal/config"
	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new sitenav project",
		Long: `Initialize a documentation project with a configuration file, a
navigation file and a few starter pages.

This creates:
  - sitenav.yaml project configuration
  - nav.yaml with the navbar and sidebar declarations
  - index.md home page and a docs/guide/ section

Use --example to add a second sidebar, nested navbar menus and
frontmatter titles.`,
		Example: `  # Initialize in current directory
  sitenav init

  # Initialize with the larger example
  sitenav init --example

  # Initialize in a new directory
  sitenav init my-docs --example

  # Force overwrite existing files
  sitenav init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg := getConfig()
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

			template := "minimal"
			if example {
				template = "example"
			}
			return runInit(r, dir, template, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&example, "example", false, "Create the larger example project")

	return cmd
}

func runInit(r *output.Renderer, dir, template string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if _, err := os.Stat(filepath.Join(dir, sharedcfg.ConfigFileName)); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", sharedcfg.ConfigFileName)
	}

	if err := copyTemplate(template, dir, force); err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	files, _ := listTemplateFiles(template)
	groups := groupTemplateFiles(files)

	r.Header(2, "Configuration")
	for _, f := range groups["config"] {
		r.StatusLine(f, "success", "")
	}
	r.Println("")
	r.Header(2, "Content")
	for _, f := range groups["content"] {
		r.StatusLine(f, "success", "")
	}

	r.Println("")
	r.Success("sitenav project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  sitenav check    Validate every navbar and sidebar link")
	r.Println("  sitenav tree     Print the declared navigation")
	r.Println("  sitenav build    Write the site configuration to .sitenav/")
	r.Println("  sitenav watch    Rebuild when content or navigation changes")

	return nil
}
