package commands

import (
	"fmt"

	"github.com/leapstack-labs/sitenav/internal/cli/output"
	"github.com/leapstack-labs/sitenav/internal/config"
	"github.com/leapstack-labs/sitenav/internal/registry"
	"github.com/leapstack-labs/sitenav/pkg/nav"
	"github.com/spf13/cobra"
)

// TreeOptions holds options for the tree command.
type TreeOptions struct {
	NavbarOnly bool
	Active     string // highlight entries matching this page path
}

// NewTreeCommand creates the tree command.
func NewTreeCommand() *cobra.Command {
	opts := &TreeOptions{}
	cmd := &cobra.Command{
		Use:   "tree [prefix]",
		Short: "Print the navbar and sidebar trees",
		Long: `Print the declared navigation as trees. Without arguments the navbar and
every sidebar are shown; with a prefix only that sidebar is printed.`,
		Example: `  # Everything
  sitenav tree

  # One sidebar, highlighting the entry for a page
  sitenav tree /docs/ai/ --active /docs/ai/llm/sft`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := ""
			if len(args) > 0 {
				prefix = args[0]
			}
			return runTree(cmd, prefix, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.NavbarOnly, "navbar", false, "Print the navbar only")
	cmd.Flags().StringVar(&opts.Active, "active", "", "Mark entries active for this page path")

	return cmd
}

func loadDeclarations(cc *CommandContext) (*config.Declarations, *registry.SidebarRegistry, error) {
	decls, err := config.LoadDeclarations(cc.Cfg.NavFile)
	if err != nil {
		return nil, nil, err
	}
	reg, err := decls.Registry(registry.WithResolveCache(cc.Cfg.Build.CacheSize))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", cc.Cfg.NavFile, err)
	}
	return decls, reg, nil
}

func runTree(cmd *cobra.Command, prefix string, opts *TreeOptions) error {
	cc := NewCommandContext(cmd)
	decls, reg, err := loadDeclarations(cc)
	if err != nil {
		return err
	}
	r := cc.Renderer

	if prefix != "" {
		tree, ok := reg.Get(prefix)
		if !ok {
			return fmt.Errorf("no sidebar registered under %q", prefix)
		}
		if r.EffectiveMode() == output.ModeJSON {
			return r.JSON(tree)
		}
		r.Header(1, "Sidebar "+prefix)
		r.Tree(treeItems(tree, opts.Active))
		return nil
	}

	if r.EffectiveMode() == output.ModeJSON {
		out := struct {
			Navbar  nav.List            `json:"navbar"`
			Sidebar map[string]nav.List `json:"sidebar,omitempty"`
		}{Navbar: decls.Navbar}
		if !opts.NavbarOnly {
			out.Sidebar = reg.Entries()
		}
		if out.Navbar == nil {
			out.Navbar = nav.List{}
		}
		return r.JSON(out)
	}

	r.Header(1, "Navbar")
	r.Tree(treeItems(decls.Navbar, opts.Active))
	if opts.NavbarOnly {
		return nil
	}
	for _, p := range reg.Prefixes() {
		tree, _ := reg.Get(p)
		r.Println("")
		r.Header(2, "Sidebar "+p)
		r.Tree(treeItems(tree, opts.Active))
	}
	return nil
}

// treeItems converts a navigation list for display. Leaves show their
// target; entries matching active are marked.
func treeItems(list nav.List, active string) []output.TreeItem {
	items := make([]output.TreeItem, 0, len(list))
	for _, n := range list {
		text := n.Label
		if n.IsLeaf() {
			text += " → " + n.Target
		} else if n.Collapsed != nil {
			if n.IsCollapsed() {
				text += " [+]"
			} else {
				text += " [-]"
			}
		}
		if active != "" && n.Matches(active) {
			text = "● " + text
		}
		items = append(items, output.TreeItem{Text: text, Children: treeItems(n.Children, active)})
	}
	return items
}
