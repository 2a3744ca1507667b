package commands

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/sitenav/internal/cli/output"
	"github.com/leapstack-labs/sitenav/internal/registry"
	"github.com/leapstack-labs/sitenav/pkg/nav"
	"github.com/spf13/cobra"
)

// NewResolveCommand creates the resolve command.
func NewResolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <path>...",
		Short: "Show which sidebar a page path selects",
		Long: `Resolve page paths against the registered sidebars using longest
path-prefix matching and print the selected sidebar.

Paths are compared in canonical form: percent-encoding is decoded, the
text is NFC normalised and a missing leading slash is added.`,
		Example: `  # Which sidebar renders on this page?
  sitenav resolve /docs/ai/llm/sft

  # Several paths at once, as JSON
  sitenav resolve /docs/container/ /docs/tools/mq/kafka -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: runResolve,
	}
	return cmd
}

// ResolveJSONOutput is one resolved path in JSON output.
type ResolveJSONOutput struct {
	Path    string   `json:"path"`
	Prefix  string   `json:"prefix,omitempty"`
	Sidebar nav.List `json:"sidebar"`
	Error   string   `json:"error,omitempty"`
}

func runResolve(cmd *cobra.Command, args []string) error {
	cc := NewCommandContext(cmd)
	_, reg, err := loadDeclarations(cc)
	if err != nil {
		return err
	}
	r := cc.Renderer

	var errs []error
	results := make([]ResolveJSONOutput, 0, len(args))
	for _, path := range args {
		prefix, tree, err := reg.ResolvePrefix(path)
		res := ResolveJSONOutput{Path: path, Prefix: prefix, Sidebar: tree}
		if res.Sidebar == nil {
			res.Sidebar = nav.List{}
		}
		if err != nil {
			res.Error = err.Error()
			errs = append(errs, err)
		}
		results = append(results, res)
	}

	if r.EffectiveMode() == output.ModeJSON {
		if err := r.JSON(results); err != nil {
			return err
		}
		return errors.Join(errs...)
	}

	for _, res := range results {
		switch {
		case res.Error != "":
			r.StatusLine(res.Path, "failed", res.Error)
		case res.Prefix == "":
			r.StatusLine(res.Path, "skipped", "no sidebar")
		default:
			r.StatusLine(res.Path, "success", "→ "+res.Prefix)
			r.Tree(treeItems(res.Sidebar, registry.Canonical(res.Path)))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%d path(s) could not be resolved: %w", len(errs), errors.Join(errs...))
	}
	return nil
}
