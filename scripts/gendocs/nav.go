package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/sitenav/internal/cli"
	"github.com/leapstack-labs/sitenav/pkg/nav"
	"gopkg.in/yaml.v3"
)

// generateNavFragment writes nav.fragment.yaml, a sidebar for the generated
// reference pages that can be pasted into a project's nav.yaml.
func generateNavFragment(outDir string) error {
	log.Printf("Generating sidebar fragment to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	collapsed := false
	entries := []nav.Node{nav.Leaf("Overview", cliBase)}
	for _, g := range groupedCommands(cli.NewRootCmd()) {
		leaves := make([]nav.Node, 0, len(g.Commands))
		for _, cmd := range g.Commands {
			leaves = append(leaves, nav.Leaf(cmd.Name(), cliBase+cmd.Name()))
		}
		group := nav.Branch(strings.TrimSuffix(g.Title, " Commands"), leaves...)
		group.Collapsed = &collapsed
		entries = append(entries, group)
	}

	cliGroup := nav.Branch("CLI", entries...)
	cliGroup.Collapsed = &collapsed

	sidebar := map[string]nav.List{
		"/docs/reference/": {
			cliGroup,
			nav.Leaf("Validation Rules", "/docs/reference/rules"),
			nav.Leaf("Configuration", "/docs/reference/configuration"),
		},
	}

	data, err := yaml.Marshal(map[string]any{"sidebar": sidebar})
	if err != nil {
		return err
	}

	filename := filepath.Join(outDir, "nav.fragment.yaml")
	if err := os.WriteFile(filename, data, 0600); err != nil {
		return err
	}
	log.Printf("  Generated nav.fragment.yaml")
	return nil
}
