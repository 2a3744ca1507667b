package main

import (
	"cmp"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/leapstack-labs/sitenav/internal/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// cliBase is the site path the CLI pages are published under.
const cliBase = "/docs/reference/cli/"

// commandGroup is one cobra command group with its visible commands.
type commandGroup struct {
	Title    string
	Commands []*cobra.Command
}

// groupedCommands returns the root's visible commands in group order.
// Commands without a group are collected last under "Other Commands".
func groupedCommands(rootCmd *cobra.Command) []commandGroup {
	groups := make([]commandGroup, 0, len(rootCmd.Groups())+1)
	index := make(map[string]int)
	for _, g := range rootCmd.Groups() {
		index[g.ID] = len(groups)
		groups = append(groups, commandGroup{Title: strings.TrimSuffix(g.Title, ":")})
	}
	other := commandGroup{Title: "Other Commands"}

	for _, cmd := range rootCmd.Commands() {
		if !documented(cmd) {
			continue
		}
		if i, ok := index[cmd.GroupID]; ok {
			groups[i].Commands = append(groups[i].Commands, cmd)
		} else {
			other.Commands = append(other.Commands, cmd)
		}
	}
	if len(other.Commands) > 0 {
		groups = append(groups, other)
	}
	return slices.DeleteFunc(groups, func(g commandGroup) bool { return len(g.Commands) == 0 })
}

// documentedCommands flattens groupedCommands.
func documentedCommands(rootCmd *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, g := range groupedCommands(rootCmd) {
		out = append(out, g.Commands...)
	}
	return out
}

func documented(cmd *cobra.Command) bool {
	return cmd.IsAvailableCommand() && cmd.Name() != "help"
}

// generateCLIDocs writes index.md plus one page per command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rootCmd := cli.NewRootCmd()
	groups := groupedCommands(rootCmd)

	if err := writePage(outDir, "index.md", cliIndex(rootCmd, groups)); err != nil {
		return fmt.Errorf("failed to generate index: %w", err)
	}

	for _, g := range groups {
		for _, cmd := range g.Commands {
			if err := writePage(outDir, cmd.Name()+".md", commandPage(cmd, g)); err != nil {
				return fmt.Errorf("failed to generate page for %s: %w", cmd.Name(), err)
			}
		}
	}
	return nil
}

func writePage(outDir, name string, w *MarkdownWriter) error {
	if err := os.WriteFile(filepath.Join(outDir, name), w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated %s", name)
	return nil
}

func commandLink(cmd *cobra.Command) string {
	return fmt.Sprintf("[%s](%s%s)", InlineCode(cmd.Name()), cliBase, cmd.Name())
}

func cliIndex(rootCmd *cobra.Command, groups []commandGroup) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for sitenav")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph("sitenav validates the navbar and sidebars of a documentation site against its markdown content and emits the site configuration.")

	w.Header(2, "Installation")
	w.CodeBlock("bash", "go install github.com/leapstack-labs/sitenav/cmd/sitenav@latest")

	w.Header(2, "Typical Workflow")
	w.CodeBlock("bash", `sitenav init            # scaffold sitenav.yaml and nav.yaml
sitenav check           # resolve every link against the content
sitenav tree /docs/ai/  # inspect one sidebar
sitenav build           # write .sitenav/config.json`)

	for _, g := range groups {
		w.Header(2, g.Title)
		rows := make([][]string, 0, len(g.Commands))
		for _, cmd := range g.Commands {
			rows = append(rows, []string{commandLink(cmd), cleanDescription(cmd.Short)})
		}
		w.Table([]string{"Command", "Description"}, rows)
	}

	w.Header(2, "Global Options")
	w.Paragraph("These flags are available for all commands:")
	writeFlagsTable(w, rootCmd.PersistentFlags())

	w.Header(2, "Environment Variables")
	w.Paragraph("Every configuration key can be set with a " + InlineCode("SITENAV_") + " variable. Use " + InlineCode("__") + " between sections; a " + InlineCode(".env") + " file in the project root is read the same way.")
	w.Table([]string{"Variable", "Setting"}, [][]string{
		{InlineCode("SITENAV_NAV_FILE"), InlineCode("nav_file")},
		{InlineCode("SITENAV_CONTENT__DIR"), InlineCode("content.dir")},
		{InlineCode("SITENAV_BUILD__OUT_DIR"), InlineCode("build.out_dir")},
		{InlineCode("SITENAV_BUILD__FORMAT"), InlineCode("build.format")},
		{InlineCode("SITENAV_LINT__DISABLED"), InlineCode("lint.disabled") + " (comma separated)"},
		{InlineCode("SITENAV_WATCH__DEBOUNCE"), InlineCode("watch.debounce")},
	})
	w.Paragraph("Command-line flags take precedence over environment variables, which take precedence over " + InlineCode("sitenav.yaml") + ".")

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, [][]string{
		{InlineCode("0"), "Success; warnings and hints do not change the status"},
		{InlineCode("1"), "Broken links, tied sidebar keys or another error (see stderr)"},
	})
	return w
}

func commandPage(cmd *cobra.Command, group commandGroup) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.Name())
	w.Paragraph(cmp.Or(cmd.Long, cmd.Short))

	w.Header(2, "Usage")
	useLine := cmd.UseLine()
	if cmd.HasAvailableSubCommands() {
		useLine = fmt.Sprintf("sitenav %s <subcommand> [options]", cmd.Name())
	}
	w.CodeBlock("bash", useLine)

	if len(cmd.Aliases) > 0 {
		w.Header(2, "Aliases")
		aliases := make([]string, 0, len(cmd.Aliases))
		for _, alias := range cmd.Aliases {
			aliases = append(aliases, InlineCode(alias))
		}
		w.BulletList(aliases)
	}

	if cmd.HasAvailableSubCommands() {
		w.Header(2, "Subcommands")
		var rows [][]string
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() {
				rows = append(rows, []string{InlineCode(sub.Name()), cleanDescription(sub.Short)})
			}
		}
		w.Table([]string{"Subcommand", "Description"}, rows)
	}

	if cmd.HasAvailableLocalFlags() {
		w.Header(2, "Options")
		writeFlagsTable(w, cmd.LocalFlags())
	}
	if cmd.HasAvailableInheritedFlags() {
		w.Header(2, "Global Options")
		writeFlagsTable(w, cmd.InheritedFlags())
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", dedent(cmd.Example))
	}

	var related []string
	for _, other := range group.Commands {
		if other != cmd {
			related = append(related, commandLink(other)+" - "+cleanDescription(other.Short))
		}
	}
	if len(related) > 0 {
		w.Header(2, "See Also")
		w.BulletList(related)
	}
	return w
}

func writeFlagsTable(w *MarkdownWriter, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		short := ""
		if f.Shorthand != "" {
			short = "-" + f.Shorthand
		}
		def := f.DefValue
		if def != "" && f.Value.Type() != "bool" {
			def = InlineCode(def)
		}
		rows = append(rows, []string{InlineCode("--" + f.Name), short, def, cleanDescription(f.Usage)})
	})
	w.Table([]string{"Option", "Short", "Default", "Description"}, rows)
}

// dedent strips the indentation shared by all non-blank lines.
func dedent(text string) string {
	lines := strings.Split(text, "\n")
	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	if indent > 0 {
		for i, line := range lines {
			lines[i] = line[min(indent, len(line)):]
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
