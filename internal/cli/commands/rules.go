package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sitenav/internal/cli/output"
	"github.com/leapstack-labs/sitenav/internal/validate"
	"github.com/leapstack-labs/sitenav/pkg/core"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Group   string // Filter by group
	Details bool   // Show rationale and fix guidance
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule]",
		Short: "List validation rules",
		Long: `List the rules applied by check and build.

Rules are organized by group (link, sidebar, content). Fatal rules fail the
build and cannot be disabled or downgraded in sitenav.yaml; the others can
be turned off under lint.disabled or re-levelled under lint.severity.`,
		Example: `  # List all rules
  sitenav rules

  # Show details for one rule, by ID or name
  sitenav rules LK01
  sitenav rules unreachable-sidebar

  # List sidebar rules with documentation
  sitenav rules --group sidebar -d`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := NewCommandContext(cmd).Renderer
			if len(args) > 0 {
				return showRule(r, args[0])
			}
			return listRules(r, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group: link, sidebar, content")
	cmd.Flags().BoolVarP(&opts.Details, "details", "d", false, "Show full documentation")

	return cmd
}

func listRules(r *output.Renderer, opts *RulesOptions) error {
	var rules []core.RuleInfo
	for _, rule := range validate.Rules() {
		if opts.Group == "" || strings.EqualFold(rule.Group, opts.Group) {
			rules = append(rules, rule)
		}
	}
	if len(rules) == 0 {
		return fmt.Errorf("no rules in group %q", opts.Group)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(RulesJSONOutput{Rules: rules, Count: len(rules)})
	case output.ModeMarkdown:
		return listRulesMarkdown(r, rules, opts.Details)
	default:
		return listRulesText(r, rules, opts.Details)
	}
}

// RulesJSONOutput is the JSON output structure for rules listing.
type RulesJSONOutput struct {
	Rules []core.RuleInfo `json:"rules"`
	Count int             `json:"count"`
}

var titleCaser = cases.Title(language.English)

func listRulesText(r *output.Renderer, rules []core.RuleInfo, details bool) error {
	styles := r.Styles()
	r.Println("")
	r.Header(1, fmt.Sprintf("Validation Rules (%d)", len(rules)))

	group := ""
	for _, rule := range rules {
		if rule.Group != group {
			group = rule.Group
			r.Println(styles.Bold.Render("  " + titleCaser.String(group)))
		}
		r.Printf("    %s  %s - %s%s\n",
			styles.Muted.Render(rule.ID),
			rule.Name,
			severityStyle(styles, rule.DefaultSeverity).Render(rule.DefaultSeverity.String()),
			ruleFlags(rule),
		)
		if details {
			r.Println(styles.Muted.Render("        " + rule.Description))
			if rule.Rationale != "" {
				r.Println(styles.Muted.Render("        Why: " + rule.Rationale))
			}
			r.Println("")
		}
	}

	r.Println("")
	r.Println(styles.Muted.Render("Use 'sitenav rules <rule>' for detailed documentation"))
	return nil
}

func listRulesMarkdown(r *output.Renderer, rules []core.RuleInfo, details bool) error {
	r.Println(output.FormatHeader(1, "Validation Rules"))
	r.Println("")

	rows := make([][]string, 0, len(rules))
	for _, rule := range rules {
		rows = append(rows, []string{rule.ID, rule.Name, titleCaser.String(rule.Group), rule.DefaultSeverity.String() + ruleFlags(rule)})
	}
	r.Table([]string{"ID", "Name", "Group", "Severity"}, rows)

	if details {
		for _, rule := range rules {
			r.Println("")
			r.Println(output.FormatHeader(2, rule.ID+" "+rule.Name))
			r.Println("")
			r.Println(rule.Description)
			if rule.Rationale != "" {
				r.Println("")
				r.Println("> " + rule.Rationale)
			}
		}
	}
	return nil
}

func showRule(r *output.Renderer, key string) error {
	rule, ok := validate.LookupRule(key)
	if !ok {
		return fmt.Errorf("rule %q not found", key)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(rule)
	case output.ModeMarkdown:
		r.Printf("# %s - %s\n\n", rule.ID, rule.Name)
		r.Printf("**Group:** %s | **Severity:** `%s`%s\n\n", rule.Group, rule.DefaultSeverity, ruleFlags(rule))
		r.Println(rule.Description)
		if rule.Rationale != "" {
			r.Println("")
			r.Println("## Why This Matters")
			r.Println("")
			r.Println(rule.Rationale)
		}
		if rule.Fix != "" {
			r.Println("")
			r.Println("## How to Fix")
			r.Println("")
			r.Println(rule.Fix)
		}
		return nil
	}

	styles := r.Styles()
	r.Println("")
	r.Header(1, fmt.Sprintf("%s - %s", rule.ID, rule.Name))
	r.Printf("  %s: %s\n", styles.Bold.Render("Group"), rule.Group)
	r.Printf("  %s: %s%s\n", styles.Bold.Render("Severity"), rule.DefaultSeverity, ruleFlags(rule))
	r.Println("")
	r.Println(styles.Bold.Render("Description"))
	r.Println("  " + rule.Description)
	if rule.Rationale != "" {
		r.Println("")
		r.Println(styles.Bold.Render("Why This Matters"))
		r.Println("  " + rule.Rationale)
	}
	if rule.Fix != "" {
		r.Println("")
		r.Println(styles.Bold.Render("How to Fix"))
		r.Println("  " + rule.Fix)
	}
	return nil
}

func ruleFlags(rule core.RuleInfo) string {
	switch {
	case rule.Fatal:
		return " (fatal)"
	case rule.OptIn:
		return " (opt-in)"
	}
	return ""
}
