// Package validate checks a site's navigation against its content.
//
// The Validator resolves every navbar and sidebar link target against a
// content index snapshot, detects sidebar keys that tie under longest-prefix
// matching, and reports cosmetic issues such as unreachable sidebars and
// relative links. Fatal findings surface through Report.Err.
package validate

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/sitenav/internal/loader"
	"github.com/leapstack-labs/sitenav/internal/registry"
	"github.com/leapstack-labs/sitenav/pkg/core"
	"github.com/leapstack-labs/sitenav/pkg/nav"
)

// Config controls which rules run and how severe their findings are.
type Config struct {
	// Base is the site base path, stripped from targets before lookup.
	Base string

	// Disabled lists rule IDs or names to skip.
	Disabled []string

	// Severity overrides the default severity per rule ID or name.
	Severity map[string]string

	// Orphans enables the orphan-document rule.
	Orphans bool
}

// Validator runs the navigation checks.
type Validator struct {
	base     string
	orphans  bool
	disabled map[string]bool
	severity map[string]core.Severity
	logger   *slog.Logger
}

// New creates a validator. Unknown rules, invalid severities and attempts to
// disable or downgrade a fatal rule are reported as RuleConfigError.
func New(cfg Config, logger *slog.Logger) (*Validator, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	v := &Validator{
		base:     cfg.Base,
		orphans:  cfg.Orphans,
		disabled: make(map[string]bool),
		severity: make(map[string]core.Severity),
		logger:   logger,
	}

	for _, key := range cfg.Disabled {
		rule, ok := LookupRule(key)
		if !ok {
			return nil, &RuleConfigError{Rule: key, Message: "unknown rule"}
		}
		if rule.Fatal {
			return nil, &RuleConfigError{Rule: key, Message: "fatal rules cannot be disabled"}
		}
		v.disabled[rule.ID] = true
	}

	for key, value := range cfg.Severity {
		rule, ok := LookupRule(key)
		if !ok {
			return nil, &RuleConfigError{Rule: key, Message: "unknown rule"}
		}
		sev, ok := core.ParseSeverity(value)
		if !ok {
			return nil, &RuleConfigError{Rule: key, Message: fmt.Sprintf("invalid severity %q", value)}
		}
		if rule.Fatal && sev != core.SeverityError {
			return nil, &RuleConfigError{Rule: key, Message: "fatal rules cannot be downgraded"}
		}
		v.severity[rule.ID] = sev
	}

	return v, nil
}

// Report is the outcome of one validation pass.
type Report struct {
	Diagnostics []core.Diagnostic `json:"diagnostics"`

	// Checked counts the internal link targets that were resolved.
	Checked int `json:"checked"`

	Broken    *BrokenLinkError                 `json:"-"`
	Ambiguous []*registry.AmbiguousPrefixError `json:"-"`
}

// Err joins every fatal finding, or returns nil when the build may proceed.
func (r *Report) Err() error {
	if r == nil {
		return nil
	}
	var errs []error
	for _, a := range r.Ambiguous {
		errs = append(errs, a)
	}
	if r.Broken != nil {
		errs = append(errs, r.Broken)
	}
	return errors.Join(errs...)
}

// Count returns the number of diagnostics with exactly the given severity.
func (r *Report) Count(sev core.Severity) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// Filter returns the diagnostics at least as severe as minimum.
func (r *Report) Filter(minimum core.Severity) []core.Diagnostic {
	var out []core.Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity.AtLeast(minimum) {
			out = append(out, d)
		}
	}
	return out
}

// checkState carries the bookkeeping of a single Check call.
type checkState struct {
	report  *Report
	idx     *loader.ContentIndex
	linked  map[string]bool // document IDs reached from any tree
	reached []string        // page paths reached from the navbar
}

// Check validates the navbar and every registered sidebar against idx.
func (v *Validator) Check(navbar nav.List, reg *registry.SidebarRegistry, idx *loader.ContentIndex) *Report {
	if reg == nil {
		reg = registry.NewSidebarRegistry()
	}
	st := &checkState{
		report: &Report{},
		idx:    idx,
		linked: make(map[string]bool),
	}

	for _, tie := range reg.Ties() {
		st.report.Ambiguous = append(st.report.Ambiguous, tie)
		v.emit(st.report, RuleAmbiguousPrefix, core.Diagnostic{
			Message: fmt.Sprintf("sidebar keys %s resolve to the same prefix", strings.Join(tie.Prefixes, " and ")),
			Target:  tie.Path,
		})
	}

	v.checkTree(st, "navbar", navbar, true)

	prefixes := reg.Prefixes()
	for _, prefix := range prefixes {
		tree, _ := reg.Get(prefix)
		v.checkTree(st, "sidebar "+prefix, tree, false)
	}

	for _, prefix := range prefixes {
		if !st.reaches(registry.Canonical(prefix)) {
			v.emit(st.report, RuleUnreachableSidebar, core.Diagnostic{
				Message:  fmt.Sprintf("no navbar entry leads to a page under %s", prefix),
				Location: "sidebar " + prefix,
				Target:   prefix,
			})
		}
	}

	if v.orphans {
		for _, doc := range idx.Documents() {
			if st.linked[doc.ID] || doc.ID == "/index" || doc.Frontmatter.IsHome() {
				continue
			}
			v.emit(st.report, RuleOrphanDocument, core.Diagnostic{
				Message: fmt.Sprintf("%s is not linked from the navbar or any sidebar", doc.File),
				Target:  doc.PagePath(),
			})
		}
	}

	v.logger.Debug("navigation validated",
		slog.Int("targets", st.report.Checked),
		slog.Int("diagnostics", len(st.report.Diagnostics)),
		slog.Bool("ok", st.report.Err() == nil))

	return st.report
}

func (v *Validator) checkTree(st *checkState, location string, tree nav.List, fromNavbar bool) {
	seen := make(map[string]bool)

	tree.Walk(func(n nav.Node, trail []string) bool {
		if !n.IsLeaf() {
			return true
		}
		t := Normalize(n.Target, v.base)
		if t.External {
			return true
		}
		st.report.Checked++

		if t.Relative {
			v.emit(st.report, RuleRelativeLink, core.Diagnostic{
				Message:  fmt.Sprintf("relative link %q is treated as %q", n.Target, t.Path),
				Location: location,
				Trail:    trail,
				Target:   n.Target,
			})
		}

		doc, ok := st.lookup(t)
		if !ok {
			st.addBroken(BrokenLink{Target: n.Target, Location: location, Trail: trail})
			v.emit(st.report, RuleBrokenLink, core.Diagnostic{
				Message:  fmt.Sprintf("link %q does not resolve to a document", n.Target),
				Location: location,
				Trail:    trail,
				Target:   n.Target,
			})
			if fromNavbar {
				st.reach(t.Path)
			}
			return true
		}

		st.linked[doc.ID] = true
		if fromNavbar {
			st.reach(doc.PagePath())
		}

		if !fromNavbar {
			if seen[doc.ID] {
				v.emit(st.report, RuleDuplicateLink, core.Diagnostic{
					Message:  fmt.Sprintf("%s is linked more than once", doc.PagePath()),
					Location: location,
					Trail:    trail,
					Target:   n.Target,
				})
			}
			seen[doc.ID] = true
		}
		return true
	})
}

func (st *checkState) lookup(t Target) (*loader.Document, bool) {
	for _, id := range t.Candidates() {
		if doc, ok := st.idx.Get(id); ok {
			return doc, true
		}
	}
	return nil, false
}

func (st *checkState) addBroken(link BrokenLink) {
	if st.report.Broken == nil {
		st.report.Broken = &BrokenLinkError{}
	}
	st.report.Broken.Links = append(st.report.Broken.Links, link)
}

// reach records a page reached from the navbar. A page at /docs/guide also
// reaches the /docs/guide/ section.
func (st *checkState) reach(p string) {
	p = strings.TrimSuffix(p, "/")
	st.reached = append(st.reached, p, p+"/")
}

func (st *checkState) reaches(prefix string) bool {
	for _, p := range st.reached {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

func (v *Validator) emit(r *Report, ruleID string, d core.Diagnostic) {
	if v.disabled[ruleID] {
		return
	}
	d.RuleID = ruleID
	if sev, ok := v.severity[ruleID]; ok {
		d.Severity = sev
	} else if rule, ok := LookupRule(ruleID); ok {
		d.Severity = rule.DefaultSeverity
	}
	r.Diagnostics = append(r.Diagnostics, d)
	v.logger.Debug("diagnostic", slog.String("rule", ruleID), slog.String("message", d.Message))
}
