package core

import "fmt"

// Diagnostic is a single finding produced while validating site navigation.
type Diagnostic struct {
	RuleID   string   `json:"rule_id"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`

	// Location names where the finding came from: "navbar" or "sidebar /docs/ai/".
	Location string `json:"location,omitempty"`

	// Trail is the chain of labels from the tree root down to the offending node.
	Trail []string `json:"trail,omitempty"`

	// Target is the link target (or sidebar prefix) the finding refers to.
	Target string `json:"target,omitempty"`
}

// String formats the diagnostic as a single log-friendly line.
func (d Diagnostic) String() string {
	if d.Location == "" {
		return fmt.Sprintf("%s [%s] %s", d.Severity, d.RuleID, d.Message)
	}
	return fmt.Sprintf("%s [%s] %s: %s", d.Severity, d.RuleID, d.Location, d.Message)
}
