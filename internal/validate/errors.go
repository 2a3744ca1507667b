package validate

import (
	"fmt"
	"strings"
)

// BrokenLink is one link target that does not resolve to a document.
type BrokenLink struct {
	Target   string   `json:"target"`
	Location string   `json:"location"`
	Trail    []string `json:"trail,omitempty"`
}

func (b BrokenLink) String() string {
	if len(b.Trail) == 0 {
		return fmt.Sprintf("%s → %s", b.Location, b.Target)
	}
	return fmt.Sprintf("%s › %s → %s", b.Location, strings.Join(b.Trail, " › "), b.Target)
}

// BrokenLinkError collects every broken target found in one validation pass.
type BrokenLinkError struct {
	Links []BrokenLink
}

func (e *BrokenLinkError) Error() string {
	if len(e.Links) == 1 {
		return "broken link: " + e.Links[0].String()
	}
	parts := make([]string, len(e.Links))
	for i, l := range e.Links {
		parts[i] = l.String()
	}
	return fmt.Sprintf("%d broken links: %s", len(e.Links), strings.Join(parts, "; "))
}

// Targets returns the broken targets in discovery order.
func (e *BrokenLinkError) Targets() []string {
	out := make([]string, len(e.Links))
	for i, l := range e.Links {
		out[i] = l.Target
	}
	return out
}

// RuleConfigError reports an invalid entry in the lint configuration.
type RuleConfigError struct {
	Rule    string
	Message string
}

func (e *RuleConfigError) Error() string {
	return fmt.Sprintf("lint rule %q: %s", e.Rule, e.Message)
}
