package core

import (
	"fmt"
	"strings"
)

// =============================================================================
// Severity
// =============================================================================

// Severity indicates the importance of a validation diagnostic.
type Severity int

// Severity levels for diagnostics.
const (
	// SeverityError indicates a broken configuration that aborts the build.
	SeverityError Severity = iota
	// SeverityWarning indicates a cosmetic issue that should be reviewed.
	SeverityWarning
	// SeverityInfo indicates informational feedback.
	SeverityInfo
	// SeverityHint indicates a suggestion for improvement.
	SeverityHint
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a string to a Severity value.
// Returns the severity and true if valid, or SeverityWarning and false if invalid.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return SeverityError, true
	case "warning", "warn":
		return SeverityWarning, true
	case "info":
		return SeverityInfo, true
	case "hint":
		return SeverityHint, true
	default:
		return SeverityWarning, false
	}
}

// AtLeast reports whether s is as severe as, or more severe than, min.
func (s Severity) AtLeast(minimum Severity) bool {
	return s <= minimum
}

// MarshalText renders the severity by name in JSON and YAML output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	sev, ok := ParseSeverity(string(text))
	if !ok {
		return fmt.Errorf("invalid severity %q, must be one of: error, warning, info, hint", string(text))
	}
	*s = sev
	return nil
}

// =============================================================================
// RuleInfo
// =============================================================================

// RuleInfo provides metadata about a validation rule for documentation/tooling.
type RuleInfo struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Group           string   `json:"group"` // "link", "sidebar" or "content"
	Description     string   `json:"description"`
	DefaultSeverity Severity `json:"default_severity"`
	Fatal           bool     `json:"fatal"` // fatal rules abort the build and cannot be downgraded
	OptIn           bool     `json:"opt_in,omitempty"`

	Rationale string `json:"rationale,omitempty"`
	Fix       string `json:"fix,omitempty"`
}
