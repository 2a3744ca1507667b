// Package core defines the shared language of the sitenav system.
//
// This package contains:
//   - Diagnostic severities and the Diagnostic record
//   - Rule metadata (RuleInfo) used by the validator and the CLI
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
