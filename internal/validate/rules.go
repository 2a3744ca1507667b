package validate

import (
	"strings"

	"github.com/leapstack-labs/sitenav/pkg/core"
)

// Rule IDs.
const (
	RuleBrokenLink         = "LK01"
	RuleRelativeLink       = "LK02"
	RuleDuplicateLink      = "LK03"
	RuleAmbiguousPrefix    = "SB01"
	RuleUnreachableSidebar = "SB02"
	RuleOrphanDocument     = "CT01"
)

var rules = []core.RuleInfo{
	{
		ID:              RuleBrokenLink,
		Name:            "broken-link",
		Group:           "link",
		Description:     "Every navbar and sidebar target must resolve to a content document.",
		DefaultSeverity: core.SeverityError,
		Fatal:           true,
		Rationale:       "A broken navigation link ships a 404 on every page that renders the menu.",
		Fix:             "Create the missing page or correct the link target.",
	},
	{
		ID:              RuleRelativeLink,
		Name:            "relative-link",
		Group:           "link",
		Description:     "Link targets should be absolute site paths beginning with /.",
		DefaultSeverity: core.SeverityWarning,
		Rationale:       "The site engine resolves relative links against the current page, so the same entry points elsewhere on nested pages.",
		Fix:             "Add a leading / to the target.",
	},
	{
		ID:              RuleDuplicateLink,
		Name:            "duplicate-link",
		Group:           "link",
		Description:     "A sidebar links the same document more than once.",
		DefaultSeverity: core.SeverityHint,
	},
	{
		ID:              RuleAmbiguousPrefix,
		Name:            "ambiguous-prefix",
		Group:           "sidebar",
		Description:     "Two distinct sidebar keys resolve to the same path prefix.",
		DefaultSeverity: core.SeverityError,
		Fatal:           true,
		Rationale:       "The engine cannot decide which sidebar to render for pages below a tied prefix.",
		Fix:             "Keep one spelling of the key; percent-encoded and decoded forms are the same path.",
	},
	{
		ID:              RuleUnreachableSidebar,
		Name:            "unreachable-sidebar",
		Group:           "sidebar",
		Description:     "No navbar entry leads to any page under the sidebar's prefix.",
		DefaultSeverity: core.SeverityWarning,
		Fix:             "Link the section from the navbar or remove the sidebar.",
	},
	{
		ID:              RuleOrphanDocument,
		Name:            "orphan-document",
		Group:           "content",
		Description:     "A content document is not linked from the navbar or any sidebar.",
		DefaultSeverity: core.SeverityInfo,
		OptIn:           true,
	},
}

// Rules returns metadata for every validation rule in reporting order.
func Rules() []core.RuleInfo {
	out := make([]core.RuleInfo, len(rules))
	copy(out, rules)
	return out
}

// LookupRule finds a rule by ID or name, case-insensitively.
func LookupRule(key string) (core.RuleInfo, bool) {
	for _, r := range rules {
		if strings.EqualFold(r.ID, key) || strings.EqualFold(r.Name, key) {
			return r, true
		}
	}
	return core.RuleInfo{}, false
}
