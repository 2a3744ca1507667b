package validate

import (
	"path"
	"strings"

	"github.com/leapstack-labs/sitenav/internal/registry"
)

// Target is a link target reduced to the form used for document lookup.
type Target struct {
	Raw string

	// Path is the canonical site path without base, fragment, query or
	// page extension. A trailing "/" is kept.
	Path string

	External bool // points off-site; never checked
	Relative bool // written without a leading "/"
}

var externalPrefixes = []string{"http://", "https://", "mailto:", "tel:", "//"}

// Normalize reduces raw to its lookup form. base is the site base path
// ("/" when the site is served from the domain root).
func Normalize(raw, base string) Target {
	t := Target{Raw: raw}
	p := strings.TrimSpace(raw)

	for _, prefix := range externalPrefixes {
		if strings.HasPrefix(strings.ToLower(p), prefix) {
			t.External = true
			return t
		}
	}

	if i := strings.IndexAny(p, "#?"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		// In-page anchor: nothing to resolve.
		t.External = true
		return t
	}

	t.Relative = !strings.HasPrefix(p, "/")
	p = registry.Canonical(p)

	if b := strings.TrimSuffix(registry.Canonical(base), "/"); b != "" {
		if p == b || strings.HasPrefix(p, b+"/") {
			p = p[len(b):]
			if p == "" {
				p = "/"
			}
		}
	}

	trailing := strings.HasSuffix(p, "/")
	p = path.Clean(p)
	for _, ext := range []string{".md", ".html"} {
		if strings.HasSuffix(p, ext) {
			p = strings.TrimSuffix(p, ext)
			break
		}
	}
	if trailing && p != "/" {
		p += "/"
	}

	t.Path = p
	return t
}

// Candidates returns the document IDs the target may resolve to, in lookup order.
func (t Target) Candidates() []string {
	switch {
	case t.External || t.Path == "":
		return nil
	case strings.HasSuffix(t.Path, "/"):
		return []string{t.Path + "index"}
	case path.Base(t.Path) == "index":
		return []string{t.Path}
	default:
		return []string{t.Path, t.Path + "/index"}
	}
}
