package nav

import (
	"net/url"
	"path"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CanonicalPath returns the matching form of a site path: percent-decoded,
// NFC-normalized and rooted at "/".
func CanonicalPath(p string) string {
	if unescaped, err := url.PathUnescape(p); err == nil {
		p = unescaped
	}
	p = norm.NFC.String(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// PagePath reduces a link target to the page it addresses. Fragment and
// query are dropped, a .md or .html extension is removed and a trailing
// "index" segment becomes its directory, so "docs/ai/index.md" and
// "/docs/ai/" give the same result.
func PagePath(target string) string {
	p := strings.TrimSpace(target)
	if i := strings.IndexAny(p, "#?"); i >= 0 {
		p = p[:i]
	}
	p = CanonicalPath(p)

	trailing := strings.HasSuffix(p, "/")
	p = path.Clean(p)
	for _, ext := range []string{".md", ".html"} {
		if strings.HasSuffix(p, ext) {
			p = strings.TrimSuffix(p, ext)
			break
		}
	}
	if path.Base(p) == "index" {
		p = path.Dir(p)
		trailing = true
	}
	if trailing && p != "/" {
		p += "/"
	}
	return p
}

// samePage compares page paths ignoring a trailing slash, since a directory
// link and its index page render the same document.
func samePage(a, b string) bool {
	return strings.TrimSuffix(PagePath(a), "/") == strings.TrimSuffix(PagePath(b), "/")
}
