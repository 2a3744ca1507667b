// Package registry provides sidebar registration and longest-prefix resolution.
// It maps URL path prefixes such as "/docs/container/" to the sidebar trees
// that render for every page underneath them.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/leapstack-labs/sitenav/pkg/nav"
)

// SidebarRegistry maps path prefixes to sidebar trees.
// It is filled once while the build configuration loads and only read afterwards.
type SidebarRegistry struct {
	mu sync.RWMutex

	// byPrefix maps registered keys to their trees: "/docs/ai/" → [人工智能 ...]
	byPrefix map[string]nav.List

	// canonical maps registered keys to their matching form.
	// Two distinct keys may share one canonical form; see Ties.
	canonical map[string]string

	// order keeps registration order for stable listings.
	order []string

	cache *lru.Cache[string, resolution]
}

type resolution struct {
	prefix string
	items  nav.List
	err    error
}

// Option configures a SidebarRegistry.
type Option func(*SidebarRegistry)

// WithResolveCache memoizes Resolve results for up to size distinct paths.
func WithResolveCache(size int) Option {
	return func(r *SidebarRegistry) {
		if size <= 0 {
			return
		}
		cache, err := lru.New[string, resolution](size)
		if err == nil {
			r.cache = cache
		}
	}
}

// NewSidebarRegistry creates a new empty registry.
func NewSidebarRegistry(opts ...Option) *SidebarRegistry {
	r := &SidebarRegistry{
		byPrefix:  make(map[string]nav.List),
		canonical: make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a sidebar for prefix.
func (r *SidebarRegistry) Register(prefix string, tree nav.List) error {
	if !strings.HasPrefix(prefix, "/") || !strings.HasSuffix(prefix, "/") {
		return &InvalidPrefixError{Prefix: prefix}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byPrefix[prefix]; ok {
		return &DuplicatePrefixError{Prefix: prefix}
	}

	r.byPrefix[prefix] = tree
	r.canonical[prefix] = Canonical(prefix)
	r.order = append(r.order, prefix)
	if r.cache != nil {
		r.cache.Purge()
	}
	return nil
}

// Resolve returns the sidebar of the longest registered prefix of currentPath.
// It returns an empty list when no prefix matches, and an AmbiguousPrefixError
// when two distinct keys of the same maximal length both match.
func (r *SidebarRegistry) Resolve(currentPath string) (nav.List, error) {
	_, items, err := r.ResolvePrefix(currentPath)
	return items, err
}

// ResolvePrefix is Resolve that also returns the winning key.
func (r *SidebarRegistry) ResolvePrefix(currentPath string) (string, nav.List, error) {
	path := Canonical(currentPath)

	if r.cache != nil {
		if res, ok := r.cache.Get(path); ok {
			return res.prefix, res.items, res.err
		}
	}

	r.mu.RLock()
	res := r.resolve(path)
	r.mu.RUnlock()

	if r.cache != nil {
		r.cache.Add(path, res)
	}
	return res.prefix, res.items, res.err
}

func (r *SidebarRegistry) resolve(path string) resolution {
	var best []string
	bestLen := -1

	for _, key := range r.order {
		ckey := r.canonical[key]
		if !strings.HasPrefix(path, ckey) {
			continue
		}
		switch {
		case len(ckey) > bestLen:
			best = []string{key}
			bestLen = len(ckey)
		case len(ckey) == bestLen:
			best = append(best, key)
		}
	}

	switch len(best) {
	case 0:
		return resolution{items: nav.List{}}
	case 1:
		return resolution{prefix: best[0], items: r.byPrefix[best[0]]}
	default:
		sort.Strings(best)
		return resolution{err: &AmbiguousPrefixError{Path: path, Prefixes: best}}
	}
}

// Get returns the tree registered under the exact key prefix.
func (r *SidebarRegistry) Get(prefix string) (nav.List, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tree, ok := r.byPrefix[prefix]
	return tree, ok
}

// Prefixes returns all registered keys sorted alphabetically.
func (r *SidebarRegistry) Prefixes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, len(r.order))
	copy(keys, r.order)
	sort.Strings(keys)
	return keys
}

// Entries returns a copy of the prefix → tree mapping.
func (r *SidebarRegistry) Entries() map[string]nav.List {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]nav.List, len(r.byPrefix))
	for k, v := range r.byPrefix {
		result[k] = v
	}
	return result
}

// Count returns the number of registered sidebars.
func (r *SidebarRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byPrefix)
}

// Ties returns every group of distinct keys that share one canonical form.
// Any such group makes longest-prefix resolution ambiguous for the paths below it.
func (r *SidebarRegistry) Ties() []*AmbiguousPrefixError {
	r.mu.RLock()
	defer r.mu.RUnlock()

	groups := make(map[string][]string)
	for _, key := range r.order {
		ckey := r.canonical[key]
		groups[ckey] = append(groups[ckey], key)
	}

	var ties []*AmbiguousPrefixError
	for ckey, keys := range groups {
		if len(keys) < 2 {
			continue
		}
		sort.Strings(keys)
		ties = append(ties, &AmbiguousPrefixError{Path: ckey, Prefixes: keys})
	}
	sort.Slice(ties, func(i, j int) bool { return ties[i].Path < ties[j].Path })
	return ties
}

// Canonical returns the matching form of a site path: percent-decoded,
// NFC-normalized and rooted at "/".
func Canonical(p string) string {
	return nav.CanonicalPath(p)
}

// InvalidPrefixError reports a sidebar key that does not begin and end with "/".
type InvalidPrefixError struct {
	Prefix string
}

func (e *InvalidPrefixError) Error() string {
	return fmt.Sprintf("invalid sidebar prefix %q: must begin and end with \"/\"", e.Prefix)
}

// DuplicatePrefixError reports a sidebar key registered twice.
type DuplicatePrefixError struct {
	Prefix string
}

func (e *DuplicatePrefixError) Error() string {
	return fmt.Sprintf("sidebar prefix %q is already registered", e.Prefix)
}

// AmbiguousPrefixError reports distinct sidebar keys that tie under longest-prefix match.
type AmbiguousPrefixError struct {
	Path     string
	Prefixes []string
}

func (e *AmbiguousPrefixError) Error() string {
	return fmt.Sprintf("ambiguous sidebar for %s: prefixes %s match with equal length",
		e.Path, strings.Join(quoteAll(e.Prefixes), ", "))
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}
