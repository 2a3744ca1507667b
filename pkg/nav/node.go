// Package nav defines the link tree shared by the site navbar and every sidebar.
//
// A Node is a tagged variant: a Leaf carries a link target, a Branch carries an
// ordered, non-empty list of children. Raw declarative records are classified
// into one or the other by Build, at any nesting depth.
package nav

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tags the variant of a Node.
type Kind int

// Node variants.
const (
	KindLeaf Kind = iota
	KindBranch
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindBranch:
		return "branch"
	default:
		return "unknown"
	}
}

// Node is one clickable entry in the navbar or a sidebar.
type Node struct {
	Kind  Kind
	Label string

	// Target is set on leaves only.
	Target string

	// Children is set on branches only and is never empty.
	Children []Node

	// Collapsed is the initial collapse state of a branch. nil means the
	// group is not collapsible at all; a non-nil false renders it expanded.
	Collapsed *bool

	// ActiveMatch is a path prefix that highlights this entry when the
	// current page lives underneath it.
	ActiveMatch string
}

// Leaf constructs a leaf node.
func Leaf(label, target string) Node {
	return Node{Kind: KindLeaf, Label: label, Target: target}
}

// Branch constructs a branch node.
func Branch(label string, children ...Node) Node {
	return Node{Kind: KindBranch, Label: label, Children: children}
}

// IsLeaf reports whether the node links to a target.
func (n Node) IsLeaf() bool { return n.Kind == KindLeaf }

// IsBranch reports whether the node groups children.
func (n Node) IsBranch() bool { return n.Kind == KindBranch }

// IsCollapsed returns the initial collapse state, defaulting to false.
func (n Node) IsCollapsed() bool {
	return n.Collapsed != nil && *n.Collapsed
}

// Matches reports whether the entry should be highlighted for currentPath.
// A leaf matches the page its target addresses, in any link form the
// validator accepts; either variant matches when the path equals ActiveMatch
// or lives below it at a segment boundary.
func (n Node) Matches(currentPath string) bool {
	if currentPath == "" {
		currentPath = "/"
	}
	if n.IsLeaf() && samePage(n.Target, currentPath) {
		return true
	}
	if n.ActiveMatch == "" {
		return false
	}
	current := PagePath(currentPath)
	prefix := CanonicalPath(n.ActiveMatch)
	if current == prefix || current == strings.TrimSuffix(prefix, "/") {
		return true
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return strings.HasPrefix(current, prefix)
}

// Raw is an unclassified declarative record as written by a site author.
//
// Presence matters: a nil Link means "no link", and a nil Items means
// "no items" while a non-nil empty Items means "items: []", which is rejected.
type Raw struct {
	Text        string
	Link        *string
	Items       []Raw
	Collapsed   *bool
	ActiveMatch string
}

// RawLink builds a raw leaf record.
func RawLink(text, link string) Raw {
	return Raw{Text: text, Link: &link}
}

// RawGroup builds a raw branch record. Calling it without items yields an
// explicitly empty group.
func RawGroup(text string, items ...Raw) Raw {
	if items == nil {
		items = []Raw{}
	}
	return Raw{Text: text, Items: items}
}

// MalformedNodeError reports a record that is neither a valid leaf nor a valid branch.
type MalformedNodeError struct {
	Path   string // index path of the record, e.g. "navbar[3].items[0]"
	Label  string
	Reason string
}

func (e *MalformedNodeError) Error() string {
	loc := e.Path
	if loc == "" {
		loc = "link node"
	}
	if e.Label != "" {
		return fmt.Sprintf("malformed link node at %s (%q): %s", loc, e.Label, e.Reason)
	}
	return fmt.Sprintf("malformed link node at %s: %s", loc, e.Reason)
}

// Build classifies a raw record, and all of its descendants, into a Node.
func Build(raw Raw) (Node, error) {
	return build(raw, "")
}

func build(raw Raw, path string) (Node, error) {
	label := strings.TrimSpace(raw.Text)
	malformed := func(reason string) error {
		return &MalformedNodeError{Path: path, Label: label, Reason: reason}
	}

	if label == "" {
		return Node{}, malformed("text must not be empty")
	}

	hasLink := raw.Link != nil
	hasItems := raw.Items != nil

	switch {
	case hasLink && hasItems:
		return Node{}, malformed("link and items are mutually exclusive")
	case !hasLink && !hasItems:
		return Node{}, malformed("either link or items is required")
	case hasLink:
		if strings.TrimSpace(*raw.Link) == "" {
			return Node{}, malformed("link must not be empty")
		}
		if raw.Collapsed != nil {
			return Node{}, malformed("collapsed is only valid on groups with items")
		}
		return Node{
			Kind:        KindLeaf,
			Label:       label,
			Target:      strings.TrimSpace(*raw.Link),
			ActiveMatch: raw.ActiveMatch,
		}, nil
	}

	if len(raw.Items) == 0 {
		return Node{}, malformed("items must not be empty")
	}

	children := make([]Node, 0, len(raw.Items))
	for i, item := range raw.Items {
		child, err := build(item, childPath(path, i))
		if err != nil {
			return Node{}, err
		}
		children = append(children, child)
	}

	return Node{
		Kind:        KindBranch,
		Label:       label,
		Children:    children,
		Collapsed:   raw.Collapsed,
		ActiveMatch: raw.ActiveMatch,
	}, nil
}

func childPath(parent string, i int) string {
	if parent == "" {
		return "items[" + strconv.Itoa(i) + "]"
	}
	return parent + ".items[" + strconv.Itoa(i) + "]"
}

// ToRaw converts a classified node back into its declarative form.
func (n Node) ToRaw() Raw {
	if n.IsLeaf() {
		r := RawLink(n.Label, n.Target)
		r.ActiveMatch = n.ActiveMatch
		return r
	}
	items := make([]Raw, 0, len(n.Children))
	for _, c := range n.Children {
		items = append(items, c.ToRaw())
	}
	return Raw{Text: n.Label, Items: items, Collapsed: n.Collapsed, ActiveMatch: n.ActiveMatch}
}
