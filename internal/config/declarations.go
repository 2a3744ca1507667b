package config

import (
	"fmt"
	"os"

	"github.com/leapstack-labs/sitenav/internal/registry"
	"github.com/leapstack-labs/sitenav/pkg/nav"
	"gopkg.in/yaml.v3"
)

// RootSidebarPrefix is the key used when the sidebar is declared as a
// single list that applies to every page.
const RootSidebarPrefix = "/"

// SidebarDecl is one sidebar as declared, in file order.
type SidebarDecl struct {
	Prefix string
	Tree   nav.List
}

// Declarations holds the navigation declared in the nav file.
type Declarations struct {
	Navbar   nav.List
	Sidebars []SidebarDecl
}

// LoadDeclarations reads a navigation file. YAML and JSON are both accepted.
//
// Sidebar keys are URL path prefixes, so the file is decoded directly rather
// than through koanf, whose key delimiter would split them.
func LoadDeclarations(path string) (*Declarations, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from project config
	if err != nil {
		return nil, fmt.Errorf("failed to read navigation file: %w", err)
	}
	decls, err := ParseDeclarations(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return decls, nil
}

// ParseDeclarations decodes navigation declarations from YAML or JSON.
// Duplicate sidebar keys are preserved so that Registry can report them.
func ParseDeclarations(data []byte) (*Declarations, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid navigation file: %w", err)
	}

	decls := &Declarations{}
	if len(doc.Content) == 0 {
		return decls, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("invalid navigation file: expected a mapping with navbar and sidebar keys")
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		switch key.Value {
		case "navbar", "nav":
			list, err := decodeList("navbar", value)
			if err != nil {
				return nil, err
			}
			decls.Navbar = list
		case "sidebar":
			sidebars, err := decodeSidebars(value)
			if err != nil {
				return nil, err
			}
			decls.Sidebars = sidebars
		default:
			return nil, fmt.Errorf("line %d: unknown field %q in navigation file", key.Line, key.Value)
		}
	}

	return decls, nil
}

func decodeSidebars(node *yaml.Node) ([]SidebarDecl, error) {
	switch node.Kind {
	case yaml.SequenceNode:
		tree, err := decodeList("sidebar", node)
		if err != nil {
			return nil, err
		}
		return []SidebarDecl{{Prefix: RootSidebarPrefix, Tree: tree}}, nil
	case yaml.MappingNode:
		sidebars := make([]SidebarDecl, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			prefix := node.Content[i].Value
			tree, err := decodeList("sidebar["+prefix+"]", node.Content[i+1])
			if err != nil {
				return nil, err
			}
			sidebars = append(sidebars, SidebarDecl{Prefix: prefix, Tree: tree})
		}
		return sidebars, nil
	default:
		return nil, fmt.Errorf("line %d: sidebar must be a list or a mapping of path prefixes", node.Line)
	}
}

func decodeList(root string, node *yaml.Node) (nav.List, error) {
	var v any
	if err := node.Decode(&v); err != nil {
		return nil, fmt.Errorf("%s: %w", root, err)
	}
	raws, err := nav.DecodeList(root, v)
	if err != nil {
		return nil, err
	}
	return nav.BuildList(root, raws)
}

// Registry registers every declared sidebar in file order.
func (d *Declarations) Registry(opts ...registry.Option) (*registry.SidebarRegistry, error) {
	reg := registry.NewSidebarRegistry(opts...)
	for _, s := range d.Sidebars {
		if err := reg.Register(s.Prefix, s.Tree); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
