package nav

import (
	"iter"
	"strconv"
)

// List is an ordered sequence of link trees: the navbar, or one sidebar.
type List []Node

// BuildList classifies every raw record. root names the list in error
// messages, e.g. "navbar" or "sidebar[/docs/ai/]".
func BuildList(root string, raws []Raw) (List, error) {
	list := make(List, 0, len(raws))
	for i, raw := range raws {
		node, err := build(raw, root+"["+strconv.Itoa(i)+"]")
		if err != nil {
			return nil, err
		}
		list = append(list, node)
	}
	return list, nil
}

// FlattenTargets yields every leaf target in document order.
// The sequence is a pure traversal: ranging over it twice yields the same targets.
func (l List) FlattenTargets() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, n := range l {
			if !n.yieldTargets(yield) {
				return
			}
		}
	}
}

func (n Node) yieldTargets(yield func(string) bool) bool {
	if n.IsLeaf() {
		return yield(n.Target)
	}
	for _, c := range n.Children {
		if !c.yieldTargets(yield) {
			return false
		}
	}
	return true
}

// Visit is called by Walk for every node. trail holds the labels of the
// node's ancestors followed by its own label.
type Visit func(n Node, trail []string) bool

// Walk visits every node depth-first, in document order. Returning false
// from fn stops the walk.
func (l List) Walk(fn Visit) {
	for _, n := range l {
		if !walk(n, nil, fn) {
			return
		}
	}
}

func walk(n Node, parents []string, fn Visit) bool {
	trail := make([]string, len(parents)+1)
	copy(trail, parents)
	trail[len(parents)] = n.Label

	if !fn(n, trail) {
		return false
	}
	for _, c := range n.Children {
		if !walk(c, trail, fn) {
			return false
		}
	}
	return true
}

// Depth returns the nesting depth of the deepest node; a flat list of leaves has depth 1.
func (l List) Depth() int {
	maxDepth := 0
	l.Walk(func(_ Node, trail []string) bool {
		if len(trail) > maxDepth {
			maxDepth = len(trail)
		}
		return true
	})
	return maxDepth
}

// Count returns the number of leaves and branches in the list.
func (l List) Count() (leaves, branches int) {
	l.Walk(func(n Node, _ []string) bool {
		if n.IsLeaf() {
			leaves++
		} else {
			branches++
		}
		return true
	})
	return leaves, branches
}

// ToRaw converts the list back into declarative records.
func (l List) ToRaw() []Raw {
	raws := make([]Raw, 0, len(l))
	for _, n := range l {
		raws = append(raws, n.ToRaw())
	}
	return raws
}
