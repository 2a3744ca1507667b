package nav

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Keys accepted in a declarative record.
const (
	keyText        = "text"
	keyLink        = "link"
	keyItems       = "items"
	keyCollapsed   = "collapsed"
	keyActiveMatch = "activeMatch"
)

var knownKeys = map[string]bool{
	keyText:        true,
	keyLink:        true,
	keyItems:       true,
	keyCollapsed:   true,
	keyActiveMatch: true,
}

// Decode converts generically decoded data (the map[string]any produced by
// YAML, JSON or koanf) into a Raw record, preserving which keys were present.
// Unknown keys are rejected.
func Decode(v any) (Raw, error) {
	return decode(v, "")
}

// DecodeList converts a generically decoded sequence into raw records.
func DecodeList(root string, v any) ([]Raw, error) {
	if v == nil {
		return nil, nil
	}
	seq, ok := v.([]any)
	if !ok {
		return nil, &MalformedNodeError{Path: root, Reason: fmt.Sprintf("expected a list of entries, got %T", v)}
	}
	raws := make([]Raw, 0, len(seq))
	for i, item := range seq {
		raw, err := decode(item, root+"["+strconv.Itoa(i)+"]")
		if err != nil {
			return nil, err
		}
		raws = append(raws, raw)
	}
	return raws, nil
}

func decode(v any, path string) (Raw, error) {
	m, err := asStringMap(v)
	if err != nil {
		return Raw{}, &MalformedNodeError{Path: path, Reason: err.Error()}
	}

	var raw Raw
	label, _ := m[keyText].(string)
	malformed := func(format string, args ...any) error {
		return &MalformedNodeError{Path: path, Label: label, Reason: fmt.Sprintf(format, args...)}
	}

	unknown := make([]string, 0)
	for k := range m {
		if !knownKeys[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Raw{}, malformed("unknown field %q", unknown[0])
	}

	if t, ok := m[keyText]; ok && t != nil {
		switch t := t.(type) {
		case string:
			raw.Text = t
		case int, int64, float64, uint64:
			raw.Text = fmt.Sprint(t)
		default:
			return Raw{}, malformed("text must be a string, got %T", t)
		}
	}

	if l, ok := m[keyLink]; ok {
		s, ok := l.(string)
		if !ok {
			return Raw{}, malformed("link must be a string, got %T", l)
		}
		raw.Link = &s
	}

	if c, ok := m[keyCollapsed]; ok {
		b, ok := c.(bool)
		if !ok {
			return Raw{}, malformed("collapsed must be a boolean, got %T", c)
		}
		raw.Collapsed = &b
	}

	if a, ok := m[keyActiveMatch]; ok {
		s, ok := a.(string)
		if !ok {
			return Raw{}, malformed("activeMatch must be a string, got %T", a)
		}
		raw.ActiveMatch = s
	}

	if items, ok := m[keyItems]; ok {
		seq, ok := items.([]any)
		if items != nil && !ok {
			return Raw{}, malformed("items must be a list, got %T", items)
		}
		raw.Items = make([]Raw, 0, len(seq))
		for i, item := range seq {
			child, err := decode(item, childPath(path, i))
			if err != nil {
				return Raw{}, err
			}
			raw.Items = append(raw.Items, child)
		}
	}

	return raw, nil
}

func asStringMap(v any) (map[string]any, error) {
	switch m := v.(type) {
	case map[string]any:
		return m, nil
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("field names must be strings, got %T", k)
			}
			out[ks] = val
		}
		return out, nil
	case nil:
		return nil, fmt.Errorf("entry is empty")
	default:
		return nil, fmt.Errorf("expected an object with text/link/items, got %T", v)
	}
}

// wireNode is the serialized form consumed by the site generator.
type wireNode struct {
	Text        string     `json:"text" yaml:"text"`
	Link        string     `json:"link,omitempty" yaml:"link,omitempty"`
	Collapsed   *bool      `json:"collapsed,omitempty" yaml:"collapsed,omitempty"`
	ActiveMatch string     `json:"activeMatch,omitempty" yaml:"activeMatch,omitempty"`
	Items       []wireNode `json:"items,omitempty" yaml:"items,omitempty"`
}

func (n Node) wire() wireNode {
	w := wireNode{Text: n.Label, ActiveMatch: n.ActiveMatch}
	if n.IsLeaf() {
		w.Link = n.Target
		return w
	}
	w.Collapsed = n.Collapsed
	w.Items = make([]wireNode, 0, len(n.Children))
	for _, c := range n.Children {
		w.Items = append(w.Items, c.wire())
	}
	return w
}

// MarshalJSON encodes the node in text/link/items form.
func (n Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.wire())
}

// UnmarshalJSON decodes and classifies a text/link/items record.
func (n *Node) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	raw, err := Decode(v)
	if err != nil {
		return err
	}
	built, err := Build(raw)
	if err != nil {
		return err
	}
	*n = built
	return nil
}

// MarshalYAML encodes the node in text/link/items form.
func (n Node) MarshalYAML() (any, error) {
	return n.wire(), nil
}
