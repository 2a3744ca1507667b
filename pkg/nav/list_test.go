package nav

import (
	"encoding/json"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"pgregory.net/rapid"
)

const navbarYAML = `
- text: 人工智能
  link: /docs/ai/
- text: 架构
  items:
    - { text: 架构设计, link: /docs/design/architecture/ }
    - { text: 容器相关, link: /docs/container/ }
- text: 开发语言
  items:
    - text: JAVA
      items:
        - { text: java基础, link: /docs/devlanguage/java/basic/ }
        - { text: JVM, link: /docs/devlanguage/java/jvm/ }
- text: 工具
  items:
    - { text: 消息中间件, link: /docs/tools/mq }
`

func decodeNavbar(t *testing.T, src string) List {
	t.Helper()
	var v any
	require.NoError(t, yaml.Unmarshal([]byte(src), &v))
	raws, err := DecodeList("navbar", v)
	require.NoError(t, err)
	list, err := BuildList("navbar", raws)
	require.NoError(t, err)
	return list
}

func TestBuildList_FromYAML(t *testing.T) {
	list := decodeNavbar(t, navbarYAML)

	require.Len(t, list, 4)
	assert.True(t, list[0].IsLeaf())
	assert.True(t, list[1].IsBranch())
	assert.Equal(t, 3, list.Depth())

	leaves, branches := list.Count()
	assert.Equal(t, 6, leaves)
	assert.Equal(t, 4, branches)
}

func TestFlattenTargets_DocumentOrder(t *testing.T) {
	list := decodeNavbar(t, navbarYAML)

	got := slices.Collect(list.FlattenTargets())
	assert.Equal(t, []string{
		"/docs/ai/",
		"/docs/design/architecture/",
		"/docs/container/",
		"/docs/devlanguage/java/basic/",
		"/docs/devlanguage/java/jvm/",
		"/docs/tools/mq",
	}, got)
}

func TestFlattenTargets_Restartable(t *testing.T) {
	list := decodeNavbar(t, navbarYAML)
	seq := list.FlattenTargets()

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)
}

func TestFlattenTargets_EarlyBreak(t *testing.T) {
	list := decodeNavbar(t, navbarYAML)

	var got []string
	for target := range list.FlattenTargets() {
		got = append(got, target)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"/docs/ai/", "/docs/design/architecture/"}, got)
}

func TestDecode_RejectsUnknownField(t *testing.T) {
	_, err := Decode(map[string]any{"text": "X", "link": "/x", "target": "_blank"})
	require.Error(t, err)

	var malformed *MalformedNodeError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, malformed.Reason, `unknown field "target"`)
}

func TestDecode_EmptyItemsIsPresent(t *testing.T) {
	raw, err := Decode(map[string]any{"text": "X", "items": []any{}})
	require.NoError(t, err)
	require.NotNil(t, raw.Items)

	_, err = Build(raw)
	var malformed *MalformedNodeError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "items must not be empty", malformed.Reason)
}

func TestDecode_TypeErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		reason string
	}{
		{"not an object", "just a string", "expected an object"},
		{"link not string", map[string]any{"text": "X", "link": 3}, "link must be a string"},
		{"collapsed not bool", map[string]any{"text": "X", "items": []any{}, "collapsed": "no"}, "collapsed must be a boolean"},
		{"items not list", map[string]any{"text": "X", "items": "a"}, "items must be a list"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.input)
			var malformed *MalformedNodeError
			require.ErrorAs(t, err, &malformed)
			assert.Contains(t, malformed.Reason, tt.reason)
		})
	}
}

func TestNode_JSONRoundTrip(t *testing.T) {
	list := decodeNavbar(t, navbarYAML)

	data, err := json.Marshal(list)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"text":"人工智能","link":"/docs/ai/"`)

	var decoded List
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, list, decoded)
}

func TestNode_UnmarshalJSONRejectsMalformed(t *testing.T) {
	var n Node
	err := json.Unmarshal([]byte(`{"text":"X","items":[]}`), &n)

	var malformed *MalformedNodeError
	require.ErrorAs(t, err, &malformed)
}

// validTree draws a well-formed tree of bounded depth.
func validTree(t *rapid.T, depth int, label string) Raw {
	text := rapid.StringMatching(`[a-z]{1,6}`).Draw(t, label+".text")
	if depth == 0 || rapid.Bool().Draw(t, label+".leaf") {
		return RawLink(text, fmt.Sprintf("/docs/%s", text))
	}
	n := rapid.IntRange(1, 3).Draw(t, label+".n")
	items := make([]Raw, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, validTree(t, depth-1, fmt.Sprintf("%s.%d", label, i)))
	}
	return RawGroup(text, items...)
}

func TestFlattenTargets_Property_RestartableAndComplete(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 4).Draw(t, "roots")
		raws := make([]Raw, 0, n)
		for i := 0; i < n; i++ {
			raws = append(raws, validTree(t, 3, fmt.Sprintf("root%d", i)))
		}

		list, err := BuildList("navbar", raws)
		if err != nil {
			t.Fatalf("valid tree rejected: %v", err)
		}

		first := slices.Collect(list.FlattenTargets())
		second := slices.Collect(list.FlattenTargets())
		if !slices.Equal(first, second) {
			t.Fatalf("second traversal differs: %v vs %v", first, second)
		}

		var walked []string
		list.Walk(func(n Node, _ []string) bool {
			if n.IsLeaf() {
				walked = append(walked, n.Target)
			}
			return true
		})
		if !slices.Equal(first, walked) {
			t.Fatalf("flatten %v does not match walk %v", first, walked)
		}
	})
}
