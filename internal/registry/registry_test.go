package registry

import (
	"errors"
	"testing"

	"github.com/leapstack-labs/sitenav/pkg/nav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sidebar(label string, targets ...string) nav.List {
	children := make([]nav.Node, 0, len(targets))
	for _, t := range targets {
		children = append(children, nav.Leaf(t, t))
	}
	return nav.List{nav.Branch(label, children...)}
}

func TestSidebarRegistry_Register(t *testing.T) {
	r := NewSidebarRegistry()

	tree := sidebar("容器相关", "/docs/container/index")
	require.NoError(t, r.Register("/docs/container/", tree))

	assert.Equal(t, 1, r.Count(), "expected count 1")

	got, ok := r.Get("/docs/container/")
	assert.True(t, ok, "expected to find sidebar by prefix")
	assert.Equal(t, tree, got)
}

func TestSidebarRegistry_RegisterDuplicate(t *testing.T) {
	r := NewSidebarRegistry()
	require.NoError(t, r.Register("/docs/container/", sidebar("a", "/a")))

	err := r.Register("/docs/container/", sidebar("b", "/b"))
	require.Error(t, err)

	var dup *DuplicatePrefixError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "/docs/container/", dup.Prefix)

	// The first registration is kept.
	got, _ := r.Get("/docs/container/")
	assert.Equal(t, "a", got[0].Label)
}

func TestSidebarRegistry_RegisterInvalidPrefix(t *testing.T) {
	r := NewSidebarRegistry()

	for _, prefix := range []string{"docs/ai/", "/docs/ai", "", "docs"} {
		t.Run(prefix, func(t *testing.T) {
			err := r.Register(prefix, sidebar("x", "/x"))
			var invalid *InvalidPrefixError
			require.ErrorAs(t, err, &invalid)
		})
	}
	assert.Equal(t, 0, r.Count())
}

func TestSidebarRegistry_Resolve(t *testing.T) {
	r := NewSidebarRegistry()

	container := sidebar("容器相关", "/docs/container/index")
	resources := sidebar("kubernetes相关资源", "/docs/container/resources/pod")
	ai := sidebar("人工智能", "/docs/ai/index")

	require.NoError(t, r.Register("/docs/container/", container))
	require.NoError(t, r.Register("/docs/container/resources/", resources))
	require.NoError(t, r.Register("/docs/ai/", ai))

	tests := []struct {
		name       string
		path       string
		wantPrefix string
		want       nav.List
	}{
		{
			name:       "longest match wins",
			path:       "/docs/container/resources/pod",
			wantPrefix: "/docs/container/resources/",
			want:       resources,
		},
		{
			name:       "shorter ancestor",
			path:       "/docs/container/docker-component",
			wantPrefix: "/docs/container/",
			want:       container,
		},
		{
			name:       "section index",
			path:       "/docs/ai/",
			wantPrefix: "/docs/ai/",
			want:       ai,
		},
		{
			name:       "relative path is rooted",
			path:       "docs/ai/mcp",
			wantPrefix: "/docs/ai/",
			want:       ai,
		},
		{
			name:       "percent-encoded path",
			path:       "/docs/container/resources/%E5%AE%B9%E5%99%A8",
			wantPrefix: "/docs/container/resources/",
			want:       resources,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefix, got, err := r.ResolvePrefix(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPrefix, prefix)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSidebarRegistry_ResolveNoMatch(t *testing.T) {
	r := NewSidebarRegistry()
	require.NoError(t, r.Register("/docs/ai/", sidebar("ai", "/docs/ai/index")))

	for _, path := range []string{"/", "/docs/", "/docs/aigc", "/blog/ai/"} {
		got, err := r.Resolve(path)
		require.NoError(t, err)
		assert.Empty(t, got, "path %s should have no sidebar", path)
	}
}

func TestSidebarRegistry_ResolveAmbiguous(t *testing.T) {
	r := NewSidebarRegistry()
	require.NoError(t, r.Register("/docs/数据库/", sidebar("a", "/a")))
	require.NoError(t, r.Register("/docs/%E6%95%B0%E6%8D%AE%E5%BA%93/", sidebar("b", "/b")))

	_, err := r.Resolve("/docs/数据库/mysql")
	var ambiguous *AmbiguousPrefixError
	require.ErrorAs(t, err, &ambiguous)
	assert.Len(t, ambiguous.Prefixes, 2)

	ties := r.Ties()
	require.Len(t, ties, 1)
	assert.Equal(t, "/docs/数据库/", ties[0].Path)
}

func TestSidebarRegistry_NFCNormalization(t *testing.T) {
	r := NewSidebarRegistry()
	// Precomposed é in the key, e + combining acute accent in the path.
	require.NoError(t, r.Register("/docs/caf\u00e9/", sidebar("nfc", "/x")))

	got, err := r.Resolve("/docs/cafe\u0301/menu")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "nfc", got[0].Label)
}

func TestSidebarRegistry_NoTiesForNestedPrefixes(t *testing.T) {
	r := NewSidebarRegistry()
	require.NoError(t, r.Register("/docs/container/", sidebar("a", "/a")))
	require.NoError(t, r.Register("/docs/container/resources/", sidebar("b", "/b")))
	require.NoError(t, r.Register("/docs/ai/", sidebar("c", "/c")))

	assert.Empty(t, r.Ties())
}

func TestSidebarRegistry_ResolveCache(t *testing.T) {
	r := NewSidebarRegistry(WithResolveCache(8))
	require.NoError(t, r.Register("/docs/container/", sidebar("a", "/a")))

	first, err := r.Resolve("/docs/container/resources/pod")
	require.NoError(t, err)

	// Registering a more specific prefix must invalidate cached answers.
	require.NoError(t, r.Register("/docs/container/resources/", sidebar("b", "/b")))
	second, err := r.Resolve("/docs/container/resources/pod")
	require.NoError(t, err)

	assert.Equal(t, "a", first[0].Label)
	assert.Equal(t, "b", second[0].Label)
}

func TestSidebarRegistry_Prefixes(t *testing.T) {
	r := NewSidebarRegistry()
	require.NoError(t, r.Register("/docs/tools/mq/", sidebar("mq", "/m")))
	require.NoError(t, r.Register("/docs/ai/", sidebar("ai", "/a")))

	assert.Equal(t, []string{"/docs/ai/", "/docs/tools/mq/"}, r.Prefixes())

	entries := r.Entries()
	assert.Len(t, entries, 2)
	delete(entries, "/docs/ai/")
	assert.Equal(t, 2, r.Count(), "Entries must return a copy")
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/docs/ai/", "/docs/ai/"},
		{"docs/ai/", "/docs/ai/"},
		{"/docs/%E6%95%B0%E6%8D%AE%E5%BA%93/", "/docs/数据库/"},
		{"/docs/%zz/", "/docs/%zz/"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Canonical(tt.in))
		})
	}
}
