package output

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func newTest(mode OutputMode, tty bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, tty, mode), out, errOut
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputMode
		wantErr bool
	}{
		{"", ModeAuto, false},
		{"auto", ModeAuto, false},
		{"TEXT", ModeText, false},
		{"md", ModeMarkdown, false},
		{"json", ModeJSON, false},
		{"html", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEffectiveMode(t *testing.T) {
	r, _, _ := newTest(ModeAuto, true)
	assert.Equal(t, ModeText, r.EffectiveMode())

	r, _, _ = newTest(ModeAuto, false)
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())

	r, _, _ = newTest("", false)
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())

	r, _, _ = newTest(ModeJSON, true)
	assert.Equal(t, ModeJSON, r.EffectiveMode())
}

func TestNewRenderer_BufferIsNotTTY(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
}

func TestMarkdown(t *testing.T) {
	r, out, errOut := newTest(ModeMarkdown, false)

	r.Header(1, "Sidebars")
	r.StatusLine("/docs/ai/", "success", "3 entries")
	r.Success("done")
	r.Warning("careful")

	got := out.String()
	assert.Contains(t, got, "# Sidebars")
	assert.Contains(t, got, "- ✓ `/docs/ai/` 3 entries")
	assert.Contains(t, got, "**done**")
	assert.Contains(t, errOut.String(), "**Warning:** careful")
	assert.False(t, ansi.MatchString(got+errOut.String()))
}

func TestText_NoColorWithoutTTY(t *testing.T) {
	r, out, _ := newTest(ModeText, false)
	r.Header(2, "Rules")
	r.Success("ok")

	assert.Contains(t, out.String(), "Rules")
	assert.Contains(t, out.String(), "✓ ok")
	assert.False(t, ansi.MatchString(out.String()))
}

func TestJSON(t *testing.T) {
	r, out, _ := newTest(ModeJSON, false)
	require.NoError(t, r.JSON(map[string]string{"link": "/docs/a&b"}))

	var got map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "/docs/a&b", got["link"])
	assert.Contains(t, out.String(), "a&b", "HTML characters are not escaped")
}

func TestTable(t *testing.T) {
	rows := [][]string{{"LK01", "broken-link"}, {"SB01", "ambiguous-prefix"}}

	r, out, _ := newTest(ModeMarkdown, false)
	r.Table([]string{"ID", "Name"}, rows)
	md := out.String()
	assert.Contains(t, md, "| LK01 | broken-link |")
	assert.Equal(t, 4, strings.Count(strings.TrimSpace(md), "\n")+1, "header, separator and two rows")

	r, out, _ = newTest(ModeText, false)
	r.Table([]string{"ID", "Name"}, rows)
	assert.Contains(t, out.String(), "ambiguous-prefix")
	assert.Contains(t, out.String(), "│")
}

func TestTree(t *testing.T) {
	items := []TreeItem{
		{Text: "人工智能", Children: []TreeItem{
			{Text: "概述 → /docs/ai/index"},
			{Text: "大模型", Children: []TreeItem{{Text: "SFT → /docs/ai/llm/sft"}}},
		}},
	}

	r, out, _ := newTest(ModeText, false)
	r.Tree(items)
	text := out.String()
	for _, want := range []string{"人工智能", "概述 → /docs/ai/index", "SFT → /docs/ai/llm/sft"} {
		assert.Contains(t, text, want)
	}
	assert.Less(t, strings.Index(text, "大模型"), strings.Index(text, "SFT"))

	r, out, _ = newTest(ModeMarkdown, false)
	r.Tree(items)
	assert.Contains(t, out.String(), "SFT → /docs/ai/llm/sft")

	r, out, _ = newTest(ModeText, false)
	r.Tree(nil)
	assert.Empty(t, out.String())
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "## Summary", FormatHeader(2, "Summary"))
	assert.Equal(t, "# Top", FormatHeader(0, "Top"))
	assert.Equal(t, "- **Sidebars:** 3", FormatKeyValue("Sidebars", "3"))
	assert.Equal(t, "```yaml\nnav: []\n```", FormatCodeBlock("yaml", "nav: []\n"))
}
