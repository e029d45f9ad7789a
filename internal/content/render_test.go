package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_RenderDocument_InOrder(t *testing.T) {
	renderer := NewRenderer()

	doc := NewDocument(
		&Heading{Level: 2, Content: "First"},
		&Text{Content: "middle paragraph"},
		&Heading{Level: 3, Content: "Last"},
	)

	html := string(renderer.RenderDocument(doc))
	first := strings.Index(html, "First")
	middle := strings.Index(html, "middle paragraph")
	last := strings.Index(html, "Last")

	require.True(t, first >= 0 && middle >= 0 && last >= 0)
	assert.Less(t, first, middle)
	assert.Less(t, middle, last)
}

func TestRenderer_SkipsUnknownBlocks(t *testing.T) {
	renderer := NewRenderer()

	doc := NewDocument(
		&Text{Content: "before"},
		&Unknown{Tag: "giphy", Raw: []byte(`{"type":"giphy"}`)},
		&Text{Content: "after"},
	)

	html := string(renderer.RenderDocument(doc))
	assert.Contains(t, html, "before")
	assert.Contains(t, html, "after")
	assert.NotContains(t, html, "giphy")

	_, ok := renderer.RenderBlock(&Unknown{Tag: "giphy"})
	assert.False(t, ok)
}

func TestRenderer_Heading(t *testing.T) {
	renderer := NewRenderer()

	fragment, ok := renderer.RenderBlock(&Heading{Level: 1, Content: "Top"})
	require.True(t, ok)
	assert.Equal(t, "<h2>Top</h2>", string(fragment))

	// out of range level falls back to 2
	fragment, ok = renderer.RenderBlock(&Heading{Level: 9, Content: "Odd"})
	require.True(t, ok)
	assert.Equal(t, "<h3>Odd</h3>", string(fragment))
}

func TestRenderer_TextMarkdownSanitized(t *testing.T) {
	renderer := NewRenderer()

	fragment, ok := renderer.RenderBlock(&Text{
		Content: "some *emphasis* and a <script>alert(1)</script>",
	})
	require.True(t, ok)
	html := string(fragment)
	assert.Contains(t, html, "<em>emphasis</em>")
	assert.NotContains(t, html, "<script>")
}

func TestRenderer_Quote(t *testing.T) {
	renderer := NewRenderer()

	fragment, ok := renderer.RenderBlock(&Quote{Content: "stay curious", Author: "someone"})
	require.True(t, ok)
	html := string(fragment)
	assert.True(t, strings.HasPrefix(html, "<blockquote>"))
	assert.Contains(t, html, "stay curious")
	assert.Contains(t, html, "<cite>someone</cite>")
}

func TestRenderer_CodeBlockEscaped(t *testing.T) {
	renderer := NewRenderer()

	fragment, ok := renderer.RenderBlock(&CodeBlock{
		Code:     `if (a < b) { alert("x"); }`,
		Language: "javascript",
		Title:    "compare",
	})
	require.True(t, ok)
	html := string(fragment)
	assert.Contains(t, html, "language-javascript")
	assert.Contains(t, html, "compare")
	assert.NotContains(t, html, `a < b`)
	assert.Contains(t, html, "a &lt; b")
}

func TestRenderer_List(t *testing.T) {
	renderer := NewRenderer()

	fragment, ok := renderer.RenderBlock(&List{
		Variant: ListStyleNumbered,
		Colored: true,
		Items:   []string{"one", "two"},
	})
	require.True(t, ok)
	html := string(fragment)
	assert.True(t, strings.HasPrefix(html, "<ol"))
	assert.Contains(t, html, "list-colored")
	assert.Contains(t, html, "<li>one</li><li>two</li>")
}

func TestRenderer_InteractiveMountPoints(t *testing.T) {
	renderer := NewRenderer()

	for _, block := range []Block{
		&CodeMorph{Steps: []MorphStep{{Title: "s1", Code: "x"}}},
		&InteractiveCode{Examples: []CodeExample{{Title: "e1", Color: "blue"}}},
		&AnimatedDiagram{Steps: []DiagramStep{{Title: "d1", Color: "red", Icon: "box"}}},
		&Whiteboard{Height: 300},
		&CodePlayground{},
	} {
		fragment, ok := renderer.RenderBlock(block)
		require.True(t, ok, "%s", block.BlockType())
		assert.Contains(t, string(fragment), "-mount", "%s", block.BlockType())
	}
}
