package content

import "encoding/json"

// Template describes one block type: its display metadata for the admin
// "add block" menu, a constructor returning the default data for a fresh
// block, and the decoder used when reading a stored document.
type Template struct {
	Type        Type   `json:"type"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`

	New    func() Block `json:"-"`
	decode func([]byte) (Block, error)
}

// templates is the single place new block types are declared. Adding a
// type means adding one entry here - editors and renderers stay generic
// over the variant set.
var templates = []Template{
	{
		Type:        TypeText,
		Name:        "Text",
		Icon:        "¶",
		Description: "A paragraph of markdown text",
		New:         func() Block { return &Text{} },
		decode:      func(raw []byte) (Block, error) { b := &Text{}; return b, json.Unmarshal(raw, b) },
	},
	{
		Type:        TypeHeading,
		Name:        "Heading",
		Icon:        "H",
		Description: "A section heading, level 1-3",
		New:         func() Block { return &Heading{Level: 2} },
		decode:      func(raw []byte) (Block, error) { b := &Heading{}; return b, json.Unmarshal(raw, b) },
	},
	{
		Type:        TypeQuote,
		Name:        "Quote",
		Icon:        "❝",
		Description: "A pull quote with an optional author",
		New:         func() Block { return &Quote{} },
		decode:      func(raw []byte) (Block, error) { b := &Quote{}; return b, json.Unmarshal(raw, b) },
	},
	{
		Type:        TypeImage,
		Name:        "Image",
		Icon:        "🖼",
		Description: "An image with optional alt text and caption",
		New:         func() Block { return &Image{} },
		decode:      func(raw []byte) (Block, error) { b := &Image{}; return b, json.Unmarshal(raw, b) },
	},
	{
		Type:        TypeCodeBlock,
		Name:        "Code",
		Icon:        "{}",
		Description: "A static, syntax highlighted code snippet",
		New:         func() Block { return &CodeBlock{Language: "javascript"} },
		decode:      func(raw []byte) (Block, error) { b := &CodeBlock{}; return b, json.Unmarshal(raw, b) },
	},
	{
		Type:        TypeCodeMorph,
		Name:        "Code Morph",
		Icon:        "⇄",
		Description: "Code evolving through animated steps",
		New: func() Block {
			return &CodeMorph{Steps: []MorphStep{{Title: "Step 1"}}}
		},
		decode: func(raw []byte) (Block, error) { b := &CodeMorph{}; return b, json.Unmarshal(raw, b) },
	},
	{
		Type:        TypeInteractiveCode,
		Name:        "Interactive Code",
		Icon:        "▶",
		Description: "Tabbed code examples with explanations",
		New: func() Block {
			return &InteractiveCode{Examples: []CodeExample{{Title: "Example 1", Color: "blue"}}}
		},
		decode: func(raw []byte) (Block, error) { b := &InteractiveCode{}; return b, json.Unmarshal(raw, b) },
	},
	{
		Type:        TypeAnimatedDiagram,
		Name:        "Animated Diagram",
		Icon:        "◆",
		Description: "A step-by-step animated diagram",
		New: func() Block {
			return &AnimatedDiagram{Steps: []DiagramStep{{Title: "Step 1", Color: "blue", Icon: "circle"}}}
		},
		decode: func(raw []byte) (Block, error) { b := &AnimatedDiagram{}; return b, json.Unmarshal(raw, b) },
	},
	{
		Type:        TypeList,
		Name:        "List",
		Icon:        "≡",
		Description: "A bulleted, numbered or check list",
		New: func() Block {
			return &List{Variant: ListStyleBullet, Items: []string{""}}
		},
		decode: func(raw []byte) (Block, error) { b := &List{}; return b, json.Unmarshal(raw, b) },
	},
	{
		Type:        TypeCallout,
		Name:        "Callout",
		Icon:        "!",
		Description: "An info, warning or success note",
		New:         func() Block { return &Callout{Variant: CalloutInfo} },
		decode:      func(raw []byte) (Block, error) { b := &Callout{}; return b, json.Unmarshal(raw, b) },
	},
	{
		Type:        TypeWhiteboard,
		Name:        "Whiteboard",
		Icon:        "✎",
		Description: "A freehand drawing surface",
		New:         func() Block { return &Whiteboard{Height: 400} },
		decode:      func(raw []byte) (Block, error) { b := &Whiteboard{}; return b, json.Unmarshal(raw, b) },
	},
	{
		Type:        TypeCodePlayground,
		Name:        "Code Playground",
		Icon:        "⌨",
		Description: "The embedded live JavaScript sandbox",
		New:         func() Block { return &CodePlayground{} },
		decode:      func(raw []byte) (Block, error) { b := &CodePlayground{}; return b, json.Unmarshal(raw, b) },
	},
}

var templatesByType = func() map[Type]Template {
	byType := make(map[Type]Template, len(templates))
	for _, tpl := range templates {
		byType[tpl.Type] = tpl
	}
	return byType
}()

// Get returns the template for the given block type. Callers must handle
// the missing case gracefully - an unknown type never panics the editor
// or the renderer.
func Get(t Type) (Template, bool) {
	tpl, ok := templatesByType[t]
	return tpl, ok
}

// Templates returns all declared block templates in menu order.
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}
