package content

// Type is the discriminator tag of a content block. The set of valid
// tags is declared in the registry (registry.go) and nowhere else.
type Type string

const (
	TypeText            Type = "text"
	TypeHeading         Type = "heading"
	TypeQuote           Type = "quote"
	TypeImage           Type = "image"
	TypeCodeBlock       Type = "code-block"
	TypeCodeMorph       Type = "code-morph"
	TypeInteractiveCode Type = "interactive-code"
	TypeAnimatedDiagram Type = "animated-diagram"
	TypeList            Type = "list"
	TypeCallout         Type = "callout"
	TypeWhiteboard      Type = "whiteboard"
	TypeCodePlayground  Type = "code-playground"
)

// Block is one tagged unit of renderable content within a post.
// Each variant carries only the fields relevant to its type.
type Block interface {
	BlockType() Type
}

type Text struct {
	Content string `json:"content"`
}

func (b *Text) BlockType() Type { return TypeText }

type Heading struct {
	Level   int    `json:"level"` // 1, 2 or 3
	Content string `json:"content"`
}

func (b *Heading) BlockType() Type { return TypeHeading }

type Quote struct {
	Content string `json:"content"`
	Author  string `json:"author,omitempty"`
}

func (b *Quote) BlockType() Type { return TypeQuote }

type Image struct {
	URL     string `json:"url"`
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`
}

func (b *Image) BlockType() Type { return TypeImage }

type CodeBlock struct {
	Code     string `json:"code"`
	Language string `json:"language,omitempty"`
	Title    string `json:"title,omitempty"`
}

func (b *CodeBlock) BlockType() Type { return TypeCodeBlock }

type MorphStep struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Code        string `json:"code"`
	Highlights  []int  `json:"highlights,omitempty"`
}

// CodeMorph shows one code snippet evolving through an ordered set of steps.
type CodeMorph struct {
	Title string      `json:"title,omitempty"`
	Steps []MorphStep `json:"steps"`
}

func (b *CodeMorph) BlockType() Type { return TypeCodeMorph }

type CodeExample struct {
	Title       string `json:"title"`
	Code        string `json:"code"`
	Explanation string `json:"explanation"`
	Color       string `json:"color"`
}

type InteractiveCode struct {
	Title    string        `json:"title,omitempty"`
	Examples []CodeExample `json:"examples"`
}

func (b *InteractiveCode) BlockType() Type { return TypeInteractiveCode }

type DiagramStep struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

type AnimatedDiagram struct {
	Title string        `json:"title,omitempty"`
	Steps []DiagramStep `json:"steps"`
}

func (b *AnimatedDiagram) BlockType() Type { return TypeAnimatedDiagram }

type ListStyle string

const (
	ListStyleBullet   ListStyle = "bullet"
	ListStyleNumbered ListStyle = "numbered"
	ListStyleCheck    ListStyle = "check"
)

type List struct {
	Variant ListStyle `json:"variant"`
	Colored bool      `json:"colored"`
	Items   []string  `json:"items"`
}

func (b *List) BlockType() Type { return TypeList }

type CalloutVariant string

const (
	CalloutInfo    CalloutVariant = "info"
	CalloutWarning CalloutVariant = "warning"
	CalloutSuccess CalloutVariant = "success"
)

type Callout struct {
	Variant CalloutVariant `json:"variant"`
	Title   string         `json:"title"`
	Content string         `json:"content"`
	Icon    string         `json:"icon,omitempty"`
}

func (b *Callout) BlockType() Type { return TypeCallout }

type Whiteboard struct {
	Height int `json:"height,omitempty"`
}

func (b *Whiteboard) BlockType() Type { return TypeWhiteboard }

// CodePlayground embeds the fixed interactive JS sandbox. It carries no
// data; the sandbox runs client-side only, on author-supplied snippets.
type CodePlayground struct{}

func (b *CodePlayground) BlockType() Type { return TypeCodePlayground }

// Unknown preserves a block whose type tag has no registry entry, so a
// stored document round-trips through load/save without losing it.
// Renderers and the editor skip it.
type Unknown struct {
	Tag Type
	Raw []byte
}

func (b *Unknown) BlockType() Type { return b.Tag }
