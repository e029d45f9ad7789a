package content

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	log "github.com/sirupsen/logrus"
)

// Renderer turns a document into HTML fragments, one per block, strictly
// in sequence order. Blocks without a renderer are skipped, never fatal.
type Renderer struct {
	markdown  goldmark.Markdown
	sanitizer *bluemonday.Policy
}

func NewRenderer() *Renderer {
	return &Renderer{
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// RenderDocument renders all blocks in display order and concatenates the
// fragments. A block that cannot be rendered is left out of the output.
func (r *Renderer) RenderDocument(doc Document) template.HTML {
	var sb strings.Builder
	for _, block := range doc.Blocks {
		fragment, ok := r.RenderBlock(block)
		if !ok {
			log.Tracef("render document: skipping block [%s]", block.BlockType())
			continue
		}
		sb.WriteString(string(fragment))
	}
	return template.HTML(sb.String())
}

// RenderBlock renders a single block. The second return value is false
// for unknown block types.
func (r *Renderer) RenderBlock(block Block) (template.HTML, bool) {
	switch b := block.(type) {
	case *Text:
		return r.renderTag("div", `class="post-text"`, r.renderMarkdown(b.Content)), true
	case *Heading:
		level := b.Level
		if level < 1 || level > 3 {
			level = 2
		}
		tag := fmt.Sprintf("h%d", level+1) // h1 is reserved for the post title
		return r.renderTag(tag, "", template.HTML(template.HTMLEscapeString(b.Content))), true
	case *Quote:
		quote := r.renderMarkdown(b.Content)
		if b.Author != "" {
			quote += template.HTML(fmt.Sprintf("<cite>%s</cite>", template.HTMLEscapeString(b.Author)))
		}
		return r.renderTag("blockquote", "", quote), true
	case *Image:
		return r.renderImage(b), true
	case *CodeBlock:
		return r.renderCodeBlock(b), true
	case *CodeMorph:
		return r.renderMountPoint("code-morph", b), true
	case *InteractiveCode:
		return r.renderMountPoint("interactive-code", b), true
	case *AnimatedDiagram:
		return r.renderMountPoint("animated-diagram", b), true
	case *List:
		return r.renderList(b), true
	case *Callout:
		return r.renderCallout(b), true
	case *Whiteboard:
		height := b.Height
		if height <= 0 {
			height = 400
		}
		return template.HTML(fmt.Sprintf(
			`<div class="whiteboard-mount" data-height="%d"></div>`, height,
		)), true
	case *CodePlayground:
		// client-side sandbox only; the server never executes snippets
		return template.HTML(`<div class="code-playground-mount"></div>`), true
	default:
		return "", false
	}
}

func (r *Renderer) renderMarkdown(content string) template.HTML {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(content), &buf); err != nil {
		log.Errorf("render markdown: %s", err)
		return template.HTML(template.HTMLEscapeString(content))
	}
	return template.HTML(r.sanitizer.Sanitize(buf.String()))
}

func (r *Renderer) renderTag(tag, attrs string, inner template.HTML) template.HTML {
	if attrs != "" {
		return template.HTML(fmt.Sprintf("<%s %s>%s</%s>", tag, attrs, inner, tag))
	}
	return template.HTML(fmt.Sprintf("<%s>%s</%s>", tag, inner, tag))
}

func (r *Renderer) renderImage(b *Image) template.HTML {
	var sb strings.Builder
	sb.WriteString("<figure>")
	sb.WriteString(fmt.Sprintf(
		`<img src="%s" alt="%s">`,
		template.HTMLEscapeString(b.URL), template.HTMLEscapeString(b.Alt),
	))
	if b.Caption != "" {
		sb.WriteString(fmt.Sprintf(
			"<figcaption>%s</figcaption>", template.HTMLEscapeString(b.Caption),
		))
	}
	sb.WriteString("</figure>")
	return template.HTML(sb.String())
}

func (r *Renderer) renderCodeBlock(b *CodeBlock) template.HTML {
	var sb strings.Builder
	sb.WriteString(`<div class="code-block">`)
	if b.Title != "" {
		sb.WriteString(fmt.Sprintf(
			`<div class="code-title">%s</div>`, template.HTMLEscapeString(b.Title),
		))
	}
	language := b.Language
	if language == "" {
		language = "plaintext"
	}
	sb.WriteString(fmt.Sprintf(
		`<pre><code class="language-%s">%s</code></pre>`,
		template.HTMLEscapeString(language), template.HTMLEscapeString(b.Code),
	))
	sb.WriteString("</div>")
	return template.HTML(sb.String())
}

func (r *Renderer) renderList(b *List) template.HTML {
	tag := "ul"
	if b.Variant == ListStyleNumbered {
		tag = "ol"
	}

	var sb strings.Builder
	class := fmt.Sprintf("list-%s", b.Variant)
	if b.Colored {
		class += " list-colored"
	}
	sb.WriteString(fmt.Sprintf(`<%s class="%s">`, tag, class))
	for _, item := range b.Items {
		sb.WriteString(fmt.Sprintf("<li>%s</li>", template.HTMLEscapeString(item)))
	}
	sb.WriteString(fmt.Sprintf("</%s>", tag))
	return template.HTML(sb.String())
}

func (r *Renderer) renderCallout(b *Callout) template.HTML {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<aside class="callout callout-%s">`, b.Variant))
	if b.Icon != "" {
		sb.WriteString(fmt.Sprintf(
			`<span class="callout-icon">%s</span>`, template.HTMLEscapeString(b.Icon),
		))
	}
	if b.Title != "" {
		sb.WriteString(fmt.Sprintf(
			`<strong>%s</strong>`, template.HTMLEscapeString(b.Title),
		))
	}
	sb.WriteString(string(r.renderMarkdown(b.Content)))
	sb.WriteString("</aside>")
	return template.HTML(sb.String())
}

// renderMountPoint emits a placeholder element carrying the block data for
// the client-side interactive component to pick up.
func (r *Renderer) renderMountPoint(kind string, block Block) template.HTML {
	raw, err := marshalBlock(block)
	if err != nil {
		log.Errorf("render mount point [%s]: %s", kind, err)
		return template.HTML(fmt.Sprintf(`<div class="%s-mount"></div>`, kind))
	}
	return template.HTML(fmt.Sprintf(
		`<div class="%s-mount" data-block="%s"></div>`, kind, template.HTMLEscapeString(string(raw)),
	))
}
