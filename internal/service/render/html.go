package render

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"pageforge/internal/domain/models/builder"
	"pageforge/internal/service/widget"
)

// SnapshotFunc supplies the current animation state for a widget
// block. Nil snapshots fall back to the widget's initial state.
type SnapshotFunc func(blockID string) (widget.Snapshot, bool)

// Renderer produces server-side HTML for a composition.
type Renderer struct {
	mode      Mode
	snapshots SnapshotFunc
	pageID    string
}

// NewRenderer creates a renderer for the given mode. snapshots may be
// nil; widgets then render from their configured starting values.
func NewRenderer(mode Mode, snapshots SnapshotFunc) *Renderer {
	return &Renderer{mode: mode, snapshots: snapshots}
}

// RenderPage renders the full HTML document for a page: every visible
// top-level block in order, then the business-info section when
// visible. A malformed block renders as nothing; it never takes its
// siblings down with it.
func (r *Renderer) RenderPage(page *builder.Page) string {
	r.pageID = page.ID
	settings := page.Settings
	title := settings.Title
	if title == "" {
		title = page.Title
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString(`<meta charset="utf-8">` + "\n")
	b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">` + "\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	b.WriteString("</head>\n")
	fmt.Fprintf(&b, `<body style="margin:0;background-color:%s">`+"\n", attr(settings.BackgroundColor))

	b.WriteString(`<div style="max-width:512px;margin:0 auto;padding:24px 16px;display:flex;flex-direction:column;gap:16px">` + "\n")
	for _, block := range sortedBlocks(page.Elements) {
		r.writeRow(&b, block, settings)
	}
	b.WriteString("</div>\n")

	if settings.BusinessInfo.IsVisible {
		fmt.Fprintf(&b, `<div style="background-color:%s">`+"\n", attr(settings.BusinessInfo.BackgroundColor))
		b.WriteString(`<div style="max-width:512px;margin:0 auto;padding:24px 16px;display:flex;flex-direction:column;gap:16px">` + "\n")
		for _, block := range sortedBlocks(settings.BusinessInfo.Elements) {
			r.writeRow(&b, block, settings)
		}
		b.WriteString("</div>\n</div>\n")
	}

	b.WriteString(`<div style="background-color:#f8f9fa;border-top:1px solid #e5e7eb;padding:16px;margin-top:64px;text-align:center">`)
	b.WriteString(`<p style="font-size:12px;color:#6b7280;margin:0">Made with <strong>PageForge</strong></p>`)
	b.WriteString("</div>\n</body>\n</html>\n")
	return b.String()
}

func (r *Renderer) writeRow(b *strings.Builder, block builder.Block, settings builder.PageSettings) {
	markup := r.RenderBlock(block, settings)
	if markup == "" {
		return
	}
	fmt.Fprintf(b, `<div style="display:flex;justify-content:%s">%s</div>`+"\n", Justify(block), markup)
}

// RenderBlock renders one block. Unknown block types render nothing.
func (r *Renderer) RenderBlock(block builder.Block, settings builder.PageSettings) string {
	switch content := block.Content.(type) {
	case builder.HeadingContent:
		return r.renderHeading(block, content, settings)
	case builder.TextContent:
		return r.renderText(block, content, settings)
	case builder.ImageContent:
		return r.renderImage(block, content)
	case builder.VideoContent:
		return r.renderVideo(block, content)
	case builder.ButtonContent:
		return r.renderButton(block, content, settings)
	case builder.FormContent:
		return r.renderForm(block, content, settings)
	case builder.SpacerContent:
		return r.renderSpacer(content)
	case builder.HTMLContent:
		return renderRawMarkup(content)
	case builder.WidgetContent:
		return r.renderWidget(block, content)
	default:
		return ""
	}
}

func (r *Renderer) renderHeading(block builder.Block, content builder.HeadingContent, settings builder.PageSettings) string {
	level := content.Level
	if level < 1 || level > 6 {
		level = 1
	}
	text := content.Text
	if text == "" {
		text = "Heading"
	}

	markup := fmt.Sprintf(`<h%d style="%s;font-size:1.875rem;font-weight:700">%s</h%d>`,
		level, textCSS(block, settings), html.EscapeString(text), level)
	markup = boxWrap(block, markup)
	return r.linkWrap(content.Link, markup)
}

func (r *Renderer) renderText(block builder.Block, content builder.TextContent, settings builder.PageSettings) string {
	text := content.Text
	if text == "" {
		text = "Text"
	}

	markup := fmt.Sprintf(`<p style="%s">%s</p>`,
		textCSS(block, settings), html.EscapeString(text))
	markup = boxWrap(block, markup)
	return r.linkWrap(content.Link, markup)
}

func (r *Renderer) renderImage(block builder.Block, content builder.ImageContent) string {
	var markup string
	if content.Src != "" {
		size := ""
		if content.Width > 0 {
			size = fmt.Sprintf("max-width:%dpx;", content.Width)
		}
		if content.Height > 0 {
			size += fmt.Sprintf("height:%dpx;", content.Height)
		} else {
			size += "height:auto;"
		}
		markup = fmt.Sprintf(`<img src="%s" alt="%s" style="width:100%%;%s">`,
			html.EscapeString(content.Src), html.EscapeString(content.Alt), size)
	} else {
		markup = `<div style="width:400px;height:300px;background-color:#e5e7eb;border:2px dashed #d1d5db;display:flex;align-items:center;justify-content:center;color:#6b7280">Upload an image</div>`
	}
	markup = boxWrap(block, markup)
	return r.linkWrap(content.Link, markup)
}

func (r *Renderer) renderVideo(block builder.Block, content builder.VideoContent) string {
	var markup string
	if content.URL != "" {
		markup = fmt.Sprintf(`<div style="aspect-ratio:16/9;width:100%%"><iframe src="%s" style="width:100%%;height:100%%;border:0;border-radius:8px" allowfullscreen></iframe></div>`,
			html.EscapeString(content.URL))
	} else {
		markup = `<div style="aspect-ratio:16/9;width:100%;background-color:#e5e7eb;border:2px dashed #d1d5db;border-radius:8px;display:flex;align-items:center;justify-content:center;color:#6b7280">Enter a video URL</div>`
	}
	return boxWrap(block, markup)
}

func (r *Renderer) renderButton(block builder.Block, content builder.ButtonContent, settings builder.PageSettings) string {
	style := ResolveButton(block, settings)
	text := content.ButtonText
	if text == "" {
		text = "Button"
	}

	css := fmt.Sprintf("background-color:%s;color:%s;border-radius:%s;padding:%s;border:0;font-weight:600;cursor:pointer;text-decoration:none;display:inline-block",
		attr(style.BackgroundColor), attr(style.Color), attr(style.BorderRadius), attr(style.Padding))

	var markup string
	if r.mode == ModePublished && content.Link != "" {
		markup = fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener noreferrer" style="%s">%s</a>`,
			html.EscapeString(content.Link), css, html.EscapeString(text))
	} else {
		markup = fmt.Sprintf(`<button type="button" style="%s">%s</button>`, css, html.EscapeString(text))
	}
	return boxWrap(block, markup)
}

func (r *Renderer) renderForm(block builder.Block, content builder.FormContent, settings builder.PageSettings) string {
	var b strings.Builder
	if r.mode == ModePublished {
		b.WriteString(`<form method="POST" action="/api/submissions" style="max-width:448px;display:flex;flex-direction:column;gap:16px">`)
		fmt.Fprintf(&b, `<input type="hidden" name="page_id" value="%s">`, html.EscapeString(r.pageID))
	} else {
		// Configuration-only in the editor: no submit target.
		b.WriteString(`<form onsubmit="return false" style="max-width:448px;display:flex;flex-direction:column;gap:16px">`)
	}

	for _, field := range content.Fields {
		b.WriteString(`<div>`)
		label := html.EscapeString(field.Label)
		if field.Required {
			label += `<span style="color:#ef4444">*</span>`
		}
		fmt.Fprintf(&b, `<label style="display:block;font-size:14px;font-weight:500;color:#374151;margin-bottom:4px">%s</label>`, label)

		required := ""
		if field.Required {
			required = " required"
		}
		fmt.Fprintf(&b, `<input type="%s" name="%s" placeholder="%s"%s style="width:100%%;padding:8px 12px;border:1px solid #d1d5db;border-radius:6px">`,
			fieldInputType(field.Type), html.EscapeString(fieldName(field)), html.EscapeString(field.Placeholder), required)
		b.WriteString(`</div>`)
	}

	fmt.Fprintf(&b, `<button type="submit" style="width:100%%;padding:8px 16px;border:0;border-radius:6px;font-weight:600;color:#ffffff;background-color:%s;cursor:pointer">Submit</button>`,
		attr(settings.PrimaryColor))
	b.WriteString(`</form>`)
	return boxWrap(block, b.String())
}

// fieldName maps well-known labels onto the named submission columns;
// anything else keys by field id into the data bag.
func fieldName(field builder.FormField) string {
	switch strings.ToLower(field.Label) {
	case "name":
		return "name"
	case "email":
		return "email"
	case "phone":
		return "phone"
	}
	switch field.Type {
	case "email":
		return "email"
	case "tel":
		return "phone"
	}
	return field.ID
}

func fieldInputType(t string) string {
	switch t {
	case "email", "tel", "text":
		return t
	default:
		return "text"
	}
}

func (r *Renderer) renderSpacer(content builder.SpacerContent) string {
	spacing := content.Spacing
	if spacing <= 0 {
		spacing = 32
	}
	return fmt.Sprintf(`<div style="width:100%%;height:%dpx"></div>`, spacing)
}

// renderRawMarkup emits the block's markup and stylesheet verbatim.
// Raw-markup content is author-trusted: it comes from the page owner's
// paste-and-convert flow, never from visitors, and is deliberately not
// sanitized.
func renderRawMarkup(content builder.HTMLContent) string {
	markup := content.HTML
	if markup == "" {
		markup = `<div style="padding: 20px; text-align: center; color: #666; border: 2px dashed #ddd; border-radius: 8px;">Enter HTML code</div>`
	}

	var b strings.Builder
	b.WriteString(`<div style="width:100%">`)
	if content.CSS != "" {
		b.WriteString("<style>" + content.CSS + "</style>")
	}
	b.WriteString(`<div style="width:100%">` + markup + `</div>`)
	b.WriteString(`</div>`)
	return b.String()
}

// boxWrap applies the block's container style.
func boxWrap(block builder.Block, inner string) string {
	box := ResolveBox(block)
	return fmt.Sprintf(`<div style="padding:%s;margin:%s">%s</div>`,
		attr(box.Padding), attr(box.Margin), inner)
}

// linkWrap wraps markup in a new-tab link, published mode only. Edit
// mode never wraps so authors select blocks instead of navigating.
func (r *Renderer) linkWrap(link, markup string) string {
	if r.mode != ModePublished || link == "" {
		return markup
	}
	return fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener noreferrer" style="display:inline-block;text-decoration:none">%s</a>`,
		html.EscapeString(link), markup)
}

func textCSS(block builder.Block, settings builder.PageSettings) string {
	style := ResolveText(block, settings)
	css := fmt.Sprintf("color:%s;text-align:%s;margin:0;padding:0",
		attr(style.Color), attr(style.TextAlign))
	if style.FontSize != "" {
		css += ";font-size:" + attr(style.FontSize)
	}
	if style.FontWeight != "" {
		css += ";font-weight:" + attr(style.FontWeight)
	}
	return css
}

// attr strips characters that could break out of an inline style or
// attribute value.
func attr(v string) string {
	return strings.NewReplacer(`"`, "", "<", "", ">", "", ";", "", "&", "").Replace(v)
}

// sortedBlocks returns blocks ordered for traversal. Stored order is
// normally already index-consistent; corrupt loads with duplicate
// order values fall back to a stable id tie-break instead of crashing.
func sortedBlocks(blocks []builder.Block) []builder.Block {
	out := make([]builder.Block, len(blocks))
	copy(out, blocks)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}
