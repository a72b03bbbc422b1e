package render

import (
	"strings"
	"testing"

	"pageforge/internal/domain/models/builder"
)

func pageWith(blocks ...builder.Block) *builder.Page {
	return &builder.Page{
		ID:       "page-1",
		Title:    "Test page",
		Elements: blocks,
		Settings: builder.DefaultSettings(),
	}
}

func TestImageLinkWrapPublishedOnly(t *testing.T) {
	block := builder.Block{
		ID:   "b1",
		Type: builder.BlockTypeImage,
		Content: builder.ImageContent{
			Src:  "https://cdn.example.com/a.png",
			Link: "https://example.com",
		},
	}
	settings := builder.DefaultSettings()

	published := NewRenderer(ModePublished, nil).RenderBlock(block, settings)
	if !strings.Contains(published, `href="https://example.com"`) || !strings.Contains(published, `target="_blank"`) {
		t.Errorf("published image should be link-wrapped, got:\n%s", published)
	}

	edit := NewRenderer(ModeEdit, nil).RenderBlock(block, settings)
	if strings.Contains(edit, "<a ") {
		t.Errorf("edit-mode image must not be link-wrapped, got:\n%s", edit)
	}
}

func TestFormInertInEditMode(t *testing.T) {
	block := builder.Block{
		ID:   "b1",
		Type: builder.BlockTypeForm,
		Content: builder.FormContent{Fields: []builder.FormField{
			{ID: "f1", Type: "text", Label: "Name", Required: true},
			{ID: "f2", Type: "email", Label: "Email", Required: true},
		}},
	}
	settings := builder.DefaultSettings()

	published := NewRenderer(ModePublished, nil)
	published.pageID = "page-1"
	got := published.RenderBlock(block, settings)
	if !strings.Contains(got, `action="/api/submissions"`) {
		t.Errorf("published form should post submissions, got:\n%s", got)
	}
	if !strings.Contains(got, `name="page_id" value="page-1"`) {
		t.Errorf("published form should carry the page id, got:\n%s", got)
	}

	edit := NewRenderer(ModeEdit, nil).RenderBlock(block, settings)
	if strings.Contains(edit, "/api/submissions") {
		t.Errorf("edit-mode form must not submit, got:\n%s", edit)
	}
}

func TestRawMarkupRenderedVerbatim(t *testing.T) {
	block := builder.Block{
		ID:   "b1",
		Type: builder.BlockTypeHTML,
		Content: builder.HTMLContent{
			HTML: `<div class="custom"><script>check()</script></div>`,
			CSS:  ".custom { color: red; }",
		},
	}

	got := NewRenderer(ModePublished, nil).RenderBlock(block, builder.DefaultSettings())
	if !strings.Contains(got, `<div class="custom"><script>check()</script></div>`) {
		t.Errorf("raw markup must not be escaped or sanitized, got:\n%s", got)
	}
	if !strings.Contains(got, "<style>.custom { color: red; }</style>") {
		t.Errorf("stylesheet should be injected verbatim, got:\n%s", got)
	}
}

func TestTextContentEscaped(t *testing.T) {
	block := builder.Block{
		ID:      "b1",
		Type:    builder.BlockTypeText,
		Content: builder.TextContent{Text: "<script>boom()</script>"},
	}
	got := NewRenderer(ModePublished, nil).RenderBlock(block, builder.DefaultSettings())
	if strings.Contains(got, "<script>") {
		t.Errorf("text content must be escaped, got:\n%s", got)
	}
}

func TestUnknownTypeRendersNothing(t *testing.T) {
	block := builder.Block{ID: "b1", Type: "mystery", Content: builder.UnknownContent{"x": 1}}
	if got := NewRenderer(ModePublished, nil).RenderBlock(block, builder.DefaultSettings()); got != "" {
		t.Errorf("unknown types render nothing, got:\n%s", got)
	}
}

func TestHiddenBusinessInfoRendersNothing(t *testing.T) {
	page := pageWith()
	page.Settings.BusinessInfo.Elements = []builder.Block{{
		ID:      "biz-1",
		Type:    builder.BlockTypeHeading,
		Content: builder.HeadingContent{Text: "Business details", Level: 3},
	}}

	hidden := NewRenderer(ModePublished, nil).RenderPage(page)
	if strings.Contains(hidden, "Business details") {
		t.Errorf("hidden business section must not render, got:\n%s", hidden)
	}

	page.Settings.BusinessInfo.IsVisible = true
	shown := NewRenderer(ModePublished, nil).RenderPage(page)
	if !strings.Contains(shown, "Business details") {
		t.Errorf("visible business section should render, got:\n%s", shown)
	}
}

func TestRenderPageOrdersBlocks(t *testing.T) {
	page := pageWith(
		builder.Block{ID: "b", Type: builder.BlockTypeText, Content: builder.TextContent{Text: "second"}, Order: 1},
		builder.Block{ID: "a", Type: builder.BlockTypeText, Content: builder.TextContent{Text: "first"}, Order: 0},
	)
	got := NewRenderer(ModePublished, nil).RenderPage(page)
	if strings.Index(got, "first") > strings.Index(got, "second") {
		t.Errorf("blocks must render in order, got:\n%s", got)
	}
}

func TestRenderPageDuplicateOrderTieBreaksByID(t *testing.T) {
	page := pageWith(
		builder.Block{ID: "zz", Type: builder.BlockTypeText, Content: builder.TextContent{Text: "zulu"}, Order: 0},
		builder.Block{ID: "aa", Type: builder.BlockTypeText, Content: builder.TextContent{Text: "alpha"}, Order: 0},
	)
	got := NewRenderer(ModePublished, nil).RenderPage(page)
	if strings.Index(got, "alpha") > strings.Index(got, "zulu") {
		t.Errorf("duplicate order should tie-break by id, got:\n%s", got)
	}
}

func TestSpacerDefaultHeight(t *testing.T) {
	block := builder.Block{ID: "b1", Type: builder.BlockTypeSpacer, Content: builder.SpacerContent{}}
	got := NewRenderer(ModeEdit, nil).RenderBlock(block, builder.DefaultSettings())
	if !strings.Contains(got, "height:32px") {
		t.Errorf("expected 32px default spacing, got:\n%s", got)
	}
}

func TestWidgetStaticInEditMode(t *testing.T) {
	block := builder.Block{
		ID:   "w1",
		Type: builder.BlockTypeWidget,
		Content: builder.WidgetContent{
			WidgetType:   builder.WidgetDiscountCounter,
			WidgetConfig: builder.WidgetConfig{CurrentCount: 42},
		},
	}
	got := NewRenderer(ModeEdit, nil).RenderBlock(block, builder.DefaultSettings())
	if !strings.Contains(got, ">42<") {
		t.Errorf("edit mode renders the configured starting count, got:\n%s", got)
	}
}
