package builder

import (
	"encoding/json"
	"fmt"
)

// BlockType identifies the kind of content a block carries.
type BlockType string

// Block type constants. The set is closed: each type maps to exactly one
// content shape (see Content implementations below).
const (
	BlockTypeHeading BlockType = "heading"
	BlockTypeText    BlockType = "text"
	BlockTypeImage   BlockType = "image"
	BlockTypeVideo   BlockType = "video"
	BlockTypeButton  BlockType = "button"
	BlockTypeForm    BlockType = "form"
	BlockTypeSpacer  BlockType = "spacer"
	BlockTypeHTML    BlockType = "html"
	BlockTypeWidget  BlockType = "widget"
)

// Block is one positioned content unit in a page composition.
//
// ID is assigned at creation and never changes; Order is the block's
// position among its siblings and is kept equal to the array index by
// every list mutation (see Composition).
type Block struct {
	ID      string    `json:"id"`
	Type    BlockType `json:"type"`
	Content Content   `json:"content"`
	Style   *Style    `json:"styles,omitempty"`
	Order   int       `json:"order"`
}

// Content is the tagged union over per-type content shapes. The concrete
// type is determined by Block.Type; the compiler enforces which fields
// exist for which block type.
type Content interface {
	isContent()
}

// HeadingContent is the content shape for heading blocks.
type HeadingContent struct {
	Text  string `json:"text"`
	Level int    `json:"level"` // 1..6
	Link  string `json:"link,omitempty"`
}

// TextContent is the content shape for text blocks.
type TextContent struct {
	Text string `json:"text"`
	Link string `json:"link,omitempty"`
}

// ImageContent is the content shape for image blocks. Width and Height
// are display dimensions; they are recomputed from the image's natural
// dimensions whenever a new source is set (see SetSource).
type ImageContent struct {
	Src       string `json:"src"`
	Alt       string `json:"alt"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Link      string `json:"link,omitempty"`
	FullWidth bool   `json:"fullWidth,omitempty"`
}

// VideoContent is the content shape for video blocks. The URL is assumed
// to be embeddable; no validation is performed.
type VideoContent struct {
	URL string `json:"url"`
}

// ButtonContent is the content shape for button blocks.
type ButtonContent struct {
	ButtonText string `json:"buttonText"`
	Link       string `json:"link"`
}

// FormContent is the content shape for form blocks. Fields are owned
// entirely by the parent block and have no independent lifetime.
type FormContent struct {
	Fields []FormField `json:"fields"`
}

// SpacerContent is the content shape for spacer blocks. Spacing is in
// pixels; the editor offers 8-128 but any positive value is accepted.
type SpacerContent struct {
	Spacing int `json:"spacing"`
}

// HTMLContent is the content shape for raw-markup blocks. Both fields
// are author-trusted and rendered verbatim, never sanitized: the markup
// comes from the page author's design-tool paste-and-convert flow, not
// from visitor input.
type HTMLContent struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
}

// WidgetContent is the content shape for widget blocks.
type WidgetContent struct {
	WidgetType   WidgetKind   `json:"widgetType"`
	WidgetConfig WidgetConfig `json:"widgetConfig"`
}

// UnknownContent holds the raw content of a block whose type is not in
// the closed set. Unknown types are tolerated, not rejected: they carry
// whatever record they were loaded with and render as nothing.
type UnknownContent map[string]interface{}

func (HeadingContent) isContent() {}
func (TextContent) isContent()    {}
func (ImageContent) isContent()   {}
func (VideoContent) isContent()   {}
func (ButtonContent) isContent()  {}
func (FormContent) isContent()    {}
func (SpacerContent) isContent()  {}
func (HTMLContent) isContent()    {}
func (WidgetContent) isContent()  {}
func (UnknownContent) isContent() {}

// FormField describes one input in a form block.
type FormField struct {
	ID          string `json:"id"`
	Type        string `json:"type"` // "text", "email", or "tel"
	Label       string `json:"label"`
	Placeholder string `json:"placeholder,omitempty"`
	Required    bool   `json:"required"`
}

// Style is a sparse override record layered over type-based defaults at
// render time. Empty fields fall through to the resolver's defaults.
type Style struct {
	TextAlign       string `json:"textAlign,omitempty"` // left, center, right
	FontSize        string `json:"fontSize,omitempty"`
	FontWeight      string `json:"fontWeight,omitempty"`
	Color           string `json:"color,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
	Padding         string `json:"padding,omitempty"`
	Margin          string `json:"margin,omitempty"`
	BorderRadius    string `json:"borderRadius,omitempty"`
	AlignSelf       string `json:"alignSelf,omitempty"` // flex-start, center, flex-end
}

// blockJSON is the wire representation of a Block with content deferred.
type blockJSON struct {
	ID      string          `json:"id"`
	Type    BlockType       `json:"type"`
	Content json.RawMessage `json:"content"`
	Style   *Style          `json:"styles,omitempty"`
	Order   int             `json:"order"`
}

// UnmarshalJSON decodes a block, selecting the concrete content type
// from the type tag. Unknown types decode into UnknownContent.
func (b *Block) UnmarshalJSON(data []byte) error {
	var raw blockJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode block: %w", err)
	}

	b.ID = raw.ID
	b.Type = raw.Type
	b.Style = raw.Style
	b.Order = raw.Order

	if len(raw.Content) == 0 || string(raw.Content) == "null" {
		b.Content = contentForType(raw.Type)
		return nil
	}

	content, err := unmarshalContent(raw.Type, raw.Content)
	if err != nil {
		return fmt.Errorf("decode %s content: %w", raw.Type, err)
	}
	b.Content = content
	return nil
}

// contentForType returns the zero content value for a block type.
func contentForType(t BlockType) Content {
	switch t {
	case BlockTypeHeading:
		return HeadingContent{}
	case BlockTypeText:
		return TextContent{}
	case BlockTypeImage:
		return ImageContent{}
	case BlockTypeVideo:
		return VideoContent{}
	case BlockTypeButton:
		return ButtonContent{}
	case BlockTypeForm:
		return FormContent{}
	case BlockTypeSpacer:
		return SpacerContent{}
	case BlockTypeHTML:
		return HTMLContent{}
	case BlockTypeWidget:
		return WidgetContent{}
	default:
		return UnknownContent{}
	}
}

func unmarshalContent(t BlockType, data json.RawMessage) (Content, error) {
	switch t {
	case BlockTypeHeading:
		var c HeadingContent
		err := json.Unmarshal(data, &c)
		return c, err
	case BlockTypeText:
		var c TextContent
		err := json.Unmarshal(data, &c)
		return c, err
	case BlockTypeImage:
		var c ImageContent
		err := json.Unmarshal(data, &c)
		return c, err
	case BlockTypeVideo:
		var c VideoContent
		err := json.Unmarshal(data, &c)
		return c, err
	case BlockTypeButton:
		var c ButtonContent
		err := json.Unmarshal(data, &c)
		return c, err
	case BlockTypeForm:
		var c FormContent
		err := json.Unmarshal(data, &c)
		return c, err
	case BlockTypeSpacer:
		var c SpacerContent
		err := json.Unmarshal(data, &c)
		return c, err
	case BlockTypeHTML:
		var c HTMLContent
		err := json.Unmarshal(data, &c)
		return c, err
	case BlockTypeWidget:
		var c WidgetContent
		err := json.Unmarshal(data, &c)
		return c, err
	default:
		var c UnknownContent
		err := json.Unmarshal(data, &c)
		return c, err
	}
}

// MaxImageDisplayWidth caps the display width computed from an image's
// natural dimensions.
const MaxImageDisplayWidth = 400

// SetSource replaces the image source and recomputes display dimensions
// from the natural dimensions, capped to MaxImageDisplayWidth with the
// aspect ratio preserved. Natural dimensions of zero leave the current
// display size untouched.
func (c *ImageContent) SetSource(src string, naturalWidth, naturalHeight int) {
	c.Src = src
	if naturalWidth <= 0 || naturalHeight <= 0 {
		return
	}

	width, height := naturalWidth, naturalHeight
	if width > MaxImageDisplayWidth {
		height = int(float64(height)*float64(MaxImageDisplayWidth)/float64(width) + 0.5)
		width = MaxImageDisplayWidth
	}
	c.Width = width
	c.Height = height
}
