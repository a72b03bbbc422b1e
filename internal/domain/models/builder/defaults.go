package builder

import (
	"github.com/google/uuid"
)

// DefaultContent produces the initial content for a newly added block,
// keyed by block type. Unknown types yield an empty record rather than
// an error: the model is deliberately lenient here so stale or future
// types survive a round trip.
func DefaultContent(t BlockType) Content {
	switch t {
	case BlockTypeHeading:
		return HeadingContent{Text: "New heading", Level: 1}
	case BlockTypeText:
		return TextContent{Text: "Enter your text here."}
	case BlockTypeImage:
		return ImageContent{Alt: "Image", Width: 400, Height: 300}
	case BlockTypeVideo:
		return VideoContent{}
	case BlockTypeButton:
		return ButtonContent{ButtonText: "Button", Link: "#"}
	case BlockTypeForm:
		return FormContent{Fields: []FormField{
			{ID: uuid.NewString(), Type: "text", Label: "Name", Placeholder: "Enter your name", Required: true},
			{ID: uuid.NewString(), Type: "email", Label: "Email", Placeholder: "Enter your email", Required: true},
			{ID: uuid.NewString(), Type: "tel", Label: "Phone", Placeholder: "Enter your phone number", Required: false},
		}}
	case BlockTypeSpacer:
		return SpacerContent{Spacing: 32}
	case BlockTypeHTML:
		return HTMLContent{
			HTML: `<div style="padding: 20px; text-align: center; color: #666; border: 2px dashed #ddd; border-radius: 8px; background: #f9f9f9;">Paste HTML/CSS copied from your design tool here<br><small>Click the HTML element to edit it</small></div>`,
			CSS:  "",
		}
	case BlockTypeWidget:
		return WidgetContent{
			WidgetType:   WidgetApplicantList,
			WidgetConfig: DefaultWidgetConfig(WidgetApplicantList),
		}
	default:
		return UnknownContent{}
	}
}

// BusinessDefaultContent is the default-content table for blocks added
// to the business-info section; it seeds company-detail placeholders
// instead of the generic page defaults.
func BusinessDefaultContent(t BlockType) Content {
	switch t {
	case BlockTypeHeading:
		return HeadingContent{Text: "Business information", Level: 3}
	case BlockTypeText:
		return TextContent{Text: "Company: Example Inc.\nAddress: 123 Main Street\nPhone: 02-1234-5678\nEmail: info@example.com"}
	case BlockTypeImage:
		return ImageContent{Alt: "Company logo", Width: 100, Height: 100}
	case BlockTypeButton:
		return ButtonContent{ButtonText: "Contact us", Link: "mailto:info@example.com"}
	default:
		return DefaultContent(t)
	}
}

// NewBlock creates a block of the given type with fresh identity and
// default content. Order is left at zero; the owning list sets it on
// insert.
func NewBlock(t BlockType) Block {
	return Block{
		ID:      uuid.NewString(),
		Type:    t,
		Content: DefaultContent(t),
	}
}

// NewWidgetBlock creates a widget block seeded with the kind's default
// configuration.
func NewWidgetBlock(kind WidgetKind) Block {
	return Block{
		ID:   uuid.NewString(),
		Type: BlockTypeWidget,
		Content: WidgetContent{
			WidgetType:   kind,
			WidgetConfig: DefaultWidgetConfig(kind),
		},
	}
}

// NewBusinessBlock creates a block with the business-info section's
// default content for the given type.
func NewBusinessBlock(t BlockType) Block {
	return Block{
		ID:      uuid.NewString(),
		Type:    t,
		Content: BusinessDefaultContent(t),
	}
}
