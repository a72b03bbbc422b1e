// Package render turns stored compositions into display output. Style
// resolution is a fixed three-tier fallback: the block's explicit
// style, then a type default linked to the page settings, then a
// structural constant.
package render

import (
	"pageforge/internal/domain/models/builder"
)

// Mode selects the interactivity affordances of the output. Visual
// styling is identical in both modes.
type Mode string

const (
	// ModeEdit renders for the builder surface: links are inert, forms
	// do not submit, widgets are static.
	ModeEdit Mode = "edit"

	// ModePublished renders the live page: links navigate, forms post
	// submissions, widgets animate.
	ModePublished Mode = "published"
)

// TextStyle is the resolved visual style for heading and text blocks.
type TextStyle struct {
	Color      string
	TextAlign  string
	FontSize   string
	FontWeight string
}

// BoxStyle is the resolved container style shared by every block type.
type BoxStyle struct {
	AlignSelf string
	Padding   string
	Margin    string
}

// ButtonStyle is the resolved visual style for button blocks.
type ButtonStyle struct {
	BackgroundColor string
	Color           string
	BorderRadius    string
	Padding         string
}

// ResolveText resolves text styling. A heading without an explicit
// color takes the page's primary color; every other text block falls
// back to black.
func ResolveText(block builder.Block, settings builder.PageSettings) TextStyle {
	out := TextStyle{
		Color:     "#000000",
		TextAlign: "left",
	}
	if block.Type == builder.BlockTypeHeading {
		out.Color = settings.PrimaryColor
	}
	if s := block.Style; s != nil {
		if s.Color != "" {
			out.Color = s.Color
		}
		if s.TextAlign != "" {
			out.TextAlign = s.TextAlign
		}
		out.FontSize = s.FontSize
		out.FontWeight = s.FontWeight
	}
	return out
}

// ResolveBox resolves the container style for any block.
func ResolveBox(block builder.Block) BoxStyle {
	out := BoxStyle{
		AlignSelf: "flex-start",
		Padding:   "0",
		Margin:    "0",
	}
	if s := block.Style; s != nil {
		if s.AlignSelf != "" {
			out.AlignSelf = s.AlignSelf
		}
		if s.Padding != "" {
			out.Padding = s.Padding
		}
		if s.Margin != "" {
			out.Margin = s.Margin
		}
	}
	return out
}

// ResolveButton resolves button styling. The background falls back to
// the page's primary color; text, radius, and padding have structural
// defaults.
func ResolveButton(block builder.Block, settings builder.PageSettings) ButtonStyle {
	out := ButtonStyle{
		BackgroundColor: settings.PrimaryColor,
		Color:           "#ffffff",
		BorderRadius:    "8px",
		Padding:         "12px 24px",
	}
	if s := block.Style; s != nil {
		if s.BackgroundColor != "" {
			out.BackgroundColor = s.BackgroundColor
		}
		if s.Color != "" {
			out.Color = s.Color
		}
		if s.BorderRadius != "" {
			out.BorderRadius = s.BorderRadius
		}
		if s.Padding != "" {
			out.Padding = s.Padding
		}
	}
	return out
}

// Justify maps a block's alignSelf to the flex justification of its
// row container. Anything unrecognized lands at flex-start.
func Justify(block builder.Block) string {
	if s := block.Style; s != nil {
		switch s.AlignSelf {
		case "center":
			return "center"
		case "flex-end":
			return "flex-end"
		}
	}
	return "flex-start"
}
