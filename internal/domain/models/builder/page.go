package builder

import (
	"time"
)

// BusinessInfoSection is the secondary, independently visible block list
// attached to page settings. It renders after all top-level blocks and
// is governed by its own visibility flag; its elements never mix with
// the parent page's list.
type BusinessInfoSection struct {
	ID              string  `json:"id"`
	IsVisible       bool    `json:"isVisible"`
	BackgroundColor string  `json:"backgroundColor"`
	Elements        []Block `json:"elements"`
}

// PageSettings holds page-global style and the business-info section.
// PrimaryColor is the fallback color for headings and buttons that have
// no explicit style color.
type PageSettings struct {
	Title           string              `json:"title"`
	PrimaryColor    string              `json:"primaryColor"`
	BackgroundColor string              `json:"backgroundColor"`
	BusinessInfo    BusinessInfoSection `json:"businessInfo"`
}

// DefaultSettings returns the settings a brand new page starts with.
func DefaultSettings() PageSettings {
	return PageSettings{
		Title:           "New landing page",
		PrimaryColor:    "#3b82f6",
		BackgroundColor: "#ffffff",
		BusinessInfo: BusinessInfoSection{
			ID:              "business-info",
			IsVisible:       false,
			BackgroundColor: "#f8f9fa",
			Elements:        []Block{},
		},
	}
}

// Page is the persisted aggregate: the block list, its settings, and
// publication metadata. A page exclusively owns its blocks; none are
// shared across pages. Slug is assigned at creation and never mutated;
// PublishedURL is assigned once on first publish and stays stable
// across unpublish/re-publish cycles.
type Page struct {
	ID                  string       `json:"id"`
	Title               string       `json:"title"`
	Slug                string       `json:"slug"`
	Nickname            string       `json:"nickname,omitempty"`
	Elements            []Block      `json:"elements"`
	Settings            PageSettings `json:"settings"`
	IsPublished         bool         `json:"is_published"`
	PublishedURL        string       `json:"published_url,omitempty"`
	PublishedAt         *time.Time   `json:"published_at,omitempty"`
	PageViews           int          `json:"page_views"`
	IsTemplate          bool         `json:"is_template"`
	TemplateName        string       `json:"template_name,omitempty"`
	TemplateDescription string       `json:"template_description,omitempty"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}
