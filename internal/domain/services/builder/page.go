package builder

import (
	"context"

	"pageforge/internal/domain/models/builder"
)

// PageService handles page composition business logic: load/save of the
// working copy, slug allocation, and publication.
type PageService interface {
	// CreatePage stores a new composition, allocating a unique slug.
	CreatePage(ctx context.Context, req *SavePageRequest) (*builder.Page, error)

	// GetPage retrieves a composition for editing.
	GetPage(ctx context.Context, id string) (*builder.Page, error)

	// ListPages lists pages newest-first; templatesOnly restricts to
	// saved templates.
	ListPages(ctx context.Context, templatesOnly bool) ([]builder.Page, error)

	// UpdatePage replaces the stored composition with the working copy.
	UpdatePage(ctx context.Context, id string, req *SavePageRequest) (*builder.Page, error)

	// UpdateNickname sets the page's free-form label.
	UpdateNickname(ctx context.Context, id, nickname string) (*builder.Page, error)

	// DeletePage removes a page.
	DeletePage(ctx context.Context, id string) error

	// Publish makes the page publicly reachable. Idempotent: an already
	// published page returns its existing URL and published_at is not
	// touched. Re-publish after unpublish reuses the original slug.
	Publish(ctx context.Context, id string) (*PublishResult, error)

	// Unpublish withdraws the page from the public surface. The stored
	// published URL survives for a later re-publish.
	Unpublish(ctx context.Context, id string) error

	// GetPublishedPage resolves a public slug to a published page.
	GetPublishedPage(ctx context.Context, slug string) (*builder.Page, error)

	// RecordView bumps the view counter for a published page. Best
	// effort: failures are logged and swallowed, never surfaced.
	RecordView(ctx context.Context, slug string)

	// SaveAsTemplate stores the given composition as a reusable template.
	SaveAsTemplate(ctx context.Context, req *SaveTemplateRequest) (*builder.Page, error)
}

// SavePageRequest carries a full composition save (create or update).
type SavePageRequest struct {
	Title    string                `json:"title"`
	Nickname string                `json:"nickname,omitempty"`
	Elements []builder.Block       `json:"elements"`
	Settings *builder.PageSettings `json:"settings,omitempty"`
}

// SaveTemplateRequest stores a composition as a named template.
type SaveTemplateRequest struct {
	TemplateName        string                `json:"template_name"`
	TemplateDescription string                `json:"template_description,omitempty"`
	Title               string                `json:"title"`
	Elements            []builder.Block       `json:"elements"`
	Settings            *builder.PageSettings `json:"settings,omitempty"`
}

// PublishResult reports the outcome of a publish call.
type PublishResult struct {
	PublishedURL string `json:"published_url"`
	PublishedAt  string `json:"published_at,omitempty"`
	Message      string `json:"message"`
}
