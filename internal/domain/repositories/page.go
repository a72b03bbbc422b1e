package repositories

import (
	"context"
	"time"

	"pageforge/internal/domain/models/builder"
)

// PageFilter narrows List results.
type PageFilter struct {
	// TemplatesOnly limits the listing to pages saved as templates.
	TemplatesOnly bool
}

// PageUpdate carries the mutable fields of a page save. Nil pointers
// leave the stored value untouched.
type PageUpdate struct {
	Title    *string
	Nickname *string
	Elements []builder.Block
	Settings *builder.PageSettings
}

// PublishState carries a publication transition. PublishedURL is only
// written when publishing; unpublish clears the flag and timestamp but
// keeps the stored URL for re-publish.
type PublishState struct {
	IsPublished  bool
	PublishedURL string
	PublishedAt  *time.Time
}

// PageRepository persists page aggregates (blocks + settings as one
// JSON-shaped record).
type PageRepository interface {
	// Create inserts a new page. A slug collision maps to a
	// domain.ConflictError so the caller can retry with a fresh slug.
	Create(ctx context.Context, page *builder.Page) error

	// GetByID retrieves a page. Missing pages map to domain.ErrNotFound.
	GetByID(ctx context.Context, id string) (*builder.Page, error)

	// GetByPublicSlug retrieves a published page whose slug or
	// published URL matches. Unpublished pages are invisible here.
	GetByPublicSlug(ctx context.Context, slug string) (*builder.Page, error)

	// List returns pages newest-first.
	List(ctx context.Context, filter PageFilter) ([]builder.Page, error)

	// Update applies a partial save to an existing page.
	Update(ctx context.Context, id string, update PageUpdate) (*builder.Page, error)

	// SetPublished applies a publication transition.
	SetPublished(ctx context.Context, id string, state PublishState) (*builder.Page, error)

	// IncrementViews bumps the view counter by one.
	IncrementViews(ctx context.Context, id string) error

	// Delete removes a page and its submissions.
	Delete(ctx context.Context, id string) error
}
