package repositories

import (
	"context"

	"pageforge/internal/domain/models"
)

// SubmissionRepository persists form submissions collected on published
// pages.
type SubmissionRepository interface {
	Create(ctx context.Context, sub *models.Submission) error

	// List returns submissions newest-first; pageID "" means all pages.
	List(ctx context.Context, pageID string) ([]models.Submission, error)
}
