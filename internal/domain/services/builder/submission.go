package builder

import (
	"context"

	"pageforge/internal/domain/models"
)

// SubmissionService stores form submissions and fans them out to the
// configured secondary sinks (spreadsheet export, notification hook).
// Sink failures never fail the primary submission.
type SubmissionService interface {
	Submit(ctx context.Context, req *SubmitRequest) (*models.Submission, error)
	ListSubmissions(ctx context.Context, pageID string) ([]models.Submission, error)
}

// SubmitRequest is one published-form submission: the page it came
// from plus every field value the form collected.
type SubmitRequest struct {
	PageID string                 `json:"page_id"`
	Name   string                 `json:"name,omitempty"`
	Email  string                 `json:"email,omitempty"`
	Phone  string                 `json:"phone,omitempty"`
	Data   map[string]interface{} `json:"data,omitempty"`
}
