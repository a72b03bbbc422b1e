package models

import "time"

// Submission is one form submission collected on a published page. The
// well-known name/email/phone fields are lifted out of the payload for
// listing and export; everything else the form carried stays in Data.
type Submission struct {
	ID        string                 `json:"id"`
	PageID    string                 `json:"page_id"`
	Name      string                 `json:"name,omitempty"`
	Email     string                 `json:"email,omitempty"`
	Phone     string                 `json:"phone,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}
