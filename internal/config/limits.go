package config

import "time"

const (
	// MaxPageTitleLength is the maximum length for page titles.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxPageTitleLength = 255

	// MaxNicknameLength is the maximum length for page nicknames.
	MaxNicknameLength = 255

	// MaxTemplateNameLength is the maximum length for template names.
	MaxTemplateNameLength = 255

	// MinSlugLength / MaxSlugLength bound public slugs. Slugs are
	// lowercase letters, digits and hyphens only.
	MinSlugLength = 3
	MaxSlugLength = 50

	// SlugAllocationAttempts is how many fresh slugs creation tries
	// before giving up on a unique one.
	SlugAllocationAttempts = 10

	// MaxUploadBytes caps image uploads (5MB, matching storage limits).
	MaxUploadBytes = 5 << 20

	// SubmissionRatePerMinute bounds public form submissions per
	// client IP.
	SubmissionRatePerMinute = 10

	// SubmissionHookTimeout bounds the background spreadsheet/webhook
	// fan-out after a submission is stored.
	SubmissionHookTimeout = 15 * time.Second
)
