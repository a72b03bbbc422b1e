package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"pageforge/internal/domain"
	"pageforge/internal/domain/models"
	"pageforge/internal/domain/repositories"
)

// PostgresSubmissionRepository implements the SubmissionRepository interface
type PostgresSubmissionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewSubmissionRepository creates a new form submission repository
func NewSubmissionRepository(config *RepositoryConfig) repositories.SubmissionRepository {
	return &PostgresSubmissionRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a form submission. Extra fields beyond the named
// columns land in the data JSONB column.
func (r *PostgresSubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	data, err := json.Marshal(submission.Data)
	if err != nil {
		return fmt.Errorf("marshal submission data: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (page_id, name, email, phone, data)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, r.tables.Submissions)

	executor := GetExecutor(ctx, r.pool)
	err = executor.QueryRow(ctx, query,
		submission.PageID,
		submission.Name,
		submission.Email,
		submission.Phone,
		data,
	).Scan(&submission.ID, &submission.CreatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("page %s: %w", submission.PageID, domain.ErrNotFound)
		}
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

// List returns a page's submissions newest-first.
func (r *PostgresSubmissionRepository) List(ctx context.Context, pageID string) ([]models.Submission, error) {
	query := fmt.Sprintf(`
		SELECT id, page_id, name, email, phone, data, created_at
		FROM %s
		WHERE page_id = $1
		ORDER BY created_at DESC
	`, r.tables.Submissions)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, pageID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var submissions []models.Submission
	for rows.Next() {
		var (
			sub  models.Submission
			data []byte
		)
		if err := rows.Scan(&sub.ID, &sub.PageID, &sub.Name, &sub.Email, &sub.Phone, &data, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("list submissions: %w", err)
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &sub.Data); err != nil {
				return nil, fmt.Errorf("decode submission data: %w", err)
			}
		}
		submissions = append(submissions, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return submissions, nil
}
