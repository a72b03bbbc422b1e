package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pageforge/internal/domain"
	"pageforge/internal/domain/models/builder"
	"pageforge/internal/domain/repositories"
)

// PostgresPageRepository implements the PageRepository interface
type PostgresPageRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewPageRepository creates a new page repository
func NewPageRepository(config *RepositoryConfig) repositories.PageRepository {
	return &PostgresPageRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const pageColumns = `id, title, slug, nickname, elements, settings,
	is_published, published_url, published_at, page_views,
	is_template, template_name, template_description,
	created_at, updated_at`

// Create inserts a new page record. The full block list and settings
// travel as JSONB. Slug collisions map to a ConflictError carrying the
// existing page's id so creation can retry with a fresh slug.
func (r *PostgresPageRepository) Create(ctx context.Context, page *builder.Page) error {
	elements, settings, err := marshalComposition(page)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (title, slug, nickname, elements, settings,
			is_published, published_url, is_template, template_name, template_description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, page_views, created_at, updated_at
	`, r.tables.Pages)

	executor := GetExecutor(ctx, r.pool)
	err = executor.QueryRow(ctx, query,
		page.Title,
		page.Slug,
		page.Nickname,
		elements,
		settings,
		page.IsPublished,
		page.PublishedURL,
		page.IsTemplate,
		page.TemplateName,
		page.TemplateDescription,
	).Scan(&page.ID, &page.PageViews, &page.CreatedAt, &page.UpdatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			existingID, queryErr := r.getIDBySlug(ctx, page.Slug)
			if queryErr != nil {
				return fmt.Errorf("page slug '%s' already exists: %w", page.Slug, domain.ErrConflict)
			}
			return &domain.ConflictError{
				Message:      fmt.Sprintf("page slug '%s' already exists", page.Slug),
				ResourceType: "page",
				ResourceID:   existingID,
			}
		}
		return fmt.Errorf("create page: %w", err)
	}

	return nil
}

// GetByID retrieves a page by ID
func (r *PostgresPageRepository) GetByID(ctx context.Context, id string) (*builder.Page, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, pageColumns, r.tables.Pages)

	executor := GetExecutor(ctx, r.pool)
	page, err := scanPage(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get page: %w", err)
	}
	return page, nil
}

// GetByPublicSlug retrieves a published page whose slug or published
// URL matches. Unpublished pages are not visible through this path.
func (r *PostgresPageRepository) GetByPublicSlug(ctx context.Context, slug string) (*builder.Page, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE (slug = $1 OR published_url = $1) AND is_published = true
	`, pageColumns, r.tables.Pages)

	executor := GetExecutor(ctx, r.pool)
	page, err := scanPage(executor.QueryRow(ctx, query, slug))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("page %s: %w", slug, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get page by slug: %w", err)
	}
	return page, nil
}

// List returns pages newest-first.
func (r *PostgresPageRepository) List(ctx context.Context, filter repositories.PageFilter) ([]builder.Page, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s`, pageColumns, r.tables.Pages)
	if filter.TemplatesOnly {
		query += ` WHERE is_template = true`
	}
	query += ` ORDER BY created_at DESC`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	var pages []builder.Page
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("list pages: %w", err)
		}
		pages = append(pages, *page)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	return pages, nil
}

// Update applies a partial save to an existing page.
func (r *PostgresPageRepository) Update(ctx context.Context, id string, update repositories.PageUpdate) (*builder.Page, error) {
	sets := []string{"updated_at = now()"}
	args := []interface{}{id}

	addArg := func(clause string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf(clause, len(args)))
	}

	if update.Title != nil {
		addArg("title = $%d", *update.Title)
	}
	if update.Nickname != nil {
		addArg("nickname = $%d", *update.Nickname)
	}
	if update.Elements != nil {
		data, err := json.Marshal(update.Elements)
		if err != nil {
			return nil, fmt.Errorf("marshal elements: %w", err)
		}
		addArg("elements = $%d", data)
	}
	if update.Settings != nil {
		data, err := json.Marshal(update.Settings)
		if err != nil {
			return nil, fmt.Errorf("marshal settings: %w", err)
		}
		addArg("settings = $%d", data)
	}

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $1 RETURNING %s`,
		r.tables.Pages, strings.Join(sets, ", "), pageColumns)

	executor := GetExecutor(ctx, r.pool)
	page, err := scanPage(executor.QueryRow(ctx, query, args...))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("update page: %w", err)
	}
	return page, nil
}

// SetPublished applies a publication transition. Unpublish keeps the
// stored published_url so a later re-publish reuses the same address.
func (r *PostgresPageRepository) SetPublished(ctx context.Context, id string, state repositories.PublishState) (*builder.Page, error) {
	var query string
	var args []interface{}

	if state.IsPublished {
		query = fmt.Sprintf(`
			UPDATE %s
			SET is_published = true, published_url = $2, published_at = $3, updated_at = now()
			WHERE id = $1
			RETURNING %s
		`, r.tables.Pages, pageColumns)
		args = []interface{}{id, state.PublishedURL, state.PublishedAt}
	} else {
		query = fmt.Sprintf(`
			UPDATE %s
			SET is_published = false, published_at = NULL, updated_at = now()
			WHERE id = $1
			RETURNING %s
		`, r.tables.Pages, pageColumns)
		args = []interface{}{id}
	}

	executor := GetExecutor(ctx, r.pool)
	page, err := scanPage(executor.QueryRow(ctx, query, args...))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("set published: %w", err)
	}
	return page, nil
}

// IncrementViews bumps the view counter by one.
func (r *PostgresPageRepository) IncrementViews(ctx context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET page_views = page_views + 1 WHERE id = $1`, r.tables.Pages)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

// Delete removes a page. Submissions cascade via the foreign key.
func (r *PostgresPageRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Pages)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete page: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *PostgresPageRepository) getIDBySlug(ctx context.Context, slug string) (string, error) {
	query := fmt.Sprintf(`SELECT id FROM %s WHERE slug = $1`, r.tables.Pages)

	var id string
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, slug).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

// scanPage reads one page row, decoding the JSONB composition columns.
func scanPage(row pgx.Row) (*builder.Page, error) {
	var (
		page         builder.Page
		nickname     *string
		elements     []byte
		settings     []byte
		publishedURL *string
		publishedAt  *time.Time
		templateName *string
		templateDesc *string
	)

	err := row.Scan(
		&page.ID,
		&page.Title,
		&page.Slug,
		&nickname,
		&elements,
		&settings,
		&page.IsPublished,
		&publishedURL,
		&publishedAt,
		&page.PageViews,
		&page.IsTemplate,
		&templateName,
		&templateDesc,
		&page.CreatedAt,
		&page.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if nickname != nil {
		page.Nickname = *nickname
	}
	if publishedURL != nil {
		page.PublishedURL = *publishedURL
	}
	page.PublishedAt = publishedAt
	if templateName != nil {
		page.TemplateName = *templateName
	}
	if templateDesc != nil {
		page.TemplateDescription = *templateDesc
	}

	if len(elements) > 0 {
		if err := json.Unmarshal(elements, &page.Elements); err != nil {
			return nil, fmt.Errorf("decode elements: %w", err)
		}
	}
	if page.Elements == nil {
		page.Elements = []builder.Block{}
	}
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &page.Settings); err != nil {
			return nil, fmt.Errorf("decode settings: %w", err)
		}
	}

	return &page, nil
}

func marshalComposition(page *builder.Page) (elements, settings []byte, err error) {
	if page.Elements == nil {
		page.Elements = []builder.Block{}
	}
	elements, err = json.Marshal(page.Elements)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal elements: %w", err)
	}
	settings, err = json.Marshal(page.Settings)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal settings: %w", err)
	}
	return elements, settings, nil
}
