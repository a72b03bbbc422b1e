package builder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pageforge/internal/domain"
	"pageforge/internal/domain/models/builder"
	"pageforge/internal/domain/repositories"
	builderSvc "pageforge/internal/domain/services/builder"
	"pageforge/internal/slug"
)

// memPageRepo is an in-memory PageRepository backing the service tests.
type memPageRepo struct {
	pages   map[string]*builder.Page
	nextID  int
	failOn  map[string]bool // slugs that report a collision on Create
	updates []repositories.PageUpdate
}

func newMemPageRepo() *memPageRepo {
	return &memPageRepo{pages: map[string]*builder.Page{}, failOn: map[string]bool{}}
}

func (m *memPageRepo) Create(_ context.Context, page *builder.Page) error {
	if m.failOn[page.Slug] {
		return &domain.ConflictError{Message: "slug already in use", ResourceType: "page", ResourceID: "existing"}
	}
	for _, p := range m.pages {
		if p.Slug == page.Slug {
			return &domain.ConflictError{Message: "slug already in use", ResourceType: "page", ResourceID: p.ID}
		}
	}
	m.nextID++
	page.ID = fmt.Sprintf("page-%d", m.nextID)
	page.CreatedAt = time.Now()
	page.UpdatedAt = page.CreatedAt
	stored := *page
	m.pages[page.ID] = &stored
	return nil
}

func (m *memPageRepo) GetByID(_ context.Context, id string) (*builder.Page, error) {
	p, ok := m.pages[id]
	if !ok {
		return nil, fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
	}
	out := *p
	return &out, nil
}

func (m *memPageRepo) GetByPublicSlug(_ context.Context, s string) (*builder.Page, error) {
	for _, p := range m.pages {
		if p.IsPublished && (p.Slug == s || p.PublishedURL == s) {
			out := *p
			return &out, nil
		}
	}
	return nil, fmt.Errorf("page %s: %w", s, domain.ErrNotFound)
}

func (m *memPageRepo) List(_ context.Context, filter repositories.PageFilter) ([]builder.Page, error) {
	var out []builder.Page
	for _, p := range m.pages {
		if filter.TemplatesOnly && !p.IsTemplate {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (m *memPageRepo) Update(_ context.Context, id string, update repositories.PageUpdate) (*builder.Page, error) {
	p, ok := m.pages[id]
	if !ok {
		return nil, fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
	}
	m.updates = append(m.updates, update)
	if update.Title != nil {
		p.Title = *update.Title
	}
	if update.Nickname != nil {
		p.Nickname = *update.Nickname
	}
	if update.Elements != nil {
		p.Elements = update.Elements
	}
	if update.Settings != nil {
		p.Settings = *update.Settings
	}
	out := *p
	return &out, nil
}

func (m *memPageRepo) SetPublished(_ context.Context, id string, state repositories.PublishState) (*builder.Page, error) {
	p, ok := m.pages[id]
	if !ok {
		return nil, fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
	}
	p.IsPublished = state.IsPublished
	if state.IsPublished {
		p.PublishedURL = state.PublishedURL
		p.PublishedAt = state.PublishedAt
	} else {
		p.PublishedAt = nil
	}
	out := *p
	return &out, nil
}

func (m *memPageRepo) IncrementViews(_ context.Context, id string) error {
	p, ok := m.pages[id]
	if !ok {
		return fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
	}
	p.PageViews++
	return nil
}

func (m *memPageRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.pages[id]; !ok {
		return fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
	}
	delete(m.pages, id)
	return nil
}

// passthroughTx runs the function without a real transaction.
type passthroughTx struct{}

func (passthroughTx) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

func newTestService(repo *memPageRepo, baseURL string) builderSvc.PageService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPageService(repo, passthroughTx{}, slug.NewGenerator(nil), baseURL, logger)
}

func TestCreatePageAllocatesSlugAndReindexes(t *testing.T) {
	repo := newMemPageRepo()
	svc := newTestService(repo, "https://pages.example.com")

	page, err := svc.CreatePage(context.Background(), &builderSvc.SavePageRequest{
		Title: "My launch",
		Elements: []builder.Block{
			{ID: "b", Type: builder.BlockTypeText, Order: 9},
			{ID: "a", Type: builder.BlockTypeHeading, Order: 9},
		},
	})
	require.NoError(t, err)

	assert.True(t, slug.IsValid(page.Slug), "slug %q", page.Slug)
	require.Len(t, page.Elements, 2)
	assert.Equal(t, 0, page.Elements[0].Order)
	assert.Equal(t, 1, page.Elements[1].Order)
	assert.False(t, page.IsPublished)
}

func TestCreatePageRetriesOnSlugCollision(t *testing.T) {
	// Replaying the generator's seed tells us which slugs it will
	// draw; marking the first ones taken forces the retry path.
	preview := slug.NewGenerator(rand.NewSource(42))
	first := preview.Generate()
	second := preview.Generate()

	repo := newMemPageRepo()
	repo.failOn[first] = true

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewPageService(repo, passthroughTx{}, slug.NewGenerator(rand.NewSource(42)), "", logger)

	page, err := svc.CreatePage(context.Background(), &builderSvc.SavePageRequest{Title: "launch"})
	require.NoError(t, err)
	assert.Equal(t, second, page.Slug)
}

func TestGetPageRestoresStoredOrder(t *testing.T) {
	repo := newMemPageRepo()
	svc := newTestService(repo, "")

	page, err := svc.CreatePage(context.Background(), &builderSvc.SavePageRequest{Title: "launch"})
	require.NoError(t, err)

	// Simulate a row written before reindexing was enforced: gapped,
	// duplicated order values in stored order.
	repo.pages[page.ID].Elements = []builder.Block{
		{ID: "c", Type: builder.BlockTypeButton, Order: 7},
		{ID: "a", Type: builder.BlockTypeHeading, Order: 2},
		{ID: "b", Type: builder.BlockTypeText, Order: 2},
	}

	loaded, err := svc.GetPage(context.Background(), page.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Elements, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{
		loaded.Elements[0].ID, loaded.Elements[1].ID, loaded.Elements[2].ID,
	})
	for i, b := range loaded.Elements {
		assert.Equal(t, i, b.Order)
	}
}

func TestCreatePageRejectsOverlongTitle(t *testing.T) {
	repo := newMemPageRepo()
	svc := newTestService(repo, "")

	_, err := svc.CreatePage(context.Background(), &builderSvc.SavePageRequest{
		Title: strings.Repeat("x", 300),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPublishMintsURLOnce(t *testing.T) {
	repo := newMemPageRepo()
	svc := newTestService(repo, "https://pages.example.com")

	page, err := svc.CreatePage(context.Background(), &builderSvc.SavePageRequest{Title: "launch"})
	require.NoError(t, err)

	first, err := svc.Publish(context.Background(), page.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://pages.example.com/r/"+page.Slug, first.PublishedURL)
	assert.NotEmpty(t, first.PublishedAt)

	// Publishing again reports the same address and does not touch the
	// publication timestamp.
	again, err := svc.Publish(context.Background(), page.ID)
	require.NoError(t, err)
	assert.Equal(t, first.PublishedURL, again.PublishedURL)
	assert.Empty(t, again.PublishedAt)
	assert.Equal(t, "Page is already published.", again.Message)
}

func TestRepublishReusesOriginalAddress(t *testing.T) {
	repo := newMemPageRepo()
	svc := newTestService(repo, "")

	page, err := svc.CreatePage(context.Background(), &builderSvc.SavePageRequest{Title: "launch"})
	require.NoError(t, err)

	first, err := svc.Publish(context.Background(), page.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Unpublish(context.Background(), page.ID))

	_, err = svc.GetPublishedPage(context.Background(), page.Slug)
	assert.ErrorIs(t, err, domain.ErrNotFound, "unpublished page should be invisible")

	second, err := svc.Publish(context.Background(), page.ID)
	require.NoError(t, err)
	assert.Equal(t, first.PublishedURL, second.PublishedURL)
}

func TestPublishLegacyPageWithoutSlug(t *testing.T) {
	repo := newMemPageRepo()
	svc := newTestService(repo, "")

	page, err := svc.CreatePage(context.Background(), &builderSvc.SavePageRequest{Title: "old"})
	require.NoError(t, err)
	repo.pages[page.ID].Slug = ""

	result, err := svc.Publish(context.Background(), page.ID)
	require.NoError(t, err)
	assert.Contains(t, result.PublishedURL, "/r/page-")
}

func TestUpdateNickname(t *testing.T) {
	repo := newMemPageRepo()
	svc := newTestService(repo, "")

	page, err := svc.CreatePage(context.Background(), &builderSvc.SavePageRequest{Title: "launch"})
	require.NoError(t, err)

	updated, err := svc.UpdateNickname(context.Background(), page.ID, "  Spring campaign  ")
	require.NoError(t, err)
	assert.Equal(t, "Spring campaign", updated.Nickname)

	// Clearing sends an explicit empty value through to storage.
	updated, err = svc.UpdateNickname(context.Background(), page.ID, "")
	require.NoError(t, err)
	assert.Empty(t, updated.Nickname)

	_, err = svc.UpdateNickname(context.Background(), page.ID, strings.Repeat("n", 300))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRecordViewSwallowsFailures(t *testing.T) {
	repo := newMemPageRepo()
	svc := newTestService(repo, "")

	page, err := svc.CreatePage(context.Background(), &builderSvc.SavePageRequest{Title: "launch"})
	require.NoError(t, err)
	_, err = svc.Publish(context.Background(), page.ID)
	require.NoError(t, err)

	svc.RecordView(context.Background(), page.Slug)
	svc.RecordView(context.Background(), "no-such-slug")

	stored, err := svc.GetPage(context.Background(), page.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.PageViews)
}

func TestSaveAsTemplate(t *testing.T) {
	repo := newMemPageRepo()
	svc := newTestService(repo, "")

	page, err := svc.SaveAsTemplate(context.Background(), &builderSvc.SaveTemplateRequest{
		TemplateName: "Lead capture",
		Elements:     []builder.Block{{ID: "a", Type: builder.BlockTypeForm}},
	})
	require.NoError(t, err)

	assert.True(t, page.IsTemplate)
	assert.Equal(t, "Lead capture", page.TemplateName)
	assert.Equal(t, "Lead capture", page.Title, "title falls back to the template name")
	assert.True(t, strings.HasPrefix(page.Slug, "template-"))

	_, err = svc.SaveAsTemplate(context.Background(), &builderSvc.SaveTemplateRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
