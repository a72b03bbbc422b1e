package builder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"pageforge/internal/config"
	"pageforge/internal/domain"
	"pageforge/internal/domain/models/builder"
	"pageforge/internal/domain/repositories"
	builderSvc "pageforge/internal/domain/services/builder"
	"pageforge/internal/slug"
)

// pageService implements the PageService interface
type pageService struct {
	pageRepo  repositories.PageRepository
	txManager repositories.TransactionManager
	slugs     *slug.Generator
	baseURL   string
	logger    *slog.Logger
	now       func() time.Time
}

// NewPageService creates a new page service
func NewPageService(
	pageRepo repositories.PageRepository,
	txManager repositories.TransactionManager,
	slugs *slug.Generator,
	baseURL string,
	logger *slog.Logger,
) builderSvc.PageService {
	return &pageService{
		pageRepo:  pageRepo,
		txManager: txManager,
		slugs:     slugs,
		baseURL:   strings.TrimRight(baseURL, "/"),
		logger:    logger,
		now:       time.Now,
	}
}

// CreatePage stores a new composition under a freshly allocated slug.
func (s *pageService) CreatePage(ctx context.Context, req *builderSvc.SavePageRequest) (*builder.Page, error) {
	if err := s.validateSaveRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	page := &builder.Page{
		Title:    strings.TrimSpace(req.Title),
		Nickname: strings.TrimSpace(req.Nickname),
		Elements: normalizeElements(req.Elements),
		Settings: settingsOrDefault(req.Settings),
	}
	if page.Title == "" {
		page.Title = page.Settings.Title
	}

	// Slug collisions retry with a fresh draw. The slug space is large
	// enough that exhausting the attempts means something else is wrong.
	var lastErr error
	for attempt := 0; attempt < config.SlugAllocationAttempts; attempt++ {
		page.Slug = s.slugs.Generate()
		if err := s.pageRepo.Create(ctx, page); err != nil {
			var conflict *domain.ConflictError
			if errors.As(err, &conflict) || errors.Is(err, domain.ErrConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}
		lastErr = nil
		break
	}
	if lastErr != nil {
		return nil, fmt.Errorf("allocate slug: %w", lastErr)
	}

	s.logger.Info("page created",
		"id", page.ID,
		"slug", page.Slug,
		"blocks", len(page.Elements),
	)

	return page, nil
}

// GetPage retrieves a composition for editing
func (s *pageService) GetPage(ctx context.Context, id string) (*builder.Page, error) {
	page, err := s.pageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return restoreOrder(page), nil
}

// ListPages lists pages newest-first
func (s *pageService) ListPages(ctx context.Context, templatesOnly bool) ([]builder.Page, error) {
	return s.pageRepo.List(ctx, repositories.PageFilter{TemplatesOnly: templatesOnly})
}

// UpdatePage replaces the stored composition with the working copy.
// The slug never changes on save.
func (s *pageService) UpdatePage(ctx context.Context, id string, req *builderSvc.SavePageRequest) (*builder.Page, error) {
	if err := s.validateSaveRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	title := strings.TrimSpace(req.Title)
	update := repositories.PageUpdate{
		Elements: normalizeElements(req.Elements),
		Settings: req.Settings,
	}
	if title != "" {
		update.Title = &title
	}
	if req.Nickname != "" {
		nickname := strings.TrimSpace(req.Nickname)
		update.Nickname = &nickname
	}

	page, err := s.pageRepo.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.logger.Info("page saved",
		"id", page.ID,
		"blocks", len(page.Elements),
	)

	return page, nil
}

// UpdateNickname sets the page's free-form label
func (s *pageService) UpdateNickname(ctx context.Context, id, nickname string) (*builder.Page, error) {
	nickname = strings.TrimSpace(nickname)
	if err := validation.Validate(nickname, validation.Length(0, config.MaxNicknameLength)); err != nil {
		return nil, fmt.Errorf("%w: nickname: %v", domain.ErrValidation, err)
	}

	return s.pageRepo.Update(ctx, id, repositories.PageUpdate{Nickname: &nickname})
}

// DeletePage removes a page and its submissions
func (s *pageService) DeletePage(ctx context.Context, id string) error {
	if err := s.pageRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("page deleted", "id", id)
	return nil
}

// Publish makes the page publicly reachable. Calling it on an already
// published page returns the existing URL without touching
// published_at. The read and the transition share a transaction so two
// concurrent publishes cannot both mint an address.
func (s *pageService) Publish(ctx context.Context, id string) (*builderSvc.PublishResult, error) {
	var result *builderSvc.PublishResult

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		page, err := s.pageRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if page.IsPublished && page.PublishedURL != "" {
			result = &builderSvc.PublishResult{
				PublishedURL: s.publicURL(page.PublishedURL),
				Message:      "Page is already published.",
			}
			return nil
		}

		publishedURL := page.PublishedURL
		if publishedURL == "" {
			publishedURL = page.Slug
		}
		if publishedURL == "" {
			// Legacy rows without a slug get an address derived from
			// the page id and the current time.
			publishedURL = fmt.Sprintf("page-%s-%s",
				shortID(page.ID), strconv.FormatInt(s.now().UnixMilli(), 36))
		}

		now := s.now()
		if _, err := s.pageRepo.SetPublished(ctx, id, repositories.PublishState{
			IsPublished:  true,
			PublishedURL: publishedURL,
			PublishedAt:  &now,
		}); err != nil {
			return err
		}

		result = &builderSvc.PublishResult{
			PublishedURL: s.publicURL(publishedURL),
			PublishedAt:  now.UTC().Format(time.RFC3339),
			Message:      "Page published.",
		}

		s.logger.Info("page published",
			"id", id,
			"published_url", publishedURL,
		)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Unpublish withdraws the page from the public surface. The stored
// published URL survives so a later re-publish lands on the same
// address.
func (s *pageService) Unpublish(ctx context.Context, id string) error {
	if _, err := s.pageRepo.SetPublished(ctx, id, repositories.PublishState{IsPublished: false}); err != nil {
		return err
	}

	s.logger.Info("page unpublished", "id", id)
	return nil
}

// GetPublishedPage resolves a public slug to a published page
func (s *pageService) GetPublishedPage(ctx context.Context, slug string) (*builder.Page, error) {
	page, err := s.pageRepo.GetByPublicSlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return restoreOrder(page), nil
}

// RecordView bumps the view counter for a published page. Best effort:
// a counter failure must never take down a page view, so errors are
// logged and swallowed.
func (s *pageService) RecordView(ctx context.Context, slug string) {
	page, err := s.pageRepo.GetByPublicSlug(ctx, slug)
	if err != nil {
		s.logger.Warn("view count lookup failed", "slug", slug, "error", err)
		return
	}

	if err := s.pageRepo.IncrementViews(ctx, page.ID); err != nil {
		s.logger.Warn("view count update failed", "page_id", page.ID, "error", err)
	}
}

// SaveAsTemplate stores the given composition as a reusable template.
// Templates get a synthetic slug outside the public namespace shapes.
func (s *pageService) SaveAsTemplate(ctx context.Context, req *builderSvc.SaveTemplateRequest) (*builder.Page, error) {
	if err := s.validateTemplateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	page := &builder.Page{
		Title:               strings.TrimSpace(req.Title),
		Slug:                fmt.Sprintf("template-%d", s.now().UnixNano()),
		Elements:            normalizeElements(req.Elements),
		Settings:            settingsOrDefault(req.Settings),
		IsTemplate:          true,
		TemplateName:        strings.TrimSpace(req.TemplateName),
		TemplateDescription: strings.TrimSpace(req.TemplateDescription),
	}
	if page.Title == "" {
		page.Title = page.TemplateName
	}

	if err := s.pageRepo.Create(ctx, page); err != nil {
		return nil, err
	}

	s.logger.Info("template saved",
		"id", page.ID,
		"template_name", page.TemplateName,
	)

	return page, nil
}

func (s *pageService) publicURL(publishedURL string) string {
	return s.baseURL + "/r/" + publishedURL
}

// validateSaveRequest validates a create or update page request
func (s *pageService) validateSaveRequest(req *builderSvc.SavePageRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Length(0, config.MaxPageTitleLength)),
		validation.Field(&req.Nickname, validation.Length(0, config.MaxNicknameLength)),
	)
}

// validateTemplateRequest validates a save-as-template request
func (s *pageService) validateTemplateRequest(req *builderSvc.SaveTemplateRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.TemplateName,
			validation.Required,
			validation.Length(1, config.MaxTemplateNameLength),
		),
		validation.Field(&req.Title, validation.Length(0, config.MaxPageTitleLength)),
	)
}

// normalizeElements reindexes the block list so stored order always
// equals position, whatever the client sent.
func normalizeElements(elements []builder.Block) []builder.Block {
	if elements == nil {
		return []builder.Block{}
	}
	for i := range elements {
		elements[i].Order = i
	}
	return elements
}

// restoreOrder re-sorts loaded block lists through a working copy, so
// rows with stale or duplicate order values come back with order equal
// to position.
func restoreOrder(page *builder.Page) *builder.Page {
	page.Elements = sortedBlocks(page.Elements)
	page.Settings.BusinessInfo.Elements = sortedBlocks(page.Settings.BusinessInfo.Elements)
	return page
}

func sortedBlocks(blocks []builder.Block) []builder.Block {
	if len(blocks) < 2 {
		return blocks
	}
	return builder.NewComposition(blocks, nil).Blocks()
}

func settingsOrDefault(settings *builder.PageSettings) builder.PageSettings {
	if settings == nil {
		return builder.DefaultSettings()
	}
	out := *settings
	if out.BusinessInfo.Elements == nil {
		out.BusinessInfo.Elements = []builder.Block{}
	}
	return out
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
