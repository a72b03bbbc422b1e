package submission

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"pageforge/internal/config"
	"pageforge/internal/domain"
	"pageforge/internal/domain/models"
	"pageforge/internal/domain/repositories"
	builderSvc "pageforge/internal/domain/services/builder"
)

// submissionService implements the SubmissionService interface
type submissionService struct {
	submissionRepo repositories.SubmissionRepository
	pageRepo       repositories.PageRepository
	sheets         SheetAppender
	notifier       Notifier
	logger         *slog.Logger

	hooks sync.WaitGroup
}

// NewSubmissionService creates a new submission service. sheets and
// notifier may be nil when the corresponding sink is not configured.
func NewSubmissionService(
	submissionRepo repositories.SubmissionRepository,
	pageRepo repositories.PageRepository,
	sheets SheetAppender,
	notifier Notifier,
	logger *slog.Logger,
) builderSvc.SubmissionService {
	return &submissionService{
		submissionRepo: submissionRepo,
		pageRepo:       pageRepo,
		sheets:         sheets,
		notifier:       notifier,
		logger:         logger,
	}
}

// Submit validates and stores one form submission, then fans it out to
// the secondary sinks in the background. Sink failures are logged and
// swallowed: the visitor's submission already succeeded.
func (s *submissionService) Submit(ctx context.Context, req *builderSvc.SubmitRequest) (*models.Submission, error) {
	if err := s.validateSubmitRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	sub := &models.Submission{
		PageID: req.PageID,
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Data:   req.Data,
	}
	if sub.Data == nil {
		sub.Data = map[string]interface{}{}
	}

	if err := s.submissionRepo.Create(ctx, sub); err != nil {
		return nil, err
	}

	s.logger.Info("submission stored",
		"id", sub.ID,
		"page_id", sub.PageID,
	)

	pageTitle := s.lookupPageTitle(ctx, req.PageID)
	s.dispatchHooks(sub, pageTitle)

	return sub, nil
}

// ListSubmissions returns a page's submissions newest-first
func (s *submissionService) ListSubmissions(ctx context.Context, pageID string) ([]models.Submission, error) {
	return s.submissionRepo.List(ctx, pageID)
}

// Flush blocks until every in-flight sink dispatch finishes. Used on
// shutdown and in tests.
func (s *submissionService) Flush() {
	s.hooks.Wait()
}

// dispatchHooks runs the secondary sinks detached from the request:
// the response must not wait on a spreadsheet or a webhook.
func (s *submissionService) dispatchHooks(sub *models.Submission, pageTitle string) {
	s.hooks.Add(1)
	go func() {
		defer s.hooks.Done()

		ctx, cancel := context.WithTimeout(context.Background(), config.SubmissionHookTimeout)
		defer cancel()

		if s.sheets != nil {
			if err := s.sheets.Append(ctx, sub); err != nil {
				s.logger.Warn("sheet export failed",
					"submission_id", sub.ID,
					"error", err,
				)
			}
		}

		if s.notifier != nil {
			if err := s.notifier.Notify(ctx, sub, pageTitle); err != nil {
				s.logger.Warn("submission notification failed",
					"submission_id", sub.ID,
					"error", err,
				)
			}
		}
	}()
}

// lookupPageTitle resolves the page title for notifications, falling
// back to a generic label when the page cannot be read.
func (s *submissionService) lookupPageTitle(ctx context.Context, pageID string) string {
	page, err := s.pageRepo.GetByID(ctx, pageID)
	if err != nil {
		s.logger.Warn("page title lookup failed", "page_id", pageID, "error", err)
		return "Landing page"
	}
	if page.Settings.Title != "" {
		return page.Settings.Title
	}
	if page.Title != "" {
		return page.Title
	}
	return "Landing page"
}

// validateSubmitRequest validates a form submission
func (s *submissionService) validateSubmitRequest(req *builderSvc.SubmitRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.PageID, validation.Required, is.UUIDv4),
		validation.Field(&req.Email, is.EmailFormat),
		validation.Field(&req.Name, validation.Length(0, 255)),
		validation.Field(&req.Phone, validation.Length(0, 50)),
	)
}
