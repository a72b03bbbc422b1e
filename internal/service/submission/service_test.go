package submission

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pageforge/internal/domain"
	"pageforge/internal/domain/models"
	"pageforge/internal/domain/models/builder"
	"pageforge/internal/domain/repositories"
	builderSvc "pageforge/internal/domain/services/builder"
)

type fakeSubmissionRepo struct {
	mu      sync.Mutex
	created []*models.Submission
	failing bool
}

func (f *fakeSubmissionRepo) Create(_ context.Context, sub *models.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errors.New("insert failed")
	}
	sub.ID = "sub-1"
	f.created = append(f.created, sub)
	return nil
}

func (f *fakeSubmissionRepo) List(context.Context, string) ([]models.Submission, error) {
	return nil, nil
}

type fakePageRepo struct {
	repositories.PageRepository
	page *builder.Page
}

func (f *fakePageRepo) GetByID(context.Context, string) (*builder.Page, error) {
	if f.page == nil {
		return nil, domain.ErrNotFound
	}
	return f.page, nil
}

type recordingSink struct {
	mu       sync.Mutex
	appended []*models.Submission
	notified []string
	fail     bool
}

func (r *recordingSink) Append(_ context.Context, sub *models.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("sheet unavailable")
	}
	r.appended = append(r.appended, sub)
	return nil
}

func (r *recordingSink) Notify(_ context.Context, _ *models.Submission, pageTitle string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("webhook unavailable")
	}
	r.notified = append(r.notified, pageTitle)
	return nil
}

const testPageID = "a3bb189e-8bf9-4888-9912-ace4e6543002"

func TestSubmitStoresAndFansOut(t *testing.T) {
	repo := &fakeSubmissionRepo{}
	sink := &recordingSink{}
	pages := &fakePageRepo{page: &builder.Page{
		ID:       testPageID,
		Title:    "Fallback title",
		Settings: builder.PageSettings{Title: "Spring launch"},
	}}

	svc := NewSubmissionService(repo, pages, sink, sink, slog.Default()).(*submissionService)

	sub, err := svc.Submit(context.Background(), &builderSvc.SubmitRequest{
		PageID: testPageID,
		Name:   "Dana",
		Email:  "dana@example.com",
		Data:   map[string]interface{}{"name": "Dana"},
	})
	require.NoError(t, err)
	assert.Equal(t, "sub-1", sub.ID)

	svc.Flush()
	assert.Len(t, sink.appended, 1)
	require.Len(t, sink.notified, 1)
	assert.Equal(t, "Spring launch", sink.notified[0])
}

func TestSubmitSinkFailureDoesNotFailSubmission(t *testing.T) {
	repo := &fakeSubmissionRepo{}
	sink := &recordingSink{fail: true}
	svc := NewSubmissionService(repo, &fakePageRepo{}, sink, sink, slog.Default()).(*submissionService)

	_, err := svc.Submit(context.Background(), &builderSvc.SubmitRequest{PageID: testPageID})
	require.NoError(t, err)
	svc.Flush()
	assert.Len(t, repo.created, 1)
}

func TestSubmitValidation(t *testing.T) {
	svc := NewSubmissionService(&fakeSubmissionRepo{}, &fakePageRepo{}, nil, nil, slog.Default())

	_, err := svc.Submit(context.Background(), &builderSvc.SubmitRequest{PageID: ""})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Submit(context.Background(), &builderSvc.SubmitRequest{
		PageID: testPageID,
		Email:  "not-an-email",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSubmitStoreFailureSkipsHooks(t *testing.T) {
	repo := &fakeSubmissionRepo{failing: true}
	sink := &recordingSink{}
	svc := NewSubmissionService(repo, &fakePageRepo{}, sink, sink, slog.Default()).(*submissionService)

	_, err := svc.Submit(context.Background(), &builderSvc.SubmitRequest{PageID: testPageID})
	require.Error(t, err)
	svc.Flush()
	assert.Empty(t, sink.appended)
	assert.Empty(t, sink.notified)
}
