package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pageforge/internal/domain"
	"pageforge/internal/domain/models"
	"pageforge/internal/domain/models/builder"
	builderSvc "pageforge/internal/domain/services/builder"
	"pageforge/internal/service/widget"
)

// stubPageService answers from a fixed page map and records publish
// and view calls.
type stubPageService struct {
	pages     map[string]*builder.Page
	bySlug    map[string]*builder.Page
	published []string
	views     []string
}

func newStubPageService() *stubPageService {
	return &stubPageService{
		pages:  map[string]*builder.Page{},
		bySlug: map[string]*builder.Page{},
	}
}

func (s *stubPageService) CreatePage(_ context.Context, req *builderSvc.SavePageRequest) (*builder.Page, error) {
	page := &builder.Page{
		ID:       fmt.Sprintf("page-%d", len(s.pages)+1),
		Title:    req.Title,
		Slug:     fmt.Sprintf("new-page-%d", len(s.pages)+1),
		Elements: req.Elements,
	}
	if page.Elements == nil {
		page.Elements = []builder.Block{}
	}
	if req.Settings != nil {
		page.Settings = *req.Settings
	} else {
		page.Settings = builder.DefaultSettings()
	}
	s.pages[page.ID] = page
	return page, nil
}

func (s *stubPageService) GetPage(_ context.Context, id string) (*builder.Page, error) {
	page, ok := s.pages[id]
	if !ok {
		return nil, fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
	}
	return page, nil
}

func (s *stubPageService) ListPages(_ context.Context, templatesOnly bool) ([]builder.Page, error) {
	var out []builder.Page
	for _, p := range s.pages {
		if templatesOnly && !p.IsTemplate {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (s *stubPageService) UpdatePage(_ context.Context, id string, req *builderSvc.SavePageRequest) (*builder.Page, error) {
	page, ok := s.pages[id]
	if !ok {
		return nil, fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
	}
	page.Title = req.Title
	page.Elements = req.Elements
	return page, nil
}

func (s *stubPageService) UpdateNickname(_ context.Context, id, nickname string) (*builder.Page, error) {
	page, ok := s.pages[id]
	if !ok {
		return nil, fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
	}
	page.Nickname = nickname
	return page, nil
}

func (s *stubPageService) DeletePage(_ context.Context, id string) error {
	if _, ok := s.pages[id]; !ok {
		return fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
	}
	delete(s.pages, id)
	return nil
}

func (s *stubPageService) Publish(_ context.Context, id string) (*builderSvc.PublishResult, error) {
	page, ok := s.pages[id]
	if !ok {
		return nil, fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
	}
	s.published = append(s.published, id)
	page.IsPublished = true
	s.bySlug[page.Slug] = page
	return &builderSvc.PublishResult{
		PublishedURL: "https://pages.example.com/r/" + page.Slug,
		Message:      "Page published.",
	}, nil
}

func (s *stubPageService) Unpublish(_ context.Context, id string) error {
	page, ok := s.pages[id]
	if !ok {
		return fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
	}
	page.IsPublished = false
	delete(s.bySlug, page.Slug)
	return nil
}

func (s *stubPageService) GetPublishedPage(_ context.Context, slug string) (*builder.Page, error) {
	page, ok := s.bySlug[slug]
	if !ok {
		return nil, fmt.Errorf("page %s: %w", slug, domain.ErrNotFound)
	}
	return page, nil
}

func (s *stubPageService) RecordView(_ context.Context, slug string) {
	s.views = append(s.views, slug)
}

func (s *stubPageService) SaveAsTemplate(_ context.Context, req *builderSvc.SaveTemplateRequest) (*builder.Page, error) {
	page := &builder.Page{
		ID:           fmt.Sprintf("page-%d", len(s.pages)+1),
		Title:        req.Title,
		IsTemplate:   true,
		TemplateName: req.TemplateName,
		Elements:     req.Elements,
	}
	s.pages[page.ID] = page
	return page, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testRouter registers the handlers under the same patterns the server
// uses so path values resolve.
func testRouter(pages *stubPageService) (*http.ServeMux, *widget.Scheduler) {
	logger := testLogger()
	scheduler := widget.NewScheduler(logger)

	pageHandler := NewPageHandler(pages, scheduler, logger)
	publicHandler := NewPublicHandler(pages, scheduler, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/pages", pageHandler.CreatePage)
	mux.HandleFunc("GET /api/pages/{id}", pageHandler.GetPage)
	mux.HandleFunc("PATCH /api/pages/{id}/nickname", pageHandler.UpdateNickname)
	mux.HandleFunc("POST /api/pages/{id}/publish", pageHandler.PublishPage)
	mux.HandleFunc("GET /r/{slug}", publicHandler.RenderPage)
	return mux, scheduler
}

func TestCreatePageEndpoint(t *testing.T) {
	pages := newStubPageService()
	mux, scheduler := testRouter(pages)
	defer scheduler.Close()

	body := `{"title": "My launch", "elements": [{"id": "h1", "type": "heading", "order": 0, "content": {"text": "Hi", "level": 1}}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/pages", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var page builder.Page
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, "My launch", page.Title)
	assert.NotEmpty(t, page.Slug)
	require.Len(t, page.Elements, 1)
	_, ok := page.Elements[0].Content.(builder.HeadingContent)
	assert.True(t, ok, "content should decode typed")
}

func TestGetPageNotFoundIsProblemJSON(t *testing.T) {
	pages := newStubPageService()
	mux, scheduler := testRouter(pages)
	defer scheduler.Close()

	req := httptest.NewRequest(http.MethodGet, "/api/pages/missing", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
}

func TestUpdateNicknameNullClears(t *testing.T) {
	pages := newStubPageService()
	page, _ := pages.CreatePage(context.Background(), &builderSvc.SavePageRequest{Title: "x"})
	page.Nickname = "old name"

	mux, scheduler := testRouter(pages)
	defer scheduler.Close()

	req := httptest.NewRequest(http.MethodPatch, "/api/pages/"+page.ID+"/nickname", strings.NewReader(`{"nickname": null}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, pages.pages[page.ID].Nickname)

	// Absent field is a bad request, not an implicit clear.
	req = httptest.NewRequest(http.MethodPatch, "/api/pages/"+page.ID+"/nickname", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPublishEndpoint(t *testing.T) {
	pages := newStubPageService()
	page, _ := pages.CreatePage(context.Background(), &builderSvc.SavePageRequest{Title: "launch"})

	mux, scheduler := testRouter(pages)
	defer scheduler.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/pages/"+page.ID+"/publish", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result builderSvc.PublishResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "https://pages.example.com/r/"+page.Slug, result.PublishedURL)
}

func TestRenderPageEndpoint(t *testing.T) {
	pages := newStubPageService()
	page, _ := pages.CreatePage(context.Background(), &builderSvc.SavePageRequest{
		Title: "Launch",
		Elements: []builder.Block{
			{ID: "h1", Type: builder.BlockTypeHeading, Content: builder.HeadingContent{Text: "Welcome", Level: 1}},
			{ID: "f1", Type: builder.BlockTypeForm, Order: 1, Content: builder.FormContent{
				Fields: []builder.FormField{{ID: "e", Type: "email", Label: "Email", Required: true}},
			}},
		},
	})
	_, err := pages.Publish(context.Background(), page.ID)
	require.NoError(t, err)

	mux, scheduler := testRouter(pages)
	defer scheduler.Close()

	req := httptest.NewRequest(http.MethodGet, "/r/"+page.Slug, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	html := rec.Body.String()
	assert.Contains(t, html, "Welcome")
	assert.Contains(t, html, `action="/api/submissions"`)
	assert.Contains(t, html, page.ID, "form carries the page id")

	// The visit was counted.
	assert.Equal(t, []string{page.Slug}, pages.views)
}

func TestRenderUnknownSlugIs404(t *testing.T) {
	pages := newStubPageService()
	mux, scheduler := testRouter(pages)
	defer scheduler.Close()

	req := httptest.NewRequest(http.MethodGet, "/r/no-such-page", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, pages.views)
}

// stubSubmissionService records what reached it.
type stubSubmissionService struct {
	submitted []*builderSvc.SubmitRequest
}

func (s *stubSubmissionService) Submit(_ context.Context, req *builderSvc.SubmitRequest) (*models.Submission, error) {
	s.submitted = append(s.submitted, req)
	return &models.Submission{
		ID:     "sub-1",
		PageID: req.PageID,
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Data:   req.Data,
	}, nil
}

func (s *stubSubmissionService) ListSubmissions(context.Context, string) ([]models.Submission, error) {
	return nil, nil
}

func TestCreateSubmissionAcceptsJSON(t *testing.T) {
	svc := &stubSubmissionService{}
	h := NewSubmissionHandler(svc, testLogger())

	body := `{"page_id": "p1", "name": "Grace", "email": "grace@example.com", "data": {"company": "Acme"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/submissions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.CreateSubmission(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, svc.submitted, 1)
	assert.Equal(t, "Grace", svc.submitted[0].Name)
	assert.Equal(t, "Acme", svc.submitted[0].Data["company"])
}

func TestCreateSubmissionAcceptsFormEncoding(t *testing.T) {
	svc := &stubSubmissionService{}
	h := NewSubmissionHandler(svc, testLogger())

	form := url.Values{}
	form.Set("page_id", "p1")
	form.Set("name", "Grace")
	form.Set("email", "grace@example.com")
	form.Set("phone", "010-1234-5678")
	form.Set("How did you hear about us?", "A friend")

	req := httptest.NewRequest(http.MethodPost, "/api/submissions", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	h.CreateSubmission(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, svc.submitted, 1)
	got := svc.submitted[0]
	assert.Equal(t, "p1", got.PageID)
	assert.Equal(t, "010-1234-5678", got.Phone)
	// Non-stock fields travel in the data bag.
	assert.Equal(t, "A friend", got.Data["How did you hear about us?"])
}
