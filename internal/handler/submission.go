package handler

import (
	"log/slog"
	"net/http"
	"strings"

	builderSvc "pageforge/internal/domain/services/builder"
	"pageforge/internal/httputil"
)

// SubmissionHandler handles HTTP requests for form submissions
type SubmissionHandler struct {
	submissionService builderSvc.SubmissionService
	logger            *slog.Logger
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(submissionService builderSvc.SubmissionService, logger *slog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
		logger:            logger,
	}
}

// CreateSubmission accepts one published-form submission. Server
// rendered pages post regular form encoding; API clients post JSON.
func (h *SubmissionHandler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseSubmitRequest(w, r)
	if err != nil {
		return
	}

	submission, err := h.submissionService.Submit(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, submission)
}

// ListSubmissions lists a page's submissions newest-first
func (h *SubmissionHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	pageID := r.URL.Query().Get("page_id")
	if pageID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "page_id query parameter is required")
		return
	}

	submissions, err := h.submissionService.ListSubmissions(r.Context(), pageID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, submissions)
}

func (h *SubmissionHandler) parseSubmitRequest(w http.ResponseWriter, r *http.Request) (*builderSvc.SubmitRequest, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		var req builderSvc.SubmitRequest
		if err := httputil.ParseJSON(w, r, &req); err != nil {
			return nil, err
		}
		return &req, nil
	}

	if err := r.ParseForm(); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid form body")
		return nil, err
	}

	req := &builderSvc.SubmitRequest{
		PageID: r.PostFormValue("page_id"),
		Name:   r.PostFormValue("name"),
		Email:  r.PostFormValue("email"),
		Phone:  r.PostFormValue("phone"),
	}

	// Custom fields the builder added beyond the stock three travel in
	// the free-form data bag.
	for key, values := range r.PostForm {
		switch key {
		case "page_id", "name", "email", "phone":
			continue
		}
		if len(values) == 0 {
			continue
		}
		if req.Data == nil {
			req.Data = make(map[string]interface{})
		}
		req.Data[key] = values[0]
	}

	return req, nil
}
