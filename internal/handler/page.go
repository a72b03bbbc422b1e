package handler

import (
	"log/slog"
	"net/http"

	builderSvc "pageforge/internal/domain/services/builder"
	"pageforge/internal/httputil"
	"pageforge/internal/service/widget"
)

// PageHandler handles HTTP requests for page compositions
type PageHandler struct {
	pageService builderSvc.PageService
	scheduler   *widget.Scheduler
	logger      *slog.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(pageService builderSvc.PageService, scheduler *widget.Scheduler, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		pageService: pageService,
		scheduler:   scheduler,
		logger:      logger,
	}
}

// CreatePage stores a new composition and allocates its slug
func (h *PageHandler) CreatePage(w http.ResponseWriter, r *http.Request) {
	var req builderSvc.SavePageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		return
	}

	page, err := h.pageService.CreatePage(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, page)
}

// GetPage returns a composition for editing
func (h *PageHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Page ID is required")
		return
	}

	page, err := h.pageService.GetPage(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

// ListPages lists pages newest-first. ?templates=true restricts the
// listing to saved templates.
func (h *PageHandler) ListPages(w http.ResponseWriter, r *http.Request) {
	templatesOnly := r.URL.Query().Get("templates") == "true"

	pages, err := h.pageService.ListPages(r.Context(), templatesOnly)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, pages)
}

// UpdatePage replaces the stored composition with the posted working copy
func (h *PageHandler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Page ID is required")
		return
	}

	var req builderSvc.SavePageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		return
	}

	page, err := h.pageService.UpdatePage(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

// UpdateNickname sets or clears the page's free-form label. A JSON
// null clears it.
func (h *PageHandler) UpdateNickname(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Page ID is required")
		return
	}

	var req struct {
		Nickname httputil.OptionalString `json:"nickname"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		return
	}
	if !req.Nickname.Present {
		httputil.RespondError(w, http.StatusBadRequest, "nickname field is required")
		return
	}

	nickname := ""
	if req.Nickname.Value != nil {
		nickname = *req.Nickname.Value
	}

	page, err := h.pageService.UpdateNickname(r.Context(), id, nickname)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

// DeletePage removes a page
func (h *PageHandler) DeletePage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Page ID is required")
		return
	}

	if err := h.pageService.DeletePage(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}
	h.scheduler.StopPage(id)

	w.WriteHeader(http.StatusNoContent)
}
