package handler

import (
	"log/slog"
	"net/http"

	builderSvc "pageforge/internal/domain/services/builder"
	"pageforge/internal/httputil"
	"pageforge/internal/service/render"
	"pageforge/internal/service/widget"
)

// PublicHandler serves the published surface: slug resolution, view
// counting and the server-rendered page itself. None of its routes
// require authentication.
type PublicHandler struct {
	pageService builderSvc.PageService
	scheduler   *widget.Scheduler
	logger      *slog.Logger
}

// NewPublicHandler creates a new public handler
func NewPublicHandler(pageService builderSvc.PageService, scheduler *widget.Scheduler, logger *slog.Logger) *PublicHandler {
	return &PublicHandler{
		pageService: pageService,
		scheduler:   scheduler,
		logger:      logger,
	}
}

// GetBySlug resolves a public slug to the published composition
func (h *PublicHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Slug is required")
		return
	}

	page, err := h.pageService.GetPublishedPage(r.Context(), slug)
	if err != nil {
		handleError(w, err)
		return
	}

	// Live widgets keep ticking while the page has an audience.
	h.scheduler.EnsurePage(page)

	httputil.RespondJSON(w, http.StatusOK, page)
}

// RecordView bumps the view counter. Always replies 204: view counting
// is best effort and a miss is not the visitor's problem.
func (h *PublicHandler) RecordView(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Slug is required")
		return
	}

	h.pageService.RecordView(r.Context(), slug)
	w.WriteHeader(http.StatusNoContent)
}

// RenderPage serves the published page as a full HTML document
func (h *PublicHandler) RenderPage(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		http.NotFound(w, r)
		return
	}

	page, err := h.pageService.GetPublishedPage(r.Context(), slug)
	if err != nil {
		h.logger.Debug("published page lookup failed", "slug", slug, "error", err)
		http.NotFound(w, r)
		return
	}

	h.scheduler.EnsurePage(page)
	h.pageService.RecordView(r.Context(), slug)

	renderer := render.NewRenderer(render.ModePublished, func(blockID string) (widget.Snapshot, bool) {
		return h.scheduler.Snapshot(page.ID, blockID)
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(renderer.RenderPage(page))); err != nil {
		h.logger.Debug("render write failed", "slug", slug, "error", err)
	}
}
