package handler

import (
	"log/slog"
	"net/http"

	"pageforge/internal/domain/models/builder"
	builderSvc "pageforge/internal/domain/services/builder"
	"pageforge/internal/httputil"
	serviceBuilder "pageforge/internal/service/builder"
)

// TemplateHandler handles starter templates and user-saved templates
type TemplateHandler struct {
	pageService builderSvc.PageService
	starters    *serviceBuilder.StarterRegistry
	logger      *slog.Logger
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(pageService builderSvc.PageService, starters *serviceBuilder.StarterRegistry, logger *slog.Logger) *TemplateHandler {
	return &TemplateHandler{
		pageService: pageService,
		starters:    starters,
		logger:      logger,
	}
}

// ListTemplates returns the built-in starters alongside the user's
// saved templates.
func (h *TemplateHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	saved, err := h.pageService.ListPages(r.Context(), true)
	if err != nil {
		handleError(w, err)
		return
	}
	if saved == nil {
		saved = []builder.Page{}
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"starters": h.starters.List(),
		"saved":    saved,
	})
}

// CreateFromStarter composes a new page from a built-in starter
func (h *TemplateHandler) CreateFromStarter(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	starter, ok := h.starters.Get(key)
	if !ok {
		httputil.RespondError(w, http.StatusNotFound, "Unknown template: "+key)
		return
	}

	title, elements, settings, err := starter.Compose()
	if err != nil {
		h.logger.Error("starter template compose failed", "template", key, "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	page, err := h.pageService.CreatePage(r.Context(), &builderSvc.SavePageRequest{
		Title:    title,
		Elements: elements,
		Settings: &settings,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	h.logger.Info("page created from starter", "template", key, "page_id", page.ID)
	httputil.RespondJSON(w, http.StatusCreated, page)
}

// SaveTemplate stores a composition as a reusable template
func (h *TemplateHandler) SaveTemplate(w http.ResponseWriter, r *http.Request) {
	var req builderSvc.SaveTemplateRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		return
	}

	page, err := h.pageService.SaveAsTemplate(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, page)
}
