package handler

import (
	"net/http"

	"pageforge/internal/httputil"
)

// PublishPage makes a page publicly reachable. Publishing an already
// published page is a no-op that reports the existing address.
func (h *PageHandler) PublishPage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Page ID is required")
		return
	}

	result, err := h.pageService.Publish(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	h.logger.Info("page published", "page_id", id, "url", result.PublishedURL)
	httputil.RespondJSON(w, http.StatusOK, result)
}

// UnpublishPage withdraws a page from the public surface. Its slug is
// kept so a later re-publish lands on the same address.
func (h *PageHandler) UnpublishPage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Page ID is required")
		return
	}

	if err := h.pageService.Unpublish(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	// The page is gone from the public surface; its widgets stop too.
	h.scheduler.StopPage(id)

	h.logger.Info("page unpublished", "page_id", id)
	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "Page unpublished.",
	})
}
