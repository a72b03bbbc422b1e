package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"pageforge/internal/httputil"
	"pageforge/internal/service/convert"
)

// ConvertHandler handles design-tool CSS conversion
type ConvertHandler struct {
	logger *slog.Logger
}

// NewConvertHandler creates a new convert handler
func NewConvertHandler(logger *slog.Logger) *ConvertHandler {
	return &ConvertHandler{logger: logger}
}

// ConvertFigmaCSS turns a pasted Figma CSS dump into an HTML/CSS
// snippet suitable for a raw markup block.
func (h *ConvertHandler) ConvertFigmaCSS(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CSS string `json:"css"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		return
	}
	if strings.TrimSpace(req.CSS) == "" {
		httputil.RespondError(w, http.StatusBadRequest, "css field is required")
		return
	}

	snippet := convert.FigmaCSS(req.CSS)
	httputil.RespondJSON(w, http.StatusOK, snippet)
}
