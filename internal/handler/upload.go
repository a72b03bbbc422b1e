package handler

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"pageforge/internal/config"
	"pageforge/internal/httputil"
	"pageforge/internal/storage"
)

// UploadHandler handles image uploads from the builder
type UploadHandler struct {
	uploader storage.Uploader
	logger   *slog.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploader storage.Uploader, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		uploader: uploader,
		logger:   logger,
	}
}

// UploadImage accepts a multipart image upload and returns its public
// URL. Oversized or non-image files are rejected before storage is
// touched.
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBytes+4096)

	if err := r.ParseMultipartForm(config.MaxUploadBytes); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid multipart body or file too large (5MB max)")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	if header.Size > config.MaxUploadBytes {
		httputil.RespondError(w, http.StatusBadRequest, "File too large (5MB max)")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		httputil.RespondError(w, http.StatusBadRequest, "Only image files are accepted")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Failed to read file")
		return
	}

	result, err := h.uploader.Upload(r.Context(), header.Filename, contentType, data)
	if err != nil {
		h.logger.Error("image upload failed", "file", header.Filename, "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
