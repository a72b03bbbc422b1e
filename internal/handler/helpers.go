package handler

import (
	"errors"
	"net/http"

	"pageforge/internal/domain"
	"pageforge/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var conflictErr *domain.ConflictError

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &conflictErr):
		extras := map[string]interface{}{}
		if conflictErr.ResourceID != "" {
			extras["resource_id"] = conflictErr.ResourceID
		}
		httputil.RespondErrorWithExtras(w, http.StatusConflict, conflictErr.Error(), extras)
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// HealthCheck reports liveness.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
