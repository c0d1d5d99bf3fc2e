// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-meet/cliparse"
	"github.com/danielhkuo/quickly-meet/middleware"
	"github.com/danielhkuo/quickly-meet/tuning"
)

// writeError maps service errors onto HTTP status codes. Errors outside the
// known categories are logged and reported as a bare 500.
func writeError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, tuning.ErrValidation):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, tuning.ErrAuthorization):
		middleware.ErrorResponse(w, http.StatusForbidden, err.Error())
	case errors.Is(err, tuning.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, tuning.ErrState):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
	case errors.Is(err, tuning.ErrBusy):
		w.Header().Set("Retry-After", "1")
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, tuning.ErrBusy.Error())
	default:
		slog.Error(action, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal server error")
	}
}

// caller authenticates the request, writing a 401 and returning false when the
// member credentials are missing or wrong.
func caller(w http.ResponseWriter, r *http.Request, cfg cliparse.Config) (string, bool) {
	id, err := middleware.CallerID(r, cfg.MemberTokenSalt)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, err.Error())
		return "", false
	}
	return id, true
}
