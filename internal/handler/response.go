package handler

// Response helpers for the three wire shapes this API speaks:
//
//	400 validation/conflict → {"errors":[{"msg":"..."}, ...]}
//	401 auth                → {"msg":"..."}
//	500 store/internal      → plain text "Server error"
//
// Every handler failure is converted to one of these; nothing propagates
// uncaught, and internal error detail is logged server-side only.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/songvault/internal/apperror"
)

// fieldError is one entry in a 400 response's errors list. Matching the
// validator output the frontend already parses: a bare msg per failing
// field.
type fieldError struct {
	Msg string `json:"msg"`
}

// msgResponse is the single-message JSON object used for 401s and the
// informational bodies (empty listings, delete confirmations).
type msgResponse struct {
	Msg string `json:"msg"`
}

// writeJSON sends a JSON response with the given status code. Headers and
// status must be written before the body.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent — logging is all that's left.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeMsg sends {"msg": ...} with the given status.
func writeMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, msgResponse{Msg: msg})
}

// writeFieldErrors sends the 400 errors-list shape.
func writeFieldErrors(w http.ResponseWriter, errs []fieldError) {
	writeJSON(w, http.StatusBadRequest, map[string][]fieldError{"errors": errs})
}

// writeServerError sends the opaque 500. The caller logs the real error;
// the client never sees internal detail.
func writeServerError(w http.ResponseWriter) {
	http.Error(w, "Server error", http.StatusInternalServerError)
}

// writeError maps a domain error to its wire shape.
//
// Validation and conflict errors share the 400 errors-list shape; an
// unauthorized error becomes the 401 message shape; everything else —
// including not-found, which this API never surfaces as a 404 — collapses
// into the opaque 500.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		switch {
		case errors.Is(err, apperror.ErrValidation), errors.Is(err, apperror.ErrConflict):
			writeFieldErrors(w, []fieldError{{Msg: appErr.Message}})
			return
		case errors.Is(err, apperror.ErrUnauthorized):
			writeMsg(w, http.StatusUnauthorized, appErr.Message)
			return
		}
	}

	logger.Error("request failed", slog.String("error", err.Error()))
	writeServerError(w)
}
