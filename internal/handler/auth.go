package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/songvault/internal/auth"
	"github.com/sakif/songvault/internal/service"
)

// AuthHandler serves credential login and the current-user lookup.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authSvc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: authSvc, logger: logger}
}

// loginRequest is the POST /api/auth body.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req *loginRequest) validate() []fieldError {
	var errs []fieldError
	if !validEmail(req.Email) {
		errs = append(errs, fieldError{Msg: "Email is not valid"})
	}
	if req.Password == "" {
		errs = append(errs, fieldError{Msg: "Password is required"})
	}
	return errs
}

// HandleLogin authenticates a user and returns a token.
//
// HTTP: POST /api/auth
// RESPONSE: 200 {"token":...}; 400 with the generic "Invalid credentials"
// for both unknown email and wrong password — the two cases must be
// indistinguishable in the body.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFieldErrors(w, []fieldError{{Msg: "Invalid JSON body"}})
		return
	}

	if errs := req.validate(); len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// HandleMe returns the authenticated user's record, password hash excluded
// both by the store projection and by the model's json:"-" tag.
//
// HTTP: GET /api/auth (private)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth; guards against wiring mistakes.
		writeMsg(w, http.StatusUnauthorized, "No token, authorization denied")
		return
	}

	user, err := h.auth.CurrentUser(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
