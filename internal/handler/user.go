package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"github.com/sakif/songvault/internal/service"
)

// UserHandler serves user registration.
type UserHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(auth *service.AuthService, logger *slog.Logger) *UserHandler {
	return &UserHandler{auth: auth, logger: logger}
}

// registerRequest is the POST /api/users body.
type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// validate collects every failing field rather than stopping at the first,
// so one round trip reports the whole form.
func (req *registerRequest) validate() []fieldError {
	var errs []fieldError
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, fieldError{Msg: "Name is required"})
	}
	if !validEmail(req.Email) {
		errs = append(errs, fieldError{Msg: "Email is not valid"})
	}
	if req.Password == "" {
		errs = append(errs, fieldError{Msg: "Password is required"})
	}
	return errs
}

// HandleIndex answers the unauthenticated probe route.
//
// HTTP: GET /api/users
func (h *UserHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Users route"))
}

// HandleRegister creates a user account and logs it in immediately.
//
// HTTP: POST /api/users
// BODY: {"name":..., "email":..., "password":...}
// RESPONSE: 200 {"token":...} — the token's identity resolves to the new
// user's ID.
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFieldErrors(w, []fieldError{{Msg: "Invalid JSON body"}})
		return
	}

	if errs := req.validate(); len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	token, err := h.auth.Register(r.Context(), strings.TrimSpace(req.Name), req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// validEmail reports whether addr parses as a bare RFC 5322 address.
// mail.ParseAddress accepts display-name forms like `Bob <b@x.com>`; those
// are rejected by requiring the parsed address to round-trip exactly.
func validEmail(addr string) bool {
	parsed, err := mail.ParseAddress(addr)
	return err == nil && parsed.Address == addr
}
