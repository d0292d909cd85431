package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/songvault/internal/apperror"
	"github.com/sakif/songvault/internal/auth"
	"github.com/sakif/songvault/internal/service"
)

// SongHandler serves the song resource group.
type SongHandler struct {
	songs  *service.SongService
	logger *slog.Logger
}

// NewSongHandler creates a SongHandler.
func NewSongHandler(songs *service.SongService, logger *slog.Logger) *SongHandler {
	return &SongHandler{songs: songs, logger: logger}
}

// createSongRequest is the POST /api/songs body.
type createSongRequest struct {
	Name      string `json:"name"`
	AudioLink string `json:"audio_link"`
}

func (req *createSongRequest) validate() []fieldError {
	var errs []fieldError
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, fieldError{Msg: "Name is required"})
	}
	if strings.TrimSpace(req.AudioLink) == "" {
		errs = append(errs, fieldError{Msg: "Audio link is required"})
	}
	return errs
}

// HandleMine lists the authenticated user's songs.
//
// HTTP: GET /api/songs/me (private)
//
// Zero songs yields 200 {"msg":"No songs found"} rather than an empty
// array — a frozen asymmetry in the wire contract, pinned by tests.
func (h *SongHandler) HandleMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeMsg(w, http.StatusUnauthorized, "No token, authorization denied")
		return
	}

	songs, err := h.songs.ListMine(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if len(songs) == 0 {
		writeMsg(w, http.StatusOK, "No songs found")
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

// HandleCreate stores a new song owned by the authenticated user.
//
// HTTP: POST /api/songs (private)
// BODY: {"name":..., "audio_link":...}
//
// The submitted audio_link is required but not stored — creation writes
// placeholder metadata until the upload pipeline fills in the real values
// (see service.SongService.Create).
func (h *SongHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeMsg(w, http.StatusUnauthorized, "No token, authorization denied")
		return
	}

	var req createSongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFieldErrors(w, []fieldError{{Msg: "Invalid JSON body"}})
		return
	}

	if errs := req.validate(); len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	song, err := h.songs.Create(r.Context(), userID, strings.TrimSpace(req.Name))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, song)
}

// HandleListAll lists every song with the owner's name joined in.
//
// HTTP: GET /api/songs (public, no pagination)
func (h *SongHandler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	songs, err := h.songs.ListAll(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, songs)
}

// HandleListByUser lists the songs of an arbitrary user.
//
// HTTP: GET /api/songs/user/{user_id}
//
// Public with no authorization check: any caller may enumerate any user's
// songs. Documented as a known gap, kept because the wire contract specs
// current behavior.
func (h *SongHandler) HandleListByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	songs, err := h.songs.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if len(songs) == 0 {
		writeMsg(w, http.StatusOK, "No songs for this user")
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

// HandleDelete removes one of the authenticated user's songs.
//
// HTTP: DELETE /api/songs/{song_id} (private)
//
// A requester who doesn't own the song gets 200 with
// {"msg":"You do not own this song"} — not 403. That status is a pinned
// deviation the existing clients rely on.
func (h *SongHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeMsg(w, http.StatusUnauthorized, "No token, authorization denied")
		return
	}

	songID := chi.URLParam(r, "song_id")

	err := h.songs.Delete(r.Context(), songID, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrForbidden) {
			writeMsg(w, http.StatusOK, "You do not own this song")
			return
		}
		writeError(w, h.logger, err)
		return
	}

	writeMsg(w, http.StatusOK, "Deleted sucesfully")
}
