package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/songvault/internal/apperror"
	"github.com/sakif/songvault/internal/model"
	"github.com/sakif/songvault/internal/repository"
)

// Placeholder metadata written at upload time. The transcoding pipeline that
// fills in the real link, event, and length isn't wired up yet, so creation
// stores these markers regardless of what the client submitted. Pinned by
// tests as current observable behavior.
const (
	placeholderAudioLink = "text_link"
	placeholderEvent     = "test_event"
	placeholderLength    = "test_length"
)

// SongService handles business logic for song records.
type SongService struct {
	songs  repository.SongRepository
	logger *slog.Logger
}

// NewSongService creates a SongService.
func NewSongService(songs repository.SongRepository, logger *slog.Logger) *SongService {
	return &SongService{
		songs:  songs,
		logger: logger,
	}
}

// Create stores a new song owned by ownerID. The owner is the identity the
// auth middleware attached — it is never taken from the request body.
//
// audioLink is validated for presence at the handler but not stored; see the
// placeholder constants above.
func (s *SongService) Create(ctx context.Context, ownerID, name string) (*model.Song, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("service/song: owner ID must not be empty")
	}

	song := &model.Song{
		UserID:    ownerID,
		Name:      name,
		AudioLink: placeholderAudioLink,
		Event:     placeholderEvent,
		Length:    placeholderLength,
	}

	if err := s.songs.Create(ctx, song); err != nil {
		s.logger.Error("failed to create song",
			slog.String("owner", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/song: creating song: %w", err)
	}

	s.logger.Info("song created",
		slog.String("id", song.ID),
		slog.String("owner", ownerID),
	)

	return song, nil
}

// ListMine returns the songs owned by the authenticated user. Empty slice
// when they have none.
func (s *SongService) ListMine(ctx context.Context, ownerID string) ([]model.Song, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("service/song: owner ID must not be empty")
	}

	songs, err := s.songs.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list songs", slog.String("error", err.Error()))
		return nil, fmt.Errorf("service/song: listing songs: %w", err)
	}

	return songs, nil
}

// ListAll returns every song with the owner's name joined in. Public, no
// pagination.
func (s *SongService) ListAll(ctx context.Context) ([]model.SongWithOwner, error) {
	songs, err := s.songs.ListAllWithOwner(ctx)
	if err != nil {
		s.logger.Error("failed to list all songs", slog.String("error", err.Error()))
		return nil, fmt.Errorf("service/song: listing all songs: %w", err)
	}

	return songs, nil
}

// ListByUser returns the songs for an arbitrary user ID. Public by design —
// any caller may enumerate any user's songs.
func (s *SongService) ListByUser(ctx context.Context, userID string) ([]model.Song, error) {
	songs, err := s.songs.ListByOwner(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list songs by user",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/song: listing songs for user %s: %w", userID, err)
	}

	return songs, nil
}

// Delete removes a song after checking that requesterID owns it.
//
// The ownership check and the delete are two sequential store calls, not a
// transaction; a race between them is acknowledged and accepted at this
// scale. Returns apperror.ErrForbidden when the requester is not the owner
// and apperror.ErrNotFound when the song doesn't exist.
//
// TODO: deleting a user's last song should also remove the user record once
// account deletion lands.
func (s *SongService) Delete(ctx context.Context, songID, requesterID string) error {
	song, err := s.songs.GetByID(ctx, songID)
	if err != nil {
		return err
	}

	if song.UserID != requesterID {
		return apperror.Forbidden("You do not own this song")
	}

	if err := s.songs.Delete(ctx, songID); err != nil {
		s.logger.Error("failed to delete song",
			slog.String("id", songID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("service/song: deleting song %s: %w", songID, err)
	}

	s.logger.Info("song deleted",
		slog.String("id", songID),
		slog.String("owner", requesterID),
	)

	return nil
}
