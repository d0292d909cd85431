package repository

import (
	"context"

	"github.com/sakif/songvault/internal/model"
)

// UserRepository is the credential store contract for user records.
//
// Implementations assign ID and CreatedAt on Create and report a duplicate
// email as apperror.ErrConflict. GetByEmail and GetByID return
// apperror.ErrNotFound when no row matches.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// SongRepository is the store contract for song records.
//
// ListByOwner returns an empty (possibly nil) slice when the owner has no
// songs; it is not an error. ListAllWithOwner joins the owner's name onto
// each song for public display.
type SongRepository interface {
	Create(ctx context.Context, song *model.Song) error
	GetByID(ctx context.Context, id string) (*model.Song, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Song, error)
	ListAllWithOwner(ctx context.Context) ([]model.SongWithOwner, error)
	Delete(ctx context.Context, id string) error
}
