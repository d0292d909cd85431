package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/songvault/internal/apperror"
	"github.com/sakif/songvault/internal/model"
	"github.com/sakif/songvault/internal/repository"
)

// Compile-time check that *DB implements repository.SongRepository.
var _ repository.SongRepository = (*DB)(nil)

// Create inserts a new song. ID and CreatedAt are assigned here, in-place
// on the caller's struct.
func (db *DB) Create(ctx context.Context, song *model.Song) error {
	song.ID = xid.New().String()
	song.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO songs (id, user_id, name, length, audio_link, event, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		song.ID,
		song.UserID,
		song.Name,
		song.Length,
		song.AudioLink,
		song.Event,
		song.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting song: %w", err)
	}

	return nil
}

// GetByID retrieves a single song.
// Returns apperror.ErrNotFound if no song exists with that ID.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Song, error) {
	var s model.Song

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, name, length, audio_link, event, created_at
		 FROM songs WHERE id = ?`,
		id,
	).Scan(
		&s.ID,
		&s.UserID,
		&s.Name,
		&s.Length,
		&s.AudioLink,
		&s.Event,
		&s.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("song", id)
		}
		return nil, fmt.Errorf("sqlite: getting song %s: %w", id, err)
	}

	return &s, nil
}

// ListByOwner returns every song owned by ownerID, newest first.
// An owner with no songs gets an empty slice, not an error.
func (db *DB) ListByOwner(ctx context.Context, ownerID string) ([]model.Song, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, name, length, audio_link, event, created_at
		 FROM songs
		 WHERE user_id = ?
		 ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing songs for user %s: %w", ownerID, err)
	}
	defer rows.Close()

	songs := []model.Song{}
	for rows.Next() {
		var s model.Song
		if err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.Name,
			&s.Length,
			&s.AudioLink,
			&s.Event,
			&s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning song row: %w", err)
		}
		songs = append(songs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating song rows: %w", err)
	}

	return songs, nil
}

// ListAllWithOwner returns every song with the owner's display name joined
// in — the denormalized shape the public listing serves.
func (db *DB) ListAllWithOwner(ctx context.Context) ([]model.SongWithOwner, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT s.id, s.user_id, u.name, s.name, s.length, s.audio_link, s.event, s.created_at
		 FROM songs s
		 JOIN users u ON u.id = s.user_id
		 ORDER BY s.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing all songs: %w", err)
	}
	defer rows.Close()

	songs := []model.SongWithOwner{}
	for rows.Next() {
		var s model.SongWithOwner
		if err := rows.Scan(
			&s.ID,
			&s.User.ID,
			&s.User.Name,
			&s.Name,
			&s.Length,
			&s.AudioLink,
			&s.Event,
			&s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning song row: %w", err)
		}
		songs = append(songs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating song rows: %w", err)
	}

	return songs, nil
}

// Delete removes a song by ID. Deleting a missing ID is not an error —
// ownership and existence are the service layer's concern.
func (db *DB) Delete(ctx context.Context, id string) error {
	_, err := db.conn.ExecContext(ctx, `DELETE FROM songs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting song %s: %w", id, err)
	}
	return nil
}
