package model

import "time"

// Song represents an uploaded song record owned by exactly one user.
//
// The JSON field names ("user", "audio_link", "date_created") are the wire
// contract consumed by the existing frontend, so they stay snake_case even
// though the Go fields follow Go naming.
type Song struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user"` // owner's User.ID
	Name      string    `json:"name"`
	Length    string    `json:"length"` // display string, e.g. "3:42"
	AudioLink string    `json:"audio_link"`
	Event     string    `json:"event"` // which event the song was part of
	CreatedAt time.Time `json:"date_created"`
}

// SongOwner is the denormalized owner info joined onto public listings.
type SongOwner struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SongWithOwner is a Song whose "user" field carries the owner's id and
// display name instead of a bare id. Returned only by the public
// list-all endpoint.
type SongWithOwner struct {
	ID        string    `json:"id"`
	User      SongOwner `json:"user"`
	Name      string    `json:"name"`
	Length    string    `json:"length"`
	AudioLink string    `json:"audio_link"`
	Event     string    `json:"event"`
	CreatedAt time.Time `json:"date_created"`
}
