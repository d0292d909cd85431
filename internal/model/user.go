// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// PasswordHash carries the bcrypt output, never the raw password. The
// `json:"-"` tag guarantees it is dropped from every serialized response —
// handlers don't have to remember to blank it.
//
// Email is UNIQUE at the storage layer; registration surfaces a conflict
// error when it's taken.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"date_created"`
}
