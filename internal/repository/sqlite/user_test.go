package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/songvault/internal/apperror"
	"github.com/sakif/songvault/internal/model"
)

// newTestDB returns a DB backed by a fresh in-memory SQLite database that
// lives only for this test.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser creates a user and fails the test if it errors.
func createTestUser(t *testing.T, db *DB, name, email string) *model.User {
	t.Helper()
	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: "$2a$04$fakedhashforrepositorytests",
	}
	if err := db.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestUserCreate(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{
		Name:         "Test User",
		Email:        "test@example.com",
		PasswordHash: "$2a$04$somehash",
	}

	if err := db.Create(context.Background(), user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Create assigns ID and CreatedAt in-place on the caller's struct.
	if user.ID == "" {
		t.Error("Create() did not set user.ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("Create() did not set user.CreatedAt")
	}
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)

	createTestUser(t, db, "First", "taken@example.com")

	duplicate := &model.User{
		Name:         "Second",
		Email:        "taken@example.com",
		PasswordHash: "$2a$04$otherhash",
	}
	err := db.Create(context.Background(), duplicate)
	if err == nil {
		t.Fatal("Create() should have returned an error for a duplicate email")
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Create() error = %v, want ErrConflict", err)
	}

	// The store must still contain exactly one user for that email.
	found, err := db.GetByEmail(context.Background(), "taken@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if found.Name != "First" {
		t.Errorf("stored user Name = %q, want %q", found.Name, "First")
	}
}

// =========================================================================
// GET BY EMAIL TESTS
// =========================================================================

func TestUserGetByEmail(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "Email User", "lookup@example.com")

	found, err := db.GetByEmail(context.Background(), "lookup@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}

	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}
	// The login flow compares against this, so the hash must be present
	// in the email projection.
	if found.PasswordHash == "" {
		t.Error("GetByEmail() should include the password hash")
	}
}

func TestUserGetByEmail_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByEmail(context.Background(), "nobody@example.com")
	if err == nil {
		t.Fatal("GetByEmail() should return an error for an unknown email")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByEmail() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// GET BY ID TESTS
// =========================================================================

func TestUserGetByID_ExcludesPasswordHash(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "ID User", "id@example.com")

	found, err := db.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if found.Email != "id@example.com" {
		t.Errorf("Email = %q, want %q", found.Email, "id@example.com")
	}
	// GetByID feeds responses directly; its projection leaves the hash out.
	if found.PasswordHash != "" {
		t.Errorf("GetByID() included the password hash: %q", found.PasswordHash)
	}
}

func TestUserGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByID(context.Background(), "no-such-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}
