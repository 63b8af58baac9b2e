package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/egresswatch/egresswatch/internal/storage"
)

// NewTestDB creates an in-memory SQLite database with the full schema
// applied, for repository tests.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if err := storage.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// CleanupDB closes the test database
func CleanupDB(db *sql.DB) {
	if db != nil {
		db.Close()
	}
}
