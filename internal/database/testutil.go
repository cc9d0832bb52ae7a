package database

import (
	"context"
	"database/sql"
	"os"
	"testing"
)

// TestDB returns a migrated database for integration tests.
// Skips the test if TEST_DATABASE_URL is not set.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	db, err := New(context.Background(), dbURL, DefaultOptions())
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	if err := Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// CleanupTables truncates all tables for a clean test state.
func CleanupTables(t *testing.T, db *sql.DB) {
	t.Helper()

	for _, table := range []string{"revoked_tokens", "category_hints", "expenses", "users"} {
		if _, err := db.ExecContext(context.Background(), "TRUNCATE TABLE "+table+" CASCADE"); err != nil {
			t.Fatalf("failed to truncate table %s: %v", table, err)
		}
	}
}

// CreateTestUser inserts a user row and returns its id.
func CreateTestUser(t *testing.T, db *sql.DB, email string) string {
	t.Helper()

	var id string

	err := db.QueryRowContext(context.Background(),
		`INSERT INTO users (email, password_hash) VALUES ($1, 'x') RETURNING id`, email,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return id
}
