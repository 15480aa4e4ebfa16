package testhelpers

import (
	"database/sql"
	"testing"

	"property-poster/internal/domain"
)

// NewTestDB returns an in-memory SQLite database configured the same way as the
// history store. The database is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := domain.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}
