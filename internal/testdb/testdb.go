// Package testdb opens migrated in-memory SQLite databases for tests.
package testdb

import (
	"context"
	"testing"

	"github.com/helixml/pulse/infrastructure/persistence"
	"github.com/helixml/pulse/internal/database"
)

// New returns an in-memory SQLite database with the pulse schema. It is
// closed when the test ends.
func New(t *testing.T) database.Database {
	t.Helper()

	db, err := database.NewDatabase(context.Background(), "sqlite:///:memory:")
	if err != nil {
		t.Fatalf("testdb: open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := persistence.AutoMigrate(db); err != nil {
		t.Fatalf("testdb: migrate: %v", err)
	}
	return db
}
