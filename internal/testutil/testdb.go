// Package testutil provides shared test helpers.
package testutil

import (
	"testing"

	"github.com/docuflow/workscan/internal/store"
)

// NewTestDB creates an in-memory SQLite database with the full schema
// applied. The database is closed automatically when the test ends.
func NewTestDB(t *testing.T) *store.Store {
	t.Helper()

	db, err := store.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	return store.New(db)
}
