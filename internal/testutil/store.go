package testutil

import (
	"testing"

	"pixcat/internal/blobstore"
	"pixcat/internal/catalog"
	"pixcat/internal/store"
	"pixcat/internal/store/migrations"
)

// NewTestStore creates an in-memory catalog store with the schema
// applied and an in-memory thumbnail blob backend. The store is closed
// automatically when the test completes.
func NewTestStore(t *testing.T) catalog.Store {
	t.Helper()

	db, err := store.OpenConnection(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		t.Fatalf("failed to migrate database: %v", err)
	}

	s := store.NewSQLiteStoreFromDB(db, blobstore.NewMemoryStore(), "")

	t.Cleanup(func() {
		s.Close()
	})

	return s
}
