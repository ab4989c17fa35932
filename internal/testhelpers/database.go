package testhelpers

import (
	"context"
	"testing"

	"github.com/myrjola/ridecoach/internal/sqlite"
)

// NewDatabase opens a migrated in-memory database that is closed when the test finishes.
func NewDatabase(ctx context.Context, t testing.TB) *sqlite.Database {
	t.Helper()
	db, err := sqlite.NewDatabase(ctx, ":memory:", NewLogger(NewWriter(t)))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() {
		if err = db.Close(); err != nil {
			t.Errorf("close database: %v", err)
		}
	})
	return db
}
