package sqlite

import (
	"context"
	"net/url"
	"testing"
)

// memoryDSN names a private in-memory database. Writer and reader pools reach
// the same data through cache=shared; the journal_mode pragma does not apply.
func memoryDSN(name string) string {
	return "file:" + url.PathEscape(name) +
		"?mode=memory&cache=shared&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
}

// newTestRepo returns a saved-recipe repo over a migrated in-memory database
// owned by t.
func newTestRepo(t *testing.T) *SavedRecipeRepo {
	t.Helper()

	dsn := memoryDSN(t.Name())
	db, err := openDB(context.Background(), dsn, dsn)
	if err != nil {
		t.Fatalf("open in-memory recipe db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := RunMigrations(db.Writer.DB); err != nil {
		t.Fatalf("migrate recipe schema: %v", err)
	}

	return NewSavedRecipeRepo(db)
}
