// Package storetest opens throwaway sqlite-backed stores for tests.
package storetest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/versefinder/versefinder/internal/database"
	"github.com/versefinder/versefinder/internal/store"
)

// New returns a migrated store backed by a sqlite file in t.TempDir().
func New(t *testing.T, opts ...store.Option) *store.Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(5000)"
	ctx := context.Background()

	db, err := database.OpenDB(ctx, "sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	dialect, err := database.DialectFor("sqlite")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(ctx, db, dialect))

	return store.New(db, dialect, opts...)
}
