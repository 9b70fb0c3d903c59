package querycache

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/staffdir/internal/client/models"
	"github.com/dmitrijs2005/staffdir/internal/dbx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := dbx.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE search_cache (
  query      TEXT NOT NULL,
  filters    TEXT NOT NULL,
  result_ids TEXT NOT NULL,
  created_at INTEGER NOT NULL,
  PRIMARY KEY (query, filters)
);`)
	require.NoError(t, err)
	return db
}

func TestPutAndGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	at := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, r.Put(ctx, models.QueryCacheEntry{Query: "jose", Filters: "{}", IDs: []string{"b", "a"}, CreatedAt: at}))

	got, err := r.Get(ctx, "jose", "{}")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"b", "a"}, got.IDs)
	assert.True(t, at.Equal(got.CreatedAt))

	other, err := r.Get(ctx, "jose", `{"area":"Cocina"}`)
	require.NoError(t, err)
	assert.Nil(t, other, "filters are part of the key")
}

func TestPut_OverwritesSameKey(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	at := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, r.Put(ctx, models.QueryCacheEntry{Query: "q", Filters: "{}", IDs: []string{"1"}, CreatedAt: at}))
	require.NoError(t, r.Put(ctx, models.QueryCacheEntry{Query: "q", Filters: "{}", IDs: []string{"2"}, CreatedAt: at.Add(time.Minute)}))

	got, err := r.Get(ctx, "q", "{}")
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, got.IDs)
	assert.True(t, at.Add(time.Minute).Equal(got.CreatedAt))
}

func TestDeleteOlderThanAndClear(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, r.Put(ctx, models.QueryCacheEntry{Query: "old", Filters: "{}", IDs: []string{"1"}, CreatedAt: now.Add(-2 * time.Hour)}))
	require.NoError(t, r.Put(ctx, models.QueryCacheEntry{Query: "new", Filters: "{}", IDs: []string{"1"}, CreatedAt: now.Add(-10 * time.Minute)}))

	n, err := r.DeleteOlderThan(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	old, err := r.Get(ctx, "old", "{}")
	require.NoError(t, err)
	assert.Nil(t, old)

	kept, err := r.Get(ctx, "new", "{}")
	require.NoError(t, err)
	assert.NotNil(t, kept)

	require.NoError(t, r.Clear(ctx))
	kept, err = r.Get(ctx, "new", "{}")
	require.NoError(t, err)
	assert.Nil(t, kept)
}

func TestGet_CorruptIDs(t *testing.T) {
	db := setupDB(t)
	_, err := db.Exec(`INSERT INTO search_cache VALUES ('q', '{}', 'not json', 0)`)
	require.NoError(t, err)

	_, err = NewSQLiteRepository(db).Get(context.Background(), "q", "{}")
	require.Error(t, err)
}

func TestClear_DriverError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM search_cache`).WillReturnError(errors.New("readonly database"))

	err = NewSQLiteRepository(db).Clear(context.Background())
	require.ErrorContains(t, err, "failed to clear search cache")
	require.NoError(t, mock.ExpectationsWereMet())
}
