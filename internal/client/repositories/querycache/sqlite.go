// Package querycache persists memoized search results: for each
// (normalized query, canonical filters) pair, the ordered ids it produced.
package querycache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/staffdir/internal/client/models"
	"github.com/dmitrijs2005/staffdir/internal/dbx"
)

type Repository interface {
	// Get returns the entry for the key, or (nil, nil) when absent.
	// Freshness is the caller's decision.
	Get(ctx context.Context, query, filters string) (*models.QueryCacheEntry, error)
	Put(ctx context.Context, entry models.QueryCacheEntry) error
	Clear(ctx context.Context) error
	// DeleteOlderThan removes entries created before cutoff.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, query, filters string) (*models.QueryCacheEntry, error) {
	var (
		raw     string
		created int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT result_ids, created_at FROM search_cache WHERE query = ? AND filters = ?`,
		query, filters,
	).Scan(&raw, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached search: %w", err)
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("failed to decode cached ids: %w", err)
	}

	return &models.QueryCacheEntry{
		Query:     query,
		Filters:   filters,
		IDs:       ids,
		CreatedAt: time.UnixMilli(created).UTC(),
	}, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, entry models.QueryCacheEntry) error {
	raw, err := json.Marshal(entry.IDs)
	if err != nil {
		return fmt.Errorf("failed to encode cached ids: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO search_cache (query, filters, result_ids, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(query, filters) DO UPDATE SET
			result_ids = excluded.result_ids,
			created_at = excluded.created_at
	`, entry.Query, entry.Filters, string(raw), entry.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to put cached search: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM search_cache`); err != nil {
		return fmt.Errorf("failed to clear search cache: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM search_cache WHERE created_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to prune search cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
