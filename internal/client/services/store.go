// Package services implements the staff directory behaviour on top of the
// local store and the remote source: search with memoized results,
// reconciliation with the remote, staleness probing, and the Directory
// facade used by the CLI and the daemon.
package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/staffdir/internal/client/models"
)

// Store is the local mirror the services operate on. *store.Store
// satisfies it.
type Store interface {
	Count(ctx context.Context) (int, error)
	GetAll(ctx context.Context, limit int) ([]models.Employee, error)
	ListAll(ctx context.Context) ([]models.Employee, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Employee, error)
	Employee(ctx context.Context, id string) (models.Employee, error)
	ReplaceAll(ctx context.Context, items []models.Employee) (int, error)

	LookupResult(ctx context.Context, query, filters string) (*models.QueryCacheEntry, error)
	SaveResult(ctx context.Context, entry models.QueryCacheEntry) error
	ClearResultCache(ctx context.Context) error
	PruneResultCache(ctx context.Context) (int64, error)

	LastSync(ctx context.Context) (time.Time, error)
	SetLastSync(ctx context.Context, t time.Time) error

	FilterOptions(ctx context.Context) (models.FilterOptions, error)
	Stats(ctx context.Context) (models.Stats, error)
	Team(ctx context.Context, managerName string) (models.Team, error)
}

// Remote is the source of truth. client.Client satisfies it.
type Remote interface {
	ListActive(ctx context.Context, filters models.Filters) ([]models.Employee, error)
	CountActive(ctx context.Context) (int, error)
}
