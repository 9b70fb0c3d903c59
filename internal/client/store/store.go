// Package store is the durable local mirror of the staff directory.
//
// A Store owns one SQLite database holding three tables: cached employees,
// memoized search results and sync metadata. It is constructed with Open and
// released with Close; callers receive it explicitly, there is no package
// level instance.
//
// Every failure returned by a Store wraps common.ErrStorage, so callers can
// tell a broken local store apart from an unreachable remote source.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/staffdir/internal/client/migrations"
	"github.com/dmitrijs2005/staffdir/internal/client/models"
	"github.com/dmitrijs2005/staffdir/internal/client/repositories/employees"
	"github.com/dmitrijs2005/staffdir/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/staffdir/internal/client/repositories/querycache"
	"github.com/dmitrijs2005/staffdir/internal/common"
	"github.com/dmitrijs2005/staffdir/internal/dbx"
	"github.com/dmitrijs2005/staffdir/internal/filex"
	"github.com/dmitrijs2005/staffdir/internal/logging"
	"github.com/dmitrijs2005/staffdir/internal/textnorm"
	"github.com/pressly/goose/v3"
)

// DefaultRetention bounds how long memoized search results are kept at all,
// independently of their freshness TTL.
const DefaultRetention = time.Hour

type Options struct {
	// Path is the database file; ":memory:" gives an ephemeral cache.
	Path string
	// Retention is the age after which PruneResultCache drops entries.
	Retention time.Duration
	Logger    logging.Logger
	Now       func() time.Time
}

type Store struct {
	db        *sql.DB
	employees employees.Repository
	results   querycache.Repository
	meta      metadata.Repository
	retention time.Duration
	now       func() time.Time
	log       logging.Logger
}

// Open opens (creating if needed) the database at opts.Path, migrates it to
// the current schema and prunes stale memoized results.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("%w: empty database path", common.ErrStorage)
	}
	if opts.Retention <= 0 {
		opts.Retention = DefaultRetention
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	if err := filex.EnsureParentDir(opts.Path); err != nil {
		return nil, storageErr("prepare database directory", err)
	}

	db, err := dbx.OpenSQLite(ctx, opts.Path)
	if err != nil {
		return nil, storageErr("open database", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, storageErr("migrate database", err)
	}

	s := &Store{
		db:        db,
		employees: employees.NewSQLiteRepository(db),
		results:   querycache.NewSQLiteRepository(db),
		meta:      metadata.NewSQLiteRepository(db),
		retention: opts.Retention,
		now:       opts.Now,
		log:       opts.Logger,
	}

	if n, err := s.PruneResultCache(ctx); err != nil {
		s.warn(ctx, "result cache pruning failed", "error", err)
	} else if n > 0 {
		s.debug(ctx, "pruned result cache", "removed", n)
	}

	return s, nil
}

// RunMigrations applies the embedded goose migrations to db. goose's own
// progress output is discarded; the CLI shares the terminal with it.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return storageErr("close database", err)
	}
	return nil
}

// BulkUpsert writes items in one transaction, recomputing each search blob
// and stamping LastUpdated. On failure nothing is written.
func (s *Store) BulkUpsert(ctx context.Context, items []models.Employee) error {
	prepared := s.prepare(items)

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return employees.NewSQLiteRepository(tx).Upsert(ctx, prepared)
	})
	if err != nil {
		return storageErr("bulk upsert", err)
	}
	return nil
}

// ReplaceAll makes the stored set equal to items in one transaction:
// every item is upserted and every stored employee absent from items is
// deleted. It returns the number of deleted employees.
func (s *Store) ReplaceAll(ctx context.Context, items []models.Employee) (int, error) {
	prepared := s.prepare(items)
	ids := make([]string, len(prepared))
	for i, e := range prepared {
		ids[i] = e.ID
	}

	var removed int
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := employees.NewSQLiteRepository(tx)
		if err := repo.Upsert(ctx, prepared); err != nil {
			return err
		}
		n, err := repo.DeleteMissing(ctx, ids)
		removed = n
		return err
	})
	if err != nil {
		return 0, storageErr("replace employees", err)
	}
	return removed, nil
}

func (s *Store) prepare(items []models.Employee) []models.Employee {
	now := s.now().UTC()
	prepared := make([]models.Employee, len(items))
	for i, e := range items {
		e.SearchBlob = textnorm.PrepareSearchBlob(e)
		e.LastUpdated = now
		prepared[i] = e
	}
	return prepared
}

func (s *Store) Count(ctx context.Context) (int, error) {
	n, err := s.employees.Count(ctx)
	if err != nil {
		return 0, storageErr("count", err)
	}
	return n, nil
}

// GetAll returns at most limit employees ordered by name.
func (s *Store) GetAll(ctx context.Context, limit int) ([]models.Employee, error) {
	items, err := s.employees.List(ctx, limit)
	if err != nil {
		return nil, storageErr("get all", err)
	}
	return items, nil
}

// ListAll returns every stored employee ordered by name.
func (s *Store) ListAll(ctx context.Context) ([]models.Employee, error) {
	return s.GetAll(ctx, 0)
}

// GetByIDs returns employees in the order of ids, skipping unknown ids.
func (s *Store) GetByIDs(ctx context.Context, ids []string) ([]models.Employee, error) {
	items, err := s.employees.GetByIDs(ctx, ids)
	if err != nil {
		return nil, storageErr("get by ids", err)
	}
	return items, nil
}

// Employee returns one employee or an error wrapping common.ErrNotFound.
func (s *Store) Employee(ctx context.Context, id string) (models.Employee, error) {
	items, err := s.GetByIDs(ctx, []string{id})
	if err != nil {
		return models.Employee{}, err
	}
	if len(items) == 0 {
		return models.Employee{}, fmt.Errorf("employee %s: %w", id, common.ErrNotFound)
	}
	return items[0], nil
}

// LookupResult returns the memoized result for the key regardless of age,
// or nil when there is none.
func (s *Store) LookupResult(ctx context.Context, query, filters string) (*models.QueryCacheEntry, error) {
	entry, err := s.results.Get(ctx, query, filters)
	if err != nil {
		return nil, storageErr("lookup result", err)
	}
	return entry, nil
}

func (s *Store) SaveResult(ctx context.Context, entry models.QueryCacheEntry) error {
	if err := s.results.Put(ctx, entry); err != nil {
		return storageErr("save result", err)
	}
	return nil
}

func (s *Store) ClearResultCache(ctx context.Context) error {
	if err := s.results.Clear(ctx); err != nil {
		return storageErr("clear result cache", err)
	}
	return nil
}

// PruneResultCache drops memoized results older than the retention window.
func (s *Store) PruneResultCache(ctx context.Context) (int64, error) {
	n, err := s.results.DeleteOlderThan(ctx, s.now().Add(-s.retention))
	if err != nil {
		return 0, storageErr("prune result cache", err)
	}
	return n, nil
}

// ClearAll empties employees, memoized results and metadata at once.
func (s *Store) ClearAll(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := employees.NewSQLiteRepository(tx).DeleteAll(ctx); err != nil {
			return err
		}
		if err := querycache.NewSQLiteRepository(tx).Clear(ctx); err != nil {
			return err
		}
		return metadata.NewSQLiteRepository(tx).Clear(ctx)
	})
	if err != nil {
		return storageErr("clear all", err)
	}
	return nil
}

// LastSync returns the zero time if no sync has completed yet.
func (s *Store) LastSync(ctx context.Context) (time.Time, error) {
	t, err := s.meta.GetTime(ctx, metadata.KeyLastSync)
	if err != nil {
		return time.Time{}, storageErr("read last sync", err)
	}
	return t, nil
}

func (s *Store) SetLastSync(ctx context.Context, t time.Time) error {
	if err := s.meta.SetTime(ctx, metadata.KeyLastSync, t); err != nil {
		return storageErr("write last sync", err)
	}
	return nil
}

func (s *Store) warn(ctx context.Context, msg string, args ...any) {
	if s.log != nil {
		s.log.Warn(ctx, msg, args...)
	}
}

func (s *Store) debug(ctx context.Context, msg string, args ...any) {
	if s.log != nil {
		s.log.Debug(ctx, msg, args...)
	}
}

func storageErr(op string, err error) error {
	if errors.Is(err, common.ErrStorage) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", common.ErrStorage, op, err)
}
