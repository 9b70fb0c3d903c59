package services

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/staffdir/internal/client/models"
	"github.com/dmitrijs2005/staffdir/internal/logging"
	"github.com/dmitrijs2005/staffdir/internal/textnorm"
	"github.com/dmitrijs2005/staffdir/internal/timex"
)

const DefaultRemoteFallbackAfter = 5 * time.Minute

type Options struct {
	ResultTTL    time.Duration
	BrowseLimit  int
	ResultLimit  int
	HotCacheSize int
	// RemoteFallbackAfter is the sync age after which an empty local
	// result is retried against the remote.
	RemoteFallbackAfter time.Duration
	Now                 func() time.Time
	Logger              logging.Logger
}

// Directory is the surface shown to users. It ties search, sync and the
// staleness probe to one store and one remote.
type Directory struct {
	store   Store
	remote  Remote
	search  *SearchService
	sync    *SyncService
	updates *UpdateChecker

	fallbackAfter time.Duration
	resultLimit   int
	now           func() time.Time
	log           logging.Logger

	updatesAvailable atomic.Bool
}

func NewDirectory(st Store, remote Remote, opts Options) *Directory {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.RemoteFallbackAfter <= 0 {
		opts.RemoteFallbackAfter = DefaultRemoteFallbackAfter
	}
	if opts.ResultLimit <= 0 {
		opts.ResultLimit = DefaultResultLimit
	}

	search := NewSearchService(st, SearchOptions{
		ResultTTL:    opts.ResultTTL,
		BrowseLimit:  opts.BrowseLimit,
		ResultLimit:  opts.ResultLimit,
		HotCacheSize: opts.HotCacheSize,
		Now:          opts.Now,
		Logger:       opts.Logger,
	})

	return &Directory{
		store:         st,
		remote:        remote,
		search:        search,
		sync:          NewSyncService(remote, st, search, SyncOptions{Now: opts.Now, Logger: opts.Logger}),
		updates:       NewUpdateChecker(remote, st, opts.Logger),
		fallbackAfter: opts.RemoteFallbackAfter,
		resultLimit:   opts.ResultLimit,
		now:           opts.Now,
		log:           logging.OrDiscard(opts.Logger).With("module", "directory"),
	}
}

// Search queries the local cache. An empty cache triggers one sync first.
// When the local answer is empty and the last sync is older than
// RemoteFallbackAfter, the remote is queried directly and its rows are
// returned without being cached.
func (d *Directory) Search(ctx context.Context, query string, filters models.Filters) (models.SearchResult, error) {
	n, err := d.store.Count(ctx)
	if err != nil {
		return emptyResult(models.SourceLocal), err
	}

	if n == 0 {
		d.log.Info(ctx, "local cache empty, syncing before search")
		if res := d.SyncNow(ctx); !res.Success {
			d.log.Warn(ctx, "initial sync failed", "message", res.Message)
		}
	}

	res, err := d.search.Search(ctx, query, filters)
	if err != nil || len(res.Employees) > 0 {
		return res, err
	}

	if !d.mayBeStale(ctx) {
		return res, nil
	}
	return d.searchRemote(ctx, query, filters, res), nil
}

func (d *Directory) mayBeStale(ctx context.Context) bool {
	last, err := d.store.LastSync(ctx)
	if err != nil {
		return true
	}
	return last.IsZero() || d.now().Sub(last) > d.fallbackAfter
}

func (d *Directory) searchRemote(ctx context.Context, query string, filters models.Filters, local models.SearchResult) models.SearchResult {
	start := time.Now()

	items, err := d.remote.ListActive(ctx, filters)
	if err != nil {
		d.log.Warn(ctx, "remote fallback failed", "error", err)
		return local
	}

	term := strings.TrimSpace(textnorm.Normalize(query))
	matches := MatchEmployees(items, term, filters)
	if len(matches) > d.resultLimit {
		matches = matches[:d.resultLimit]
	}

	took := time.Since(start)
	searchDuration.WithLabelValues(models.SourceRemote).Observe(took.Seconds())
	return models.SearchResult{Employees: matches, Source: models.SourceRemote, Took: took}
}

// SyncNow runs a sync, joining one already in flight.
func (d *Directory) SyncNow(ctx context.Context) models.SyncResult {
	res := d.sync.SyncWithServer(ctx)
	if res.Success {
		d.updatesAvailable.Store(false)
		updatesAvailable.Set(0)
	}
	return res
}

func (d *Directory) CheckForUpdates(ctx context.Context) bool {
	v := d.updates.CheckForUpdates(ctx)
	d.updatesAvailable.Store(v)
	if v {
		updatesAvailable.Set(1)
	} else {
		updatesAvailable.Set(0)
	}
	return v
}

// UpdatesAvailable returns the outcome of the latest CheckForUpdates that
// was not followed by a successful sync.
func (d *Directory) UpdatesAvailable() bool {
	return d.updatesAvailable.Load()
}

func (d *Directory) HasLocalData(ctx context.Context) bool {
	n, err := d.store.Count(ctx)
	if err != nil {
		d.log.Warn(ctx, "failed to count local employees", "error", err)
		return false
	}
	return n > 0
}

// LastSyncTime returns the time of the last successful sync and false when
// there was none.
func (d *Directory) LastSyncTime(ctx context.Context) (time.Time, bool) {
	t, err := d.store.LastSync(ctx)
	if err != nil {
		d.log.Warn(ctx, "failed to read last sync time", "error", err)
		return time.Time{}, false
	}
	return t, !t.IsZero()
}

func (d *Directory) Status(ctx context.Context) (models.Status, error) {
	n, err := d.store.Count(ctx)
	if err != nil {
		return models.Status{}, err
	}
	last, err := d.store.LastSync(ctx)
	if err != nil {
		return models.Status{}, err
	}

	return models.Status{
		HasLocalData:     n > 0,
		Records:          n,
		LastSync:         last,
		SinceLastSync:    timex.Ago(last, d.now()),
		UpdatesAvailable: d.updatesAvailable.Load(),
	}, nil
}

func (d *Directory) Employee(ctx context.Context, id string) (models.Employee, error) {
	return d.store.Employee(ctx, id)
}

func (d *Directory) FilterOptions(ctx context.Context) (models.FilterOptions, error) {
	return d.store.FilterOptions(ctx)
}

func (d *Directory) Stats(ctx context.Context) (models.Stats, error) {
	return d.store.Stats(ctx)
}

func (d *Directory) Team(ctx context.Context, managerName string) (models.Team, error) {
	return d.store.Team(ctx, managerName)
}

// PruneResults removes memoized results past the retention window.
func (d *Directory) PruneResults(ctx context.Context) (int64, error) {
	return d.store.PruneResultCache(ctx)
}
