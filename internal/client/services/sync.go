package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/dmitrijs2005/staffdir/internal/client/models"
	"github.com/dmitrijs2005/staffdir/internal/common"
	"github.com/dmitrijs2005/staffdir/internal/logging"
)

// User facing sync messages.
const (
	MsgUpToDate     = "You already have the latest data"
	MsgSynchronized = "Database synchronized"
	MsgCompleted    = "Sync completed"
	MsgConnectivity = "Could not reach the directory server. Check your connection"
	MsgNoData       = "The directory server returned no data"
	MsgStorage      = "The local cache could not be updated"
)

// ResultInvalidator drops memoized search results after the data changes.
type ResultInvalidator interface {
	InvalidateResults(ctx context.Context) error
}

// DefaultSyncTimeout bounds one shared sync run.
const DefaultSyncTimeout = 2 * time.Minute

type SyncOptions struct {
	Now func() time.Time
	// Timeout bounds a run independently of the callers waiting on it.
	Timeout time.Duration
	Logger  logging.Logger
}

// SyncService reconciles the local store with the remote source. Concurrent
// callers share one in-flight run.
type SyncService struct {
	remote Remote
	store  Store
	cache  ResultInvalidator
	group   singleflight.Group
	now     func() time.Time
	timeout time.Duration
	log     logging.Logger
}

// NewSyncService builds a SyncService. cache may be nil, in which case the
// durable result table is cleared directly after changes.
func NewSyncService(remote Remote, st Store, cache ResultInvalidator, opts SyncOptions) *SyncService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultSyncTimeout
	}
	return &SyncService{
		remote:  remote,
		store:   st,
		cache:   cache,
		now:     opts.Now,
		timeout: opts.Timeout,
		log:     logging.OrDiscard(opts.Logger).With("module", "sync"),
	}
}

// SyncWithServer pulls every active employee from the remote, writes new and
// changed ones, removes the ones no longer active and records the sync time.
// It never returns an error; failures are described by the result.
//
// The run is detached from ctx and bounded by the configured timeout, so one
// caller giving up does not fail the others. A caller whose ctx ends first
// gets a failed result while the run carries on.
func (s *SyncService) SyncWithServer(ctx context.Context) models.SyncResult {
	ch := s.group.DoChan("sync", func() (any, error) {
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return s.run(runCtx), nil
	})

	select {
	case r := <-ch:
		res := r.Val.(models.SyncResult)
		res.Shared = r.Shared
		return res
	case <-ctx.Done():
		s.log.Warn(ctx, "stopped waiting for sync", "error", ctx.Err())
		return models.SyncResult{Success: false, Message: MsgConnectivity, Failure: models.FailureTransport}
	}
}

func (s *SyncService) run(ctx context.Context) models.SyncResult {
	log := s.log.With("run_id", uuid.NewString())
	started := time.Now()
	defer func() { syncDuration.Observe(time.Since(started).Seconds()) }()

	log.Info(ctx, "sync started")

	existing, err := s.store.ListAll(ctx)
	if err != nil {
		return s.fail(ctx, log, models.FailureStorage, err)
	}

	incoming, err := s.remote.ListActive(ctx, models.Filters{})
	if err != nil {
		return s.fail(ctx, log, models.FailureTransport, err)
	}

	incoming = s.validate(ctx, log, incoming)
	if len(incoming) == 0 {
		syncRuns.WithLabelValues("no_data").Inc()
		log.Warn(ctx, "remote returned no usable records")
		return models.SyncResult{Success: false, Message: MsgNoData, Failure: models.FailureTransport}
	}

	before := make(map[string]models.Employee, len(existing))
	for _, e := range existing {
		before[e.ID] = e
	}

	var added, updated int
	for _, e := range incoming {
		old, ok := before[e.ID]
		switch {
		case !ok:
			added++
		case e.SignificantlyDiffers(old):
			updated++
		}
	}

	var removed int
	if added > 0 || updated > 0 || len(incoming) != len(existing) {
		removed, err = s.store.ReplaceAll(ctx, incoming)
		if err != nil {
			return s.fail(ctx, log, models.FailureStorage, err)
		}
		if err := s.invalidate(ctx); err != nil {
			return s.fail(ctx, log, models.FailureStorage, err)
		}
	}

	total, err := s.store.Count(ctx)
	if err != nil {
		return s.fail(ctx, log, models.FailureStorage, err)
	}

	if err := s.store.SetLastSync(ctx, s.now()); err != nil {
		return s.fail(ctx, log, models.FailureStorage, err)
	}

	msg := syncMessage(added, updated, len(existing), total)
	outcome := "changed"
	if msg == MsgUpToDate {
		outcome = "unchanged"
	}
	syncRuns.WithLabelValues(outcome).Inc()
	localRecords.Set(float64(total))

	log.Info(ctx, "sync finished",
		"new", added, "updated", updated, "removed", removed, "total", total,
		"took", time.Since(started))

	return models.SyncResult{
		Success:        true,
		Message:        msg,
		NewRecords:     added,
		UpdatedRecords: updated,
		RemovedRecords: removed,
		TotalRecords:   total,
	}
}

// validate drops records without id or name and collapses duplicate ids,
// keeping the last occurrence.
func (s *SyncService) validate(ctx context.Context, log logging.Logger, items []models.Employee) []models.Employee {
	pos := make(map[string]int, len(items))
	out := make([]models.Employee, 0, len(items))

	for _, e := range items {
		if e.ID == "" || e.Name == "" {
			log.Warn(ctx, "skipping remote record", "error", common.ErrDataShape, "id", e.ID)
			continue
		}
		if i, ok := pos[e.ID]; ok {
			out[i] = e
			continue
		}
		pos[e.ID] = len(out)
		out = append(out, e)
	}
	return out
}

func (s *SyncService) invalidate(ctx context.Context) error {
	if s.cache != nil {
		return s.cache.InvalidateResults(ctx)
	}
	return s.store.ClearResultCache(ctx)
}

func (s *SyncService) fail(ctx context.Context, log logging.Logger, kind string, err error) models.SyncResult {
	syncRuns.WithLabelValues(kind + "_error").Inc()
	log.Error(ctx, "sync failed", "failure", kind, "error", err)

	msg := MsgConnectivity
	if kind == models.FailureStorage || errors.Is(err, common.ErrStorage) {
		kind, msg = models.FailureStorage, MsgStorage
	}
	return models.SyncResult{Success: false, Message: msg, Failure: kind}
}

func syncMessage(added, updated, before, after int) string {
	switch {
	case added == 0 && updated == 0 && before == after:
		return MsgUpToDate
	case added > 0:
		return fmt.Sprintf("%d new %s added", added, plural(added, "employee", "employees"))
	case updated > 0:
		return fmt.Sprintf("%d %s updated", updated, plural(updated, "employee", "employees"))
	case before != after:
		return MsgSynchronized
	}
	return MsgCompleted
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
