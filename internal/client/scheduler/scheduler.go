// Package scheduler runs the periodic background work of the directory:
// syncing with the remote, probing for updates and pruning memoized results.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/staffdir/internal/client/models"
	"github.com/dmitrijs2005/staffdir/internal/logging"
)

// Directory is the work the scheduler drives. *services.Directory
// satisfies it.
type Directory interface {
	SyncNow(ctx context.Context) models.SyncResult
	CheckForUpdates(ctx context.Context) bool
	PruneResults(ctx context.Context) (int64, error)
}

// Config sets the job intervals. A zero interval disables its job.
type Config struct {
	SyncInterval        time.Duration
	UpdateCheckInterval time.Duration
	PruneInterval       time.Duration
	// Timeout bounds each job run.
	Timeout time.Duration
	// SyncOnStart runs one sync right after Start.
	SyncOnStart bool
	Logger      logging.Logger
}

type Scheduler struct {
	dir Directory
	cfg Config
	log logging.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func New(dir Directory, cfg Config) *Scheduler {
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	return &Scheduler{
		dir: dir,
		cfg: cfg,
		log: logging.OrDiscard(cfg.Logger).With("module", "scheduler"),
	}
}

// Start launches the enabled jobs. Calling Start on a running scheduler is
// a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.running = true

	if s.cfg.SyncOnStart {
		s.spawn(func() { s.sync(ctx) })
	}
	s.every(ctx, s.cfg.SyncInterval, s.sync)
	s.every(ctx, s.cfg.UpdateCheckInterval, s.checkUpdates)
	s.every(ctx, s.cfg.PruneInterval, s.prune)

	s.log.Info(ctx, "scheduler started",
		"sync_interval", s.cfg.SyncInterval,
		"update_check_interval", s.cfg.UpdateCheckInterval,
		"prune_interval", s.cfg.PruneInterval)
}

// Stop cancels the jobs and waits for running ones to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Info(context.Background(), "scheduler stopped")
}

// Run starts the scheduler and blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	s.Start(ctx)
	<-ctx.Done()
	s.Stop()
	return nil
}

func (s *Scheduler) spawn(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn()
	}()
}

func (s *Scheduler) every(ctx context.Context, interval time.Duration, job func(context.Context)) {
	if interval <= 0 {
		return
	}
	s.spawn(func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				job(ctx)
			}
		}
	})
}

func (s *Scheduler) sync(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	res := s.dir.SyncNow(ctx)
	if !res.Success {
		s.log.Warn(ctx, "scheduled sync failed", "message", res.Message, "failure", res.Failure)
		return
	}
	s.log.Debug(ctx, "scheduled sync done", "message", res.Message)
}

func (s *Scheduler) checkUpdates(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	if s.dir.CheckForUpdates(ctx) {
		s.log.Info(ctx, "remote directory has changed")
	}
}

func (s *Scheduler) prune(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	n, err := s.dir.PruneResults(ctx)
	if err != nil {
		s.log.Warn(ctx, "failed to prune memoized results", "error", err)
		return
	}
	if n > 0 {
		s.log.Debug(ctx, "pruned memoized results", "count", n)
	}
}
