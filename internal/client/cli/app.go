package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/staffdir/internal/client/client"
	"github.com/dmitrijs2005/staffdir/internal/client/config"
	"github.com/dmitrijs2005/staffdir/internal/client/models"
	"github.com/dmitrijs2005/staffdir/internal/client/scheduler"
	"github.com/dmitrijs2005/staffdir/internal/client/services"
	"github.com/dmitrijs2005/staffdir/internal/client/store"
	"github.com/dmitrijs2005/staffdir/internal/logging"

	gs "github.com/dmitrijs2005/staffdir/internal/server/grpc"
)

// Directory is what the CLI drives. Both *services.Directory and
// *grpc.DirectoryClient satisfy it.
type Directory interface {
	Search(ctx context.Context, query string, filters models.Filters) (models.SearchResult, error)
	SyncNow(ctx context.Context) models.SyncResult
	CheckForUpdates(ctx context.Context) bool
	Status(ctx context.Context) (models.Status, error)
	Employee(ctx context.Context, id string) (models.Employee, error)
	FilterOptions(ctx context.Context) (models.FilterOptions, error)
	Stats(ctx context.Context) (models.Stats, error)
	Team(ctx context.Context, managerName string) (models.Team, error)
}

type Mode string

const (
	ModeLocal  Mode = "local"
	ModeDaemon Mode = "daemon"
)

type App struct {
	config  *config.Config
	dir     Directory
	sched   *scheduler.Scheduler
	closers []func() error
	log     logging.Logger

	Mode    Mode
	filters models.Filters
	updates atomic.Bool

	reader *bufio.Reader
	out    io.Writer
}

// NewApp connects to the daemon at c.DaemonAddr, or, when it is empty,
// opens the local cache and the remote source directly.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(c.LogLevel, "text", os.Stderr)
	app := &App{
		config: c,
		log:    logger.With("module", "cli"),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	if c.DaemonAddr != "" {
		conn, err := gs.Dial(c.DaemonAddr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to daemon: %w", err)
		}
		app.dir = gs.NewDirectoryClient(conn, logger)
		app.closers = append(app.closers, conn.Close)
		app.Mode = ModeDaemon
		return app, nil
	}

	st, err := store.Open(ctx, c.StoreOptions(logger))
	if err != nil {
		return nil, fmt.Errorf("error initializing local cache: %w", err)
	}

	remote, err := client.New(c.RemoteOptions(logger))
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("error initializing remote source: %w", err)
	}

	dir := services.NewDirectory(st, remote, c.DirectoryOptions(logger))
	app.dir = dir
	app.sched = scheduler.New(dir, scheduler.Config{
		SyncInterval:  c.SyncInterval,
		PruneInterval: c.ResultCacheRetention,
		Timeout:       c.RequestTimeout * 4,
		Logger:        logger,
	})
	app.closers = append(app.closers, remote.Close, st.Close)
	app.Mode = ModeLocal

	return app, nil
}

// Run starts the background jobs and the REPL, and releases resources when
// the user exits.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.Close()

	if a.sched != nil {
		a.sched.Start(ctx)
		defer a.sched.Stop()
	}

	go a.StartUpdateWatcher(ctx, a.config.UpdateCheckInterval)

	fmt.Fprintf(a.out, "Staff directory (%s mode, type 'help' for commands)\n", a.Mode)
	runREPL(ctx, a, func() string { return a.getStatus(ctx) }, bufio.NewScanner(a.reader))
}

func (a *App) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.log.Warn(context.Background(), "close failed", "error", err)
		}
	}
	a.closers = nil
}

// StartUpdateWatcher probes for remote changes every interval and announces
// when updates become available. A non-positive interval disables it.
func (a *App) StartUpdateWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkUpdatesQuietly(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkUpdatesQuietly(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	defer cancel()

	available := a.dir.CheckForUpdates(ctx)
	if available && !a.updates.Swap(true) {
		fmt.Fprintln(a.out, "\nUpdates are available, type 'sync' to fetch them.")
	}
	if !available {
		a.updates.Store(false)
	}
}

func (a *App) getStatus(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	st, err := a.dir.Status(ctx)
	if err != nil {
		return "(unavailable)"
	}

	s := fmt.Sprintf("%d, synced %s", st.Records, st.SinceLastSync)
	if a.updates.Load() || st.UpdatesAvailable {
		s += ", updates available"
	}
	if !a.filters.IsEmpty() {
		s += ", filtered"
	}
	return "(" + s + ")"
}
