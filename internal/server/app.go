// Package server wires the directory daemon: it opens the local cache,
// connects the remote source and serves the directory over gRPC and HTTP
// while the scheduler keeps the cache in sync.
package server

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/staffdir/internal/client/client"
	"github.com/dmitrijs2005/staffdir/internal/client/scheduler"
	"github.com/dmitrijs2005/staffdir/internal/client/services"
	"github.com/dmitrijs2005/staffdir/internal/client/store"
	"github.com/dmitrijs2005/staffdir/internal/logging"
	"github.com/dmitrijs2005/staffdir/internal/server/config"
	"github.com/dmitrijs2005/staffdir/internal/server/httpapi"

	gs "github.com/dmitrijs2005/staffdir/internal/server/grpc"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	store     *store.Store
	remote    client.Client
	directory *services.Directory
}

// NewApp opens the store and the remote client described by c.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(c.LogLevel, c.LogFormat, logging.Output(c.LogFile))

	st, err := store.Open(ctx, c.StoreOptions(logger))
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	remote, err := client.New(c.RemoteOptions(logger))
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("remote init error: %w", err)
	}

	return &App{
		config:    c,
		logger:    logger,
		store:     st,
		remote:    remote,
		directory: services.NewDirectory(st, remote, c.DirectoryOptions(logger)),
	}, nil
}

// Run serves until SIGINT, SIGTERM or SIGQUIT, or until one component fails.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")
	defer app.close(ctx)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.directory).Run(ctx)
	})
	g.Go(func() error {
		return httpapi.NewServer(app.config.HTTPAddr, app.logger, app.directory).Run(ctx)
	})
	g.Go(func() error {
		return scheduler.New(app.directory, scheduler.Config{
			SyncInterval:        app.config.SyncInterval,
			UpdateCheckInterval: app.config.UpdateCheckInterval,
			PruneInterval:       app.config.ResultCacheRetention,
			Timeout:             app.config.RequestTimeout * 4,
			SyncOnStart:         true,
			Logger:              app.logger,
		}).Run(ctx)
	})

	err := g.Wait()
	app.logger.Info(context.Background(), "App stopped")
	return err
}

func (app *App) close(ctx context.Context) {
	if err := app.remote.Close(); err != nil {
		app.logger.Warn(ctx, "failed to close remote client", "error", err)
	}
	if err := app.store.Close(); err != nil {
		app.logger.Warn(ctx, "failed to close store", "error", err)
	}
}
