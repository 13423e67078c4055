// Package server wires the cache controller process: cache storage, the
// controller itself, the HTTP proxy in front of the app origin and the gRPC
// health service reporting readiness.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/songbook/internal/logging"
	"github.com/dmitrijs2005/songbook/internal/server/cache"
	"github.com/dmitrijs2005/songbook/internal/server/config"
	"github.com/dmitrijs2005/songbook/internal/server/controller"
	"github.com/dmitrijs2005/songbook/internal/server/httpproxy"
	"github.com/dmitrijs2005/songbook/internal/tracing"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/songbook/internal/server/grpc"
)

const serviceName = "songbook-controller"

type App struct {
	config          *config.Config
	logger          logging.Logger
	storage         cache.Storage
	controller      *controller.Controller
	health          *gs.GRPCServer
	http            *httpproxy.Server
	shutdownTracing func(context.Context) error
}

// openStorage picks the cache backend named in the config.
func openStorage(ctx context.Context, c *config.Config) (cache.Storage, error) {
	switch c.CacheBackend {
	case "memory":
		return cache.NewMemory(), nil
	case "sqlite":
		return cache.OpenSQLite(ctx, c.CacheDSN)
	case "s3":
		return cache.NewS3FromOptions(ctx, cache.S3Options{
			Bucket:    c.S3Bucket,
			Region:    c.S3Region,
			Endpoint:  c.S3BaseEndpoint,
			AccessKey: c.S3RootUser,
			SecretKey: c.S3RootPassword,
		})
	default:
		return nil, fmt.Errorf("unknown cache backend %q", c.CacheBackend)
	}
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	upstream, err := url.Parse(c.UpstreamURL)
	if err != nil {
		return nil, fmt.Errorf("upstream url: %w", err)
	}

	shutdownTracing, err := tracing.Setup(ctx, serviceName, c.OTLPEndpoint)
	if err != nil {
		return nil, fmt.Errorf("tracing init error: %w", err)
	}

	storage, err := openStorage(ctx, c)
	if err != nil {
		_ = shutdownTracing(ctx)
		return nil, fmt.Errorf("cache init error: %w", err)
	}

	healthSecret := ""
	if c.HealthAuth {
		healthSecret = c.SecretKey
	}
	health := gs.NewGRPCServer(c.GRPCAddr, logger, healthSecret)

	ctrl, err := controller.New(controller.Options{
		Prefix:             c.CachePrefix,
		Version:            c.CacheVersion,
		Upstream:           upstream,
		Shell:              c.Shell,
		ShellDocument:      c.ShellDocument,
		OfflinePage:        c.OfflinePage,
		ExcludedOrigins:    c.ExcludedOrigins,
		NavigationTimeout:  c.NavigationTimeout,
		RevalidateTimeout:  c.RevalidateTimeout,
		InstallConcurrency: c.InstallConcurrency,
		SkipWaiting:        c.SkipWaiting,
	}, storage, logger, controller.WithPhaseHook(func(p controller.Phase) {
		health.SetServing(p == controller.PhaseActivated)
	}))
	if err != nil {
		_ = storage.Close()
		_ = shutdownTracing(ctx)
		return nil, err
	}

	handler := httpproxy.NewHandler(ctrl, upstream, c.SecretKey, logger)

	return &App{
		config:          c,
		logger:          logger.With("module", "app"),
		storage:         storage,
		controller:      ctrl,
		health:          health,
		http:            httpproxy.NewServer(c.HTTPAddr, handler, logger),
		shutdownTracing: shutdownTracing,
	}, nil
}

// install populates the cache generation. A failed install leaves the
// controller idle, so requests pass straight through to the network.
func (app *App) install(ctx context.Context) {
	report, err := app.controller.Install(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			app.logger.Error(ctx, "install failed", "error", err)
		}
		return
	}
	app.logger.Info(ctx, "cache installed",
		"generation", report.Generation,
		"cached", len(report.Cached),
		"failed", len(report.Failed),
		"phase", app.controller.Phase().String(),
	)
}

// Run serves until ctx is done or a server fails, then releases resources.
func (app *App) Run(ctx context.Context) error {
	app.logger.Info(ctx, "Starting app...", "generation", app.controller.Generation())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.health.Run(gctx) })
	g.Go(func() error { return app.http.Run(gctx) })
	g.Go(func() error {
		app.install(gctx)
		return nil
	})

	err := g.Wait()

	app.controller.Retire()
	app.controller.Wait()
	if cerr := app.storage.Close(); cerr != nil {
		app.logger.Error(ctx, "cache close failed", "error", cerr)
	}
	if terr := app.shutdownTracing(context.WithoutCancel(ctx)); terr != nil {
		app.logger.Error(ctx, "tracing shutdown failed", "error", terr)
	}
	app.logger.Info(ctx, "App stopped")
	return err
}
