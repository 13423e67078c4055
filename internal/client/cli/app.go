package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/songbook/internal/client/client"
	"github.com/dmitrijs2005/songbook/internal/client/config"
	"github.com/dmitrijs2005/songbook/internal/client/services"
	"github.com/dmitrijs2005/songbook/internal/client/store"
	"github.com/dmitrijs2005/songbook/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const probeTimeout = 3 * time.Second

type App struct {
	config          *config.Config
	logger          logging.Logger
	store           *store.Store
	client          client.Client
	syncService     services.SyncService
	favoriteService services.FavoriteService
	out             io.Writer

	mu   sync.RWMutex
	mode Mode
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	st := store.New(c.DatabasePath, logger)
	if err := st.Init(ctx); err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	var opts []client.Option
	if c.HealthAddr != "" {
		probe, err := client.NewHealthProbe(c.HealthAddr, c.HealthService, c.AccessToken)
		if err != nil {
			_ = st.Close()
			return nil, err
		}
		opts = append(opts, client.WithProber(probe))
	}

	apiClient, err := client.NewHTTPClient(c.RemoteURL, c.AccessToken, opts...)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	return newApp(c, logger, st, apiClient, os.Stdout), nil
}

func newApp(c *config.Config, logger logging.Logger, st *store.Store, cl client.Client, out io.Writer) *App {
	return &App{
		config:          c,
		logger:          logger.With("module", "cli"),
		store:           st,
		client:          cl,
		syncService:     services.NewSyncService(cl, st, logger),
		favoriteService: services.NewFavoriteService(cl, st, logger),
		out:             out,
		mode:            ModeOffline,
	}
}

func (a *App) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

// setMode switches the mode and reports whether it changed.
func (a *App) setMode(ctx context.Context, mode Mode) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.mode == mode {
		return false
	}
	a.mode = mode
	a.logger.Info(ctx, "switched mode", "mode", mode)
	return true
}

func (a *App) isOnline() bool {
	return a.Mode() == ModeOnline
}

// Run starts the watcher and blocks in the REPL until the user exits.
func (a *App) Run(ctx context.Context, in io.Reader) {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}()
	defer func() {
		cancel()
		<-done
	}()

	fmt.Fprintln(a.out, "Welcome to SongBook CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, newScanner(in))
}

func (a *App) Close() {
	if err := a.client.Close(); err != nil {
		a.logger.Warn(context.Background(), "closing client", "error", err)
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn(context.Background(), "closing store", "error", err)
	}
}

func (a *App) getStatus() string {
	return fmt.Sprintf("(%s %s)", a.config.UserID, a.Mode())
}

// checkOnline probes the remote side once and syncs on an offline to
// online transition.
func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, probeTimeout)
	err := a.client.Ping(pctx)
	cancel()

	if err != nil {
		a.logger.Debug(ctx, "probe failed", "error", err)
		a.setMode(ctx, ModeOffline)
		return
	}

	if a.setMode(ctx, ModeOnline) {
		if _, err := a.syncService.Sync(ctx, a.config.UserID); err != nil {
			a.logger.Warn(ctx, "sync after reconnect failed", "error", err)
		}
	}
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
