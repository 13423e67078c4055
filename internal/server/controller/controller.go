package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/songbook/internal/common"
	"github.com/dmitrijs2005/songbook/internal/logging"
	"github.com/dmitrijs2005/songbook/internal/server/cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

const tracerName = "github.com/dmitrijs2005/songbook/internal/server/controller"

var ErrInvalidPhase = errors.New("operation not allowed in current phase")

type Controller struct {
	opts    Options
	storage cache.Storage
	client  *http.Client
	logger  logging.Logger
	tracer  trace.Tracer
	now     func() time.Time
	hooks   []func(Phase)

	mu    sync.Mutex
	phase Phase

	revalidate singleflight.Group
	background sync.WaitGroup

	subMu       sync.Mutex
	subscribers map[int]chan SyncEvent
	nextSub     int
}

func New(opts Options, storage cache.Storage, logger logging.Logger, options ...Option) (*Controller, error) {
	if opts.Prefix == "" || opts.Version == "" {
		return nil, errors.New("controller: prefix and version are required")
	}
	if opts.Upstream == nil || !opts.Upstream.IsAbs() {
		return nil, errors.New("controller: absolute upstream url is required")
	}
	opts.setDefaults()

	c := &Controller{
		opts:        opts,
		storage:     storage,
		client:      &http.Client{Timeout: time.Minute},
		logger:      logger.With("module", "controller", "generation", opts.Generation()),
		tracer:      otel.Tracer(tracerName),
		now:         time.Now,
		subscribers: make(map[int]chan SyncEvent),
	}
	for _, o := range options {
		o(c)
	}
	return c, nil
}

// Generation is the name of the cache generation this controller owns.
func (c *Controller) Generation() string {
	return c.opts.Generation()
}

func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// transition moves from one of the allowed phases to next.
func (c *Controller) transition(next Phase, allowed ...Phase) error {
	return c.transitionIf(next, func(cur Phase) bool {
		return slices.Contains(allowed, cur)
	})
}

// transitionIf moves to next when ok accepts the current phase. The check and
// the update happen under one lock.
func (c *Controller) transitionIf(next Phase, ok func(cur Phase) bool) error {
	c.mu.Lock()
	cur := c.phase
	if !ok(cur) {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrInvalidPhase, cur, next)
	}
	c.phase = next
	c.mu.Unlock()

	c.logger.Info(context.Background(), "phase changed", "from", cur.String(), "to", next.String())
	for _, fn := range c.hooks {
		fn(next)
	}
	return nil
}

// Retire marks the controller superseded; it stops governing requests.
func (c *Controller) Retire() {
	_ = c.transitionIf(PhaseRedundant, func(cur Phase) bool { return cur != PhaseRedundant })
}

// Wait blocks until background revalidations finish.
func (c *Controller) Wait() {
	c.background.Wait()
}

func cacheErr(err error) error {
	return fmt.Errorf("%w: %v", common.ErrCacheUnavailable, err)
}
