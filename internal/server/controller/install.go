package controller

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"sync"

	"github.com/dmitrijs2005/songbook/internal/server/cache"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

// InstallReport lists what a population run cached and what it skipped.
type InstallReport struct {
	Generation string            `json:"generation"`
	Cached     []string          `json:"cached"`
	Failed     map[string]string `json:"failed,omitempty"`
}

// Install opens the current generation and fills it with the app shell.
// Individual failures are recorded in the report and never abort the
// install. With SkipWaiting the controller activates right away.
func (c *Controller) Install(ctx context.Context) (*InstallReport, error) {
	ctx, span := c.tracer.Start(ctx, "controller.install")
	defer span.End()

	if err := c.transition(PhaseInstalling, PhaseIdle); err != nil {
		return nil, err
	}

	if err := c.storage.Open(ctx, c.Generation()); err != nil {
		_ = c.transition(PhaseIdle, PhaseInstalling)
		span.SetStatus(codes.Error, err.Error())
		return nil, cacheErr(err)
	}

	report, err := c.populate(ctx, c.opts.Shell)
	if err != nil {
		_ = c.transition(PhaseIdle, PhaseInstalling)
		span.SetStatus(codes.Error, err.Error())
		return report, err
	}
	span.SetAttributes(
		attribute.Int("install.cached", len(report.Cached)),
		attribute.Int("install.failed", len(report.Failed)),
	)

	if err := c.transition(PhaseInstalled, PhaseInstalling); err != nil {
		return report, err
	}
	c.logger.Info(ctx, "install finished", "cached", len(report.Cached), "failed", len(report.Failed))

	if c.opts.SkipWaiting {
		if err := c.Activate(ctx); err != nil {
			return report, err
		}
	}
	return report, nil
}

// populate caches urls concurrently. Only context cancellation is returned
// as an error; everything else lands in the report.
func (c *Controller) populate(ctx context.Context, urls []string) (*InstallReport, error) {
	report := &InstallReport{Generation: c.Generation(), Cached: []string{}, Failed: map[string]string{}}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.InstallConcurrency)

	for _, raw := range urls {
		g.Go(func() error {
			target, err := c.resolve(raw)
			if err == nil {
				err = c.add(gctx, target)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				c.logger.Warn(gctx, "failed to cache", "url", raw, "error", err)
				report.Failed[raw] = err.Error()
				return nil
			}
			report.Cached = append(report.Cached, raw)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report, err
	}
	sort.Strings(report.Cached)
	return report, nil
}

// resolve turns a shell entry into an absolute URL.
func (c *Controller) resolve(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	return c.opts.Upstream.ResolveReference(u).String(), nil
}

// add fetches target and stores it. Like a browser cache add, anything but
// 200 is a failure.
func (c *Controller) add(ctx context.Context, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("bad status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	e := cache.NewEntry(http.MethodGet, target, resp.StatusCode, storableHeader(resp.Header), body, c.now())
	if err := c.storage.Put(ctx, c.Generation(), e); err != nil {
		return cacheErr(err)
	}
	return nil
}
