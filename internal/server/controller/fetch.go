package controller

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/songbook/internal/common"
	"github.com/dmitrijs2005/songbook/internal/server/cache"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// SourceHeader tells the caller where a response came from.
const SourceHeader = "X-Songbook-Source"

const (
	SourceNetwork = "network"
	SourceCache   = "cache"
	SourceOffline = "offline"
)

const (
	offlineAsset    = "Offline - Resource not available"
	offlineDocument = `<!DOCTYPE html><html><head><meta charset="utf-8"><title>Offline</title></head>` +
		`<body><h1>You are offline</h1><p>This page is not available offline yet.</p></body></html>`
)

// hop-by-hop headers are never forwarded or stored
var hopHeaders = []string{
	"Connection", "Keep-Alive", "Proxy-Authenticate", "Proxy-Authorization",
	"Proxy-Connection", "Te", "Trailer", "Transfer-Encoding", "Upgrade",
}

func stripHop(h http.Header) {
	for _, k := range hopHeaders {
		h.Del(k)
	}
}

func storableHeader(h http.Header) http.Header {
	out := h.Clone()
	stripHop(out)
	out.Del("Set-Cookie")
	out.Del("Content-Length")
	out.Del(SourceHeader)
	return out
}

// Fetch answers req according to the policy table. Only passthrough and
// network-only requests return network errors.
func (c *Controller) Fetch(ctx context.Context, req *http.Request) (*http.Response, error) {
	strategy := StrategyPassthrough
	if c.Phase() == PhaseActivated {
		strategy = c.Classify(req)
	}

	ctx, span := c.tracer.Start(ctx, "controller.fetch", trace.WithAttributes(
		attribute.String("http.method", req.Method),
		attribute.String("url.full", req.URL.String()),
		attribute.String("fetch.strategy", strategy.String()),
	))
	defer span.End()

	c.logger.Debug(ctx, "fetch", "method", req.Method, "url", req.URL.String(), "strategy", strategy.String())

	var (
		resp *http.Response
		err  error
	)
	switch strategy {
	case StrategyNetworkFirst:
		resp = c.networkFirst(ctx, req)
	case StrategyStaleWhileRevalidate:
		resp = c.staleWhileRevalidate(ctx, req)
	default:
		resp, err = c.forward(ctx, req)
	}

	if resp != nil {
		span.SetAttributes(
			attribute.Int("http.status_code", resp.StatusCode),
			attribute.String("fetch.source", resp.Header.Get(SourceHeader)),
		)
	}
	return resp, err
}

// forward sends req upstream untouched, streaming the body back.
func (c *Controller) forward(ctx context.Context, req *http.Request) (*http.Response, error) {
	out := req.Clone(ctx)
	out.RequestURI = ""
	stripHop(out.Header)

	resp, err := c.client.Do(out)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrNetworkUnavailable, err)
	}
	stripHop(resp.Header)
	resp.Header.Set(SourceHeader, SourceNetwork)
	return resp, nil
}

// fetchBody performs a GET for req and buffers the whole response.
func (c *Controller) fetchBody(ctx context.Context, req *http.Request) (int, http.Header, []byte, error) {
	out, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL.String(), nil)
	if err != nil {
		return 0, nil, nil, err
	}
	for _, k := range []string{"Accept", "Accept-Language", "User-Agent"} {
		if v := req.Header.Get(k); v != "" {
			out.Header.Set(k, v)
		}
	}

	resp, err := c.client.Do(out)
	if err != nil {
		return 0, nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, err
	}
	return resp.StatusCode, resp.Header, body, nil
}

// store caches a 200 response; failures are only logged.
func (c *Controller) store(ctx context.Context, target string, status int, header http.Header, body []byte) {
	if status != http.StatusOK {
		return
	}
	e := cache.NewEntry(http.MethodGet, target, status, storableHeader(header), body, c.now())
	if err := c.storage.Put(ctx, c.Generation(), e); err != nil {
		c.logger.Warn(ctx, "failed to cache response", "url", target, "error", err)
	}
}

func (c *Controller) match(ctx context.Context, target string) *cache.Entry {
	e, err := c.storage.Match(ctx, c.Generation(), http.MethodGet, target)
	if err != nil {
		c.logger.Warn(ctx, "cache lookup failed", "url", target, "error", err)
		return nil
	}
	return e
}

func (c *Controller) networkFirst(ctx context.Context, req *http.Request) *http.Response {
	target := req.URL.String()

	nctx, cancel := context.WithTimeout(ctx, c.opts.NavigationTimeout)
	status, header, body, err := c.fetchBody(nctx, req)
	cancel()

	if err == nil {
		c.store(ctx, target, status, header, body)
		return buildResponse(req, status, storableHeader(header), body, SourceNetwork)
	}
	c.logger.Info(ctx, "navigation network failed, using cache", "url", target, "error", err)

	fallbacks := []string{target}
	for _, p := range []string{c.opts.ShellDocument, c.opts.OfflinePage} {
		if p == "" {
			continue
		}
		if u, err := c.resolve(p); err == nil {
			fallbacks = append(fallbacks, u)
		}
	}
	for _, u := range fallbacks {
		if e := c.match(ctx, u); e != nil {
			return buildResponse(req, e.Status, e.Header, e.Body, SourceCache)
		}
	}

	h := http.Header{}
	h.Set("Content-Type", "text/html; charset=utf-8")
	return buildResponse(req, http.StatusServiceUnavailable, h, []byte(offlineDocument), SourceOffline)
}

func (c *Controller) staleWhileRevalidate(ctx context.Context, req *http.Request) *http.Response {
	target := req.URL.String()

	if e := c.match(ctx, target); e != nil {
		c.refreshInBackground(req)
		return buildResponse(req, e.Status, e.Header, e.Body, SourceCache)
	}

	status, header, body, err := c.fetchBody(ctx, req)
	if err != nil {
		c.logger.Info(ctx, "network request failed, no cache available", "url", target, "error", err)
		h := http.Header{}
		h.Set("Content-Type", "text/plain")
		return buildResponse(req, http.StatusServiceUnavailable, h, []byte(offlineAsset), SourceOffline)
	}

	c.store(ctx, target, status, header, body)
	return buildResponse(req, status, storableHeader(header), body, SourceNetwork)
}

// refreshInBackground re-fetches req detached from the caller. Concurrent
// refreshes of one URL collapse into a single request.
func (c *Controller) refreshInBackground(req *http.Request) {
	target := req.URL.String()
	snapshot := req.Clone(context.Background())

	c.background.Add(1)
	go func() {
		defer c.background.Done()

		_, _, _ = c.revalidate.Do(target, func() (any, error) {
			ctx, cancel := context.WithTimeout(context.Background(), c.opts.RevalidateTimeout)
			defer cancel()

			status, header, body, err := c.fetchBody(ctx, snapshot)
			if err != nil {
				c.logger.Debug(ctx, "revalidation failed", "url", target, "error", err)
				return nil, err
			}
			c.store(ctx, target, status, header, body)
			return nil, nil
		})
	}()
}

func buildResponse(req *http.Request, status int, header http.Header, body []byte, source string) *http.Response {
	h := header.Clone()
	if h == nil {
		h = http.Header{}
	}
	h.Set(SourceHeader, source)
	h.Set("Content-Length", strconv.Itoa(len(body)))

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        h,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}
