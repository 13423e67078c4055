// Package httpproxy puts the cache controller in front of the app origin.
// Requests for /__sw/ endpoints drive the controller; everything else is
// answered through its fetch policy.
package httpproxy

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/songbook/internal/common"
	"github.com/dmitrijs2005/songbook/internal/logging"
	"github.com/dmitrijs2005/songbook/internal/server/controller"
)

const (
	messagePath = "/__sw/message"
	syncPath    = "/__sw/sync"
	eventsPath  = "/__sw/events"

	// DefaultSyncTag is used when a sync request names no tag.
	DefaultSyncTag = "sync-favorites"

	maxMessageBytes = 1 << 20
)

// Controller is the part of *controller.Controller the proxy needs.
type Controller interface {
	Fetch(ctx context.Context, req *http.Request) (*http.Response, error)
	HandleMessage(ctx context.Context, msg controller.Message) (*controller.Reply, error)
	Sync(ctx context.Context, tag string) int
	Subscribe() (<-chan controller.SyncEvent, func())
}

type Handler struct {
	ctrl     Controller
	upstream *url.URL
	secret   []byte
	logger   logging.Logger
}

// NewHandler builds the proxy handler with request logging applied.
func NewHandler(ctrl Controller, upstream *url.URL, secretKey string, logger logging.Logger) http.Handler {
	h := &Handler{
		ctrl:     ctrl,
		upstream: upstream,
		secret:   []byte(secretKey),
		logger:   logger.With("module", "httpproxy"),
	}

	mux := http.NewServeMux()
	mux.Handle("POST "+messagePath, h.requireToken(http.HandlerFunc(h.handleMessage)))
	mux.Handle("POST "+syncPath, h.requireToken(http.HandlerFunc(h.handleSync)))
	mux.HandleFunc("GET "+eventsPath, h.handleEvents)
	mux.HandleFunc("/", h.handleFetch)

	return h.withRequestID(mux)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func messageStatus(err error) int {
	switch {
	case errors.Is(err, common.ErrUnknownMessage):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrNotInstalled), errors.Is(err, controller.ErrInvalidPhase):
		return http.StatusConflict
	case errors.Is(err, common.ErrCacheUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	var msg controller.Message
	if err := json.NewDecoder(io.LimitReader(r.Body, maxMessageBytes)).Decode(&msg); err != nil {
		writeError(w, http.StatusBadRequest, "malformed message")
		return
	}

	reply, err := h.ctrl.HandleMessage(r.Context(), msg)
	if err != nil {
		h.logger.Warn(r.Context(), "message failed", "type", msg.Type, "error", err)
		writeError(w, messageStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

type syncRequest struct {
	Tag string `json:"tag"`
}

type syncResponse struct {
	Tag       string `json:"tag"`
	Delivered int    `json:"delivered"`
}

func (h *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxMessageBytes)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "malformed sync request")
		return
	}
	if req.Tag == "" {
		req.Tag = DefaultSyncTag
	}

	n := h.ctrl.Sync(r.Context(), req.Tag)
	writeJSON(w, http.StatusAccepted, syncResponse{Tag: req.Tag, Delivered: n})
}

// target maps an incoming request onto the upstream. Absolute-form request
// targets (proxy style) are kept as they are.
func (h *Handler) target(r *http.Request) *url.URL {
	if r.URL.IsAbs() {
		return r.URL
	}
	ref := &url.URL{Path: r.URL.Path, RawPath: r.URL.RawPath, RawQuery: r.URL.RawQuery}
	return h.upstream.ResolveReference(ref)
}

func (h *Handler) handleFetch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	out := r.Clone(ctx)
	out.URL = h.target(r)
	out.Host = out.URL.Host
	out.RequestURI = ""

	resp, err := h.ctrl.Fetch(ctx, out)
	if err != nil {
		h.logger.Warn(ctx, "upstream request failed", "url", out.URL.String(), "error", err)
		status := http.StatusBadGateway
		if !errors.Is(err, common.ErrNetworkUnavailable) {
			status = http.StatusInternalServerError
		}
		http.Error(w, http.StatusText(status), status)
		return
	}
	defer resp.Body.Close()

	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		h.logger.Debug(ctx, "response copy interrupted", "url", out.URL.String(), "error", err)
	}
}
