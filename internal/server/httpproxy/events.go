package httpproxy

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// heartbeatInterval keeps idle event streams open through intermediaries.
var heartbeatInterval = 25 * time.Second

// handleEvents streams sync requests to an application instance as
// server-sent events until the client goes away.
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)

	events, unsubscribe := h.ctrl.Subscribe()
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, ": connected\n\n")
	if err := rc.Flush(); err != nil {
		h.logger.Warn(r.Context(), "event stream unsupported", "error", err)
		return
	}

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = fmt.Fprint(w, ": ping\n\n")
		case ev, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				h.logger.Error(ctx, "failed to marshal sync event", "error", err)
				continue
			}
			_, _ = fmt.Fprintf(w, "event: sync\ndata: %s\n\n", data)
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
