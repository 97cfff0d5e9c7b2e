// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/okian/arena/internal/adapters/mq/fanout"
	"github.com/okian/arena/internal/domain/events"
)

// StreamDependencies defines the interface for the live event stream.
type StreamDependencies interface {
	Subscribe(ctx context.Context, scope events.Scope, teamID string) (*fanout.Subscriber, error)
	Unsubscribe(ctx context.Context, id string)
}

// StreamHandler serves the live event stream over Server-Sent Events.
type StreamHandler struct {
	deps StreamDependencies
}

// NewStreamHandler creates a new stream handler.
func NewStreamHandler(deps StreamDependencies) *StreamHandler {
	return &StreamHandler{deps: deps}
}

// HandleStream handles GET /api/stream?scope=S&team=ID requests. The
// connection stays open until the client disconnects; each projection is
// written as one SSE event named after its taxonomy type.
func (h *StreamHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	const op = "api.stream"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	scope := events.Scope(r.URL.Query().Get("scope"))
	if scope == "" {
		scope = events.ScopeGuests
	}
	if !scope.Valid() {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	teamID := r.URL.Query().Get("team")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal_error", NewKind(op, ErrStreamUnsupported))
		return
	}

	sub, err := h.deps.Subscribe(r.Context(), scope, teamID)
	if err != nil {
		writeKind(w, err)
		return
	}
	defer h.deps.Unsubscribe(context.Background(), sub.ID())

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case d, ok := <-sub.Deliveries():
			if !ok {
				return
			}
			payload, err := json.Marshal(d.Payload)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", d.EventID, d.Type, payload)
			flusher.Flush()
		}
	}
}
