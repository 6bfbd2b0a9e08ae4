package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bnema/galerie/internal/domain"
	"github.com/bnema/galerie/internal/service"
)

const keepAliveInterval = 15 * time.Second

type EventSubscriber interface {
	Subscribe(mediaID string) chan service.Event
	Unsubscribe(mediaID string, ch chan service.Event)
}

type SSEHandler struct {
	events    EventSubscriber
	mediaSvc  MediaService
	keepAlive time.Duration
}

func NewSSEHandler(events EventSubscriber, mediaSvc MediaService) *SSEHandler {
	return &SSEHandler{
		events:    events,
		mediaSvc:  mediaSvc,
		keepAlive: keepAliveInterval,
	}
}

func sseWrite(w http.ResponseWriter, event service.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data); err != nil {
		return err
	}
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}

func sendKeepAlive(w http.ResponseWriter) {
	_, _ = fmt.Fprint(w, ": keep-alive\n\n")
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func currentEvent(m *domain.Media) service.Event {
	return service.Event{Type: "status", Status: m.Processing.String()}
}

func isTerminal(status string) bool {
	return status == domain.ProcessingReady.String() || status == domain.ProcessingFailed.String()
}

// Events streams processing status for one media item. The stream ends after
// a terminal status once the client hangs up, so EventSource does not
// reconnect in a loop.
func (h *SSEHandler) Events() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		// Subscribe before reading state so a transition in between is not lost.
		ch := h.events.Subscribe(id)
		defer h.events.Unsubscribe(id, ch)

		details, err := h.mediaSvc.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")

		ctx := r.Context()
		current := currentEvent(details.Media)
		if err := sseWrite(w, current); err != nil {
			return
		}
		if isTerminal(current.Status) {
			<-ctx.Done()
			return
		}
		h.stream(ctx, w, ch)
	}
}

func (h *SSEHandler) stream(ctx context.Context, w http.ResponseWriter, ch chan service.Event) {
	keepAlive := time.NewTicker(h.keepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-keepAlive.C:
			sendKeepAlive(w)
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := sseWrite(w, event); err != nil {
				return
			}
			if isTerminal(event.Status) {
				<-ctx.Done()
				return
			}
		}
	}
}
