package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/formbind"
	"github.com/aretw0/formbind/internal/logging"
	"github.com/aretw0/formbind/internal/redact"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

// StreamManager fans value snapshots of tracked forms out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // form id -> set of channels
	watches     map[string]func()
	redactor    *redact.Redactor
	logger      *slog.Logger
}

// NewStreamManager creates an empty manager.
func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		watches:     make(map[string]func()),
		logger:      logging.NewNop(),
	}
}

// Track broadcasts the values of f under id after every change.
func (sm *StreamManager) Track(id string, f *formbind.Form) {
	dispose, err := f.Watch(func() any { return f.Values() }, func(next, _ any) {
		data, err := json.Marshal(sm.redactor.Tree(next))
		if err != nil {
			sm.logger.Error("stream encode failed", "form_id", id, "err", err)
			return
		}
		sm.Broadcast(id, string(data))
	}, false)
	if err != nil {
		sm.logger.Error("stream watch failed", "form_id", id, "err", err)
		return
	}

	sm.mu.Lock()
	old := sm.watches[id]
	sm.watches[id] = dispose
	sm.mu.Unlock()
	if old != nil {
		old()
	}
}

// Untrack stops broadcasting id and closes its subscribers.
func (sm *StreamManager) Untrack(id string) {
	sm.mu.Lock()
	dispose := sm.watches[id]
	delete(sm.watches, id)
	for ch := range sm.subscribers[id] {
		close(ch)
	}
	delete(sm.subscribers, id)
	sm.mu.Unlock()
	if dispose != nil {
		dispose()
	}
}

// Subscribe registers a channel for id. The returned func unsubscribes.
func (sm *StreamManager) Subscribe(id string) (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[id]; !ok {
		sm.subscribers[id] = make(map[chan<- string]struct{})
	}
	sm.subscribers[id][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[id]; ok {
			if _, live := subs[ch]; !live {
				return
			}
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, id)
			}
		}
	}
}

// Broadcast sends msg to every subscriber of id, dropping it for full buffers.
func (sm *StreamManager) Broadcast(id string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[id] {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("SSE: client buffer full, dropping message", "form_id", id)
		}
	}
}

// SubscribeEvents handles GET /forms/{id}/events: a server-sent event per value change.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.Sessions.Get(r.Context(), id); err != nil {
		s.fail(w, statusOf(err), err)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.fail(w, http.StatusInternalServerError, fmt.Errorf("streaming not supported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: values\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
