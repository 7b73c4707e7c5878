package http

import (
	"fmt"
	"net/http"
	"sync"
)

// StreamManager fans snapshots out to connected SSE clients.
type StreamManager struct {
	mu   sync.RWMutex
	subs map[chan string]struct{}
}

// NewStreamManager creates an empty StreamManager.
func NewStreamManager() *StreamManager {
	return &StreamManager{subs: make(map[chan string]struct{})}
}

// Subscribe registers a client. The returned func unregisters it.
func (sm *StreamManager) Subscribe() (chan string, func()) {
	ch := make(chan string, 8)
	sm.mu.Lock()
	sm.subs[ch] = struct{}{}
	sm.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			delete(sm.subs, ch)
			sm.mu.Unlock()
		})
	}
}

// Broadcast sends msg to every client. Slow clients drop messages instead of blocking play.
func (sm *StreamManager) Broadcast(msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	for ch := range sm.subs {
		select {
		case ch <- msg:
		default:
		}
	}
}

// Len returns the number of connected clients.
func (sm *StreamManager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subs)
}

// SubscribeEvents handles GET /events, streaming a snapshot after every processed intent.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("sse client disconnected")
			return
		case msg := <-ch:
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
