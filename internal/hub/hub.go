// Package hub fans domain events out to Server-Sent Events clients.
package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	keepAliveInterval = 30 * time.Second
	subscriberBuffer  = 64
	broadcastBuffer   = 256
)

// Message is one event delivered to clients. Type becomes the SSE event name.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// frame renders msg as one SSE event
func frame(msg Message) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return fmt.Appendf(nil, "event: %s\ndata: %s\n\n", msg.Type, data), nil
}

type subscriber struct {
	id   string
	send chan []byte
}

// Hub tracks connected streams and delivers messages to them. Only the Run
// loop adds or removes subscribers.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*subscriber]struct{}
	join   chan *subscriber
	leave  chan *subscriber
	queue  chan Message
	done   chan struct{}
	logger *zap.Logger
}

// New creates a hub; call Run to start delivering
func New(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		subs:   make(map[*subscriber]struct{}),
		join:   make(chan *subscriber),
		leave:  make(chan *subscriber),
		queue:  make(chan Message, broadcastBuffer),
		done:   make(chan struct{}),
		logger: logger.Named("hub"),
	}
}

// Run delivers queued messages until ctx is cancelled, then closes every
// open stream
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case sub := <-h.join:
			h.add(sub)
		case sub := <-h.leave:
			h.drop(sub)
		case msg := <-h.queue:
			b, err := frame(msg)
			if err != nil {
				h.logger.Error("failed to encode event", zap.String("type", msg.Type), zap.Error(err))
				continue
			}
			h.fanOut(b)
		}
	}
}

func (h *Hub) add(sub *subscriber) {
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	n := len(h.subs)
	h.mu.Unlock()
	h.logger.Debug("stream opened", zap.String("client", sub.id), zap.Int("open", n))
}

func (h *Hub) drop(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub]; !ok {
		return
	}
	delete(h.subs, sub)
	close(sub.send)
	h.logger.Debug("stream closed", zap.String("client", sub.id), zap.Int("open", len(h.subs)))
}

// fanOut never blocks; a subscriber with a full buffer misses b
func (h *Hub) fanOut(b []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		select {
		case sub.send <- b:
		default:
			h.logger.Warn("dropping event for slow client", zap.String("client", sub.id))
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		close(sub.send)
	}
	clear(h.subs)
}

// Broadcast queues msg for every open stream. A full queue drops it.
func (h *Hub) Broadcast(msg Message) {
	select {
	case h.queue <- msg:
	default:
		h.logger.Warn("event queue full, dropping event", zap.String("type", msg.Type))
	}
}

// ClientCount returns the number of open streams
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// ServeHTTP streams events to one client until it disconnects or the hub
// stops
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	sub := &subscriber{id: uuid.NewString(), send: make(chan []byte, subscriberBuffer)}
	select {
	case h.join <- sub:
	case <-h.done:
		return
	case <-r.Context().Done():
		return
	}
	defer func() {
		select {
		case h.leave <- sub:
		case <-h.done:
		}
	}()

	// The server's WriteTimeout would otherwise end the stream
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		h.logger.Debug("cannot clear write deadline", zap.String("client", sub.id), zap.Error(err))
	}

	hdr := w.Header()
	hdr.Set("Content-Type", "text/event-stream")
	hdr.Set("Cache-Control", "no-cache")
	hdr.Set("Connection", "keep-alive")
	hdr.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		var b []byte
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			b = []byte(": keepalive\n\n")
		case ev, open := <-sub.send:
			if !open {
				return
			}
			b = ev
		}
		if _, err := w.Write(b); err != nil {
			return
		}
		flusher.Flush()
	}
}
