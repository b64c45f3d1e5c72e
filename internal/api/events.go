package api

import (
	"io"
	"sync"
	"time"

	"unitestats/domain/catalog"
	"unitestats/domain/daterange"
	"unitestats/internal"

	"github.com/gin-gonic/gin"
)

// QueryEvent announces a completed stats query to live subscribers
type QueryEvent struct {
	QueryID     string           `json:"query_id"`
	Range       daterange.Range  `json:"range"`
	Category    catalog.Category `json:"category"`
	Records     int              `json:"records"`
	Diagnostics int              `json:"diagnostics"`
	Timestamp   time.Time        `json:"timestamp"`
}

// EventHub fans query events out to Server-Sent Events clients.
// Slow clients miss events rather than block publishers.
type EventHub struct {
	mu        sync.RWMutex
	clients   map[chan QueryEvent]struct{}
	broadcast chan QueryEvent
	done      chan struct{}
	closeOnce sync.Once
	keepAlive time.Duration
	logger    *internal.Logger
}

// NewEventHub creates a hub and starts its broadcast loop
func NewEventHub(logger *internal.Logger) *EventHub {
	if logger == nil {
		logger = internal.NopLogger()
	}
	h := &EventHub{
		clients:   make(map[chan QueryEvent]struct{}),
		broadcast: make(chan QueryEvent, 100),
		done:      make(chan struct{}),
		keepAlive: 30 * time.Second,
		logger:    logger.With("SSE"),
	}
	go h.run()
	return h
}

func (h *EventHub) run() {
	for {
		select {
		case event := <-h.broadcast:
			h.mu.RLock()
			for ch := range h.clients {
				select {
				case ch <- event:
				default:
					h.logger.Warn("client channel full, skipping event %s", event.QueryID)
				}
			}
			h.mu.RUnlock()
		case <-h.done:
			return
		}
	}
}

// Publish queues event for every subscriber. It never blocks.
func (h *EventHub) Publish(event QueryEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("broadcast channel full, dropping event %s", event.QueryID)
	}
}

// Subscribe registers a client. The returned func unregisters it and is safe
// to call more than once.
func (h *EventHub) Subscribe() (<-chan QueryEvent, func()) {
	ch := make(chan QueryEvent, 10)

	h.mu.Lock()
	h.clients[ch] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("client registered (total clients: %d)", count)

	return ch, func() { h.remove(ch) }
}

func (h *EventHub) remove(ch chan QueryEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[ch]; ok {
		delete(h.clients, ch)
		close(ch)
	}
}

// ClientCount returns the number of connected clients
func (h *EventHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close stops the hub and disconnects every client
func (h *EventHub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
		h.mu.Lock()
		for ch := range h.clients {
			delete(h.clients, ch)
			close(ch)
		}
		h.mu.Unlock()
	})
}

// Handle streams query events to one client until it disconnects
func (h *EventHub) Handle(c *gin.Context) {
	events, unsubscribe := h.Subscribe()
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("query", event)
			return true
		case <-time.After(h.keepAlive):
			c.SSEvent("ping", gin.H{"timestamp": time.Now().Format(time.RFC3339)})
			return true
		case <-ctx.Done():
			return false
		}
	})
}
