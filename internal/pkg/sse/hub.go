package sse

import (
	"sync"
	"sync/atomic"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/pkg/metrics"
)

// Event is one frame on a user's notification stream.
type Event struct {
	ID     uint64
	UserID int64
	Event  string
	Data   interface{}
}

const streamBuffer = 10

type stream struct {
	events chan Event
	once   sync.Once
}

// Hub fans leave events out to the open streams of each user.
type Hub struct {
	mu      sync.RWMutex
	streams map[int64]map[*stream]struct{}
	closed  bool
	seq     atomic.Uint64
}

func NewHub() *Hub {
	return &Hub{
		streams: make(map[int64]map[*stream]struct{}),
	}
}

// Subscribe opens a stream for userID. The returned channel is closed by
// cleanup or by Close, whichever happens first.
func (h *Hub) Subscribe(userID int64) (<-chan Event, func()) {
	s := &stream{events: make(chan Event, streamBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(s.events)
		return s.events, func() {}
	}
	if h.streams[userID] == nil {
		h.streams[userID] = make(map[*stream]struct{})
	}
	h.streams[userID][s] = struct{}{}
	h.mu.Unlock()
	metrics.SSESubscribers.Inc()

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.streams[userID][s]; !ok {
			return
		}
		h.remove(userID, s)
	}

	return s.events, cleanup
}

// remove must be called with mu held.
func (h *Hub) remove(userID int64, s *stream) {
	delete(h.streams[userID], s)
	if len(h.streams[userID]) == 0 {
		delete(h.streams, userID)
	}
	s.once.Do(func() { close(s.events) })
	metrics.SSESubscribers.Dec()
}

// Publish delivers event to every stream of userID. Slow readers lose the
// event instead of blocking the publisher.
func (h *Hub) Publish(userID int64, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	event.ID = h.seq.Add(1)
	for s := range h.streams[userID] {
		select {
		case s.events <- event:
		default:
			metrics.SSEEventsDropped.Inc()
		}
	}
}

// Notify implements leave.Notifier.
func (h *Hub) Notify(userID int64, event string, data interface{}) {
	h.Publish(userID, Event{UserID: userID, Event: event, Data: data})
}

// Close ends every open stream so HTTP shutdown does not wait on them.
// Later subscriptions get an already closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for userID, set := range h.streams {
		for s := range set {
			h.remove(userID, s)
		}
	}
}
