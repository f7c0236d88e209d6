package notification

import (
	"sync"
	"sync/atomic"
)

// subscriberBuffer is how many records a subscriber may lag behind before records are dropped
// for it.
const subscriberBuffer = 16

// Hub fans records out to subscribers. Broadcast never blocks on a slow subscriber.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[uint64]chan Record
	nextID      uint64
	dropped     atomic.Uint64
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[uint64]chan Record)}
}

type Subscription struct {
	C <-chan Record

	id   uint64
	hub  *Hub
	once sync.Once
}

// Close detaches the subscription and closes C. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		defer s.hub.mu.Unlock()
		if ch, ok := s.hub.subscribers[s.id]; ok {
			delete(s.hub.subscribers, s.id)
			close(ch)
		}
	})
}

func (h *Hub) Subscribe() *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	ch := make(chan Record, subscriberBuffer)
	h.subscribers[h.nextID] = ch
	return &Subscription{C: ch, id: h.nextID, hub: h}
}

// Broadcast offers r to every subscriber and returns how many accepted it.
func (h *Hub) Broadcast(r Record) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, ch := range h.subscribers {
		select {
		case ch <- r:
			delivered++
		default:
			h.dropped.Add(1)
		}
	}
	return delivered
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Dropped counts records discarded because a subscriber's channel was full.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}
