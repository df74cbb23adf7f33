// Package feed fans committed entry changes out to the live subscribers of
// the owning user.
package feed

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/moodiary/internal/domain"
	"github.com/dmitrijs2005/moodiary/internal/logging"
)

// Subscription delivers one user's change events. C is closed when the
// subscription is cancelled or when the subscriber falls too far behind.
type Subscription struct {
	C <-chan domain.ChangeEvent

	hub    *Hub
	userID string
	ch     chan domain.ChangeEvent
	once   sync.Once
}

// Cancel detaches the subscription. It is safe to call more than once.
func (s *Subscription) Cancel() {
	s.hub.remove(s)
}

// Hub is a per-user broadcast of change events. Publish never blocks: a
// subscriber whose buffer is full is dropped and must resubscribe with
// catch-up.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[*Subscription]struct{}
	buffer int
	logger logging.Logger
}

func NewHub(buffer int, logger logging.Logger) *Hub {
	if buffer <= 0 {
		buffer = 1
	}
	return &Hub{
		subs:   make(map[string]map[*Subscription]struct{}),
		buffer: buffer,
		logger: logger.With("module", "feed"),
	}
}

func (h *Hub) Subscribe(userID string) *Subscription {
	ch := make(chan domain.ChangeEvent, h.buffer)
	s := &Subscription{C: ch, hub: h, userID: userID, ch: ch}

	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[userID]
	if !ok {
		set = make(map[*Subscription]struct{})
		h.subs[userID] = set
	}
	set[s] = struct{}{}
	return s
}

// Publish delivers ev to every subscriber of ev.Entry.UserID.
func (h *Hub) Publish(ev domain.ChangeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for s := range h.subs[ev.Entry.UserID] {
		select {
		case s.ch <- ev:
		default:
			h.logger.Warn(context.Background(), "dropping slow subscriber", "user_id", s.userID)
			h.removeLocked(s)
		}
	}
}

// Subscribers returns the number of live subscriptions for userID.
func (h *Hub) Subscribers(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[userID])
}

// Close ends every subscription.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, set := range h.subs {
		for s := range set {
			h.removeLocked(s)
		}
	}
}

func (h *Hub) remove(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(s)
}

func (h *Hub) removeLocked(s *Subscription) {
	s.once.Do(func() {
		set := h.subs[s.userID]
		delete(set, s)
		if len(set) == 0 {
			delete(h.subs, s.userID)
		}
		close(s.ch)
	})
}
