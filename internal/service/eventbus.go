package service

import (
	"sync"

	"github.com/bnema/galerie/internal/infrastructure/metrics"
)

// subscriberBuffer holds a few transitions for a client that is mid-write.
const subscriberBuffer = 8

// Event is a media status change pushed to live subscribers.
type Event struct {
	Type    string `json:"type"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func statusEvent(state, message string) Event {
	return Event{Type: "status", Status: state, Message: message}
}

type EventPublisher interface {
	Publish(mediaID string, event Event)
}

// EventBus fans media status changes out to per-media subscribers inside
// one process. Delivery is best effort: a full subscriber misses the event
// and reads the current state on reconnect.
type EventBus struct {
	mu   sync.Mutex
	subs map[string]map[chan Event]struct{}
}

func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[string]map[chan Event]struct{})}
}

func (b *EventBus) Subscribe(mediaID string) chan Event {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	set, ok := b.subs[mediaID]
	if !ok {
		set = make(map[chan Event]struct{})
		b.subs[mediaID] = set
	}
	set[ch] = struct{}{}
	return ch
}

// Unsubscribe closes ch. Calling it twice is a no-op.
func (b *EventBus) Unsubscribe(mediaID string, ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	set := b.subs[mediaID]
	if _, ok := set[ch]; !ok {
		return
	}
	delete(set, ch)
	close(ch)
	if len(set) == 0 {
		delete(b.subs, mediaID)
	}
}

func (b *EventBus) Publish(mediaID string, event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs[mediaID] {
		select {
		case ch <- event:
		default:
			metrics.EventsDroppedTotal.Inc()
		}
	}
}

func (b *EventBus) SubscriberCount(mediaID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[mediaID])
}

var _ EventPublisher = (*EventBus)(nil)
