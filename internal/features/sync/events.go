package sync

import (
	gosync "sync"
)

// SyncEvent is pushed to live subscribers after each data type finishes.
type SyncEvent struct {
	TenantID string     `json:"tenant_id"`
	Result   SyncResult `json:"result"`
}

// EventBus fans sync events out to websocket subscribers. Publishing never
// blocks: a subscriber that cannot keep up misses events.
type EventBus struct {
	mu   gosync.RWMutex
	subs map[chan SyncEvent]struct{}
}

func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[chan SyncEvent]struct{})}
}

func (b *EventBus) Subscribe() chan SyncEvent {
	ch := make(chan SyncEvent, 32)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *EventBus) Unsubscribe(ch chan SyncEvent) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

func (b *EventBus) Publish(event SyncEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
