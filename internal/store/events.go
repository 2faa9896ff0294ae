package store

import "sync"

// Kind names a collection.
type Kind string

const (
	KindContentItems Kind = "content_items"
	KindCampaigns    Kind = "campaigns"
	KindComments     Kind = "comments"
	KindProducts     Kind = "products"
	KindVoice        Kind = "brand_voice"
)

// Op is the change type carried by an event.
type Op string

const (
	OpInserted Op = "inserted"
	OpUpdated  Op = "updated"
	OpDeleted  Op = "deleted"

	// OpResync signals that events may have been missed (e.g. the change
	// feed reconnected) and consumers should reload.
	OpResync Op = "resync"
)

// ChangeEvent notifies that a record of a collection changed. Consumers
// reload the full list rather than patching incrementally, so the event only
// carries identifiers.
type ChangeEvent struct {
	Op   Op
	Kind Kind
	ID   string

	// ContentItemID is set for comment events so filtered watchers can
	// match without fetching the row.
	ContentItemID string
}

// Filter narrows a Watch to events whose named field equals Value. The only
// supported field is "content_item_id" on the comments collection.
type Filter struct {
	Field string
	Value string
}

// Matches reports whether ev passes the filter.
func (f *Filter) Matches(ev ChangeEvent) bool {
	if f == nil {
		return true
	}
	if ev.Op == OpResync {
		return true
	}
	switch f.Field {
	case "content_item_id":
		return ev.ContentItemID == f.Value
	default:
		return true
	}
}

// Subscription is a cancellable stream of change events. Close is idempotent
// and must be called when the consumer is torn down; a leaked subscription
// keeps triggering reloads for the lifetime of the process.
type Subscription struct {
	C <-chan ChangeEvent

	once   sync.Once
	cancel func()
}

// NewSubscription wraps a channel and a cancel hook for backends.
func NewSubscription(ch <-chan ChangeEvent, cancel func()) *Subscription {
	return &Subscription{C: ch, cancel: cancel}
}

// Close detaches the subscription from its backend.
func (s *Subscription) Close() {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}

// Hub fans change events out to registered watchers. Backends embed one to
// implement Watch. Delivery is non-blocking: when a watcher's buffer is
// full the event is dropped, which is safe because consumers treat any
// event as "reload" and tolerate coalescing.
type Hub struct {
	mu   sync.Mutex
	next int
	subs map[int]*hubSub
}

type hubSub struct {
	kind   Kind
	filter *Filter
	ch     chan ChangeEvent
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[int]*hubSub)}
}

// Subscribe registers a watcher for kind and returns its subscription.
func (h *Hub) Subscribe(kind Kind, filter *Filter) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	sub := &hubSub{kind: kind, filter: filter, ch: make(chan ChangeEvent, 16)}
	h.subs[id] = sub
	return NewSubscription(sub.ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	})
}

// Publish delivers ev to every matching watcher.
func (h *Hub) Publish(ev ChangeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range h.subs {
		if s.kind != ev.Kind && ev.Op != OpResync {
			continue
		}
		if !s.filter.Matches(ev) {
			continue
		}
		select {
		case s.ch <- ev:
		default:
		}
	}
}

// Broadcast sends a resync event to every watcher regardless of kind.
func (h *Hub) Broadcast(op Op) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range h.subs {
		ev := ChangeEvent{Op: op, Kind: s.kind}
		select {
		case s.ch <- ev:
		default:
		}
	}
}
