// Package live keeps an in-memory view of one collection consistent with its
// backing store. The view reloads the full list on every change event rather
// than patching incrementally: a reload always lands on a consistent
// snapshot, which makes duplicate, coalesced, and reordered event delivery
// harmless.
package live

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tastcoffee/contentops/internal/store"
)

// Lister fetches the authoritative list for the view.
type Lister[T any] func(ctx context.Context) ([]T, error)

// Option configures a Collection.
type Option[T any] func(*Collection[T])

// WithLogger sets the view's logger.
func WithLogger[T any](log zerolog.Logger) Option[T] {
	return func(c *Collection[T]) { c.log = log }
}

// WithOnReload registers a callback invoked with every fresh authoritative
// list, before Snapshot starts returning it.
func WithOnReload[T any](fn func([]T)) Option[T] {
	return func(c *Collection[T]) { c.onReload = fn }
}

// Collection is a live view over one collection kind.
type Collection[T any] struct {
	list     Lister[T]
	sub      *store.Subscription
	log      zerolog.Logger
	onReload func([]T)

	mu     sync.Mutex
	items  []T
	closed bool

	quit chan struct{}
	done chan struct{}
}

// Open subscribes to the collection's change feed, performs the initial list,
// and starts reloading on every event. The subscription is attached before
// the first list so a write landing in between still triggers a reload.
func Open[T any](ctx context.Context, st store.Store, kind store.Kind, filter *store.Filter, list Lister[T], opts ...Option[T]) (*Collection[T], error) {
	c := &Collection[T]{
		list: list,
		log:  zerolog.Nop(),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	sub, err := st.Watch(ctx, kind, filter)
	if err != nil {
		return nil, err
	}
	c.sub = sub

	items, err := list(ctx)
	if err != nil {
		sub.Close()
		return nil, err
	}
	c.store(items)

	go c.run(ctx)
	return c, nil
}

// Snapshot returns a copy of the current view.
func (c *Collection[T]) Snapshot() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.items...)
}

// Reload forces a fetch outside the event loop, e.g. after a mutation in a
// backend with no change feed for other writers.
func (c *Collection[T]) Reload(ctx context.Context) error {
	items, err := c.list(ctx)
	if err != nil {
		return err
	}
	c.store(items)
	return nil
}

// Close cancels the subscription and stops the view. No state is written
// after Close returns, even for events already queued.
func (c *Collection[T]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.quit)
	c.mu.Unlock()

	c.sub.Close()
	<-c.done
}

func (c *Collection[T]) run(ctx context.Context) {
	defer close(c.done)
	for {
		select {
		case <-c.quit:
			return
		case ev := <-c.sub.C:
			items, err := c.list(ctx)
			if err != nil {
				// A failed reload keeps the previous view; stale data beats
				// no data, and any later event or mutation re-syncs.
				c.log.Warn().Str("kind", string(ev.Kind)).Err(err).Msg("reload failed, keeping stale view")
				continue
			}
			c.store(items)
		}
	}
}

func (c *Collection[T]) store(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.items = items
	if c.onReload != nil {
		c.onReload(items)
	}
}
