// Package optimistic coordinates local mutations against a live collection
// view. Every user intent is spliced into the in-memory view immediately and
// the store call is issued asynchronously on a single FIFO worker, so visible
// effects always follow issuance order regardless of round-trip timing. A
// failed call rolls its splice back; a successful one is reconciled against
// the next authoritative reload by correlation, never by list position.
package optimistic

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tastcoffee/contentops/internal/live"
	"github.com/tastcoffee/contentops/internal/store"
)

// ErrQueueFull is returned when the mutation queue cannot accept more work.
var ErrQueueFull = errors.New("optimistic: mutation queue full")

// ErrClosed is returned for mutations submitted after Close.
var ErrClosed = errors.New("optimistic: coordinator closed")

const queueSize = 1024

// Config wires a coordinator to one collection.
type Config[T any] struct {
	Store  store.Store
	Kind   store.Kind
	Filter *store.Filter
	List   live.Lister[T]

	// ID extracts a record's id; WithID returns a copy carrying the given id.
	ID     func(T) string
	WithID func(T, string) T

	// AppendInserts puts optimistic inserts at the end of the view (comment
	// threads run oldest first); the default is the front (boards run newest
	// first).
	AppendInserts bool

	Logger zerolog.Logger
}

type opKind int

const (
	opInsert opKind = iota
	opUpdate
	opRemove
	opBarrier
)

type op[T any] struct {
	kind     opKind
	rec      T // insert: optimistic record, replaced by the stored one on success
	id       string
	mutate   func(T) T
	resolved bool

	ctx  context.Context
	run  func(context.Context) (T, error)
	done func(error)
}

// Coordinator owns a live view plus an ordered overlay of pending mutations.
type Coordinator[T any] struct {
	cfg Config[T]
	col *live.Collection[T]
	log zerolog.Logger

	mu      sync.Mutex
	base    []T
	pending []*op[T]
	closed  bool

	queue chan *op[T]
	quit  chan struct{}
	done  chan struct{}
}

// New opens the live view and starts the mutation worker.
func New[T any](ctx context.Context, cfg Config[T]) (*Coordinator[T], error) {
	c := &Coordinator[T]{
		cfg:   cfg,
		log:   cfg.Logger,
		queue: make(chan *op[T], queueSize),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	col, err := live.Open(ctx, cfg.Store, cfg.Kind, cfg.Filter, cfg.List,
		live.WithLogger[T](cfg.Logger),
		live.WithOnReload[T](c.handleReload),
	)
	if err != nil {
		return nil, err
	}
	c.col = col
	c.mu.Lock()
	c.base = col.Snapshot()
	c.mu.Unlock()

	go c.worker()
	return c, nil
}

// Snapshot returns the current view: the last authoritative list with every
// pending mutation applied in issuance order.
func (c *Coordinator[T]) Snapshot() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := append([]T(nil), c.base...)
	for _, o := range c.pending {
		out = c.apply(out, o)
	}
	return out
}

// Insert splices rec into the view under a temporary id and schedules exec.
// It returns the optimistic record as displayed.
func (c *Coordinator[T]) Insert(ctx context.Context, rec T, exec func(context.Context, T) (T, error), done func(error)) T {
	shown := c.cfg.WithID(rec, "tmp-"+uuid.New().String())
	o := &op[T]{
		kind: opInsert,
		rec:  shown,
		ctx:  ctx,
		run:  func(runCtx context.Context) (T, error) { return exec(runCtx, rec) },
		done: done,
	}
	c.submit(o)
	return shown
}

// Update applies mutate to the viewed record immediately and schedules exec.
func (c *Coordinator[T]) Update(ctx context.Context, id string, mutate func(T) T, exec func(context.Context) error, done func(error)) {
	o := &op[T]{
		kind:   opUpdate,
		id:     id,
		mutate: mutate,
		ctx:    ctx,
		run: func(runCtx context.Context) (T, error) {
			var zero T
			return zero, exec(runCtx)
		},
		done: done,
	}
	c.submit(o)
}

// Remove drops the record from the view immediately and schedules exec.
func (c *Coordinator[T]) Remove(ctx context.Context, id string, exec func(context.Context) error, done func(error)) {
	o := &op[T]{
		kind: opRemove,
		id:   id,
		ctx:  ctx,
		run: func(runCtx context.Context) (T, error) {
			var zero T
			return zero, exec(runCtx)
		},
		done: done,
	}
	c.submit(o)
}

// Flush blocks until every mutation submitted before it has resolved.
func (c *Coordinator[T]) Flush(ctx context.Context) error {
	settled := make(chan struct{})
	o := &op[T]{
		kind: opBarrier,
		ctx:  ctx,
		run: func(context.Context) (T, error) {
			var zero T
			close(settled)
			return zero, nil
		},
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.mu.Unlock()
	select {
	case c.queue <- o:
	default:
		return ErrQueueFull
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-settled:
		return nil
	}
}

// Collection exposes the underlying live view.
func (c *Coordinator[T]) Collection() *live.Collection[T] { return c.col }

// Close stops the worker and tears down the live view.
func (c *Coordinator[T]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	close(c.quit)
	<-c.done
	c.col.Close()
}

func (c *Coordinator[T]) submit(o *op[T]) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		if o.done != nil {
			o.done(ErrClosed)
		}
		return
	}
	c.pending = append(c.pending, o)
	pendingMutations.WithLabelValues(string(c.cfg.Kind)).Inc()
	c.mu.Unlock()

	select {
	case c.queue <- o:
	default:
		// The splice is rolled back; the user re-issues the action.
		c.mu.Lock()
		c.drop(o)
		c.mu.Unlock()
		if o.done != nil {
			o.done(ErrQueueFull)
		}
	}
}

func (c *Coordinator[T]) worker() {
	defer close(c.done)
	for {
		select {
		case <-c.quit:
			return
		case o := <-c.queue:
			if o.kind == opBarrier {
				_, _ = o.run(o.ctx)
				continue
			}
			stored, err := o.run(o.ctx)

			c.mu.Lock()
			if err != nil {
				c.drop(o)
				rolledBackMutations.WithLabelValues(string(c.cfg.Kind)).Inc()
			} else {
				o.resolved = true
				if o.kind == opInsert {
					// The view now shows the stored record under its real
					// id; the next reload drops the overlay entry without a
					// duplicate or flicker.
					o.rec = stored
				}
				appliedMutations.WithLabelValues(string(c.cfg.Kind)).Inc()
				// The reload for this commit can land before the op is
				// marked resolved. If the base already carries the effect,
				// retire the entry now; kept, an insert's overlay record
				// would duplicate the base row until some later event.
				if c.settled(c.base, o) {
					c.drop(o)
				}
			}
			c.mu.Unlock()

			if o.done != nil {
				o.done(err)
			}
		}
	}
}

// handleReload installs a fresh authoritative list and retires resolved
// overlay entries whose effect the list already carries.
func (c *Coordinator[T]) handleReload(fresh []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.base = fresh

	kept := c.pending[:0]
	for _, o := range c.pending {
		if o.resolved && c.settled(fresh, o) {
			pendingMutations.WithLabelValues(string(c.cfg.Kind)).Dec()
			continue
		}
		kept = append(kept, o)
	}
	c.pending = kept
}

// settled reports whether the authoritative list reflects a resolved op.
func (c *Coordinator[T]) settled(list []T, o *op[T]) bool {
	switch o.kind {
	case opInsert:
		return c.contains(list, c.cfg.ID(o.rec))
	case opRemove:
		return !c.contains(list, o.id)
	default:
		// Updates are last-write-wins; presence checks cannot verify field
		// effects, so a resolved update retires at the first opportunity.
		return true
	}
}

func (c *Coordinator[T]) contains(list []T, id string) bool {
	for _, rec := range list {
		if c.cfg.ID(rec) == id {
			return true
		}
	}
	return false
}

// drop must be called with c.mu held.
func (c *Coordinator[T]) drop(o *op[T]) {
	for i, p := range c.pending {
		if p == o {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			pendingMutations.WithLabelValues(string(c.cfg.Kind)).Dec()
			return
		}
	}
}

func (c *Coordinator[T]) apply(list []T, o *op[T]) []T {
	switch o.kind {
	case opInsert:
		if c.cfg.AppendInserts {
			return append(list, o.rec)
		}
		return append([]T{o.rec}, list...)
	case opUpdate:
		for i, rec := range list {
			if c.cfg.ID(rec) == o.id {
				list[i] = o.mutate(rec)
				break
			}
		}
		return list
	case opRemove:
		kept := list[:0]
		for _, rec := range list {
			if c.cfg.ID(rec) != o.id {
				kept = append(kept, rec)
			}
		}
		return kept
	default:
		return list
	}
}
