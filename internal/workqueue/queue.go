// Package workqueue lets goroutines other than the event loop schedule UI
// mutations. Producers enqueue closures and wake the loop; the loop drains
// the queue and runs each closure against the live application context.
//
// The mutex guards push and pop only and is never held while an item runs.
// Items are not isolated from each other: a panicking item propagates out of
// Drain.
package workqueue

import (
	"sync"

	"github.com/atomicstack/declui/internal/logging/events"
)

// Item is a unit of deferred work with exclusive access to the context.
type Item[C any] func(C)

// Queue is an unbounded FIFO of items, drained on the loop goroutine.
type Queue[C any] struct {
	mu    sync.Mutex
	items []Item[C]
	proxy *Proxy
}

// New returns an empty queue that wakes the loop through proxy. A nil proxy
// gets a private one that can be bound later via Proxy().Set.
func New[C any](proxy *Proxy) *Queue[C] {
	if proxy == nil {
		proxy = &Proxy{}
	}
	return &Queue[C]{proxy: proxy}
}

// Proxy returns the wake handle the queue signals.
func (q *Queue[C]) Proxy() *Proxy {
	return q.proxy
}

// Handle returns a copyable producer handle.
func (q *Queue[C]) Handle() Handle[C] {
	return Handle[C]{q: q}
}

// Enqueue appends item and wakes the loop. Safe from any goroutine; it
// never waits on the loop.
func (q *Queue[C]) Enqueue(item Item[C]) {
	if item == nil {
		return
	}
	q.mu.Lock()
	q.items = append(q.items, item)
	pending := len(q.items)
	q.mu.Unlock()

	events.Queue.Enqueue(pending)
	q.proxy.Wake()
}

// Len returns the number of pending items.
func (q *Queue[C]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Drain runs every item pending at the time of the call, in FIFO order, and
// returns how many ran. Items enqueued while draining wait for the next call.
// Loop goroutine only.
func (q *Queue[C]) Drain(ctx C) int {
	q.mu.Lock()
	batch := q.items
	q.items = nil
	q.mu.Unlock()

	for _, item := range batch {
		item(ctx)
	}
	if len(batch) > 0 {
		events.Queue.Drain(len(batch))
	}
	return len(batch)
}

// Handle is the producer side of a Queue, handed to background goroutines.
type Handle[C any] struct {
	q *Queue[C]
}

// Enqueue schedules item on the loop. A zero Handle drops the item.
func (h Handle[C]) Enqueue(item Item[C]) {
	if h.q == nil {
		return
	}
	h.q.Enqueue(item)
}

// Valid reports whether the handle is bound to a queue.
func (h Handle[C]) Valid() bool {
	return h.q != nil
}
