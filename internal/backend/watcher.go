// Package backend polls data sources off the loop goroutine and hands the
// results to the loop as queued work items.
package backend

import (
	"context"
	"sync"
	"time"

	"github.com/atomicstack/declui/internal/workqueue"
)

// minFetchGap bounds how often a single source is fetched.
const minFetchGap = 100 * time.Millisecond

// Kind names a polled source.
type Kind string

// Event conveys fetched data or an error from one poll.
type Event struct {
	Kind Kind
	Data any
	Err  error
}

// Fetch produces a source's current value. It runs on a poller goroutine.
type Fetch func(ctx context.Context) (any, error)

// Apply receives an event on the loop goroutine.
type Apply[C any] func(c C, ev Event)

// Watcher polls sources at a fixed interval and enqueues each result.
type Watcher[C any] struct {
	queue    workqueue.Handle[C]
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher delivering into queue every interval.
func NewWatcher[C any](queue workqueue.Handle[C], interval time.Duration) *Watcher[C] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher[C]{queue: queue, interval: interval, ctx: ctx, cancel: cancel}
}

// Watch starts polling fetch; every result is applied on the loop.
func (w *Watcher[C]) Watch(kind Kind, fetch Fetch, apply Apply[C]) {
	throttle := newThrottle(min(minFetchGap, w.interval))
	w.wg.Add(1)
	go w.poll(kind, func(ctx context.Context) (any, error) {
		if err := throttle.wait(ctx); err != nil {
			return nil, err
		}
		return fetch(ctx)
	}, apply)
}

// Stop cancels the watcher. Pollers exit after their current fetch completes;
// use Wait if a clean drain is required (e.g. in tests).
func (w *Watcher[C]) Stop() {
	w.cancel()
}

// Wait blocks until all poller goroutines have exited.
func (w *Watcher[C]) Wait() {
	w.wg.Wait()
}

func (w *Watcher[C]) poll(kind Kind, fetch Fetch, apply Apply[C]) {
	defer w.wg.Done()

	emit := func() bool {
		data, err := fetch(w.ctx)
		if w.ctx.Err() != nil {
			return false
		}
		ev := Event{Kind: kind, Data: data, Err: err}
		w.queue.Enqueue(func(c C) { apply(c, ev) })
		return true
	}

	if !emit() {
		return
	}
	if w.interval <= 0 {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			if !emit() {
				return
			}
		}
	}
}
