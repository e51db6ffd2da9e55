package workqueue

import (
	"sync"

	"github.com/atomicstack/declui/internal/logging/events"
)

// Waker signals the event loop that queued work is pending.
type Waker interface {
	Wake()
}

// WakerFunc adapts a function to Waker.
type WakerFunc func()

// Wake calls f.
func (f WakerFunc) Wake() {
	f()
}

// Proxy is the loop-wake handle. It is bound once at startup and then read
// by any goroutine. Wakes that arrive before binding are remembered and
// delivered when the waker is set.
type Proxy struct {
	mu      sync.Mutex
	waker   Waker
	pending bool
}

// Set binds w. Only the first call takes effect; later calls return false.
func (p *Proxy) Set(w Waker) bool {
	p.mu.Lock()
	if p.waker != nil || w == nil {
		p.mu.Unlock()
		events.Queue.ProxyRebind()
		return false
	}
	p.waker = w
	deliver := p.pending
	p.pending = false
	p.mu.Unlock()

	if deliver {
		w.Wake()
	}
	return true
}

// Bound reports whether a waker has been set.
func (p *Proxy) Bound() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.waker != nil
}

// Wake signals the loop, or records the wake if no waker is bound yet.
func (p *Proxy) Wake() {
	p.mu.Lock()
	w := p.waker
	if w == nil {
		p.pending = true
	}
	p.mu.Unlock()

	if w != nil {
		w.Wake()
	}
}
