package backend

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/atomicstack/declui/internal/workqueue"
)

type sink struct {
	events []Event
}

func TestWatcherEnqueuesResults(t *testing.T) {
	q := workqueue.New[*sink](nil)
	w := NewWatcher(q.Handle(), 10*time.Millisecond)

	var n atomic.Int32
	w.Watch("count", func(ctx context.Context) (any, error) {
		return int(n.Add(1)), nil
	}, func(s *sink, ev Event) {
		s.events = append(s.events, ev)
	})

	s := &sink{}
	deadline := time.Now().Add(2 * time.Second)
	for len(s.events) < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("expected three polls, got %d", len(s.events))
		}
		q.Drain(s)
		time.Sleep(5 * time.Millisecond)
	}
	w.Stop()
	w.Wait()

	for i, ev := range s.events[:3] {
		if ev.Kind != "count" || ev.Data != i+1 || ev.Err != nil {
			t.Fatalf("event %d: unexpected %#v", i, ev)
		}
	}
}

func TestWatcherDeliversErrors(t *testing.T) {
	q := workqueue.New[*sink](nil)
	w := NewWatcher(q.Handle(), 0)
	boom := errors.New("boom")
	w.Watch("broken", func(ctx context.Context) (any, error) {
		return nil, boom
	}, func(s *sink, ev Event) {
		s.events = append(s.events, ev)
	})
	w.Wait()

	s := &sink{}
	q.Drain(s)
	if len(s.events) != 1 || !errors.Is(s.events[0].Err, boom) {
		t.Fatalf("expected a single error event, got %#v", s.events)
	}
}

func TestWatcherStopsEnqueueing(t *testing.T) {
	q := workqueue.New[*sink](nil)
	w := NewWatcher(q.Handle(), 5*time.Millisecond)
	w.Watch("tick", func(ctx context.Context) (any, error) { return nil, nil }, func(*sink, Event) {})
	w.Stop()
	w.Wait()

	before := q.Len()
	time.Sleep(30 * time.Millisecond)
	if q.Len() != before {
		t.Fatalf("expected no work after stop, pending %d -> %d", before, q.Len())
	}
}

func TestThrottleSpacesCalls(t *testing.T) {
	th := newThrottle(20 * time.Millisecond)
	ctx := context.Background()
	start := time.Now()
	if err := th.wait(ctx); err != nil {
		t.Fatalf("first wait: %v", err)
	}
	if err := th.wait(ctx); err != nil {
		t.Fatalf("second wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Fatalf("expected the second call to wait, elapsed %v", elapsed)
	}
	var zero *throttle
	if err := zero.wait(ctx); err != nil {
		t.Fatalf("nil throttle: %v", err)
	}
}

func TestThrottleStopsOnCancel(t *testing.T) {
	th := newThrottle(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	if err := th.wait(ctx); err != nil {
		t.Fatalf("first wait: %v", err)
	}
	cancel()
	if err := th.wait(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}
