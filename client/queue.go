package client

import (
	"sync"

	"github.com/kbukum/eventsource/sse"
)

// queue is the unbounded FIFO feeding the dispatch goroutine. Producers
// (the run loop and Close) never block, which matters because Close may be
// called from inside a subscriber callback running on the consumer side.
type queue struct {
	mu    sync.Mutex
	items []sse.Event
	done  bool
	wake  chan struct{}
}

func newQueue() *queue {
	return &queue{wake: make(chan struct{}, 1)}
}

// push appends an event. Events pushed after shutdown are dropped.
func (q *queue) push(ev sse.Event) {
	q.mu.Lock()
	if q.done {
		q.mu.Unlock()
		return
	}
	q.items = append(q.items, ev)
	q.mu.Unlock()
	q.signal()
}

// shutdown stops the queue. Items already queued are still drained.
func (q *queue) shutdown() {
	q.mu.Lock()
	q.done = true
	q.mu.Unlock()
	q.signal()
}

// next blocks until an event is available or the queue is shut down and
// drained. The second return is false once the queue is exhausted.
func (q *queue) next() (sse.Event, bool) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			ev := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return ev, true
		}
		done := q.done
		q.mu.Unlock()
		if done {
			return sse.Event{}, false
		}
		<-q.wake
	}
}

func (q *queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}
