package core

import (
	"context"
	"sync"
)

// sendQueue is a per-connection bounded FIFO. Pushers never block: when the
// bound is hit, one droppable entry is evicted to make room, preferring a
// sidebar update superseded by the incoming one. Events that must not be
// lost are queued past the bound rather than dropped.
type sendQueue struct {
	mu     sync.Mutex
	items  []*Event
	limit  int
	closed bool

	notify chan struct{}
	done   chan struct{}
}

func newSendQueue(limit int) *sendQueue {
	return &sendQueue{
		limit:  limit,
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

func (q *sendQueue) push(ev *Event) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}

	if len(q.items) >= q.limit {
		if !q.dropOneLocked(ev) && ev.Kind.Droppable() {
			q.mu.Unlock()
			return false
		}
	}

	q.items = append(q.items, ev)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
	return true
}

// dropOneLocked evicts one droppable entry and reports whether room was
// made. A sidebar update for the same room as the incoming one is
// superseded and goes first; otherwise the oldest droppable entry goes.
func (q *sendQueue) dropOneLocked(incoming *Event) bool {
	if incoming.Kind == EventSidebarUpdate {
		for i, ev := range q.items {
			if ev.Kind == EventSidebarUpdate && ev.Room == incoming.Room {
				q.items = append(q.items[:i], q.items[i+1:]...)
				return true
			}
		}
	}
	for i, ev := range q.items {
		if ev.Kind.Droppable() {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

func (q *sendQueue) pop(ctx context.Context) (*Event, error) {
	for {
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			return nil, ErrConnClosed
		}
		if len(q.items) > 0 {
			ev := q.items[0]
			q.items = q.items[1:]
			remaining := len(q.items)
			q.mu.Unlock()

			if remaining > 0 {
				select {
				case q.notify <- struct{}{}:
				default:
				}
			}
			return ev, nil
		}
		q.mu.Unlock()

		select {
		case <-q.notify:
		case <-q.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (q *sendQueue) close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.items = nil
	q.mu.Unlock()

	close(q.done)
}

func (q *sendQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
