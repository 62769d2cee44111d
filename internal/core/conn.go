package core

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Conn is one live transport session. A user may hold several at once, one
// per open client or tab. The registry owns the identity binding; the
// transport layer owns the socket and drains the outbound queue.
type Conn struct {
	id string

	mu       sync.Mutex
	identity string

	queue *sendQueue
}

// NewConn constructs an unauthenticated connection with a bounded outbound
// queue. queueSize <= 0 falls back to a small default.
func NewConn(queueSize int) *Conn {
	if queueSize <= 0 {
		queueSize = 16
	}
	return &Conn{
		id:    uuid.NewString(),
		queue: newSendQueue(queueSize),
	}
}

// ID returns the connection identifier.
func (c *Conn) ID() string {
	return c.id
}

// Identity returns the bound identity, or "" before authentication.
func (c *Conn) Identity() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identity
}

func (c *Conn) setIdentity(identity string) {
	c.mu.Lock()
	c.identity = identity
	c.mu.Unlock()
}

// Enqueue appends an event to the outbound queue. It never blocks; under
// backpressure the queue applies its drop policy. Returns false if the
// event was not queued.
func (c *Conn) Enqueue(ev *Event) bool {
	return c.queue.push(ev)
}

// Next blocks until an event is available, the context is done, or the
// connection is closed. Events come out in enqueue order.
func (c *Conn) Next(ctx context.Context) (*Event, error) {
	return c.queue.pop(ctx)
}

// Close tears down the outbound queue. Pending events are discarded; the
// client's pull-based refresh is the resynchronization path.
func (c *Conn) Close() {
	c.queue.close()
}

// QueueLen reports the current outbound queue depth.
func (c *Conn) QueueLen() int {
	return c.queue.len()
}
