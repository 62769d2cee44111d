package http

import (
	"sync"
	"time"
)

// rateLimiter caps inbound events per connection per minute. The window
// resets lazily on the first event after it elapses.
type rateLimiter struct {
	mu      sync.Mutex
	limit   int
	counter int
	start   time.Time
}

func newRateLimiter(limit int) *rateLimiter {
	return &rateLimiter{limit: limit, start: time.Now()}
}

func (r *rateLimiter) allow() bool {
	if r == nil || r.limit <= 0 {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if now.Sub(r.start) >= time.Minute {
		r.counter = 0
		r.start = now
	}
	r.counter++
	return r.counter <= r.limit
}
