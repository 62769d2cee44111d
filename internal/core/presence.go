package core

// Presence turns global state changes into broadcasts to every registered
// connection, room membership notwithstanding.
type Presence struct {
	registry *Registry
}

// NewPresence builds a broadcaster over the registry.
func NewPresence(registry *Registry) *Presence {
	return &Presence{registry: registry}
}

// BroadcastAll enqueues the event once per registered connection. No
// ordering is guaranteed relative to room-scoped events delivered
// concurrently to the same connection.
func (p *Presence) BroadcastAll(ev *Event) {
	for _, c := range p.registry.All() {
		c.Enqueue(ev)
	}
}
