package core

import "sync"

// Registry maps authenticated identities to their live connections. A user
// with several open tabs holds several entries under one identity.
type Registry struct {
	mu         sync.RWMutex
	byIdentity map[string]map[*Conn]struct{}
	byConn     map[*Conn]string

	rooms *Rooms

	// OnFirstConnection, when set, fires after an identity gains its first
	// live connection. Policy hook; correctness does not depend on it.
	OnFirstConnection func(identity string)
}

// NewRegistry builds a registry that cascades disconnects into the given
// room membership index.
func NewRegistry(rooms *Rooms) *Registry {
	return &Registry{
		byIdentity: make(map[string]map[*Conn]struct{}),
		byConn:     make(map[*Conn]string),
		rooms:      rooms,
	}
}

// Register binds an identity to a connection. Registering the same pair
// twice is a no-op; rebinding to a different identity fails with
// ErrAlreadyBound and keeps the original binding.
func (r *Registry) Register(c *Conn, identity string) error {
	r.mu.Lock()
	if current, bound := r.byConn[c]; bound {
		r.mu.Unlock()
		if current == identity {
			return nil
		}
		return ErrAlreadyBound
	}

	r.byConn[c] = identity
	conns, ok := r.byIdentity[identity]
	if !ok {
		conns = make(map[*Conn]struct{})
		r.byIdentity[identity] = conns
	}
	conns[c] = struct{}{}
	first := len(conns) == 1
	hook := r.OnFirstConnection
	r.mu.Unlock()

	c.setIdentity(identity)

	if first && hook != nil {
		hook(identity)
	}
	return nil
}

// Unregister removes the connection from its identity mapping and from
// every room. Unknown connections are a no-op; it always succeeds.
func (r *Registry) Unregister(c *Conn) {
	r.mu.Lock()
	identity, bound := r.byConn[c]
	if bound {
		delete(r.byConn, c)
		if conns, ok := r.byIdentity[identity]; ok {
			delete(conns, c)
			if len(conns) == 0 {
				delete(r.byIdentity, identity)
			}
		}
	}
	r.mu.Unlock()

	r.rooms.LeaveAll(c)
}

// ConnectionsFor returns a point-in-time snapshot of the identity's live
// connections. Callers re-invoke to observe later state.
func (r *Registry) ConnectionsFor(identity string) []*Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := r.byIdentity[identity]
	out := make([]*Conn, 0, len(conns))
	for c := range conns {
		out = append(out, c)
	}
	return out
}

// All returns a snapshot of every registered connection across identities.
func (r *Registry) All() []*Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Conn, 0, len(r.byConn))
	for c := range r.byConn {
		out = append(out, c)
	}
	return out
}

// Len reports how many connections are currently registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byConn)
}
