package core

import "sync"

// Rooms tracks which connections are viewing which conversation. Membership
// is per connection, not per identity: the same user on two devices joins
// and leaves independently, and closing one tab must not evict the other.
type Rooms struct {
	mu     sync.RWMutex
	byRoom map[string]map[*Conn]struct{}
	byConn map[*Conn]map[string]struct{}
}

// NewRooms builds an empty membership index.
func NewRooms() *Rooms {
	return &Rooms{
		byRoom: make(map[string]map[*Conn]struct{}),
		byConn: make(map[*Conn]map[string]struct{}),
	}
}

// Join adds the connection to a room. Rooms exist implicitly from the first
// join. Joining twice is a no-op.
func (r *Rooms) Join(c *Conn, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.byRoom[room]
	if !ok {
		members = make(map[*Conn]struct{})
		r.byRoom[room] = members
	}
	members[c] = struct{}{}

	joined, ok := r.byConn[c]
	if !ok {
		joined = make(map[string]struct{})
		r.byConn[c] = joined
	}
	joined[room] = struct{}{}
}

// Leave removes the connection from a room. Leaving a room it never joined
// is a no-op. The room index entry is swept once empty.
func (r *Rooms) Leave(c *Conn, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(c, room)
}

// LeaveAll removes the connection from every room it was in. Called on
// disconnect and safe to call redundantly.
func (r *Rooms) LeaveAll(c *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for room := range r.byConn[c] {
		r.leaveLocked(c, room)
	}
}

func (r *Rooms) leaveLocked(c *Conn, room string) {
	if members, ok := r.byRoom[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(r.byRoom, room)
		}
	}
	if joined, ok := r.byConn[c]; ok {
		delete(joined, room)
		if len(joined) == 0 {
			delete(r.byConn, c)
		}
	}
}

// MembersOf returns a point-in-time snapshot of the room's connections.
func (r *Rooms) MembersOf(room string) []*Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.byRoom[room]
	out := make([]*Conn, 0, len(members))
	for c := range members {
		out = append(out, c)
	}
	return out
}

// Joined reports whether the connection is currently in the room.
func (r *Rooms) Joined(c *Conn, room string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byConn[c][room]
	return ok
}
