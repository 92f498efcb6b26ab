// Package presence tracks which users currently hold a live connection to this process.
package presence

import (
	"sort"
	"sync"
)

// Conn is a live connection handle owned by the transport layer.
type Conn interface {
	// ID is unique per connection for the lifetime of the process.
	ID() string
	// Send delivers one event to the peer. It must not block on network I/O.
	Send(event string, payload any) error
}

// Registry maps a user id to at most one connection. A reconnect replaces the previous
// binding; the replaced connection is left for the transport to close.
type Registry struct {
	mu     sync.RWMutex
	byUser map[uint]Conn
	byConn map[string]uint
}

func NewRegistry() *Registry {
	return &Registry{
		byUser: make(map[uint]Conn),
		byConn: make(map[string]uint),
	}
}

// Bind registers conn for userID and returns the handle it superseded, if any.
func (r *Registry) Bind(userID uint, conn Conn) Conn {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.byUser[userID]
	if prev != nil {
		delete(r.byConn, prev.ID())
	}
	// The same handle may be re-bound under a different id.
	if oldUser, ok := r.byConn[conn.ID()]; ok && oldUser != userID {
		delete(r.byUser, oldUser)
	}
	r.byUser[userID] = conn
	r.byConn[conn.ID()] = userID
	return prev
}

// Unbind removes the binding held by conn. It reports false when conn is unknown,
// including when it was already superseded by a newer connection for the same user.
func (r *Registry) Unbind(conn Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.byConn[conn.ID()]
	if !ok {
		return false
	}
	delete(r.byConn, conn.ID())
	if cur, ok := r.byUser[userID]; ok && cur.ID() == conn.ID() {
		delete(r.byUser, userID)
	}
	return true
}

func (r *Registry) Lookup(userID uint) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.byUser[userID]
	return conn, ok
}

// ListOnline returns a sorted snapshot of bound user ids.
func (r *Registry) ListOnline() []uint {
	r.mu.RLock()
	ids := make([]uint, 0, len(r.byUser))
	for id := range r.byUser {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Conns returns a snapshot of every bound connection.
func (r *Registry) Conns() []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conns := make([]Conn, 0, len(r.byUser))
	for _, c := range r.byUser {
		conns = append(conns, c)
	}
	return conns
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser)
}
