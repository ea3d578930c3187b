// Package app coordinates connections, access decisions and room
// membership. All mutable gateway state lives in the two registries
// owned by this package and internal/core.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/carebridge/sessiongate/internal/core"
	"github.com/carebridge/sessiongate/internal/domain"
)

type connEntry struct {
	Session core.MemberSession
	Rooms   map[domain.RoomKey]struct{}
	Cancel  context.CancelFunc
}

// ConnectionRegistry tracks every live connection, its bound identity
// and the rooms it currently holds. A connection appears here only
// after the handshake verified its credential.
type ConnectionRegistry struct {
	mu    sync.RWMutex
	conns map[core.ConnectionID]*connEntry
}

func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{conns: make(map[core.ConnectionID]*connEntry)}
}

func (r *ConnectionRegistry) Bind(cid core.ConnectionID, sess core.MemberSession, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[cid] = &connEntry{
		Session: sess,
		Rooms:   make(map[domain.RoomKey]struct{}),
		Cancel:  cancel,
	}
	log.Info().Str("module", "app.registry").Str("conn", string(cid)).Str("user", sess.Identity().ID).Msg("bound connection")
}

// Unbind removes the connection and returns the rooms it still held so
// the caller can release the memberships. Idempotent.
func (r *ConnectionRegistry) Unbind(cid core.ConnectionID) ([]domain.RoomKey, context.CancelFunc, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[cid]
	if !ok {
		return nil, nil, false
	}
	delete(r.conns, cid)
	rooms := make([]domain.RoomKey, 0, len(e.Rooms))
	for key := range e.Rooms {
		rooms = append(rooms, key)
	}
	log.Info().Str("module", "app.registry").Str("conn", string(cid)).Int("rooms", len(rooms)).Msg("unbound connection")
	return rooms, e.Cancel, true
}

func (r *ConnectionRegistry) Session(cid core.ConnectionID) (core.MemberSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.conns[cid]; ok {
		return e.Session, true
	}
	return nil, false
}

func (r *ConnectionRegistry) Alive(cid core.ConnectionID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.conns[cid]
	return ok
}

// AddRoom records the membership on the connection. It returns false
// when the connection is gone, which is how a join that resolved after
// a disconnect gets discarded.
func (r *ConnectionRegistry) AddRoom(cid core.ConnectionID, key domain.RoomKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[cid]
	if !ok {
		return false
	}
	e.Rooms[key] = struct{}{}
	return true
}

func (r *ConnectionRegistry) RemoveRoom(cid core.ConnectionID, key domain.RoomKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.conns[cid]; ok {
		delete(e.Rooms, key)
	}
}

func (r *ConnectionRegistry) RoomsOf(cid core.ConnectionID) []domain.RoomKey {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[cid]
	if !ok {
		return nil
	}
	out := make([]domain.RoomKey, 0, len(e.Rooms))
	for key := range e.Rooms {
		out = append(out, key)
	}
	return out
}
