package core

import (
	"sync"

	"github.com/carebridge/sessiongate/internal/domain"
)

// RoomRegistry is the single shared map of RoomKey to member set.
// Constructed once per server instance and passed by reference into
// every component that needs it; there is no package-level instance.
// Rooms with zero members are dropped immediately.
type RoomRegistry struct {
	mu    sync.RWMutex
	rooms map[domain.RoomKey]*room
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{rooms: make(map[domain.RoomKey]*room)}
}

// Join adds the session to the room, creating the room on first member.
// Adding an existing member is a no-op overwrite, so concurrent joins
// for the same connection are safe.
func (rr *RoomRegistry) Join(key domain.RoomKey, cid ConnectionID, ms MemberSession) {
	rr.mu.Lock()
	r, ok := rr.rooms[key]
	if !ok {
		r = newRoom(key)
		rr.rooms[key] = r
	}
	rr.mu.Unlock()
	r.AddMember(cid, ms)
}

// Leave removes the connection from the room and prunes the room when
// its last member is gone. Safe to call for a non-member.
func (rr *RoomRegistry) Leave(key domain.RoomKey, cid ConnectionID) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	r, ok := rr.rooms[key]
	if !ok {
		return
	}
	if r.RemoveMember(cid) == 0 {
		delete(rr.rooms, key)
	}
}

func (rr *RoomRegistry) Contains(key domain.RoomKey, cid ConnectionID) bool {
	rr.mu.RLock()
	r, ok := rr.rooms[key]
	rr.mu.RUnlock()
	return ok && r.Contains(cid)
}

func (rr *RoomRegistry) MemberCount(key domain.RoomKey) int {
	rr.mu.RLock()
	r, ok := rr.rooms[key]
	rr.mu.RUnlock()
	if !ok {
		return 0
	}
	return r.MemberCount()
}

// Broadcast delivers data to every current member of the room except
// from. A missing room is an empty broadcast, not an error.
func (rr *RoomRegistry) Broadcast(key domain.RoomKey, from ConnectionID, data Frame) PublishResult {
	rr.mu.RLock()
	r, ok := rr.rooms[key]
	rr.mu.RUnlock()
	if !ok {
		return PublishResult{}
	}
	return r.Broadcast(from, data)
}

func (rr *RoomRegistry) MembersSnapshot(key domain.RoomKey) []MemberDTO {
	rr.mu.RLock()
	r, ok := rr.rooms[key]
	rr.mu.RUnlock()
	if !ok {
		return nil
	}
	return r.MembersSnapshot()
}

func (rr *RoomRegistry) List() []RoomInfo {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	out := make([]RoomInfo, 0, len(rr.rooms))
	for key, r := range rr.rooms {
		out = append(out, RoomInfo{Key: key, MemberCount: r.MemberCount()})
	}
	return out
}
