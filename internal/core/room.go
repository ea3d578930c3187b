package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/carebridge/sessiongate/internal/domain"
)

// room is a threadsafe in-memory member set.
// It never closes adapter-owned transports.
type room struct {
	key     domain.RoomKey
	mu      sync.RWMutex
	members map[ConnectionID]MemberSession
}

func newRoom(key domain.RoomKey) *room {
	return &room{
		key:     key,
		members: make(map[ConnectionID]MemberSession),
	}
}

func (r *room) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

func (r *room) AddMember(cid ConnectionID, ms MemberSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[cid] = ms
	log.Debug().Str("module", "core.room").Str("room", string(r.key)).Str("conn", string(cid)).Msg("member added")
}

// RemoveMember is idempotent and returns the remaining member count so
// the registry can prune empty rooms.
func (r *room) RemoveMember(cid ConnectionID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, cid)
	return len(r.members)
}

func (r *room) Contains(cid ConnectionID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.members[cid]
	return ok
}

// Broadcast fans data out to every member except from. The member set
// is read at dispatch time, never cached.
func (r *room) Broadcast(from ConnectionID, data Frame) PublishResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := PublishResult{}
	for cid, m := range r.members {
		if cid == from {
			continue
		}
		if err := m.Signal().TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, m)
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "core.room").Str("room", string(r.key)).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

func (r *room) MembersSnapshot() []MemberDTO {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]MemberDTO, 0, len(r.members))
	for _, ms := range r.members {
		id := ms.Identity()
		out = append(out, MemberDTO{UserID: id.ID, UserRole: id.Role})
	}
	return out
}
