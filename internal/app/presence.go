package app

import (
	"time"

	"github.com/carebridge/sessiongate/internal/core"
	"github.com/carebridge/sessiongate/internal/domain"
)

// Presence broadcasts ephemeral typing signals to room members.
// It performs no access check of its own: it trusts that only
// connections admitted via JoinConsultation send typing events, and a
// connection that never joined can address a room it guesses the id
// of. Re-checking membership here is a pending product decision.
type Presence struct {
	Registry *ConnectionRegistry
	Rooms    *core.RoomRegistry

	now func() time.Time
}

func NewPresence(registry *ConnectionRegistry, rooms *core.RoomRegistry) *Presence {
	return &Presence{Registry: registry, Rooms: rooms, now: time.Now}
}

// NotifyTyping fans the typing signal out to every other member of the
// consultation room. The sender never receives its own signal.
func (p *Presence) NotifyTyping(cid core.ConnectionID, consultationID string, isTyping bool) {
	sess, ok := p.Registry.Session(cid)
	if !ok {
		return
	}
	identity := sess.Identity()

	b, ok := encode(TypingEvent{
		Type:      EventUserTyping,
		UserID:    identity.ID,
		UserRole:  identity.Role,
		IsTyping:  isTyping,
		Timestamp: p.now().UTC(),
	})
	if !ok {
		return
	}
	p.Rooms.Broadcast(domain.ConsultationRoom(consultationID), cid, b)
}
