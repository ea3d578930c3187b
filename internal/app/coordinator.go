package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/carebridge/sessiongate/internal/core"
	"github.com/carebridge/sessiongate/internal/domain"
)

// Coordinator drives room membership and the join/leave broadcasts.
// Handlers for one connection run on that connection's read loop, so
// everything here is dispatched before the triggering handler returns.
type Coordinator struct {
	Registry *ConnectionRegistry
	Rooms    *core.RoomRegistry
	Access   *AccessVerifier
	Limiter  *JoinLimiter

	now func() time.Time
}

func NewCoordinator(registry *ConnectionRegistry, rooms *core.RoomRegistry, access *AccessVerifier, limiter *JoinLimiter) *Coordinator {
	return &Coordinator{
		Registry: registry,
		Rooms:    rooms,
		Access:   access,
		Limiter:  limiter,
		now:      time.Now,
	}
}

// Connect binds the verified identity to the connection and auto-joins
// the personal room. The personal room is held for the connection's
// whole life and is never explicitly left.
func (c *Coordinator) Connect(cid core.ConnectionID, identity domain.Identity, conn core.SignalConnection, cancel context.CancelFunc) core.MemberSession {
	sess := core.NewMemberSession(identity, conn)
	c.Registry.Bind(cid, sess, cancel)

	personal := domain.PersonalRoom(identity.ID)
	c.Rooms.Join(personal, cid, sess)
	c.Registry.AddRoom(cid, personal)

	log.Info().Str("module", "app.coordinator").Str("conn", string(cid)).Str("user", identity.ID).Str("role", string(identity.Role)).Msg("connected")
	return sess
}

// Disconnect releases every membership the connection holds. No peer
// notification is sent for abrupt disconnects; only an explicit leave
// produces the left broadcast.
func (c *Coordinator) Disconnect(cid core.ConnectionID, reason string) {
	rooms, cancel, ok := c.Registry.Unbind(cid)
	if !ok {
		return
	}
	for _, key := range rooms {
		c.Rooms.Leave(key, cid)
	}
	if cancel != nil {
		cancel()
	}
	log.Info().Str("module", "app.coordinator").Str("conn", string(cid)).Str("reason", reason).Msg("disconnected")
}

// JoinConsultation checks access, records the membership and announces
// the newcomer to every other current member. On denial the requester
// gets a local error notice and nothing else changes.
func (c *Coordinator) JoinConsultation(ctx context.Context, cid core.ConnectionID, consultationID string) {
	sess, ok := c.Registry.Session(cid)
	if !ok {
		return
	}
	identity := sess.Identity()

	if c.Limiter != nil && !c.Limiter.Allow(identity.ID) {
		log.Warn().Str("module", "app.coordinator").Str("user", identity.ID).Msg("join rate limited")
		sendJSON(sess.Signal(), ErrorEvent{Type: EventError, Message: "too many join attempts"})
		return
	}

	allowed, err := c.Access.CheckAccess(ctx, consultationID, identity)
	if err != nil {
		// Store failure, not a legitimate denial; fail closed but keep
		// the two distinguishable in the logs.
		log.Error().Err(err).Str("module", "app.coordinator").Str("consultation", consultationID).Str("user", identity.ID).Msg("access check failed")
		sendJSON(sess.Signal(), ErrorEvent{Type: EventError, Message: "access denied"})
		return
	}
	if !allowed {
		log.Info().Str("module", "app.coordinator").Str("consultation", consultationID).Str("user", identity.ID).Str("role", string(identity.Role)).Msg("join denied")
		sendJSON(sess.Signal(), ErrorEvent{Type: EventError, Message: "access denied"})
		return
	}

	key := domain.ConsultationRoom(consultationID)

	// The access lookup suspends; the connection may have disconnected
	// while it was outstanding. AddRoom refuses for a gone connection
	// and the join result is discarded.
	if !c.Registry.AddRoom(cid, key) {
		log.Info().Str("module", "app.coordinator").Str("conn", string(cid)).Str("consultation", consultationID).Msg("join discarded, connection gone")
		return
	}
	c.Rooms.Join(key, cid, sess)

	if b, ok := encode(MembershipEvent{
		Type:      EventUserJoined,
		UserID:    identity.ID,
		UserRole:  identity.Role,
		Timestamp: c.now().UTC(),
	}); ok {
		c.Rooms.Broadcast(key, cid, b)
	}

	sendJSON(sess.Signal(), RoomStateEvent{
		Type:           EventRoomState,
		ConsultationID: consultationID,
		Members:        c.Rooms.MembersSnapshot(key),
		Count:          c.Rooms.MemberCount(key),
	})
	log.Info().Str("module", "app.coordinator").Str("conn", string(cid)).Str("consultation", consultationID).Msg("joined consultation")
}

// LeaveConsultation removes the membership and broadcasts the left
// event to the remaining members. Unconditional: calling it for a room
// the connection never joined still produces the broadcast.
func (c *Coordinator) LeaveConsultation(cid core.ConnectionID, consultationID string) {
	sess, ok := c.Registry.Session(cid)
	if !ok {
		return
	}
	identity := sess.Identity()
	key := domain.ConsultationRoom(consultationID)

	c.Registry.RemoveRoom(cid, key)
	c.Rooms.Leave(key, cid)

	if b, ok := encode(MembershipEvent{
		Type:      EventUserLeft,
		UserID:    identity.ID,
		UserRole:  identity.Role,
		Timestamp: c.now().UTC(),
	}); ok {
		c.Rooms.Broadcast(key, cid, b)
	}
	log.Info().Str("module", "app.coordinator").Str("conn", string(cid)).Str("consultation", consultationID).Msg("left consultation")
}

// WhoAmI reports the bound identity and current consultation rooms
// back to the connection itself.
func (c *Coordinator) WhoAmI(cid core.ConnectionID) {
	sess, ok := c.Registry.Session(cid)
	if !ok {
		return
	}
	identity := sess.Identity()
	consultations := []string{}
	for _, key := range c.Registry.RoomsOf(cid) {
		if key.IsConsultation() {
			consultations = append(consultations, key.ConsultationID())
		}
	}
	sendJSON(sess.Signal(), WhoAmIEvent{
		Type:          EventWhoAmI,
		UserID:        identity.ID,
		UserRole:      identity.Role,
		Consultations: consultations,
	})
}
