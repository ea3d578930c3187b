package core

import "github.com/carebridge/sessiongate/internal/domain"

// Frame is an encoded outbound payload ready for the wire.
type Frame []byte

// ConnectionID identifies one live connection. A user reconnecting gets
// a fresh id; nothing carries over.
type ConnectionID string

// SignalConnection abstracts the messaging transport for one member.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// MemberSession binds an identity and its transport endpoint. This is
// what a room stores and fans out to.
type MemberSession interface {
	Identity() domain.Identity
	Signal() SignalConnection
}

// PublishResult reports delivery stats and backpressure drops.
type PublishResult struct {
	SentTo  int
	Dropped []MemberSession
}

// MemberDTO is a read-only member view for snapshots (no transport).
type MemberDTO struct {
	UserID   string      `json:"userId"`
	UserRole domain.Role `json:"userRole"`
}

type RoomInfo struct {
	Key         domain.RoomKey `json:"room"`
	MemberCount int            `json:"memberCount"`
}
