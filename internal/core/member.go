package core

import "github.com/carebridge/sessiongate/internal/domain"

// memberSession implements MemberSession by pairing identity + transport.
type memberSession struct {
	identity domain.Identity
	conn     SignalConnection
}

func NewMemberSession(identity domain.Identity, conn SignalConnection) MemberSession {
	return &memberSession{identity: identity, conn: conn}
}

func (m *memberSession) Identity() domain.Identity { return m.identity }
func (m *memberSession) Signal() SignalConnection  { return m.conn }
