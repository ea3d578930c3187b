package app

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/carebridge/sessiongate/internal/core"
	"github.com/carebridge/sessiongate/internal/domain"
)

// Outbound event types. These names are the wire contract with the
// web and mobile clients; changing them breaks deployed apps.
const (
	EventUserJoined = "user_joined_consultation"
	EventUserLeft   = "user_left_consultation"
	EventUserTyping = "user_typing"
	EventRoomState  = "room_state"
	EventError      = "error"
	EventPong       = "pong"
	EventWhoAmI     = "whoami"
)

type MembershipEvent struct {
	Type      string      `json:"type"`
	UserID    string      `json:"userId"`
	UserRole  domain.Role `json:"userRole"`
	Timestamp time.Time   `json:"timestamp"`
}

type TypingEvent struct {
	Type      string      `json:"type"`
	UserID    string      `json:"userId"`
	UserRole  domain.Role `json:"userRole"`
	IsTyping  bool        `json:"isTyping"`
	Timestamp time.Time   `json:"timestamp"`
}

type RoomStateEvent struct {
	Type           string           `json:"type"`
	ConsultationID string           `json:"consultationId"`
	Members        []core.MemberDTO `json:"members"`
	Count          int              `json:"count"`
}

type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type PongEvent struct {
	Type string `json:"type"`
}

type WhoAmIEvent struct {
	Type          string      `json:"type"`
	UserID        string      `json:"userId"`
	UserRole      domain.Role `json:"userRole"`
	Consultations []string    `json:"consultations"`
}

func encode(v any) (core.Frame, bool) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.events").Msg("event marshal")
		return nil, false
	}
	return b, true
}

// sendJSON delivers an event to a single connection; a full send buffer
// drops the frame, the slow-consumer policy lives in the adapter.
func sendJSON(conn core.SignalConnection, v any) {
	b, ok := encode(v)
	if !ok {
		return
	}
	if err := conn.TrySend(b); err != nil {
		log.Warn().Err(err).Str("module", "app.events").Msg("event dropped")
	}
}
