package domain

import "strings"

const (
	consultationPrefix = "consultation:"
	personalPrefix     = "personal:"
)

// RoomKey names an ephemeral broadcast scope. A room exists only while
// it has members; there is no persisted room state anywhere.
type RoomKey string

// ConsultationRoom is the shared room for one consultation.
func ConsultationRoom(consultationID string) RoomKey {
	return RoomKey(consultationPrefix + consultationID)
}

// PersonalRoom is the per-user room every connection joins at connect
// time, used to address out-of-band notifications to a single user.
func PersonalRoom(userID string) RoomKey {
	return RoomKey(personalPrefix + userID)
}

func (k RoomKey) IsConsultation() bool {
	return strings.HasPrefix(string(k), consultationPrefix)
}

// ConsultationID returns the consultation id embedded in the key, or
// "" when the key is not a consultation room.
func (k RoomKey) ConsultationID() string {
	if !k.IsConsultation() {
		return ""
	}
	return strings.TrimPrefix(string(k), consultationPrefix)
}
