// Package domain holds the entities shared across the gateway.
// No transport or lifecycle logic lives here.
package domain

import "errors"

var ErrUnknownRole = errors.New("unknown role")

// Role is the closed set of subject roles the gateway understands.
// Anything outside this set must be treated as deny-by-default.
type Role string

const (
	RolePatient  Role = "patient"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
	RoleStaff    Role = "staff"
)

// ParseRole maps a raw role string onto the closed enumeration.
// An empty string is not an error here; callers decide the default.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RolePatient, RoleProvider, RoleAdmin, RoleStaff:
		return Role(raw), nil
	}
	return "", ErrUnknownRole
}

// Identity is the authenticated subject of a connection.
// Produced once at handshake and immutable for the connection's lifetime.
type Identity struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}
