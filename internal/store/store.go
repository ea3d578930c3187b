// Package store is the gateway's read-only view of the consultation
// record service. The gateway never writes consultations.
package store

import (
	"context"
	"errors"

	"github.com/carebridge/sessiongate/internal/domain"
)

var ErrNotFound = errors.New("consultation not found")

// ConsultationStore looks up a consultation by id. Lookup returns
// ErrNotFound for a missing record; any other error means the store
// itself failed and callers must fail closed.
type ConsultationStore interface {
	Lookup(ctx context.Context, consultationID string) (domain.Consultation, error)
}
