package app

import (
	"context"
	"errors"

	"github.com/carebridge/sessiongate/internal/domain"
	"github.com/carebridge/sessiongate/internal/store"
)

// AccessVerifier decides whether an identity may enter a consultation
// room. Decisions are computed fresh on every call and never cached.
type AccessVerifier struct {
	store store.ConsultationStore
}

func NewAccessVerifier(s store.ConsultationStore) *AccessVerifier {
	return &AccessVerifier{store: s}
}

// CheckAccess looks the consultation up and applies the role table.
// A missing consultation and a role mismatch are indistinguishable to
// the caller: both are (false, nil). A non-nil error means the store
// itself failed; callers must treat that as a denial too.
func (a *AccessVerifier) CheckAccess(ctx context.Context, consultationID string, identity domain.Identity) (bool, error) {
	c, err := a.store.Lookup(ctx, consultationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	switch identity.Role {
	case domain.RolePatient:
		return identity.ID == c.PatientID, nil
	case domain.RoleProvider:
		return identity.ID == c.ProviderID, nil
	case domain.RoleAdmin:
		return true, nil
	default:
		// staff and anything unrecognized: never.
		return false, nil
	}
}
