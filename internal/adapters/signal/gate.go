package signal

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/carebridge/sessiongate/internal/auth"
	"github.com/carebridge/sessiongate/internal/domain"
)

// Gate authenticates the websocket handshake. A connection that fails
// here is rejected before the upgrade and never reaches any room logic.
type Gate struct {
	verifier auth.Verifier
}

func NewGate(verifier auth.Verifier) *Gate {
	return &Gate{verifier: verifier}
}

// credential reads the handshake credential: the Authorization header
// takes priority, the token query parameter is the fallback for
// browser websocket clients that cannot set headers. Exactly one is
// used; a present-but-malformed header is not papered over by the
// query parameter.
func credential(r *http.Request) (string, error) {
	if h := r.Header.Get("Authorization"); h != "" {
		const prefix = "Bearer "
		if !strings.HasPrefix(h, prefix) {
			return "", auth.ErrInvalidCredential
		}
		return strings.TrimPrefix(h, prefix), nil
	}
	if t := r.URL.Query().Get("token"); t != "" {
		return t, nil
	}
	return "", auth.ErrMissingCredential
}

func (g *Gate) Authenticate(ctx context.Context, r *http.Request) (domain.Identity, error) {
	cred, err := credential(r)
	if err != nil {
		return domain.Identity{}, err
	}
	return g.verifier.Verify(ctx, cred)
}

// rejectionMessage maps an auth failure onto the short message shown
// to the peer. Verification internals never cross the wire.
func rejectionMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrMissingCredential):
		return "missing credential"
	case errors.Is(err, auth.ErrExpiredCredential):
		return "expired credential"
	case errors.Is(err, auth.ErrInvalidCredential):
		return "invalid credential"
	default:
		return "authentication failed"
	}
}
