// Package auth verifies handshake credentials and yields the identity
// bound to a connection. Exactly one verification strategy is configured
// per deployment; there is no fallback between strategies.
package auth

import (
	"context"
	"errors"

	"github.com/carebridge/sessiongate/internal/domain"
)

// All auth errors are fatal to the handshake. The short messages below
// are the only thing ever shown to the remote peer; verification
// internals stay on the server side.
var (
	ErrMissingCredential  = errors.New("missing credential")
	ErrInvalidCredential  = errors.New("invalid credential")
	ErrExpiredCredential  = errors.New("expired credential")
	ErrVerificationFailed = errors.New("verification failed")
)

// Verifier validates a presented credential. Implementations must be
// side-effect-free and safe for concurrent use across connections.
type Verifier interface {
	Verify(ctx context.Context, credential string) (domain.Identity, error)
}
