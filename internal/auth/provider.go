package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/carebridge/sessiongate/internal/domain"
)

// ProviderVerifier hands the credential to an external identity
// provider's introspection endpoint and trusts its answer. The IdP is a
// black box: it either returns {id, role} or the credential is bad.
type ProviderVerifier struct {
	url    string
	client *http.Client
}

func NewProviderVerifier(url string, timeout time.Duration) *ProviderVerifier {
	return &ProviderVerifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

func (v *ProviderVerifier) Verify(ctx context.Context, credential string) (domain.Identity, error) {
	if credential == "" {
		return domain.Identity{}, ErrMissingCredential
	}

	body, err := json.Marshal(introspectRequest{Token: credential})
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.url, bytes.NewReader(body))
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		log.Error().Err(err).Str("module", "auth.provider").Msg("identity provider unreachable")
		return domain.Identity{}, fmt.Errorf("%w: provider unreachable", ErrVerificationFailed)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.Identity{}, ErrInvalidCredential
	default:
		log.Error().Int("status", resp.StatusCode).Str("module", "auth.provider").Msg("unexpected provider status")
		return domain.Identity{}, fmt.Errorf("%w: provider status %d", ErrVerificationFailed, resp.StatusCode)
	}

	var out introspectResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.Identity{}, fmt.Errorf("%w: bad provider response", ErrVerificationFailed)
	}
	if out.ID == "" {
		return domain.Identity{}, ErrInvalidCredential
	}
	return identityFromClaims(out.ID, out.Role)
}
