package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/carebridge/sessiongate/internal/domain"
)

// Claims is the payload the platform's token issuer signs for us.
// Role may be absent; the gateway defaults it to patient.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenVerifier checks symmetric HS256 tokens locally, without calling
// out to the identity provider.
type TokenVerifier struct {
	secret []byte
	issuer string
}

func NewTokenVerifier(secret, issuer string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret), issuer: issuer}
}

func (v *TokenVerifier) Verify(_ context.Context, credential string) (domain.Identity, error) {
	if credential == "" {
		return domain.Identity{}, ErrMissingCredential
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(credential, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Identity{}, fmt.Errorf("%w: token expired", ErrExpiredCredential)
		}
		return domain.Identity{}, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	if !token.Valid || claims.UserID == "" {
		return domain.Identity{}, ErrInvalidCredential
	}

	return identityFromClaims(claims.UserID, claims.Role)
}

// identityFromClaims applies the default-role rule shared by both
// strategies: a missing role means patient, an unknown role is rejected.
func identityFromClaims(userID, role string) (domain.Identity, error) {
	if role == "" {
		return domain.Identity{ID: userID, Role: domain.RolePatient}, nil
	}
	parsed, err := domain.ParseRole(role)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	return domain.Identity{ID: userID, Role: parsed}, nil
}
