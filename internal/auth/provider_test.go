package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/carebridge/sessiongate/internal/domain"
)

func TestProviderVerifier_Valid(t *testing.T) {
	req := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body introspectRequest
		req.NoError(json.NewDecoder(r.Body).Decode(&body))
		req.Equal("good-token", body.Token)
		_ = json.NewEncoder(w).Encode(introspectResponse{ID: "u9", Role: "admin"})
	}))
	defer srv.Close()

	v := NewProviderVerifier(srv.URL, time.Second)
	id, err := v.Verify(context.Background(), "good-token")
	req.NoError(err)
	req.Equal(domain.Identity{ID: "u9", Role: domain.RoleAdmin}, id)
}

func TestProviderVerifier_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	v := NewProviderVerifier(srv.URL, time.Second)
	_, err := v.Verify(context.Background(), "bad-token")
	require.ErrorIs(t, err, ErrInvalidCredential)
}

func TestProviderVerifier_ProviderDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	v := NewProviderVerifier(srv.URL, time.Second)
	_, err := v.Verify(context.Background(), "any")
	require.ErrorIs(t, err, ErrVerificationFailed)

	srv.Close()
	_, err = v.Verify(context.Background(), "any")
	require.ErrorIs(t, err, ErrVerificationFailed)
}

func TestProviderVerifier_EmptyCredential(t *testing.T) {
	v := NewProviderVerifier("http://127.0.0.1:0", time.Second)
	_, err := v.Verify(context.Background(), "")
	require.ErrorIs(t, err, ErrMissingCredential)
}

func TestProviderVerifier_EmptySubject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(introspectResponse{})
	}))
	defer srv.Close()

	v := NewProviderVerifier(srv.URL, time.Second)
	_, err := v.Verify(context.Background(), "any")
	require.ErrorIs(t, err, ErrInvalidCredential)
}
