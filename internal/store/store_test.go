package store

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

func TestMemoryStore(t *testing.T) {
	req := require.New(t)
	s := NewMemoryStore()
	s.Put(domain.Consultation{ID: "c1", PatientID: "u1", ProviderID: "u2", Status: "scheduled"})

	c, err := s.Lookup(context.Background(), "c1")
	req.NoError(err)
	req.Equal("u1", c.PatientID)

	_, err = s.Lookup(context.Background(), "missing")
	req.ErrorIs(err, ErrNotFound)
}

func TestHTTPStore_Lookup(t *testing.T) {
	req := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/consultations/c1":
			_ = json.NewEncoder(w).Encode(domain.Consultation{ID: "c1", PatientID: "u1", ProviderID: "u2"})
		case "/consultations/boom":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	s := NewHTTPStore(srv.URL, time.Second)

	c, err := s.Lookup(context.Background(), "c1")
	req.NoError(err)
	req.Equal("u2", c.ProviderID)

	_, err = s.Lookup(context.Background(), "missing")
	req.ErrorIs(err, ErrNotFound)

	_, err = s.Lookup(context.Background(), "boom")
	req.Error(err)
	req.NotErrorIs(err, ErrNotFound)
}
