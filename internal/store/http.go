package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/carebridge/sessiongate/internal/domain"
)

// HTTPStore reads consultations from the record service over HTTP.
type HTTPStore struct {
	baseURL string
	client  *http.Client
}

func NewHTTPStore(baseURL string, timeout time.Duration) *HTTPStore {
	return &HTTPStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *HTTPStore) Lookup(ctx context.Context, consultationID string) (domain.Consultation, error) {
	u := s.baseURL + "/consultations/" + url.PathEscape(consultationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.Consultation{}, fmt.Errorf("build lookup request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		log.Error().Err(err).Str("module", "store.http").Str("consultation", consultationID).Msg("record service unreachable")
		return domain.Consultation{}, fmt.Errorf("record service unreachable: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return domain.Consultation{}, ErrNotFound
	default:
		log.Error().Int("status", resp.StatusCode).Str("module", "store.http").Msg("unexpected record service status")
		return domain.Consultation{}, fmt.Errorf("record service status %d", resp.StatusCode)
	}

	var c domain.Consultation
	if err := json.NewDecoder(resp.Body).Decode(&c); err != nil {
		return domain.Consultation{}, fmt.Errorf("decode consultation: %w", err)
	}
	return c, nil
}
