package store

import (
	"context"
	"sync"

	"github.com/carebridge/sessiongate/internal/domain"
)

// MemoryStore is a map-backed ConsultationStore for tests and
// single-box deployments where consultations are seeded at startup.
type MemoryStore struct {
	mu            sync.RWMutex
	consultations map[string]domain.Consultation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{consultations: make(map[string]domain.Consultation)}
}

func (s *MemoryStore) Put(c domain.Consultation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.consultations[c.ID] = c
}

func (s *MemoryStore) Lookup(_ context.Context, consultationID string) (domain.Consultation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.consultations[consultationID]
	if !ok {
		return domain.Consultation{}, ErrNotFound
	}
	return c, nil
}
