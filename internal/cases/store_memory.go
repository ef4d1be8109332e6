package cases

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// In-memory stores keep the initial implementation lightweight and
// testable. They intentionally favor clarity over performance.
type InMemoryStore struct {
	mu    sync.RWMutex
	cases map[uuid.UUID]*Case
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{cases: make(map[uuid.UUID]*Case)}
}

func (s *InMemoryStore) Save(_ context.Context, c *Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cases[c.ID] = c
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.cases[id]; ok {
		return c, nil
	}
	return nil, ErrNotFound
}

type InMemoryAuditStore struct {
	mu     sync.RWMutex
	events []AuditEvent
}

func NewInMemoryAuditStore() *InMemoryAuditStore {
	return &InMemoryAuditStore{}
}

func (s *InMemoryAuditStore) Append(_ context.Context, event AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *InMemoryAuditStore) ListByCase(_ context.Context, caseID uuid.UUID) ([]AuditEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []AuditEvent
	for _, e := range s.events {
		if e.CaseID == caseID {
			out = append(out, e)
		}
	}
	return out, nil
}
