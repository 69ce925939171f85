package pending

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps confirmations in process memory. Expired entries are
// dropped when touched and on every Put.
type MemoryStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[uuid.UUID]Confirmation
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[uuid.UUID]Confirmation),
	}
}

func (s *MemoryStore) Put(_ context.Context, c Confirmation) (Confirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, item := range s.items {
		if !now.Before(item.ExpiresAt) {
			delete(s.items, id)
		}
	}

	c = stamp(c, now, s.ttl)
	s.items[c.ID] = c
	return c, nil
}

func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (Confirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup(id)
}

func (s *MemoryStore) Take(_ context.Context, id uuid.UUID) (Confirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.lookup(id)
	if err != nil {
		return Confirmation{}, err
	}
	delete(s.items, id)
	return c, nil
}

func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

// lookup must be called with mu held.
func (s *MemoryStore) lookup(id uuid.UUID) (Confirmation, error) {
	c, ok := s.items[id]
	if !ok {
		return Confirmation{}, ErrNotFound
	}
	if !s.now().Before(c.ExpiresAt) {
		delete(s.items, id)
		return Confirmation{}, ErrNotFound
	}
	return c, nil
}
