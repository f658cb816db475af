package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/formbind"
	"github.com/aretw0/formbind/pkg/ports"
)

// Store implements ports.FormStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*formbind.Form
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*formbind.Form),
	}
}

// Save stores the form.
func (s *Store) Save(_ context.Context, id string, f *formbind.Form) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = f
	return nil
}

// Load retrieves the form.
func (s *Store) Load(_ context.Context, id string) (*formbind.Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.data[id]
	if !ok {
		return nil, ports.ErrFormNotFound
	}
	return f, nil
}

// Delete removes the form.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns the stored ids in sorted order.
func (s *Store) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
