package conversation

import (
	"context"
	"sync"
)

// Store keeps the open conversation of each sender.
type Store interface {
	// Get returns the sender's state. ok is false when no flow is open.
	Get(ctx context.Context, sender string) (state State, ok bool, err error)
	Set(ctx context.Context, sender string, state State) error
	Delete(ctx context.Context, sender string) error
}

// MemoryStore is a process-local Store. Its contents are lost on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]State)}
}

func (s *MemoryStore) Get(_ context.Context, sender string) (State, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[sender]
	return state, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, sender string, state State) error {
	if state == nil {
		return s.Delete(context.Background(), sender)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[sender] = state
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sender string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, sender)
	return nil
}

// Len returns the number of open conversations.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}
