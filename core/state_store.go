package core

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStateStore holds the singleton relay state in memory. State
// persisted here does not survive the process; durable hosts use the SQL
// state store.
type MemoryStateStore struct {
	mu    sync.Mutex
	state RelayState
	found bool
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{}
}

func (s *MemoryStateStore) Load(ctx context.Context) (RelayState, bool, error) {
	if s == nil {
		return RelayState{}, false, fmt.Errorf("core: memory state store is not configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.found, nil
}

func (s *MemoryStateStore) Save(ctx context.Context, state RelayState) error {
	if s == nil {
		return fmt.Errorf("core: memory state store is not configured")
	}
	if err := state.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.found = true
	return nil
}

var _ RelayStateStore = (*MemoryStateStore)(nil)
