package webhook

import (
	"context"
	"sync"
)

// MemoryPersister keeps the encoded state in process; used for tests and the memory backend
type MemoryPersister struct {
	mu    sync.Mutex
	data  []byte
	saves int
}

// NewMemoryPersister creates an empty in-memory persister
func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{}
}

// Load decodes the last saved state
func (m *MemoryPersister) Load(ctx context.Context) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return DecodeState(m.data)
}

// Save encodes and keeps the state
func (m *MemoryPersister) Save(ctx context.Context, state State) error {
	data, err := state.Encode()
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	m.saves++
	return nil
}

// Saves returns how many times Save succeeded
func (m *MemoryPersister) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
