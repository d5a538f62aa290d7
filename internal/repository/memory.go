package repository

import (
	"context"
	"sync"

	"github.com/jaekwang-park/todo-tracker/internal/model"
)

// MemoryStorage keeps the last saved snapshot in process memory.
type MemoryStorage struct {
	mu    sync.Mutex
	data  *model.Snapshot
	saves int
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Save(_ context.Context, snap model.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := snap.Clone()
	m.data = &clone
	m.saves++
	return nil
}

func (m *MemoryStorage) Load(_ context.Context) (*model.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data == nil {
		return nil, nil
	}
	clone := m.data.Clone()
	return &clone, nil
}

// Saves reports how many times Save has been called.
func (m *MemoryStorage) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

var _ Storage = (*MemoryStorage)(nil)
