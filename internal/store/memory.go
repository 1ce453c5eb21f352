package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps settings in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	settings map[uuid.UUID]map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{settings: make(map[uuid.UUID]map[string]string)}
}

func (m *MemoryStore) GetSetting(ctx context.Context, projectID uuid.UUID, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.settings[projectID][key]
	return value, ok, nil
}

func (m *MemoryStore) SetSetting(ctx context.Context, projectID uuid.UUID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.settings[projectID]; !ok {
		m.settings[projectID] = make(map[string]string)
	}
	m.settings[projectID][key] = value

	return nil
}

func (m *MemoryStore) ListProjects(ctx context.Context) ([]uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	projects := make([]uuid.UUID, 0, len(m.settings))
	for id := range m.settings {
		projects = append(projects, id)
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].String() < projects[j].String()
	})

	return projects, nil
}

func (m *MemoryStore) Migrate() error {
	return nil
}
