package cache

import (
	"context"
	"sync"
	"testing"

	"github.com/emrgen/shazam/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCache struct {
	mu     sync.Mutex
	values map[string]string
	reads  int
}

func newMapCache() *mapCache {
	return &mapCache{values: make(map[string]string)}
}

func (m *mapCache) GetSetting(ctx context.Context, projectID uuid.UUID, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	v, ok := m.values[settingKey(projectID, key)]
	return v, ok, nil
}

func (m *mapCache) SetSetting(ctx context.Context, projectID uuid.UUID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[settingKey(projectID, key)] = value
	return nil
}

func (m *mapCache) DeleteSetting(ctx context.Context, projectID uuid.UUID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, settingKey(projectID, key))
	return nil
}

func TestCachedSettingStore(t *testing.T) {
	ctx := context.TODO()
	projectID := uuid.New()
	backing := store.NewMemoryStore()
	c := newMapCache()
	cached := NewCachedSettingStore(c, backing)

	_, ok, err := cached.GetSetting(ctx, projectID, store.KeyConfig)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cached.SetSetting(ctx, projectID, store.KeyConfig, "v1"))
	value, ok, err := cached.GetSetting(ctx, projectID, store.KeyConfig)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v1", value)
	assert.Equal(t, "v1", c.values[settingKey(projectID, store.KeyConfig)])

	// writes evict the cached copy
	require.NoError(t, cached.SetSetting(ctx, projectID, store.KeyConfig, "v2"))
	_, cachedNow := c.values[settingKey(projectID, store.KeyConfig)]
	assert.False(t, cachedNow)

	value, _, err = cached.GetSetting(ctx, projectID, store.KeyConfig)
	require.NoError(t, err)
	assert.Equal(t, "v2", value)
}
