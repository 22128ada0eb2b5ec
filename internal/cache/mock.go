package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/viralengine/slate/internal/models"
	"github.com/viralengine/slate/internal/utils"
)

// MockCache provides an in-memory implementation for testing and for running
// without a Redis instance. TTLs are ignored.
type MockCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	prefix string
}

func NewMockCache() *MockCache {
	return &MockCache{
		data:   make(map[string][]byte),
		prefix: "slate:",
	}
}

func (m *MockCache) Close() error {
	return nil
}

func (m *MockCache) key(owner string) string {
	return m.prefix + "snapshot:" + utils.Hash(owner)
}

func (m *MockCache) GetSnapshot(ctx context.Context, owner string) ([]models.ContentItem, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, exists := m.data[m.key(owner)]
	if !exists {
		return nil, false, nil
	}

	var items []models.ContentItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false, err
	}
	return items, true, nil
}

func (m *MockCache) SetSnapshot(ctx context.Context, owner string, items []models.ContentItem, ttl time.Duration) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[m.key(owner)] = data
	return nil
}

func (m *MockCache) Invalidate(ctx context.Context, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, m.key(owner))
	return nil
}
