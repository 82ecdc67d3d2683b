package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fdg312/diet-planner/internal/storage"
	"github.com/fdg312/diet-planner/internal/weekplan"
	"github.com/google/uuid"
)

// MemoryStorage — in-memory реализация storage.Storage
type MemoryStorage struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]storage.Client
	plans   *plansStorage
}

func New() *MemoryStorage {
	return &MemoryStorage{
		clients: make(map[uuid.UUID]storage.Client),
		plans:   newPlansStorage(),
	}
}

func (m *MemoryStorage) CreateClient(ctx context.Context, c *storage.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	m.clients[c.ID] = *c

	return nil
}

func (m *MemoryStorage) GetClient(ctx context.Context, id uuid.UUID) (*storage.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.clients[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	return &c, nil
}

func (m *MemoryStorage) UpdateClient(ctx context.Context, c *storage.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.clients[c.ID]
	if !ok {
		return storage.ErrNotFound
	}

	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	m.clients[c.ID] = *c

	return nil
}

func (m *MemoryStorage) DeleteClient(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.clients[id]; !ok {
		return storage.ErrNotFound
	}

	delete(m.clients, id)
	m.plans.delete(id)

	return nil
}

func (m *MemoryStorage) ListClients(ctx context.Context, f storage.ClientFilter) ([]storage.Client, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	query := strings.ToLower(strings.TrimSpace(f.Query))
	matched := make([]storage.Client, 0, len(m.clients))
	for _, c := range m.clients {
		if f.OwnerUserID != "" && c.OwnerUserID != f.OwnerUserID {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(c.Profile.Name), query) {
			continue
		}
		matched = append(matched, c)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if f.Offset < 0 {
		f.Offset = 0
	}
	if f.Offset >= total {
		return []storage.Client{}, total, nil
	}
	end := total
	if f.Limit > 0 && f.Offset+f.Limit < total {
		end = f.Offset + f.Limit
	}

	return matched[f.Offset:end], total, nil
}

func (m *MemoryStorage) GetPlan(ctx context.Context, clientID uuid.UUID) (*storage.StoredPlan, error) {
	return m.plans.get(clientID), nil
}

func (m *MemoryStorage) ReplacePlan(ctx context.Context, clientID uuid.UUID, plan weekplan.WeekPlan, expectedVersion *int) (*storage.StoredPlan, error) {
	m.mu.RLock()
	_, ok := m.clients[clientID]
	m.mu.RUnlock()
	if !ok {
		return nil, storage.ErrNotFound
	}

	return m.plans.replace(clientID, plan, expectedVersion)
}

func (m *MemoryStorage) Close() error {
	// no-op для memory
	return nil
}
