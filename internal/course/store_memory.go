package course

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/heartwise-th/heartwise-lms/internal/fault"
)

type memoryStore struct {
	mu      sync.RWMutex
	courses map[string]Course
}

// NewInMemoryStore backs demos and tests without a database.
func NewInMemoryStore() Store {
	return &memoryStore{courses: map[string]Course{}}
}

func (m *memoryStore) Put(_ context.Context, c Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.CreatedAt == 0 {
		c.CreatedAt = time.Now().Unix()
	}
	m.courses[c.ID] = c
	return nil
}

func (m *memoryStore) Get(ctx context.Context, id string) (Course, error) {
	c, err := m.GetAdmin(ctx, id)
	if err != nil {
		return Course{}, err
	}
	c.PreTest = Sanitize(c.PreTest)
	c.PostTest = Sanitize(c.PostTest)
	return c, nil
}

func (m *memoryStore) GetAdmin(_ context.Context, id string) (Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.courses[id]
	if !ok {
		return Course{}, fmt.Errorf("%w: course %s", fault.ErrNotFound, id)
	}
	return c, nil
}

func (m *memoryStore) List(_ context.Context, includeInactive bool) ([]Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Course{}
	for _, c := range m.courses {
		if !c.IsActive && !includeInactive {
			continue
		}
		c.PreTest = nil
		c.PostTest = nil
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.courses[id]; !ok {
		return fmt.Errorf("%w: course %s", fault.ErrNotFound, id)
	}
	delete(m.courses, id)
	return nil
}
