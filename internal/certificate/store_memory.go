package certificate

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/heartwise-th/heartwise-lms/internal/fault"
)

type memoryStore struct {
	mu    sync.RWMutex
	certs map[string]Certificate // userID|courseID
}

// NewInMemoryStore backs demos and tests without a database.
func NewInMemoryStore() Store {
	return &memoryStore{certs: map[string]Certificate{}}
}

func certKey(userID, courseID string) string { return userID + "|" + courseID }

func (m *memoryStore) Insert(_ context.Context, c Certificate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := certKey(c.UserID, c.CourseID)
	if _, ok := m.certs[k]; ok {
		return fmt.Errorf("%w: %s/%s", ErrExists, c.UserID, c.CourseID)
	}
	m.certs[k] = c
	return nil
}

func (m *memoryStore) GetByCourse(_ context.Context, userID, courseID string) (Certificate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.certs[certKey(userID, courseID)]
	if !ok {
		return Certificate{}, fmt.Errorf("%w: certificate %s/%s", fault.ErrNotFound, userID, courseID)
	}
	return c, nil
}

func (m *memoryStore) ListByUser(_ context.Context, userID string) ([]Certificate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Certificate{}
	for _, c := range m.certs {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CourseID < out[j].CourseID })
	return out, nil
}
