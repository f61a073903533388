package progress

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/heartwise-th/heartwise-lms/internal/fault"
)

type memoryStore struct {
	mu      sync.RWMutex
	records map[string]Record // userID|courseID
}

// NewInMemoryStore backs demos and tests without a database.
func NewInMemoryStore() Store {
	return &memoryStore{records: map[string]Record{}}
}

func progressKey(userID, courseID string) string { return userID + "|" + courseID }

func (m *memoryStore) Get(_ context.Context, userID, courseID string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[progressKey(userID, courseID)]
	if !ok {
		return Record{}, fmt.Errorf("%w: progress %s/%s", fault.ErrNotFound, userID, courseID)
	}
	return rec, nil
}

func (m *memoryStore) List(_ context.Context, userID string) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Record{}
	for _, rec := range m.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CourseID < out[j].CourseID })
	return out, nil
}

func (m *memoryStore) Upsert(_ context.Context, rec Record) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[progressKey(rec.UserID, rec.CourseID)] = rec
	return rec, nil
}
