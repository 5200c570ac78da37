package history

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps records in memory for the lifetime of the process.
type MemoryStore struct {
	mu   sync.Mutex
	data []Record
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

// Add appends r.
func (s *MemoryStore) Add(_ context.Context, r Record) error {
	s.mu.Lock()
	s.data = append(s.data, r)
	s.mu.Unlock()
	return nil
}

// Query returns records matching q ordered by time.
func (s *MemoryStore) Query(_ context.Context, q Query) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := []Record{}
	for _, r := range s.data {
		if q.Match(r) {
			res = append(res, r)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].Time.Before(res[j].Time) })
	return res, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
