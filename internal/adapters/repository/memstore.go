package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/okian/mockstats/internal/domain/model"
	"github.com/okian/mockstats/pkg/metrics"
)

// MemStore is an in-memory Store guarded by a RWMutex.
type MemStore struct {
	mu      sync.RWMutex
	schools map[string][]byte
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{schools: make(map[string][]byte)}
}

// GetSchool implements Store.
func (s *MemStore) GetSchool(_ context.Context, id string) (entry model.SchoolRegistryEntry, err error) {
	defer observe("get_school", time.Now(), &err)

	s.mu.RLock()
	b, ok := s.schools[id]
	s.mu.RUnlock()
	if !ok {
		return model.SchoolRegistryEntry{}, ErrNotFound
	}
	return decode(b)
}

// PutSchool implements Store.
func (s *MemStore) PutSchool(_ context.Context, entry model.SchoolRegistryEntry) (err error) {
	defer observe("put_school", time.Now(), &err)

	if entry.ID == "" {
		return ErrInvalidID
	}
	b, err := encode(entry)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.schools[entry.ID] = b
	s.mu.Unlock()
	return nil
}

// ListSchools implements Store.
func (s *MemStore) ListSchools(_ context.Context) (out []model.SchoolRegistryEntry, err error) {
	defer observe("list_schools", time.Now(), &err)

	s.mu.RLock()
	ids := make([]string, 0, len(s.schools))
	for id := range s.schools {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out = make([]model.SchoolRegistryEntry, 0, len(ids))
	for _, id := range ids {
		entry, derr := decode(s.schools[id])
		if derr != nil {
			s.mu.RUnlock()
			return nil, derr
		}
		out = append(out, entry)
	}
	s.mu.RUnlock()
	return out, nil
}

// DeleteSchool implements Store.
func (s *MemStore) DeleteSchool(_ context.Context, id string) (err error) {
	defer observe("delete_school", time.Now(), &err)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.schools[id]; !ok {
		return ErrNotFound
	}
	delete(s.schools, id)
	return nil
}

// Count implements Store.
func (s *MemStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.schools)
}

// Close implements Store.
func (s *MemStore) Close() error { return nil }

func observe(op string, start time.Time, err *error) {
	metrics.RecordStoreOperation(op, *err, float64(time.Since(start).Microseconds())/1000.0)
}
