package cache

import (
	"context"
	"sync"

	"github.com/jonathan/resume-optimizer/internal/resume"
)

// MemoryStore keeps entries in process memory with no eviction.
type MemoryStore struct {
	mu          sync.RWMutex
	entries     map[string]*resume.Map
	byRequester map[string]map[string]struct{}
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries:     make(map[string]*resume.Map),
		byRequester: make(map[string]map[string]struct{}),
	}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, key string) (*resume.Map, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	return rec.Clone(), true, nil
}

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, requesterID, key string, record *resume.Map) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = record.Clone()
	keys, ok := s.byRequester[requesterID]
	if !ok {
		keys = make(map[string]struct{})
		s.byRequester[requesterID] = keys
	}
	keys[key] = struct{}{}
	return nil
}

// DeleteRequester implements Store.
func (s *MemoryStore) DeleteRequester(_ context.Context, requesterID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key := range s.byRequester[requesterID] {
		if _, ok := s.entries[key]; ok {
			delete(s.entries, key)
			removed++
		}
	}
	delete(s.byRequester, requesterID)
	return removed, nil
}

// Len returns the number of stored entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
