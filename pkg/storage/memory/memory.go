// Package memory provides an in-memory Store for lightweight deployments.
// Responses are lost when the process restarts. Optional LRU eviction
// limits memory usage.
package memory

import (
	"container/list"
	"context"
	"sync"

	"github.com/rhuss/lokal/pkg/api"
	"github.com/rhuss/lokal/pkg/storage"
)

// entry holds a stored response and its LRU position.
type entry struct {
	resp    *api.ModelResponse
	lruElem *list.Element
}

// Store is an in-memory completion store with optional LRU eviction.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
	lruList *list.List // front = most recently used
	maxSize int        // 0 = unlimited
}

// Ensure Store implements storage.Store at compile time.
var _ storage.Store = (*Store)(nil)

// New creates a new in-memory store. If maxSize is 0, the store grows
// without limit; otherwise the least recently used entry is evicted when
// the limit is reached.
func New(maxSize int) *Store {
	return &Store{
		entries: make(map[string]*entry),
		lruList: list.New(),
		maxSize: maxSize,
	}
}

// Save persists a response in memory.
func (s *Store) Save(ctx context.Context, resp *api.ModelResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[resp.ID]; exists {
		return storage.ErrConflict
	}

	if s.maxSize > 0 && len(s.entries) >= s.maxSize {
		s.evictOldest()
	}

	s.entries[resp.ID] = &entry{
		resp:    resp,
		lruElem: s.lruList.PushFront(resp.ID),
	}
	return nil
}

// Get retrieves a response by ID and marks it recently used.
func (s *Store) Get(ctx context.Context, id string) (*api.ModelResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	s.lruList.MoveToFront(e.lruElem)
	return e.resp, nil
}

// Delete removes a response.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return storage.ErrNotFound
	}
	s.lruList.Remove(e.lruElem)
	delete(s.entries, id)
	return nil
}

// Len returns the number of stored responses.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) evictOldest() {
	back := s.lruList.Back()
	if back == nil {
		return
	}
	id := back.Value.(string)
	s.lruList.Remove(back)
	delete(s.entries, id)
}
