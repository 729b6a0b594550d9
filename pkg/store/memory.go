package store

import (
	"context"
	"sort"
	"sync"

	"github.com/repertree/repertree/pkg/repertoire"
)

// MemoryStore keeps encoded repertoires in a map. Values are copied in and
// out, so callers never share a graph with the store.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string][]byte
	descs map[string]repertoire.Descriptor
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string][]byte),
		descs: make(map[string]repertoire.Descriptor),
	}
}

// Get returns a copy of the stored repertoire.
func (s *MemoryStore) Get(ctx context.Context, id string) (*repertoire.Repertoire, error) {
	s.mu.RLock()
	data, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return nil, notFound(id)
	}
	return decode(data)
}

// Put stores an encoded copy of rep, replacing any repertoire with its id.
func (s *MemoryStore) Put(ctx context.Context, rep *repertoire.Repertoire) error {
	data, err := encode(rep)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[rep.ID] = data
	s.descs[rep.ID] = rep.Descriptor
	return nil
}

// List returns the stored descriptors ordered by id.
func (s *MemoryStore) List(ctx context.Context) ([]repertoire.Descriptor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]repertoire.Descriptor, 0, len(s.descs))
	for _, d := range s.descs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Delete removes the repertoire with id.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return notFound(id)
	}
	delete(s.items, id)
	delete(s.descs, id)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
