// Package memstore provides an in-memory IndexStore for tests and
// ephemeral runs. Semantics mirror the bolt-backed store, including the
// put/refresh visibility cycle.
package memstore

import (
	"fmt"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"docsearch/internal/adapter/store"
	"docsearch/internal/domain"
)

type MemoryIndexStore struct {
	mu       sync.RWMutex
	mappings map[string]domain.IndexMapping
	visible  map[string]map[string]domain.Record
	pending  map[string]map[string]domain.Record
}

func NewMemoryIndexStore() *MemoryIndexStore {
	return &MemoryIndexStore{
		mappings: make(map[string]domain.IndexMapping),
		visible:  make(map[string]map[string]domain.Record),
		pending:  make(map[string]map[string]domain.Record),
	}
}

func (s *MemoryIndexStore) EnsureIndex(name string, mapping domain.IndexMapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.mappings[name]; ok {
		return nil
	}
	s.mappings[name] = mapping
	s.visible[name] = make(map[string]domain.Record)
	return nil
}

func (s *MemoryIndexStore) Put(index, id string, rec domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mapping, ok := s.mappings[index]
	if !ok {
		return fmt.Errorf("index not found: %s", index)
	}
	if len(rec.Vector) != mapping.Dims {
		return fmt.Errorf("vector dimension mismatch: expected %d, got %d", mapping.Dims, len(rec.Vector))
	}

	if s.pending[index] == nil {
		s.pending[index] = make(map[string]domain.Record)
	}
	s.pending[index][id] = rec
	return nil
}

func (s *MemoryIndexStore) Refresh(index string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.mappings[index]; !ok {
		return fmt.Errorf("index not found: %s", index)
	}
	for id, rec := range s.pending[index] {
		s.visible[index][id] = rec
	}
	delete(s.pending, index)
	return nil
}

func (s *MemoryIndexStore) SearchVector(index string, vector []float32, k int) ([]domain.Hit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mapping, ok := s.mappings[index]
	if !ok {
		return nil, fmt.Errorf("index not found: %s", index)
	}
	if len(vector) != mapping.Dims {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", mapping.Dims, len(vector))
	}

	hits := make([]domain.Hit, 0, len(s.visible[index]))
	for id, rec := range s.visible[index] {
		hits = append(hits, domain.Hit{
			ID:       id,
			Content:  rec.Content,
			Metadata: rec.Metadata,
			Score:    store.CosineSimilarity(vector, rec.Vector) + 1.0,
		})
	}

	sortHits(hits)
	return truncate(hits, k), nil
}

func (s *MemoryIndexStore) SearchKeyword(index, query string, k int) ([]domain.Hit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.mappings[index]; !ok {
		return nil, fmt.Errorf("index not found: %s", index)
	}

	scores := store.KeywordScores(s.visible[index], query)

	hits := make([]domain.Hit, 0, len(scores))
	for id, score := range scores {
		rec := s.visible[index][id]
		hits = append(hits, domain.Hit{
			ID:       id,
			Content:  rec.Content,
			Metadata: rec.Metadata,
			Score:    score,
		})
	}

	sortHits(hits)
	return truncate(hits, k), nil
}

func (s *MemoryIndexStore) ListIndexes(pattern string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var names []string
	for name := range s.mappings {
		ok, err := doublestar.Match(pattern, name)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryIndexStore) GetAll(index string) ([]domain.Hit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.mappings[index]; !ok {
		return nil, fmt.Errorf("index not found: %s", index)
	}

	hits := make([]domain.Hit, 0, len(s.visible[index]))
	for id, rec := range s.visible[index] {
		hits = append(hits, domain.Hit{
			ID:       id,
			Content:  rec.Content,
			Metadata: rec.Metadata,
		})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].ID < hits[j].ID })
	return hits, nil
}

func (s *MemoryIndexStore) Close() error {
	return nil
}

func sortHits(hits []domain.Hit) {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})
}

func truncate(hits []domain.Hit, k int) []domain.Hit {
	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits
}
