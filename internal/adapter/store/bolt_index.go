// Package store provides the bundled hybrid index store: per-index
// record storage with lexical and vector-similarity search.
package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"go.etcd.io/bbolt"

	"docsearch/internal/domain"
)

var (
	bucketMappings = []byte("mappings")
	bucketRecords  = []byte("records")
)

// recordKeySep separates index name from record id in the records
// bucket. Index names never contain NUL.
const recordKeySep = "\x00"

// BoltIndexStore implements the IndexStore port on a single bbolt file.
// Records are durable as soon as Put returns but join the searchable
// in-memory snapshot only on Refresh, mirroring a search engine's
// refresh/visibility cycle. Everything durable is visible after reopen.
type BoltIndexStore struct {
	db *bbolt.DB

	mu       sync.RWMutex
	mappings map[string]domain.IndexMapping
	visible  map[string]map[string]domain.Record
	pending  map[string]map[string]domain.Record
}

func NewBoltIndexStore(path string) (*BoltIndexStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketMappings, bucketRecords} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &BoltIndexStore{
		db:       db,
		mappings: make(map[string]domain.IndexMapping),
		visible:  make(map[string]map[string]domain.Record),
		pending:  make(map[string]map[string]domain.Record),
	}

	if err := s.load(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load index state: %w", err)
	}

	return s, nil
}

// load reads mappings and records into the searchable snapshot.
func (s *BoltIndexStore) load() error {
	return s.db.View(func(tx *bbolt.Tx) error {
		err := tx.Bucket(bucketMappings).ForEach(func(k, v []byte) error {
			var m domain.IndexMapping
			if err := json.Unmarshal(v, &m); err != nil {
				return err
			}
			s.mappings[string(k)] = m
			s.visible[string(k)] = make(map[string]domain.Record)
			return nil
		})
		if err != nil {
			return err
		}

		return tx.Bucket(bucketRecords).ForEach(func(k, v []byte) error {
			index, id, ok := strings.Cut(string(k), recordKeySep)
			if !ok {
				return nil // skip malformed keys
			}
			var rec domain.Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return nil // skip corrupted entries
			}
			if s.visible[index] == nil {
				s.visible[index] = make(map[string]domain.Record)
			}
			s.visible[index][id] = rec
			return nil
		})
	})
}

// EnsureIndex creates the index if absent. An existing index keeps its
// mapping untouched; no migration is attempted.
func (s *BoltIndexStore) EnsureIndex(name string, mapping domain.IndexMapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.mappings[name]; ok {
		return nil
	}

	data, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIndexCreation, err)
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMappings).Put([]byte(name), data)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIndexCreation, err)
	}

	s.mappings[name] = mapping
	s.visible[name] = make(map[string]domain.Record)
	return nil
}

// Put upserts a record. The write is durable immediately and becomes
// searchable on the next Refresh.
func (s *BoltIndexStore) Put(index, id string, rec domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mapping, ok := s.mappings[index]
	if !ok {
		return fmt.Errorf("index not found: %s", index)
	}
	if len(rec.Vector) != mapping.Dims {
		return fmt.Errorf("vector dimension mismatch: expected %d, got %d", mapping.Dims, len(rec.Vector))
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketRecords).Put([]byte(index+recordKeySep+id), data)
	})
	if err != nil {
		return err
	}

	if s.pending[index] == nil {
		s.pending[index] = make(map[string]domain.Record)
	}
	s.pending[index][id] = rec
	return nil
}

// Refresh publishes pending writes into the searchable snapshot.
func (s *BoltIndexStore) Refresh(index string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.mappings[index]; !ok {
		return fmt.Errorf("index not found: %s", index)
	}
	if s.visible[index] == nil {
		s.visible[index] = make(map[string]domain.Record)
	}
	for id, rec := range s.pending[index] {
		s.visible[index][id] = rec
	}
	delete(s.pending, index)
	return nil
}

// SearchVector scores every visible record by cosine similarity plus a
// 1.0 bias, giving raw scores in [0,2], and returns the top k.
func (s *BoltIndexStore) SearchVector(index string, vector []float32, k int) ([]domain.Hit, error) {
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
			Score:    CosineSimilarity(vector, rec.Vector) + 1.0,
		})
	}

	sortHits(hits)
	return truncateHits(hits, k), nil
}

// SearchKeyword scores visible records with BM25 over the query terms
// and returns the top k matches.
func (s *BoltIndexStore) SearchKeyword(index, query string, k int) ([]domain.Hit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.mappings[index]; !ok {
		return nil, fmt.Errorf("index not found: %s", index)
	}

	scores := KeywordScores(s.visible[index], query)

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
	return truncateHits(hits, k), nil
}

// ListIndexes returns index names matching the glob pattern, sorted.
func (s *BoltIndexStore) ListIndexes(pattern string) ([]string, error) {
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

// GetAll returns every visible record in the index.
func (s *BoltIndexStore) GetAll(index string) ([]domain.Hit, error) {
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

func (s *BoltIndexStore) Close() error {
	return s.db.Close()
}

// sortHits orders by score descending, ID ascending on ties so results
// are deterministic across map iteration orders.
func sortHits(hits []domain.Hit) {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})
}

func truncateHits(hits []domain.Hit, k int) []domain.Hit {
	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits
}
