package objectstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"docsearch/internal/domain"
	"docsearch/internal/port"
)

// MemoryStore is an in-memory ObjectStore for tests.
type MemoryStore struct {
	mu      sync.RWMutex
	buckets map[string]map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		buckets: make(map[string]map[string][]byte),
	}
}

func (s *MemoryStore) BucketExists(_ context.Context, bucket string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.buckets[bucket]
	return ok, nil
}

func (s *MemoryStore) MakeBucket(_ context.Context, bucket string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.buckets[bucket]; ok {
		return fmt.Errorf("%w: bucket already exists: %s", domain.ErrObjectStore, bucket)
	}
	s.buckets[bucket] = make(map[string][]byte)
	return nil
}

func (s *MemoryStore) PutObject(_ context.Context, bucket, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buckets[bucket]
	if !ok {
		return fmt.Errorf("%w: bucket not found: %s", domain.ErrObjectStore, bucket)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	b[key] = cp
	return nil
}

func (s *MemoryStore) GetObject(_ context.Context, bucket, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.buckets[bucket]
	if !ok {
		return nil, fmt.Errorf("%w: bucket not found: %s", domain.ErrObjectStore, bucket)
	}
	data, ok := b[key]
	if !ok {
		return nil, fmt.Errorf("%w: object not found: %s/%s", domain.ErrObjectStore, bucket, key)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (s *MemoryStore) ListObjects(_ context.Context, bucket, prefix string) ([]port.ObjectInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.buckets[bucket]
	if !ok {
		return nil, fmt.Errorf("%w: bucket not found: %s", domain.ErrObjectStore, bucket)
	}

	var objects []port.ObjectInfo
	for key, data := range b {
		if strings.HasPrefix(key, prefix) {
			objects = append(objects, port.ObjectInfo{
				Key:  key,
				Size: int64(len(data)),
			})
		}
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}
