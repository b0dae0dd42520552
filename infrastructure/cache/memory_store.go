package cache

import (
	"context"
	"sync"
	"time"

	"karaoke-browser/domain/model"
)

// MemoryStore keeps entries in process memory with an optional byte quota,
// counted as key plus value length.
type MemoryStore struct {
	mu       sync.RWMutex
	data     map[string][]byte
	size     int64
	maxBytes int64
}

// NewMemoryStore creates a memory store. maxBytes <= 0 means unbounded.
func NewMemoryStore(maxBytes int64) *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte), maxBytes: maxBytes}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.size + int64(len(key)+len(value))
	if old, ok := s.data[key]; ok {
		next -= int64(len(key) + len(old))
	}
	if s.maxBytes > 0 && next > s.maxBytes {
		return model.ErrStoreFull
	}
	v := make([]byte, len(value))
	copy(v, value)
	s.data[key] = v
	s.size = next
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.data[key]; ok {
		s.size -= int64(len(key) + len(old))
		delete(s.data, key)
	}
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string][]byte)
	s.size = 0
	return nil
}

// Len returns the number of stored keys.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
