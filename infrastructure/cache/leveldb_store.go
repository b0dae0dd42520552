package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"karaoke-browser/domain/model"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var entryPrefix = []byte("e:")

// LevelDBStore persists entries on disk. Sizes are indexed in memory so the
// optional byte quota can be checked without touching the disk.
type LevelDBStore struct {
	db       *leveldb.DB
	maxBytes int64

	mu        sync.Mutex
	index     map[string]int64
	totalSize int64
}

// NewLevelDBStore opens (or creates) the database at path. maxBytes <= 0 means unbounded.
func NewLevelDBStore(path string, maxBytes int64) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open leveldb at %s: %w", path, err)
	}
	s := &LevelDBStore{db: db, maxBytes: maxBytes, index: map[string]int64{}}
	if err := s.loadIndex(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *LevelDBStore) loadIndex() error {
	it := s.db.NewIterator(util.BytesPrefix(entryPrefix), nil)
	defer it.Release()

	var total int64
	idx := map[string]int64{}
	for it.Next() {
		key := string(it.Key()[len(entryPrefix):])
		size := int64(len(key) + len(it.Value()))
		idx[key] = size
		total += size
	}
	if err := it.Error(); err != nil {
		return fmt.Errorf("failed to index leveldb: %w", err)
	}
	s.mu.Lock()
	s.index = idx
	s.totalSize = total
	s.mu.Unlock()
	return nil
}

func (s *LevelDBStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.db.Get(s.dbKey(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("leveldb get: %w", err)
	}
	return b, true, nil
}

func (s *LevelDBStore) Set(ctx context.Context, key string, value []byte, _ time.Duration) error {
	size := int64(len(key) + len(value))

	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.totalSize - s.index[key] + size
	if s.maxBytes > 0 && next > s.maxBytes {
		return model.ErrStoreFull
	}
	if err := s.db.Put(s.dbKey(key), value, nil); err != nil {
		return fmt.Errorf("leveldb put: %w", err)
	}
	s.index[key] = size
	s.totalSize = next
	return nil
}

func (s *LevelDBStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.Delete(s.dbKey(key), nil); err != nil {
		return fmt.Errorf("leveldb delete: %w", err)
	}
	s.totalSize -= s.index[key]
	delete(s.index, key)
	return nil
}

func (s *LevelDBStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := new(leveldb.Batch)
	it := s.db.NewIterator(util.BytesPrefix(entryPrefix), nil)
	for it.Next() {
		batch.Delete(append([]byte{}, it.Key()...))
	}
	it.Release()
	if err := it.Error(); err != nil {
		return fmt.Errorf("leveldb iterate: %w", err)
	}
	if err := s.db.Write(batch, nil); err != nil {
		return fmt.Errorf("leveldb clear: %w", err)
	}
	s.index = map[string]int64{}
	s.totalSize = 0
	return nil
}

// TotalSize returns the indexed size in bytes.
func (s *LevelDBStore) TotalSize() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalSize
}

func (s *LevelDBStore) Close() error {
	return s.db.Close()
}

func (s *LevelDBStore) dbKey(key string) []byte {
	return append(append([]byte{}, entryPrefix...), key...)
}
