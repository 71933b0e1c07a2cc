package memory

import (
	"context"
	"sync"

	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

// KVStore keeps records in process memory. It is the default driver and the
// one service tests run against.
type KVStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewKVStore() *KVStore {
	return &KVStore{records: make(map[string][]byte)}
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.records[key]
	if !ok {
		return nil, interfaces.ErrKeyNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	s.records[key] = stored
	return nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, key)
	return nil
}

func (s *KVStore) Close() error {
	return nil
}
