package repository

import (
	"context"

	"github.com/patrickmn/go-cache"
)

type memoryKVStore struct {
	cache *cache.Cache
}

// NewMemoryKVStore keeps values in process memory; nothing survives a restart.
func NewMemoryKVStore() KeyValueStore {
	return &memoryKVStore{cache: cache.New(cache.NoExpiration, 0)}
}

func (s *memoryKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, ErrKeyNotFound
	}
	data := v.([]byte)
	return append([]byte(nil), data...), nil
}

func (s *memoryKVStore) Put(ctx context.Context, key string, value []byte) error {
	s.cache.Set(key, append([]byte(nil), value...), cache.NoExpiration)
	return nil
}
