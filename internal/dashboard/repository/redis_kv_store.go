package repository

import (
	"context"
	"errors"
	"fmt"

	"golang-quant-dashboard/pkg/common"

	"github.com/redis/go-redis/v9"
)

type redisKVStore struct {
	client *redis.Client
}

// NewRedisKVStore stores values as plain Redis strings without expiry.
func NewRedisKVStore(client *redis.Client) KeyValueStore {
	return &redisKVStore{client: client}
}

func (s *redisKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, common.RedisKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to get key %s from redis: %w", key, err)
	}
	return data, nil
}

func (s *redisKVStore) Put(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, common.RedisKeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set key %s in redis: %w", key, err)
	}
	return nil
}
