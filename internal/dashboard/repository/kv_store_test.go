package repository

import (
	"context"
	"testing"

	"golang-quant-dashboard/pkg/common"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyValueStores(t *testing.T) {
	newFileStore := func(t *testing.T) KeyValueStore {
		s, err := NewFileKVStore(afero.NewMemMapFs(), "data")
		require.NoError(t, err)
		return s
	}
	newMemoryStore := func(t *testing.T) KeyValueStore { return NewMemoryKVStore() }
	newRedisStore := func(t *testing.T) KeyValueStore {
		client, _ := newMiniredisClient(t)
		return NewRedisKVStore(client)
	}

	stores := map[string]func(t *testing.T) KeyValueStore{
		"file":   newFileStore,
		"memory": newMemoryStore,
		"redis":  newRedisStore,
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)

			_, err := s.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrKeyNotFound)

			require.NoError(t, s.Put(ctx, "k", []byte(`[1]`)))
			require.NoError(t, s.Put(ctx, "k", []byte(`[1,2]`)))

			got, err := s.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, `[1,2]`, string(got))
		})
	}
}

func TestFileKVStore_LayoutAndEscaping(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, err := NewFileKVStore(fs, "data")
	require.NoError(t, err)

	require.NoError(t, s.Put(context.Background(), "a/b", []byte("x")))

	exists, err := afero.Exists(fs, "data/a%2Fb.json")
	require.NoError(t, err)
	assert.True(t, exists)

	tmpExists, err := afero.Exists(fs, "data/a%2Fb.json.tmp")
	require.NoError(t, err)
	assert.False(t, tmpExists)
}

func TestFileKVStore_ReadOnlyFs(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, base.MkdirAll("data", 0o755))
	s := &fileKVStore{fs: afero.NewReadOnlyFs(base), dir: "data"}

	err := s.Put(context.Background(), "k", []byte("x"))
	assert.Error(t, err)
}

func TestMemoryKVStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryKVStore()

	v := []byte("abc")
	require.NoError(t, s.Put(ctx, "k", v))
	v[0] = 'z'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func newMiniredisClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestRedisKVStore_PrefixesKeysWithoutExpiry(t *testing.T) {
	client, mr := newMiniredisClient(t)
	s := NewRedisKVStore(client)

	require.NoError(t, s.Put(context.Background(), "portfolio", []byte(`[]`)))

	got, err := mr.Get(common.RedisKeyPrefix + "portfolio")
	require.NoError(t, err)
	assert.Equal(t, `[]`, got)
	assert.Zero(t, mr.TTL(common.RedisKeyPrefix+"portfolio"))
	assert.False(t, mr.Exists("portfolio"))
}

func TestRedisKVStore_ServerDown(t *testing.T) {
	client, mr := newMiniredisClient(t)
	s := NewRedisKVStore(client)
	mr.Close()

	_, err := s.Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrKeyNotFound)
	assert.ErrorContains(t, err, "failed to get key k from redis")
}
