package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"recipe-studio/internal/infrastructure/config"
	"recipe-studio/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig(maxSize int, ttl time.Duration) config.StorageConfig {
	return config.StorageConfig{
		Driver:          "memory",
		MaxSize:         maxSize,
		TTL:             ttl,
		CleanupInterval: time.Hour,
	}
}

func TestMemoryStore(t *testing.T) {
	common.InitTestLogger()
	ctx := context.Background()

	t.Run("set get delete", func(t *testing.T) {
		s := NewMemoryStore(memoryConfig(10, time.Hour))
		defer s.Close()

		_, err := s.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, s.Set(ctx, "k", "v"))
		got, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v", got)

		require.NoError(t, s.Delete(ctx, "k"))
		_, err = s.Get(ctx, "k")
		assert.ErrorIs(t, err, ErrNotFound)

		assert.NoError(t, s.Delete(ctx, "k"), "deleting a missing key is not an error")
	})

	t.Run("expired entries are misses", func(t *testing.T) {
		s := NewMemoryStore(memoryConfig(10, 10*time.Millisecond))
		defer s.Close()

		require.NoError(t, s.Set(ctx, "k", "v"))
		time.Sleep(20 * time.Millisecond)

		_, err := s.Get(ctx, "k")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("evicts least used entry when full", func(t *testing.T) {
		s := NewMemoryStore(memoryConfig(2, time.Hour))
		defer s.Close()

		require.NoError(t, s.Set(ctx, "a", "1"))
		require.NoError(t, s.Set(ctx, "b", "2"))
		_, err := s.Get(ctx, "a")
		require.NoError(t, err)

		require.NoError(t, s.Set(ctx, "c", "3"))

		_, err = s.Get(ctx, "b")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.Get(ctx, "a")
		assert.NoError(t, err)
		_, err = s.Get(ctx, "c")
		assert.NoError(t, err)
	})

	t.Run("overwrite does not evict", func(t *testing.T) {
		s := NewMemoryStore(memoryConfig(1, time.Hour))
		defer s.Close()

		require.NoError(t, s.Set(ctx, "a", "1"))
		require.NoError(t, s.Set(ctx, "a", "2"))
		got, err := s.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "2", got)
	})

	t.Run("stats", func(t *testing.T) {
		s := NewMemoryStore(memoryConfig(10, time.Hour))
		defer s.Close()

		require.NoError(t, s.Set(ctx, "a", "1"))
		_, _ = s.Get(ctx, "a")
		_, _ = s.Get(ctx, "b")

		stats := s.GetStats()
		assert.Equal(t, int64(1), stats["hits"])
		assert.Equal(t, int64(1), stats["misses"])
		assert.Equal(t, 1, stats["size"])
	})
}

func TestNewSelectsDriver(t *testing.T) {
	common.InitTestLogger()

	s, err := New(context.Background(), memoryConfig(10, time.Hour))
	require.NoError(t, err)
	defer s.Close()
	assert.IsType(t, &MemoryStore{}, s)

	_, err = New(context.Background(), config.StorageConfig{Driver: "disk"})
	assert.Error(t, err)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("Skipping Redis-dependent test - REDIS_ADDR not set")
	}
	common.InitTestLogger()
	ctx := context.Background()

	s, err := NewRedisStore(ctx, config.StorageConfig{
		Driver: "redis",
		TTL:    time.Minute,
		Redis:  config.RedisConfig{Addr: addr, KeyPrefix: "recipe-studio-test:"},
	})
	require.NoError(t, err)
	defer s.Close()

	key := "client:" + common.GenerateUUID() + ":savedRecipes"
	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, key, `[]`))
	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `[]`, got)

	require.NoError(t, s.Delete(ctx, key))
	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
}
