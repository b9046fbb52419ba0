package cache

import (
	"context"
	"testing"
	"time"

	"iamtoxico-bridge/internal/ports"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type store interface {
	ports.DeliveryDeduper
	ports.OAuthStateStore
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStoreWithClient(client, "test:"), mr
}

func TestStores_FirstDelivery(t *testing.T) {
	redisStore, _ := newRedisStore(t)
	stores := map[string]store{
		"redis":  redisStore,
		"memory": NewMemoryStore(),
	}

	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			first, err := s.FirstDelivery(ctx, "shopify:abc", time.Hour)
			require.NoError(t, err)
			assert.True(t, first)

			again, err := s.FirstDelivery(ctx, "shopify:abc", time.Hour)
			require.NoError(t, err)
			assert.False(t, again)

			other, err := s.FirstDelivery(ctx, "printify:abc", time.Hour)
			require.NoError(t, err)
			assert.True(t, other)
		})
	}
}

func TestStores_OAuthStateIsSingleUse(t *testing.T) {
	redisStore, _ := newRedisStore(t)
	stores := map[string]store{
		"redis":  redisStore,
		"memory": NewMemoryStore(),
	}

	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.PutState(ctx, "nonce-1", "iamtoxico.myshopify.com", time.Minute))

			shop, ok, err := s.TakeState(ctx, "nonce-1")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "iamtoxico.myshopify.com", shop)

			_, ok, err = s.TakeState(ctx, "nonce-1")
			require.NoError(t, err)
			assert.False(t, ok)

			_, ok, err = s.TakeState(ctx, "never-issued")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestRedisStore_Expiry(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	first, err := s.FirstDelivery(ctx, "evt", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)
	assert.True(t, mr.Exists("test:delivery:evt"))

	mr.FastForward(2 * time.Minute)
	first, err = s.FirstDelivery(ctx, "evt", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	require.NoError(t, s.PutState(ctx, "nonce", "shop", time.Minute))
	mr.FastForward(2 * time.Minute)
	_, ok, err := s.TakeState(ctx, "nonce")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_Expiry(t *testing.T) {
	s := NewMemoryStore()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	first, _ := s.FirstDelivery(ctx, "evt", time.Minute)
	assert.True(t, first)

	now = now.Add(30 * time.Second)
	first, _ = s.FirstDelivery(ctx, "evt", time.Minute)
	assert.False(t, first)

	now = now.Add(time.Minute)
	first, _ = s.FirstDelivery(ctx, "evt", time.Minute)
	assert.True(t, first)

	require.NoError(t, s.PutState(ctx, "nonce", "shop", time.Minute))
	now = now.Add(2 * time.Minute)
	_, ok, err := s.TakeState(ctx, "nonce")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewRedisStore_BadURL(t *testing.T) {
	_, err := NewRedisStore(context.Background(), "://not-a-url")
	assert.Error(t, err)
}
