package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/freshchoice/storefront/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilStoreIsAPermanentMiss(t *testing.T) {
	var s *cache.Store
	ctx := context.Background()

	var out []int
	assert.False(t, s.Get(ctx, "k", &out))
	assert.NoError(t, s.Set(ctx, "k", []int{1}, time.Minute))
	assert.NoError(t, s.Del(ctx, "k"))
	assert.Error(t, s.Ping(ctx))
	assert.NoError(t, s.Close())
	assert.Nil(t, s.Client())
}

func TestConnectWithoutAddrDisablesCache(t *testing.T) {
	s, err := cache.Connect("", "")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestRoundTripAgainstRedis(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	s, err := cache.Connect(addr, os.Getenv("REDIS_PASSWORD"))
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	type product struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, s.Set(ctx, "test:products", []product{{ID: 1, Name: "Brood"}}, time.Minute))

	var got []product
	require.True(t, s.Get(ctx, "test:products", &got))
	assert.Equal(t, "Brood", got[0].Name)

	require.NoError(t, s.Del(ctx, "test:products"))
	assert.False(t, s.Get(ctx, "test:products", &got))
}
