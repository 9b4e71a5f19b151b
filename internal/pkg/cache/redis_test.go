package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connectTestRedis(t *testing.T) *Redis {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	c, err := Connect(context.Background(), Options{Addr: addr, Prefix: "test:" + t.Name() + ":"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

type entry struct {
	Period string `json:"period"`
	Total  string `json:"total"`
}

func TestRedis_RoundTripAndMiss(t *testing.T) {
	ctx := context.Background()
	c := connectTestRedis(t)

	var got entry
	ok, err := c.Get(ctx, "report:monthly:2025-03", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "report:monthly:2025-03", entry{Period: "2025-03", Total: "100.00"}, time.Minute))
	ok, err = c.Get(ctx, "report:monthly:2025-03", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2025-03", got.Period)

	require.NoError(t, c.Delete(ctx, "report:monthly:2025-03"))
	ok, err = c.Get(ctx, "report:monthly:2025-03", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConnect_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Connect(ctx, Options{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
