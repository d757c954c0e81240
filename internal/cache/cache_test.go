package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilClientIsAnEmptyCache(t *testing.T) {
	var c *Client
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	data, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, data)
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.Ping(ctx))

	var dst []string
	assert.False(t, c.GetJSON(ctx, "k", &dst))
	assert.NoError(t, c.SetJSON(ctx, "k", []string{"a"}, time.Minute))
}

func TestUnreachableRedisBehavesLikeMiss(t *testing.T) {
	c := New("127.0.0.1:1", "", 0)
	defer c.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	data, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, data)
	assert.Error(t, c.Ping(ctx))
}

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestSetJSONAtGeneration(t *testing.T) {
	tests := []struct {
		name        string
		invalidate  bool
		expectCache bool
	}{
		{name: "no write since read", expectCache: true},
		{name: "write since read", invalidate: true, expectCache: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t)
			ctx := context.Background()

			gen, ok := c.Generation(ctx, "events:published")
			require.True(t, ok)
			if tt.invalidate {
				require.NoError(t, c.Invalidate(ctx, "events:published"))
			}
			require.NoError(t, c.SetJSONAtGeneration(ctx, "events:published", []string{"old"}, time.Minute, gen))

			var got []string
			assert.Equal(t, tt.expectCache, c.GetJSON(ctx, "events:published", &got))
		})
	}
}

func TestInvalidateDropsValueAndBumpsGeneration(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "employee:perms:1", map[string]bool{"manageEvents": true}, time.Minute))
	before, ok := c.Generation(ctx, "employee:perms:1")
	require.True(t, ok)

	require.NoError(t, c.Invalidate(ctx, "employee:perms:1"))

	after, ok := c.Generation(ctx, "employee:perms:1")
	require.True(t, ok)
	assert.Equal(t, before+1, after)
	assert.False(t, mr.Exists("employee:perms:1"))
}

func TestGenerationUnavailableWithoutRedis(t *testing.T) {
	var nilClient *Client
	_, ok := nilClient.Generation(context.Background(), "k")
	assert.False(t, ok)
	assert.NoError(t, nilClient.Invalidate(context.Background(), "k"))
	assert.NoError(t, nilClient.SetJSONAtGeneration(context.Background(), "k", 1, time.Minute, 0))
}
