package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := newMemoryCache()
	ctx := context.Background()

	_, err := c.Get(ctx, "snap")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "snap", []byte("v1"), time.Minute))
	got, err := c.Get(ctx, "snap")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	require.NoError(t, c.Delete(ctx, "snap"))
	_, err = c.Get(ctx, "snap")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := newMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "snap", []byte("v1"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, err := c.Get(ctx, "snap")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestJSONHelpers(t *testing.T) {
	c := newMemoryCache()
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, SetJSON(ctx, c, "p", payload{Name: "tent", Count: 3}, time.Minute))

	var got payload
	require.NoError(t, GetJSON(ctx, c, "p", &got))
	assert.Equal(t, payload{Name: "tent", Count: 3}, got)
}
