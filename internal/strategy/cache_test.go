package strategy

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStrategy(id string) Strategy {
	return Strategy{
		CustomerID:                id,
		Segment:                   "Loyal",
		OptimalChannel:            "email",
		ReminderFrequency:         2,
		ExpectedResponseRate:      0.72,
		PersonalizationConfidence: 1.0,
	}
}

func TestRedisCache_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := NewRedisCache(mr.Addr(), time.Minute)
	ctx := context.Background()

	miss, err := cache.Get(ctx, "CUST_0001")
	require.NoError(t, err)
	assert.Nil(t, miss)

	want := sampleStrategy("CUST_0001")
	require.NoError(t, cache.Set(ctx, want))

	got, err := cache.Get(ctx, "CUST_0001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestRedisCache_TTLExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := NewRedisCache(mr.Addr(), time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, sampleStrategy("CUST_0002")))
	mr.FastForward(2 * time.Minute)

	got, err := cache.Get(ctx, "CUST_0002")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryCache(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	miss, err := cache.Get(ctx, "CUST_0003")
	require.NoError(t, err)
	assert.Nil(t, miss)

	want := sampleStrategy("CUST_0003")
	require.NoError(t, cache.Set(ctx, want))

	got, err := cache.Get(ctx, "CUST_0003")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)

	// Mutating the returned copy must not touch the cached entry.
	got.Segment = "changed"
	again, err := cache.Get(ctx, "CUST_0003")
	require.NoError(t, err)
	assert.Equal(t, "Loyal", again.Segment)
}
