package redis

import (
	"context"
	"testing"
	"time"

	"supplier-payout-gateway/internal/core/domain"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcomeCache_SetAndGet(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewOutcomeCache(client)
	ctx := context.Background()

	got, err := cache.Get(ctx, "PR-1")
	assert.NoError(t, err)
	assert.Nil(t, got)

	outcome := domain.PayoutOutcome{
		RemoteTransferID: "CF-1",
		RawStatus:        "SUCCESS",
		Status:           domain.StatusSuccess,
		UTR:              "UTR-1",
	}
	require.NoError(t, cache.Set(ctx, "PR-1", outcome, time.Hour))

	got, err = cache.Get(ctx, "PR-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, outcome, *got)
	assert.True(t, s.Exists("payout-outcome:PR-1"))
}

func TestOutcomeCache_TTLExpiry(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewOutcomeCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "PR-2", domain.PayoutOutcome{Status: domain.StatusPending}, time.Second))
	s.FastForward(2 * time.Second)

	got, err := cache.Get(ctx, "PR-2")
	assert.NoError(t, err)
	assert.Nil(t, got, "expired key should be a miss")
}

func TestOutcomeCache_CorruptValue(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewOutcomeCache(client)

	require.NoError(t, s.Set("payout-outcome:PR-3", "not-json"))

	_, err := cache.Get(context.Background(), "PR-3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode cached outcome")
}
