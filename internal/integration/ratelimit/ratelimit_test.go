package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenStore struct{ calls int }

func (b *brokenStore) Hit(context.Context, string, time.Duration) (int64, time.Duration, error) {
	b.calls++
	return 0, 0, errors.New("connection refused")
}

func TestMemoryStore_WindowResets(t *testing.T) {
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	count, resetIn, err := store.Hit(context.Background(), "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, time.Minute, resetIn)

	now = now.Add(20 * time.Second)
	count, resetIn, _ = store.Hit(context.Background(), "k", time.Minute)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, 40*time.Second, resetIn)

	now = now.Add(40 * time.Second)
	count, _, _ = store.Hit(context.Background(), "k", time.Minute)
	assert.Equal(t, int64(1), count)
}

func TestMemoryStore_Cleanup(t *testing.T) {
	now := time.Now()
	store := NewMemoryStore()
	store.now = func() time.Time { return now }
	_, _, _ = store.Hit(context.Background(), "old", time.Second)
	_, _, _ = store.Hit(context.Background(), "fresh", time.Hour)

	now = now.Add(2 * time.Second)
	store.Cleanup()

	assert.Len(t, store.windows, 1)
	assert.Contains(t, store.windows, "fresh")
}

func TestRedisStore_Hit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := NewRedisStore(client)

	for i := int64(1); i <= 3; i++ {
		count, resetIn, err := store.Hit(context.Background(), "ratelimit:login:10.0.0.1", 15*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, count)
		assert.Greater(t, resetIn, time.Duration(0))
	}
	assert.Equal(t, 15*time.Minute, mr.TTL("ratelimit:login:10.0.0.1"))

	mr.FastForward(16 * time.Minute)
	count, _, err := store.Hit(context.Background(), "ratelimit:login:10.0.0.1", 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestLimiter_Allow(t *testing.T) {
	limiter := NewLimiter(NewMemoryStore(), nil, "ratelimit:login:", 3, time.Minute)

	var decisions []Decision
	for i := 0; i < 4; i++ {
		decisions = append(decisions, limiter.Allow(context.Background(), "10.0.0.1"))
	}

	assert.Equal(t, Decision{Allowed: true, Limit: 3, Remaining: 2}, decisions[0])
	assert.Equal(t, Decision{Allowed: true, Limit: 3, Remaining: 0}, decisions[2])
	assert.False(t, decisions[3].Allowed)
	assert.Greater(t, decisions[3].RetryAfter, time.Duration(0))
	assert.Equal(t, 3, decisions[3].Limit)

	other := limiter.Allow(context.Background(), "10.0.0.2")
	assert.True(t, other.Allowed)
	assert.Equal(t, 2, other.Remaining)
}

func TestLimiter_FallsBackWhenPrimaryFails(t *testing.T) {
	primary := &brokenStore{}
	limiter := NewLimiter(primary, NewMemoryStore(), "p:", 1, time.Minute)

	first := limiter.Allow(context.Background(), "ip")
	second := limiter.Allow(context.Background(), "ip")

	assert.True(t, first.Allowed)
	assert.False(t, second.Allowed)
	assert.Equal(t, 2, primary.calls)
}

func TestLimiter_AllowsWhenNoStoreAnswers(t *testing.T) {
	limiter := NewLimiter(&brokenStore{}, nil, "p:", 1, time.Minute)

	for i := 0; i < 3; i++ {
		d := limiter.Allow(context.Background(), "ip")
		assert.True(t, d.Allowed)
		assert.Equal(t, 1, d.Remaining)
	}
}
