package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewSessionStore(rdb, time.Hour), mr
}

func TestSessionStore_SaveGetClear(t *testing.T) {
	ctx := context.Background()
	s, mr := newStore(t)

	got, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, s.Save(ctx, "u1", "hash-1"))
	got, err = s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "hash-1", got)
	assert.Equal(t, time.Hour, mr.TTL(sessionKey("u1")))

	require.NoError(t, s.Save(ctx, "u1", "hash-2"))
	got, _ = s.Get(ctx, "u1")
	assert.Equal(t, "hash-2", got)

	require.NoError(t, s.Clear(ctx, "u1"))
	require.NoError(t, s.Clear(ctx, "u1"))
	got, _ = s.Get(ctx, "u1")
	assert.Empty(t, got)
}

func TestSessionStore_Swap(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	require.NoError(t, s.Save(ctx, "u1", "old"))

	ok, err := s.Swap(ctx, "u1", "old", "new")
	require.NoError(t, err)
	assert.True(t, ok)

	// second writer holding the same stale value loses
	ok, err = s.Swap(ctx, "u1", "old", "other")
	require.NoError(t, err)
	assert.False(t, ok)

	got, _ := s.Get(ctx, "u1")
	assert.Equal(t, "new", got)
}

func TestSessionStore_SlotExpires(t *testing.T) {
	ctx := context.Background()
	s, mr := newStore(t)
	require.NoError(t, s.Save(ctx, "u1", "hash"))

	mr.FastForward(2 * time.Hour)

	got, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, got)
}
