package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotLocker(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	ctx := context.Background()
	locks := NewSlotLocker(rdb, 5*time.Second)

	release, ok, err := locks.Acquire(ctx, 1, "2025-03-02", "07:00")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, mr.Exists("slot:1:2025-03-02:07:00"))

	_, ok, err = locks.Acquire(ctx, 1, "2025-03-02", "07:00")
	require.NoError(t, err)
	assert.False(t, ok, "second caller must wait for the holder")

	_, ok, err = locks.Acquire(ctx, 1, "2025-03-02", "08:00")
	require.NoError(t, err)
	assert.True(t, ok, "a different slot is independent")

	release()
	assert.False(t, mr.Exists("slot:1:2025-03-02:07:00"))

	_, ok, err = locks.Acquire(ctx, 1, "2025-03-02", "07:00")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSlotLocker_ReleaseKeepsForeignLock(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	ctx := context.Background()
	locks := NewSlotLocker(rdb, time.Second)

	release, ok, err := locks.Acquire(ctx, 2, "2025-03-02", "09:00")
	require.NoError(t, err)
	require.True(t, ok)

	// The TTL lapses and another request takes the slot.
	mr.FastForward(2 * time.Second)
	_, ok, err = locks.Acquire(ctx, 2, "2025-03-02", "09:00")
	require.NoError(t, err)
	require.True(t, ok)

	release()
	assert.True(t, mr.Exists("slot:2:2025-03-02:09:00"))
}

func TestSlotLocker_NilClient(t *testing.T) {
	release, ok, err := NewSlotLocker(nil, 0).Acquire(context.Background(), 1, "2025-03-02", "07:00")
	require.NoError(t, err)
	assert.True(t, ok)
	release()
}
