package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only if it still carries our token, so a
// holder whose TTL lapsed never frees someone else's lock.
var releaseScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
    return redis.call('DEL', KEYS[1])
end
return 0
`)

// SlotLocker serializes concurrent booking attempts for one slot through a
// short-lived Redis key.  The database unique index remains the source of
// truth; the lock only keeps racing writers from reaching it together.  A
// nil client makes every call a no-op.
type SlotLocker struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewSlotLocker returns a locker with the given TTL.  rdb may be nil.
func NewSlotLocker(rdb *redis.Client, ttl time.Duration) *SlotLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &SlotLocker{rdb: rdb, ttl: ttl, prefix: "slot"}
}

// SlotKey is the Redis key guarding one (ground, date, start) slot.
func (l *SlotLocker) SlotKey(groundID uint64, date, start string) string {
	return fmt.Sprintf("%s:%d:%s:%s", l.prefix, groundID, date, start)
}

// Acquire tries to take the lock.  It returns ok=false when another request
// holds it.  The returned release func is always safe to call.
func (l *SlotLocker) Acquire(ctx context.Context, groundID uint64, date, start string) (release func(), ok bool, err error) {
	noop := func() {}
	if l == nil || l.rdb == nil {
		return noop, true, nil
	}
	key := l.SlotKey(groundID, date, start)
	token := uuid.NewString()
	ok, err = l.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return noop, false, err
	}
	if !ok {
		return noop, false, nil
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, l.rdb, []string{key}, token).Err()
	}, true, nil
}
