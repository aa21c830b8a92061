package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockTimeout is returned when a RedisLocker could not acquire a key
// within its wait budget.
var ErrLockTimeout = errors.New("lock wait exceeded")

// releaseScript deletes the key only if it still holds our token, so a
// holder whose lease expired cannot release someone else's lock.
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// RedisLocker is a Locker shared by every server process pointing at the
// same Redis.  Each lock is a key set with NX and a lease; the lease bounds
// how long a crashed holder can block a showtime.
type RedisLocker struct {
	rdb    *redis.Client
	prefix string
	lease  time.Duration
	wait   time.Duration
	retry  time.Duration
}

// NewRedisLocker returns a locker that waits up to wait for each key.
func NewRedisLocker(rdb *redis.Client, prefix string, wait time.Duration) *RedisLocker {
	if prefix == "" {
		prefix = "lock"
	}
	if wait <= 0 {
		wait = 5 * time.Second
	}
	return &RedisLocker{
		rdb:    rdb,
		prefix: prefix,
		lease:  wait * 2,
		wait:   wait,
		retry:  25 * time.Millisecond,
	}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	full := l.prefix + ":" + key
	token := uuid.NewString()
	deadline := time.NewTimer(l.wait)
	defer deadline.Stop()

	for {
		ok, err := l.rdb.SetNX(ctx, full, token, l.lease).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				// The caller's ctx may already be cancelled.
				rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = releaseScript.Run(rctx, l.rdb, []string{full}, token).Err()
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, ErrLockTimeout
		case <-time.After(l.retry):
		}
	}
}
