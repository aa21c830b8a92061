package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinema-seat-booking/internal/model"
)

// deleteIfScript drops the hold only when its stored reservation id still
// matches ARGV[1].
var deleteIfScript = redis.NewScript(`
	local raw = redis.call('GET', KEYS[1])
	if not raw then
		return 0
	end
	local ok, res = pcall(cjson.decode, raw)
	if ok and res['id'] == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// RedisPendingRepo keeps each session's held reservation in Redis as a JSON
// value that expires with the hold.  An expired key is an implicitly
// abandoned reservation; nothing else needs cleaning up because held
// reservations never touch the order store.
type RedisPendingRepo struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisPendingRepo returns a store using keys "<prefix>:<session>".
func NewRedisPendingRepo(rdb *redis.Client, prefix string) *RedisPendingRepo {
	if prefix == "" {
		prefix = "pending"
	}
	return &RedisPendingRepo{rdb: rdb, prefix: prefix}
}

func (r *RedisPendingRepo) key(sessionID string) string { return r.prefix + ":" + sessionID }

// Get returns the held reservation of sessionID or
// model.ErrNoPendingReservation.
func (r *RedisPendingRepo) Get(ctx context.Context, sessionID string) (*model.Reservation, error) {
	bs, err := r.rdb.Get(ctx, r.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, model.ErrNoPendingReservation
	}
	if err != nil {
		return nil, fmt.Errorf("get pending reservation: %w", err)
	}
	var res model.Reservation
	if err := json.Unmarshal(bs, &res); err != nil {
		return nil, fmt.Errorf("decode pending reservation: %w", err)
	}
	return &res, nil
}

// Put stores res for sessionID, replacing any previous hold, for ttl.
func (r *RedisPendingRepo) Put(ctx context.Context, sessionID string, res *model.Reservation, ttl time.Duration) error {
	bs, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode pending reservation: %w", err)
	}
	if err := r.rdb.Set(ctx, r.key(sessionID), bs, ttl).Err(); err != nil {
		return fmt.Errorf("store pending reservation: %w", err)
	}
	return nil
}

// Delete drops the session's hold.  Deleting nothing is not an error.
func (r *RedisPendingRepo) Delete(ctx context.Context, sessionID string) error {
	if err := r.rdb.Del(ctx, r.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete pending reservation: %w", err)
	}
	return nil
}

// DeleteIf drops the session's hold only while it is still reservation
// resID.  It reports whether a key was removed.
func (r *RedisPendingRepo) DeleteIf(ctx context.Context, sessionID, resID string) (bool, error) {
	n, err := deleteIfScript.Run(ctx, r.rdb, []string{r.key(sessionID)}, resID).Int64()
	if err != nil {
		return false, fmt.Errorf("delete pending reservation: %w", err)
	}
	return n == 1, nil
}
