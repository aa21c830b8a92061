package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-seat-booking/internal/model"
)

func TestRedisPendingRepo(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	ctx := context.Background()

	repo := NewRedisPendingRepo(rdb, "test-pending")
	session := "s-" + time.Now().Format("150405.000000")

	_, err := repo.Get(ctx, session)
	assert.ErrorIs(t, err, model.ErrNoPendingReservation)

	res := &model.Reservation{
		ID:          "r1",
		TicketClass: model.TicketVIP,
		Seats:       []string{"A1", "A2"},
		State:       model.StateHeld,
		Price:       &model.PriceBreakdown{Total: 110000},
	}
	require.NoError(t, repo.Put(ctx, session, res, 200*time.Millisecond))

	got, err := repo.Get(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, res.Seats, got.Seats)
	assert.Equal(t, int64(110000), got.Price.Total)

	time.Sleep(300 * time.Millisecond)
	_, err = repo.Get(ctx, session)
	assert.ErrorIs(t, err, model.ErrNoPendingReservation)

	require.NoError(t, repo.Put(ctx, session, res, time.Minute))
	require.NoError(t, repo.Delete(ctx, session))
	_, err = repo.Get(ctx, session)
	assert.ErrorIs(t, err, model.ErrNoPendingReservation)

	require.NoError(t, repo.Put(ctx, session, res, time.Minute))
	removed, err := repo.DeleteIf(ctx, session, "other")
	require.NoError(t, err)
	assert.False(t, removed)
	_, err = repo.Get(ctx, session)
	require.NoError(t, err)

	removed, err = repo.DeleteIf(ctx, session, "r1")
	require.NoError(t, err)
	assert.True(t, removed)
	_, err = repo.Get(ctx, session)
	assert.ErrorIs(t, err, model.ErrNoPendingReservation)
}
