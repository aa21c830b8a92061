package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-seat-booking/internal/model"
)

func testOrder(email string, class model.TicketClass, seats ...string) model.Order {
	return model.Order{
		MovieID:       1,
		MovieTitle:    "Avengers: Doomsday",
		Showtime:      "10:00 AM",
		TicketClass:   class,
		Seats:         seats,
		CustomerName:  "Sari",
		CustomerEmail: email,
		Membership:    model.TierGuest,
		Total:         55000,
		PaymentMethod: "cash",
		CreatedAt:     time.Now().UTC(),
	}
}

func TestMemoryOrderRepo_AppendAssignsMonotonicIDs(t *testing.T) {
	r := NewMemoryOrderRepo()
	ctx := context.Background()

	a, err := r.Append(ctx, testOrder("a@example.com", model.TicketRegular, "A1"))
	require.NoError(t, err)
	b, err := r.Append(ctx, testOrder("b@example.com", model.TicketRegular, "A2"))
	require.NoError(t, err)

	assert.Equal(t, uint64(1), a.ID)
	assert.Equal(t, uint64(2), b.ID)

	all, err := r.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, b.ID, all[0].ID, "newest first")
}

func TestMemoryOrderRepo_RejectsSoldSeat(t *testing.T) {
	r := NewMemoryOrderRepo()
	ctx := context.Background()

	_, err := r.Append(ctx, testOrder("a@example.com", model.TicketRegular, "A1", "A2"))
	require.NoError(t, err)

	_, err = r.Append(ctx, testOrder("b@example.com", model.TicketRegular, "A2", "A3"))
	seats, ok := model.UnavailableSeats(err)
	require.True(t, ok)
	assert.Equal(t, []string{"A2"}, seats)

	// separate namespace per ticket class
	_, err = r.Append(ctx, testOrder("b@example.com", model.TicketVIP, "A2"))
	assert.NoError(t, err)

	all, err := r.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMemoryOrderRepo_Filters(t *testing.T) {
	r := NewMemoryOrderRepo()
	ctx := context.Background()

	_, err := r.Append(ctx, testOrder("Sari@Example.com", model.TicketRegular, "A1"))
	require.NoError(t, err)
	_, err = r.Append(ctx, testOrder("other@example.com", model.TicketVIP, "B1"))
	require.NoError(t, err)

	mine, err := r.ListByCustomerEmail(ctx, " sari@example.com ")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, []string{"A1"}, mine[0].Seats)

	vip, err := r.ListByShowtime(ctx, model.ShowtimeKey{MovieID: 1, Showtime: "10:00 AM"}, model.TicketVIP)
	require.NoError(t, err)
	require.Len(t, vip, 1)
	assert.Equal(t, "other@example.com", vip[0].CustomerEmail)

	none, err := r.ListByShowtime(ctx, model.ShowtimeKey{MovieID: 1, Showtime: "01:00 PM"}, model.TicketVIP)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestMemoryOrderRepo_ReturnsCopies(t *testing.T) {
	r := NewMemoryOrderRepo()
	ctx := context.Background()
	o, err := r.Append(ctx, testOrder("a@example.com", model.TicketRegular, "A1"))
	require.NoError(t, err)
	o.Seats[0] = "Z9"

	all, err := r.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A1"}, all[0].Seats)
}

func TestMemoryOrderRepo_ConcurrentAppendSameSeat(t *testing.T) {
	r := NewMemoryOrderRepo()
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Append(ctx, testOrder("x@example.com", model.TicketRegular, "C5")); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, succeeded)
}
