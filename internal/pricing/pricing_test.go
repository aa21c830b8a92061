package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-seat-booking/internal/model"
)

func TestPrice(t *testing.T) {
	tests := []struct {
		name  string
		class model.TicketClass
		tier  model.MembershipTier
		seats int
		want  model.PriceBreakdown
	}{
		{
			name: "vip ticket vip tier three seats", class: model.TicketVIP, tier: model.TierVIP, seats: 3,
			want: model.PriceBreakdown{UnitPrice: 71250, TicketSubtotal: 213750, AdminFee: 15000, Total: 228750, SnackIncluded: true},
		},
		{
			name: "regular guest two seats", class: model.TicketRegular, tier: model.TierGuest, seats: 2,
			want: model.PriceBreakdown{UnitPrice: 50000, TicketSubtotal: 100000, AdminFee: 10000, Total: 110000},
		},
		{
			name: "regular member one seat", class: model.TicketRegular, tier: model.TierMember, seats: 1,
			want: model.PriceBreakdown{UnitPrice: 49000, TicketSubtotal: 49000, AdminFee: 5000, Total: 54000},
		},
		{
			name: "guest buying vip class", class: model.TicketVIP, tier: model.TierGuest, seats: 1,
			want: model.PriceBreakdown{UnitPrice: 75000, TicketSubtotal: 75000, AdminFee: 5000, Total: 80000},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Price(tt.class, 50000, 75000, tt.tier, tt.seats)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got.TicketSubtotal+got.AdminFee, got.Total)
		})
	}
}

func TestPrice_Deterministic(t *testing.T) {
	a, err := Price(model.TicketVIP, 50000, 75000, model.TierVIP, 3)
	require.NoError(t, err)
	b, err := Price(model.TicketVIP, 50000, 75000, model.TierVIP, 3)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPrice_FloorsDiscount(t *testing.T) {
	got, err := Price(model.TicketRegular, 33333, 0, model.TierMember, 1)
	require.NoError(t, err)
	// 33333 * 0.98 = 32666.34
	assert.Equal(t, int64(32666), got.UnitPrice)
}

func TestPrice_DefaultsWhenUnset(t *testing.T) {
	got, err := Price(model.TicketVIP, 0, 0, model.TierGuest, 1)
	require.NoError(t, err)
	assert.Equal(t, DefaultVIPPrice, got.UnitPrice)

	got, err = Price(model.TicketRegular, -1, 0, model.TierGuest, 1)
	require.NoError(t, err)
	assert.Equal(t, DefaultRegularPrice, got.UnitPrice)
}

func TestPrice_InvalidInput(t *testing.T) {
	_, err := Price(model.TicketRegular, 50000, 75000, model.TierGuest, 0)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = Price(model.TicketClass("Balcony"), 50000, 75000, model.TierGuest, 1)
	assert.ErrorIs(t, err, model.ErrUnknownTicketClass)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}
