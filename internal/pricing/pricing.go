// Package pricing computes the itemized price of a seat selection.  It is
// a pure function of ticket class, catalog unit prices, membership tier
// and seat count; it performs no I/O and holds no state.
package pricing

import (
	"github.com/iliyamo/cinema-seat-booking/internal/model"
)

// Catalog defaults and surcharges in the smallest currency unit.
const (
	DefaultRegularPrice int64 = 50000
	DefaultVIPPrice     int64 = 75000
	AdminFeePerSeat     int64 = 5000
)

// discountPercent is the share of the unit price a tier pays.
var discountPercent = map[model.MembershipTier]int64{
	model.TierGuest:  100,
	model.TierMember: 98,
	model.TierVIP:    95,
}

// UnitPrice selects the base price for class, falling back to the
// defaults when the catalog leaves a price unset.
func UnitPrice(class model.TicketClass, regular, vip int64) (int64, error) {
	switch class {
	case model.TicketVIP:
		if vip <= 0 {
			return DefaultVIPPrice, nil
		}
		return vip, nil
	case model.TicketRegular:
		if regular <= 0 {
			return DefaultRegularPrice, nil
		}
		return regular, nil
	}
	return 0, model.ErrUnknownTicketClass
}

// Discounted applies the tier discount to a unit price, flooring to an
// integer.  Unknown tiers pay full price.
func Discounted(unit int64, tier model.MembershipTier) int64 {
	pct, ok := discountPercent[tier]
	if !ok {
		pct = 100
	}
	return unit * pct / 100
}

// Price returns the breakdown for seats seats of class at the given
// catalog prices.  The discount is applied to the unit price before
// multiplying; the admin fee is per seat and never discounted.
func Price(class model.TicketClass, regular, vip int64, tier model.MembershipTier, seats int) (model.PriceBreakdown, error) {
	if seats <= 0 {
		return model.PriceBreakdown{}, model.ErrInvalidSeatCount
	}
	base, err := UnitPrice(class, regular, vip)
	if err != nil {
		return model.PriceBreakdown{}, err
	}
	unit := Discounted(base, tier)
	subtotal := unit * int64(seats)
	fee := AdminFeePerSeat * int64(seats)
	return model.PriceBreakdown{
		UnitPrice:      unit,
		TicketSubtotal: subtotal,
		AdminFee:       fee,
		Total:          subtotal + fee,
		SnackIncluded:  tier == model.TierVIP,
	}, nil
}

// ForMovie prices a selection using the movie's catalog prices.
func ForMovie(m model.Movie, class model.TicketClass, tier model.MembershipTier, seats int) (model.PriceBreakdown, error) {
	return Price(class, m.RegularPrice, m.VIPPrice, tier, seats)
}
