package model

import (
	"fmt"
	"strings"
)

// TicketClass is the pricing/seating category of a booking.  Each class
// has its own seat-occupancy namespace on a showtime.
type TicketClass string

const (
	TicketRegular TicketClass = "Regular"
	TicketVIP     TicketClass = "VIP"
)

// TicketClasses lists every class in display order.
var TicketClasses = []TicketClass{TicketRegular, TicketVIP}

// Valid reports whether c is a known ticket class.
func (c TicketClass) Valid() bool {
	return c == TicketRegular || c == TicketVIP
}

// ParseTicketClass accepts the class name case-insensitively.
func ParseTicketClass(s string) (TicketClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "regular":
		return TicketRegular, nil
	case "vip":
		return TicketVIP, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTicketClass, s)
}

// MembershipTier is the customer's discount level.  It is independent of
// the ticket class being bought.
type MembershipTier string

const (
	TierGuest  MembershipTier = "guest"
	TierMember MembershipTier = "member"
	TierVIP    MembershipTier = "vip"
)

// ParseMembershipTier maps a claim or column value to a tier.  Anything
// unrecognised, including the empty string, is treated as guest.
func ParseMembershipTier(s string) MembershipTier {
	switch MembershipTier(strings.ToLower(strings.TrimSpace(s))) {
	case TierMember:
		return TierMember
	case TierVIP:
		return TierVIP
	}
	return TierGuest
}
