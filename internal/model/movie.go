package model

// Movie is the catalog view the booking core needs: identity, display
// data, per-class unit prices and the showtime labels on offer.  Prices
// are in the smallest currency unit; zero means "use the default".
type Movie struct {
	ID           uint64   `json:"id"`
	Title        string   `json:"title"`
	Genre        string   `json:"genre"`
	Duration     int      `json:"duration"` // minutes
	RegularPrice int64    `json:"regular_price"`
	VIPPrice     int64    `json:"vip_price"`
	Showtimes    []string `json:"showtimes"`
}

// HasShowtime reports whether label is one of the movie's showtimes.
func (m Movie) HasShowtime(label string) bool {
	for _, s := range m.Showtimes {
		if s == label {
			return true
		}
	}
	return false
}

// ShowtimeKey identifies one scheduled screening.  Distinct labels for the
// same movie are independent allocation spaces.
type ShowtimeKey struct {
	MovieID  uint64 `json:"movie_id"`
	Showtime string `json:"showtime"`
}

// Customer is the identity the session layer hands to the core.
type Customer struct {
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Membership MembershipTier `json:"membership"`
}
