// Package catalog supplies the read-only movie, showtime and seat data the
// booking core depends on.  Movie CRUD lives elsewhere; this package only
// answers lookups.
package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/iliyamo/cinema-seat-booking/internal/model"
	"github.com/iliyamo/cinema-seat-booking/internal/pricing"
)

// Gateway is the catalog contract consumed by the booking service.
type Gateway interface {
	GetMovie(ctx context.Context, id uint64) (model.Movie, error)
	ListMovies(ctx context.Context) ([]model.Movie, error)
	ListSeats() []string
}

// DefaultShowtimes are offered for every movie in the default catalog.
var DefaultShowtimes = []string{"10:00 AM", "01:00 PM", "04:00 PM", "07:00 PM", "10:00 PM"}

// Static is an in-memory catalog.  It is immutable after construction and
// safe for concurrent use.
type Static struct {
	movies map[uint64]model.Movie
	seats  []string
}

// NewStatic builds a catalog from movies.  Unset prices fall back to the
// pricing defaults and movies without showtimes get DefaultShowtimes.
func NewStatic(movies []model.Movie) (*Static, error) {
	s := &Static{movies: make(map[uint64]model.Movie, len(movies)), seats: model.DefaultSeatGrid()}
	for _, m := range movies {
		if m.ID == 0 {
			return nil, fmt.Errorf("catalog: movie %q has no id", m.Title)
		}
		if _, dup := s.movies[m.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate movie id %d", m.ID)
		}
		if m.RegularPrice <= 0 {
			m.RegularPrice = pricing.DefaultRegularPrice
		}
		if m.VIPPrice <= 0 {
			m.VIPPrice = pricing.DefaultVIPPrice
		}
		if len(m.Showtimes) == 0 {
			m.Showtimes = append([]string(nil), DefaultShowtimes...)
		}
		s.movies[m.ID] = m
	}
	return s, nil
}

// NewDefault returns the catalog with the built-in movie list.
func NewDefault() *Static {
	s, err := NewStatic(DefaultMovies())
	if err != nil {
		panic(err)
	}
	return s
}

// GetMovie returns the movie with id or model.ErrNotFound.
func (s *Static) GetMovie(_ context.Context, id uint64) (model.Movie, error) {
	m, ok := s.movies[id]
	if !ok {
		return model.Movie{}, fmt.Errorf("movie %d: %w", id, model.ErrNotFound)
	}
	return cloneMovie(m), nil
}

// ListMovies returns every movie ordered by id.
func (s *Static) ListMovies(_ context.Context) ([]model.Movie, error) {
	out := make([]model.Movie, 0, len(s.movies))
	for _, m := range s.movies {
		out = append(out, cloneMovie(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ListSeats returns the fixed seat grid.
func (s *Static) ListSeats() []string {
	out := make([]string, len(s.seats))
	copy(out, s.seats)
	return out
}

func cloneMovie(m model.Movie) model.Movie {
	m.Showtimes = append([]string(nil), m.Showtimes...)
	return m
}

// DefaultMovies is the built-in movie list.
func DefaultMovies() []model.Movie {
	return []model.Movie{
		{ID: 1, Title: "Avengers: Doomsday", Genre: "Action / Superhero", Duration: 165},
		{ID: 2, Title: "Superman: Legacy", Genre: "Action / Superhero", Duration: 145},
		{ID: 3, Title: "Spider-Man: No Way Home", Genre: "Action / Sci-Fi", Duration: 135},
		{ID: 4, Title: "Batman: The Brave and The Bold", Genre: "Action / Crime", Duration: 150},
		{ID: 5, Title: "Avatar 3", Genre: "Sci-Fi / Adventure", Duration: 170},
		{ID: 6, Title: "How to Train Your Dragon: Live-Action", Genre: "Adventure / Fantasy", Duration: 140},
		{ID: 7, Title: "Frozen 2", Genre: "Animation / Family", Duration: 120},
		{ID: 8, Title: "Inside Out 2", Genre: "Animation / Family", Duration: 110},
		{ID: 9, Title: "Mission Impossible: Reckoning Part 2", Genre: "Action / Thriller", Duration: 160},
		{ID: 10, Title: "Mufasa: The Lion King", Genre: "Drama / Family", Duration: 130},
		{ID: 11, Title: "Sonic the Hedgehog 3", Genre: "Action / Comedy", Duration: 120},
		{ID: 12, Title: "Deadpool & Wolverine", Genre: "Action / Comedy", Duration: 130},
	}
}
