package model

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Seat grid dimensions.  Rows are lettered A.. and seats numbered from 1,
// giving deterministic IDs "A1".."N20".
const (
	GridRows     = 14
	SeatsPerRow  = 20
	GridCapacity = GridRows * SeatsPerRow
)

// MaxSeatIDLen bounds a single seat ID in characters.
const MaxSeatIDLen = 64

// CheckSeatIDs rejects seat IDs longer than MaxSeatIDLen.
func CheckSeatIDs(seats []string) error {
	for _, s := range seats {
		if utf8.RuneCountInString(s) > MaxSeatIDLen {
			return fmt.Errorf("%w: seat id %.16q longer than %d characters", ErrInvalidInput, s, MaxSeatIDLen)
		}
	}
	return nil
}

// SeatGrid returns every seat ID of a rows x perRow grid in row-major
// order: A1, A2, ..., A<perRow>, B1, ...
func SeatGrid(rows, perRow int) []string {
	if rows <= 0 || perRow <= 0 {
		return []string{}
	}
	seats := make([]string, 0, rows*perRow)
	for r := 0; r < rows; r++ {
		label := string(rune('A' + r))
		for n := 1; n <= perRow; n++ {
			seats = append(seats, fmt.Sprintf("%s%d", label, n))
		}
	}
	return seats
}

// DefaultSeatGrid is the fixed 14x20 auditorium layout.
func DefaultSeatGrid() []string { return SeatGrid(GridRows, SeatsPerRow) }

// NormalizeSeats trims every entry, drops blanks and collapses duplicates
// while keeping the first-seen order.  Seat IDs are opaque strings; no
// grid validation happens here.
func NormalizeSeats(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// ParseSeatList splits a comma separated seat string ("A1, A2") and
// normalizes the result.
func ParseSeatList(raw string) []string {
	return NormalizeSeats(strings.Split(raw, ","))
}
