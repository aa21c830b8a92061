package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSeatGrid(t *testing.T) {
	seats := DefaultSeatGrid()

	assert.Len(t, seats, 280)
	assert.Equal(t, "A1", seats[0])
	assert.Equal(t, "A20", seats[19])
	assert.Equal(t, "B1", seats[20])
	assert.Equal(t, "N20", seats[len(seats)-1])
}

func TestSeatGrid_Empty(t *testing.T) {
	assert.Empty(t, SeatGrid(0, 20))
	assert.Empty(t, SeatGrid(3, -1))
}

func TestParseSeatList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "comma and space", raw: "A1, A2", want: []string{"A1", "A2"}},
		{name: "blanks dropped", raw: " ,A1,, ", want: []string{"A1"}},
		{name: "duplicates collapsed", raw: "B3,A1,B3", want: []string{"B3", "A1"}},
		{name: "empty", raw: "   ", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSeatList(tt.raw))
		})
	}
}

func TestCheckSeatIDs(t *testing.T) {
	assert.NoError(t, CheckSeatIDs([]string{"A1", strings.Repeat("x", MaxSeatIDLen)}))
	assert.ErrorIs(t, CheckSeatIDs([]string{"A1", strings.Repeat("x", MaxSeatIDLen+1)}), ErrInvalidInput)
}
