package utils

import (
	"testing"
	"viaggi/src/config"
	"viaggi/src/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSeatGrid(t *testing.T) {
	seats := BuildSeatGrid(1, config.BUS_SEAT_CAPACITY)
	require.Len(t, seats, int(config.BUS_SEAT_CAPACITY))

	assert.Equal(t, types.SEAT_DRIVER, seats[0].Category)
	for _, s := range seats[1:4] {
		assert.Equal(t, types.SEAT_PREMIUM, s.Category, "seat %d", s.Number)
	}
	for _, s := range seats[4:8] {
		assert.Equal(t, types.SEAT_ACCESSIBLE, s.Category, "seat %d", s.Number)
	}
	for _, s := range seats[8:] {
		assert.Equal(t, types.SEAT_NORMAL, s.Category, "seat %d", s.Number)
	}

	last := seats[len(seats)-1]
	assert.Equal(t, uint(53), last.Number)
	assert.Equal(t, uint(14), last.Row)
	assert.Equal(t, uint(1), last.Column)
}

func TestSalePoolExcludesDriverAndSold(t *testing.T) {
	seats := BuildSeatGrid(1, config.BUS_SEAT_CAPACITY)
	seats[13].Sold = true

	pool := salePool(seats)
	assert.Len(t, pool, int(config.BUS_SEAT_CAPACITY)-2)
	assert.NotContains(t, pool, uint(1))
	assert.NotContains(t, pool, seats[13].Number)
	assert.Contains(t, pool, uint(2))
}
