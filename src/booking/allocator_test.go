package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaxCompanions(t *testing.T) {
	assert.Equal(t, 0, MaxCompanions(0))
	assert.Equal(t, 0, MaxCompanions(1))
	assert.Equal(t, 4, MaxCompanions(5))
	assert.Equal(t, 20, MaxCompanions(53))
}

func TestAllocateAssignsRoles(t *testing.T) {
	pool := []uint{1, 2, 3, 4, 5}
	got, err := Allocate(pool, SeatRequest{Lead: 3, Companions: []uint{1, 5}})
	require.NoError(t, err)
	assert.Equal(t, map[string]uint{
		"lead":        3,
		"companion.1": 1,
		"companion.2": 5,
	}, got)
}

func TestAllocateRejectsSoldSeat(t *testing.T) {
	// seat 14 was sold between form load and submit
	pool := []uint{12, 13, 15, 16}
	_, err := Allocate(pool, SeatRequest{Lead: 12, Companions: []uint{14}})
	require.Error(t, err)
	conflict, ok := err.(*SeatConflictError)
	require.True(t, ok)
	assert.Equal(t, []uint{14}, conflict.Seats())
	assert.Equal(t, CategorySeatConflict, Category(err))
}

func TestAllocateRejectsDuplicates(t *testing.T) {
	pool := []uint{1, 2, 3}
	_, err := Allocate(pool, SeatRequest{Lead: 2, Companions: []uint{2}})
	require.Error(t, err)
	conflict, ok := err.(*SeatConflictError)
	require.True(t, ok)
	assert.Equal(t, []uint{2}, conflict.Seats())
}

func TestAllocateAcceptsIffAllFreeAndDistinct(t *testing.T) {
	pool := []uint{1, 2, 3, 4, 5, 6, 7, 8}
	cases := []struct {
		name string
		req  SeatRequest
		ok   bool
	}{
		{"lead only", SeatRequest{Lead: 8}, true},
		{"full party in pool", SeatRequest{Lead: 1, Companions: []uint{2, 3, 4}}, true},
		{"lead outside pool", SeatRequest{Lead: 9}, false},
		{"companion outside pool", SeatRequest{Lead: 1, Companions: []uint{10}}, false},
		{"companion repeats lead", SeatRequest{Lead: 1, Companions: []uint{1}}, false},
		{"companions repeat each other", SeatRequest{Lead: 1, Companions: []uint{2, 2}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Allocate(pool, tc.req)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestAllocateRejectsOversizedParty(t *testing.T) {
	pool := []uint{1, 2}
	_, err := Allocate(pool, SeatRequest{Lead: 1, Companions: []uint{2, 3}})
	require.Error(t, err)
	assert.Equal(t, CategoryInvalidComposition, Category(err))
}
