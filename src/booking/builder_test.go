package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() BuildInput {
	return BuildInput{
		TourID:    1,
		AdultFare: 100,
		ChildFare: 60,
		Pool:      []uint{1, 2, 3, 4, 5},
		Lead: Passenger{
			Name:     "Anna Rossi",
			Document: "CA12345AB",
			Phone:    "+39 333 0000000",
			Seat:     1,
		},
		Companions: []CompanionInput{
			{Name: "Marco Rossi", Seat: 2},
			{Name: "Luca Rossi", Seat: 3, Child: true},
		},
		Deposit:       60,
		PaymentMethod: "cash",
	}
}

func TestBuildHappyPath(t *testing.T) {
	rec, err := Build(validInput())
	require.NoError(t, err)
	assert.InDelta(t, 260, rec.Total, 0.001)
	assert.InDelta(t, 200, rec.Balance, 0.001)
	assert.Equal(t, uint(1), rec.Assignment["lead"])
	assert.Equal(t, uint(2), rec.Assignment["companion.1"])
	assert.Equal(t, uint(3), rec.Assignment["companion.2"])
	assert.False(t, rec.IssuedAt.IsZero())
}

func TestBuildSeatConflictBeforeComposition(t *testing.T) {
	in := validInput()
	in.Lead.Name = ""
	in.Companions[0].Seat = 99
	_, err := Build(in)
	require.Error(t, err)
	assert.Equal(t, CategorySeatConflict, Category(err))
}

func TestBuildRejectsIncompleteLead(t *testing.T) {
	in := validInput()
	in.Lead.Document = ""
	_, err := Build(in)
	require.Error(t, err)
	assert.Equal(t, CategoryInvalidComposition, Category(err))
}

func TestBuildSeatConflictBeforePayment(t *testing.T) {
	in := validInput()
	in.Companions[0].Seat = 99
	in.Installments = []Installment{{Amount: 10, Method: "cash"}}
	_, err := Build(in)
	require.Error(t, err)
	assert.Equal(t, CategorySeatConflict, Category(err))
}

func TestBuildPaymentMismatch(t *testing.T) {
	in := validInput()
	in.Installments = []Installment{{Amount: 150, Method: "cash"}}
	_, err := Build(in)
	require.Error(t, err)
	assert.Equal(t, CategoryPaymentMismatch, Category(err))
}

func TestBuildRejectsZeroPetCount(t *testing.T) {
	in := validInput()
	zero := uint(0)
	in.Pets = &zero
	_, err := Build(in)
	require.Error(t, err)
	assert.Equal(t, CategoryInvalidComposition, Category(err))
}

func TestBuildLinkedCompanionSkipsContactCheck(t *testing.T) {
	in := validInput()
	clientID := uint(7)
	in.Companions[0] = CompanionInput{ClientID: &clientID, Name: "stale", Seat: 2}
	rec, err := Build(in)
	require.NoError(t, err)
	assert.Empty(t, rec.Companions[0].Name)
	require.NotNil(t, rec.Companions[0].ClientID)
	assert.Equal(t, clientID, *rec.Companions[0].ClientID)
}
