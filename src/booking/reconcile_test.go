package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileEmptyPlan(t *testing.T) {
	r := Reconcile(200, 50, nil)
	assert.True(t, r.OK)
	assert.InDelta(t, 150, r.Balance, 0.001)
	assert.Empty(t, r.Errors)
}

func TestReconcileShortfall(t *testing.T) {
	r := Reconcile(200, 50, []Installment{{Amount: 100, Method: "cash"}})
	assert.False(t, r.OK)
	require.Len(t, r.Errors, 1)
	assert.Equal(t, "installments fall short by 50.00", r.Errors[0])
}

func TestReconcileExactSingle(t *testing.T) {
	r := Reconcile(200, 50, []Installment{{Amount: 150, Method: "transfer"}})
	assert.True(t, r.OK)
}

func TestReconcileTwoInstallmentsNeedDueDates(t *testing.T) {
	due := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	r := Reconcile(300, 100, []Installment{
		{Amount: 100, Method: "cash", DueDate: due},
		{Amount: 100, Method: "cash"},
	})
	assert.False(t, r.OK)
	assert.Contains(t, r.Errors, "installment 2 has no due date")

	r = Reconcile(300, 100, []Installment{
		{Amount: 100, Method: "cash", DueDate: due},
		{Amount: 100, Method: "cash", DueDate: due.AddDate(0, 1, 0)},
	})
	assert.True(t, r.OK)
}

func TestReconcileRejectsThreeInstallments(t *testing.T) {
	due := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	r := Reconcile(300, 0, []Installment{
		{Amount: 100, Method: "cash", DueDate: due},
		{Amount: 100, Method: "cash", DueDate: due},
		{Amount: 100, Method: "cash", DueDate: due},
	})
	assert.False(t, r.OK)
	assert.Contains(t, r.Errors, "at most 2 installments are allowed")
}

func TestReconcileFlagsBadInstallments(t *testing.T) {
	r := Reconcile(100, 0, []Installment{{Amount: 0, Method: ""}})
	assert.False(t, r.OK)
	assert.Contains(t, r.Errors, "installment 1 has no amount")
	assert.Contains(t, r.Errors, "installment 1 has no payment method")
}

func TestReconcileExcess(t *testing.T) {
	r := Reconcile(100, 0, []Installment{{Amount: 130, Method: "cash"}})
	assert.False(t, r.OK)
	assert.Contains(t, r.Errors, "installments exceed the balance by 30.00")
}

func TestReconcileOverpaidDepositFloorsBalance(t *testing.T) {
	r := Reconcile(100, 120, nil)
	assert.True(t, r.OK)
	assert.InDelta(t, 0, r.Balance, 0.001)
}

func TestReconcileTolerance(t *testing.T) {
	r := Reconcile(100, 0, []Installment{{Amount: 99.995, Method: "cash"}})
	assert.True(t, r.OK)
}
