package booking

import (
	"fmt"
	"math"
	"time"

	"viaggi/src/config"
)

// Installment is one scheduled partial payment toward a sale's balance.
type Installment struct {
	Amount  float64
	Method  string
	DueDate time.Time
}

// Reconciliation is the outcome of checking an installment plan against the
// outstanding balance. Errors carries human-readable discrepancy messages
// meant for inline form feedback.
type Reconciliation struct {
	Balance float64
	OK      bool
	Errors  []string
}

// Reconcile checks that a payment plan covers the balance. The balance is
// the total less the deposit, floored at zero. An empty plan trivially
// reconciles (the balance is collected later). A non-empty plan must have at
// most two installments, each with a positive amount and a payment method,
// and the amounts must sum to the balance within the currency tolerance.
func Reconcile(total, deposit float64, installments []Installment) Reconciliation {
	balance := total - deposit
	if balance < 0 {
		balance = 0
	}
	r := Reconciliation{Balance: balance}

	if len(installments) == 0 {
		r.OK = true
		return r
	}

	if len(installments) > config.MAX_INSTALLMENTS {
		r.Errors = append(r.Errors, fmt.Sprintf("at most %d installments are allowed", config.MAX_INSTALLMENTS))
	}

	var sum float64
	for i, inst := range installments {
		if inst.Amount <= 0 {
			r.Errors = append(r.Errors, fmt.Sprintf("installment %d has no amount", i+1))
		}
		if inst.Method == "" {
			r.Errors = append(r.Errors, fmt.Sprintf("installment %d has no payment method", i+1))
		}
		sum += inst.Amount
	}

	// A second collection needs a schedule; a single immediate installment
	// may leave the date blank.
	if len(installments) == config.MAX_INSTALLMENTS {
		for i, inst := range installments {
			if inst.DueDate.IsZero() {
				r.Errors = append(r.Errors, fmt.Sprintf("installment %d has no due date", i+1))
			}
		}
	}

	if diff := sum - balance; math.Abs(diff) > config.AMOUNT_TOLERANCE {
		if diff < 0 {
			r.Errors = append(r.Errors, fmt.Sprintf("installments fall short by %.2f", -diff))
		} else {
			r.Errors = append(r.Errors, fmt.Sprintf("installments exceed the balance by %.2f", diff))
		}
	}

	r.OK = len(r.Errors) == 0
	return r
}
