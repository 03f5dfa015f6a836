// Package booking holds the sale-integrity core: seat allocation, fare
// totals, and installment reconciliation. Everything here is pure so the
// same checks run both in the pre-submit feedback path and inside the
// authoritative persistence transaction.
package booking

import (
	"fmt"
	"sort"
	"strings"
)

type ErrorCategory string

const (
	CategorySeatConflict       ErrorCategory = "SeatConflict"
	CategoryInvalidComposition ErrorCategory = "InvalidComposition"
	CategoryPaymentMismatch    ErrorCategory = "PaymentMismatch"
)

// SeatConflictError reports which requested seat numbers could not be
// honored: either not in the available pool or requested more than once.
type SeatConflictError struct {
	Unavailable []uint
	Duplicated  []uint
}

func (e *SeatConflictError) Error() string {
	var parts []string
	if len(e.Unavailable) > 0 {
		parts = append(parts, fmt.Sprintf("seats not available: %v", e.Unavailable))
	}
	if len(e.Duplicated) > 0 {
		parts = append(parts, fmt.Sprintf("seats requested more than once: %v", e.Duplicated))
	}
	if len(parts) == 0 {
		return "seat conflict"
	}
	return strings.Join(parts, "; ")
}

// Seats returns every conflicting seat number, sorted, for 409 payloads.
func (e *SeatConflictError) Seats() []uint {
	seen := make(map[uint]bool)
	var all []uint
	for _, n := range append(append([]uint{}, e.Unavailable...), e.Duplicated...) {
		if !seen[n] {
			seen[n] = true
			all = append(all, n)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	return all
}

type CompositionError struct {
	Reasons []string
}

func (e *CompositionError) Error() string {
	return fmt.Sprintf("invalid passenger composition: %s", strings.Join(e.Reasons, "; "))
}

type PaymentError struct {
	Discrepancies []string
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment plan does not reconcile: %s", strings.Join(e.Discrepancies, "; "))
}

// Category maps a build failure to its taxonomy bucket, or "" for
// anything else.
func Category(err error) ErrorCategory {
	switch err.(type) {
	case *SeatConflictError:
		return CategorySeatConflict
	case *CompositionError:
		return CategoryInvalidComposition
	case *PaymentError:
		return CategoryPaymentMismatch
	}
	return ""
}
