package booking

import (
	"fmt"
	"strings"
	"time"
)

// Passenger is the lead traveler's contact sheet as captured at sale time.
type Passenger struct {
	Name     string
	Document string
	Phone    string
	Email    string
	Seat     uint
}

// CompanionInput is one traveler joining the lead. A companion may reference
// an existing client record by id, in which case the inline contact fields
// stay blank and readers join the client row live.
type CompanionInput struct {
	ClientID *uint
	Name     string
	Document string
	Phone    string
	Seat     uint
	Child    bool
}

// BuildInput carries everything the sale record builder needs. Pool is the
// set of seat numbers still free on the tour at the time of the attempt.
type BuildInput struct {
	TourID        uint
	AdultFare     float64
	ChildFare     float64
	Pool          []uint
	Lead          Passenger
	Companions    []CompanionInput
	Deposit       float64
	PaymentMethod string
	Installments  []Installment
	Pets          *uint
	Infants       *uint
}

// SaleRecord is the validated, priced and reconciled outcome of a booking
// attempt. It is a value snapshot: persisting it is the caller's business.
type SaleRecord struct {
	TourID     uint
	Lead       Passenger
	Companions []CompanionInput
	Assignment map[string]uint
	Total      float64
	Deposit    float64
	Balance    float64
	Method     string
	Plan       []Installment
	Pets       *uint
	Infants    *uint
	IssuedAt   time.Time
}

// Build runs the full booking pipeline in order: seat allocation, then
// composition checks, then pricing and payment reconciliation. It fails on
// the first stage that rejects, so a request with both a taken seat and a
// bad composition reports the seat conflict.
func Build(in BuildInput) (*SaleRecord, error) {
	req := SeatRequest{Lead: in.Lead.Seat}
	for _, c := range in.Companions {
		req.Companions = append(req.Companions, c.Seat)
	}
	assignment, err := Allocate(in.Pool, req)
	if err != nil {
		return nil, err
	}

	if err := checkComposition(in); err != nil {
		return nil, err
	}

	participants := make([]Participant, len(in.Companions))
	for i, c := range in.Companions {
		participants[i] = Participant{Child: c.Child}
	}
	total := ComputeTotal(in.AdultFare, in.ChildFare, participants)

	rec := Reconcile(total, in.Deposit, in.Installments)
	if !rec.OK {
		return nil, &PaymentError{Discrepancies: rec.Errors}
	}

	return &SaleRecord{
		TourID:     in.TourID,
		Lead:       in.Lead,
		Companions: normalizeCompanions(in.Companions),
		Assignment: assignment,
		Total:      total,
		Deposit:    in.Deposit,
		Balance:    rec.Balance,
		Method:     in.PaymentMethod,
		Plan:       in.Installments,
		Pets:       in.Pets,
		Infants:    in.Infants,
		IssuedAt:   time.Now(),
	}, nil
}

func checkComposition(in BuildInput) error {
	var reasons []string
	if strings.TrimSpace(in.Lead.Name) == "" {
		reasons = append(reasons, "lead passenger needs a name")
	}
	if strings.TrimSpace(in.Lead.Document) == "" {
		reasons = append(reasons, "lead passenger needs an identity document")
	}
	for i, c := range in.Companions {
		if c.ClientID != nil {
			continue
		}
		if strings.TrimSpace(c.Name) == "" {
			reasons = append(reasons, fmt.Sprintf("companion %d needs a name", i+1))
		}
	}
	if in.Pets != nil && *in.Pets < 1 {
		reasons = append(reasons, "pet count must be at least 1 when present")
	}
	if in.Infants != nil && *in.Infants < 1 {
		reasons = append(reasons, "infant count must be at least 1 when present")
	}
	if len(reasons) > 0 {
		return &CompositionError{Reasons: reasons}
	}
	return nil
}

// normalizeCompanions blanks the inline contact fields of companions that
// reference a client record, so the stored row never shadows the client.
func normalizeCompanions(in []CompanionInput) []CompanionInput {
	out := make([]CompanionInput, len(in))
	copy(out, in)
	for i := range out {
		if out[i].ClientID != nil {
			out[i].Name = ""
			out[i].Document = ""
			out[i].Phone = ""
		}
	}
	return out
}
