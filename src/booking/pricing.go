package booking

// Participant is what the price calculator needs to know about a companion.
type Participant struct {
	Child bool
}

// ComputeTotal derives the amount due from the passenger composition. The
// lead passenger always pays the adult fare; each companion pays adult or
// child fare by their flag. Pure function, no rounding: callers compare
// against it with the currency tolerance.
func ComputeTotal(adultFare, childFare float64, companions []Participant) float64 {
	total := adultFare
	for _, c := range companions {
		if c.Child {
			total += childFare
		} else {
			total += adultFare
		}
	}
	return total
}
