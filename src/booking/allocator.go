package booking

import (
	"fmt"

	"viaggi/src/config"
)

// Roles under which seats are assigned in the returned map.
const (
	RoleLead      = "lead"
	RoleCompanion = "companion"
)

// SeatRequest is one sale's worth of seat picks: the lead passenger's seat
// plus one seat per companion, in companion order.
type SeatRequest struct {
	Lead       uint
	Companions []uint
}

// MaxCompanions is how many companions a single sale may carry given the
// current pool size: the business cap, or whatever is left after the lead
// takes a seat, whichever is smaller.
func MaxCompanions(poolSize int) int {
	limit := poolSize - 1
	if limit < 0 {
		limit = 0
	}
	if limit > config.MAX_COMPANIONS {
		limit = config.MAX_COMPANIONS
	}
	return limit
}

// Allocate validates a seat request against the pool of seat numbers not
// currently sold. Every requested seat must be in the pool, no seat may be
// requested twice, and the companion count must not exceed MaxCompanions.
// On success it returns the role -> seat assignment ("lead", "companion.1",
// "companion.2", ...). The caller must re-run this inside the persistence
// transaction: the pool may have shrunk since the form was loaded.
func Allocate(pool []uint, req SeatRequest) (map[string]uint, error) {
	available := make(map[uint]bool, len(pool))
	for _, n := range pool {
		available[n] = true
	}

	if len(req.Companions) > MaxCompanions(len(pool)) {
		reasons := []string{"too many companions for the seats available"}
		return nil, &CompositionError{Reasons: reasons}
	}

	requested := append([]uint{req.Lead}, req.Companions...)
	seen := make(map[uint]bool, len(requested))
	conflict := &SeatConflictError{}
	for _, n := range requested {
		if seen[n] {
			conflict.Duplicated = append(conflict.Duplicated, n)
			continue
		}
		seen[n] = true
		if !available[n] {
			conflict.Unavailable = append(conflict.Unavailable, n)
		}
	}
	if len(conflict.Unavailable) > 0 || len(conflict.Duplicated) > 0 {
		return nil, conflict
	}

	assignment := make(map[string]uint, len(requested))
	assignment[RoleLead] = req.Lead
	for i, n := range req.Companions {
		assignment[companionRole(i)] = n
	}
	return assignment, nil
}

func companionRole(i int) string {
	// companion indexes are 1-based in the assignment map
	return fmt.Sprintf("%s.%d", RoleCompanion, i+1)
}
