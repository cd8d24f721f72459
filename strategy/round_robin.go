package strategy

import (
	"sort"

	"github.com/ofranc1208/leadsync/types"
)

// RoundRobin implements simple round-robin lead distribution.
type RoundRobin struct{}

var _ types.Distributor = (*RoundRobin)(nil)

// NewRoundRobin creates a new round-robin distributor.
//
// The distributor spreads leads evenly across reps in a simple round-robin
// fashion. This provides a predictable split but does not keep a campaign's
// leads together; use CampaignAffinity for that.
//
// Returns:
//   - *RoundRobin: Initialized round-robin distributor
//
// Example:
//
//	dist := strategy.NewRoundRobin()
//	results, err := flow.DistributeLeads(repIDs, leadIDs, campaignID, dist)
func NewRoundRobin() *RoundRobin {
	return &RoundRobin{}
}

// Distribute maps each lead to a rep using round-robin distribution.
//
// The algorithm:
//  1. Sort the rep ids for deterministic assignment
//  2. Hand out leads in input order, one rep at a time
//
// Parameters:
//   - reps: Candidate rep ids
//   - leads: Leads to distribute
//
// Returns:
//   - map[string][]types.Lead: Map from rep id to allotted leads
//   - error: ErrNoRepsAvailable when reps is empty
func (rr *RoundRobin) Distribute(reps []string, leads []types.Lead) (map[string][]types.Lead, error) {
	if len(reps) == 0 {
		return nil, types.ErrNoRepsAvailable
	}

	ordered := make([]string, len(reps))
	copy(ordered, reps)
	sort.Strings(ordered)

	plan := make(map[string][]types.Lead, len(ordered))
	for _, rep := range ordered {
		plan[rep] = []types.Lead{}
	}

	for i, lead := range leads {
		rep := ordered[i%len(ordered)]
		plan[rep] = append(plan[rep], lead)
	}

	return plan, nil
}
