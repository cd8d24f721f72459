package strategy

import (
	"github.com/ofranc1208/leadsync/types"
	"github.com/zeebo/xxh3"
)

// CampaignAffinity distributes leads so every lead of one campaign lands on
// the same rep.
//
// Rep selection uses rendezvous (highest-random-weight) hashing: each
// (campaign, rep) pair is scored with a single xxh3 64-bit hash and the
// highest-scoring rep wins. The choice depends only on the campaign id and
// the rep set, so it is stable under rep-list reordering, and removing one
// rep only moves the campaigns that rep held.
type CampaignAffinity struct {
	seed uint64
}

var _ types.Distributor = (*CampaignAffinity)(nil)

// NewCampaignAffinity creates a campaign-affinity distributor.
//
// Parameters:
//   - seed: Hash seed; distributors sharing a seed make identical choices
//     across processes. Zero selects the unseeded hash.
//
// Returns:
//   - *CampaignAffinity: Initialized distributor
func NewCampaignAffinity(seed uint64) *CampaignAffinity {
	return &CampaignAffinity{seed: seed}
}

// Distribute maps each lead to the rep owning its campaign.
//
// A lead without a campaign id falls back to affinity on its own lead id, so
// uncampaigned leads still spread across reps instead of piling onto one.
//
// Parameters:
//   - reps: Candidate rep ids
//   - leads: Leads to distribute
//
// Returns:
//   - map[string][]types.Lead: Map from rep id to allotted leads
//   - error: ErrNoRepsAvailable when reps is empty
func (ca *CampaignAffinity) Distribute(reps []string, leads []types.Lead) (map[string][]types.Lead, error) {
	if len(reps) == 0 {
		return nil, types.ErrNoRepsAvailable
	}

	plan := make(map[string][]types.Lead, len(reps))
	for _, rep := range reps {
		plan[rep] = []types.Lead{}
	}

	for _, lead := range leads {
		key := lead.CampaignID
		if key == "" {
			key = lead.ID
		}
		rep := ca.pick(reps, key)
		plan[rep] = append(plan[rep], lead)
	}

	return plan, nil
}

// pick returns the highest-scoring rep for a key.
func (ca *CampaignAffinity) pick(reps []string, key string) string {
	var (
		best      string
		bestScore uint64
	)
	for _, rep := range reps {
		score := ca.score(key, rep)
		// Ties break toward the lexicographically larger rep id so the
		// winner does not depend on input order.
		if best == "" || score > bestScore || (score == bestScore && rep > best) {
			best = rep
			bestScore = score
		}
	}

	return best
}

// score hashes the (key, rep) pair into a rendezvous weight.
func (ca *CampaignAffinity) score(key, rep string) uint64 {
	h := xxh3.HashStringSeed(key, ca.seed)

	return xxh3.HashStringSeed(rep, h)
}
