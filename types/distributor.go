package types

// Distributor decides which rep receives each lead during bulk assignment.
//
// Implementations must be deterministic for a given (reps, leads) input so
// repeated distribution of the same batch produces the same plan. They only
// plan the split; capacity enforcement happens when the plan is applied
// through the engine's assignment path.
type Distributor interface {
	// Distribute maps each lead to exactly one rep.
	//
	// Parameters:
	//   - reps: Candidate rep ids (must be non-empty)
	//   - leads: Leads to distribute
	//
	// Returns:
	//   - map[string][]Lead: Map from rep id to its allotted leads, in input order
	//   - error: ErrNoRepsAvailable when reps is empty
	Distribute(reps []string, leads []Lead) (map[string][]Lead, error)
}
