package types

// AssignmentStats aggregates the engine's assignment bookkeeping.
//
// Computed by scanning the assignment and queue maps; O(total assignments)
// per call, non-incremental.
type AssignmentStats struct {
	// TotalAssignments counts every assignment the engine holds, live or not.
	TotalAssignments int `json:"totalAssignments"`

	// ActiveAssignments counts live (non-Completed) assignments.
	ActiveAssignments int `json:"activeAssignments"`

	// CompletedAssignments counts assignments whose lead reached a terminal
	// status.
	CompletedAssignments int `json:"completedAssignments"`

	// RepWorkloads maps rep id to current queue depth.
	RepWorkloads map[string]int `json:"repWorkloads"`
}

// Clone returns an independent copy of the stats.
func (s AssignmentStats) Clone() AssignmentStats {
	out := s
	if s.RepWorkloads != nil {
		out.RepWorkloads = make(map[string]int, len(s.RepWorkloads))
		for rep, n := range s.RepWorkloads {
			out.RepWorkloads[rep] = n
		}
	}

	return out
}

// Snapshot is the full replicated view of one process: every known lead plus
// the aggregate stats at the time the snapshot was taken.
//
// Snapshots are replaced wholesale on receipt (last write wins); they are
// never merged.
type Snapshot struct {
	// Leads is the complete lead set, ordered by lead id.
	Leads []Lead `json:"leads"`

	// Stats is the aggregate assignment statistics.
	Stats AssignmentStats `json:"stats"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{Stats: s.Stats.Clone()}
	if s.Leads != nil {
		out.Leads = make([]Lead, len(s.Leads))
		for i, l := range s.Leads {
			out.Leads[i] = l.Clone()
		}
	}

	return out
}
