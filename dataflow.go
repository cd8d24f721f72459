package leadsync

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ofranc1208/leadsync/types"
)

// DataFlow composes the lead store and the assignment engine behind the
// single call surface dashboard code uses.
//
// It owns the canonical lead map for this process and keeps each stored lead
// in sync with the engine: after any successful AssignLead or
// ImportAssignment the stored lead's status is Assigned and LeadsByRep
// includes it. Those two facts are never allowed to diverge within one
// process.
type DataFlow struct {
	mu     sync.RWMutex
	leads  map[string]types.Lead
	engine *Engine

	logger  Logger
	metrics MetricsCollector
}

// NewDataFlow creates a facade with an empty lead store and a fresh engine.
//
// Parameters:
//   - cfg: Configuration (defaults applied, then validated)
//   - opts: Optional dependencies (WithLogger, WithMetrics)
//
// Returns:
//   - *DataFlow: A new facade
//   - error: Configuration validation failure
func NewDataFlow(cfg *Config, opts ...Option) (*DataFlow, error) {
	engine, err := NewEngine(cfg, opts...)
	if err != nil {
		return nil, err
	}

	o := resolveOptions(opts)

	return &DataFlow{
		leads:   make(map[string]types.Lead),
		engine:  engine,
		logger:  o.logger,
		metrics: o.metrics,
	}, nil
}

// AddLead stores a lead in the lead store.
//
// The core performs no field validation beyond requiring an id; ingestion
// callers (CSV upload) validate and coerce fields before calling. Adding a
// lead whose id is already present overwrites the stored record.
//
// Parameters:
//   - lead: The lead to store (copied; the caller's value is not aliased)
//
// Returns:
//   - error: ErrInvalidLead when the lead has no id
func (f *DataFlow) AddLead(lead types.Lead) error {
	if lead.ID == "" {
		return fmt.Errorf("%w: lead id is required", types.ErrInvalidLead)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.leads[lead.ID] = lead.Clone()

	return nil
}

// Lead returns the stored lead for an id.
//
// Absence is a normal case, reported through the bool rather than an error.
//
// Returns:
//   - types.Lead: A copy of the stored lead
//   - bool: false when the id is unknown
func (f *DataFlow) Lead(id string) (types.Lead, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	lead, ok := f.leads[id]
	if !ok {
		return types.Lead{}, false
	}

	return lead.Clone(), true
}

// AllLeads returns every stored lead, ordered by id.
func (f *DataFlow) AllLeads() []types.Lead {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.sortedLeadsLocked(func(types.Lead) bool { return true })
}

// LeadsByStatus returns the stored leads with the given status, ordered by
// id.
func (f *DataFlow) LeadsByStatus(status types.LeadStatus) []types.Lead {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.sortedLeadsLocked(func(l types.Lead) bool { return l.Status == status })
}

// sortedLeadsLocked snapshots matching leads in id order. Caller holds f.mu.
func (f *DataFlow) sortedLeadsLocked(match func(types.Lead) bool) []types.Lead {
	out := make([]types.Lead, 0, len(f.leads))
	for _, lead := range f.leads {
		if match(lead) {
			out = append(out, lead.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// LeadsByRep returns the rep's queued leads in queue order.
//
// Queue ids are resolved against the lead store; an id whose lead record is
// missing is dropped from the result; the queue entry itself is left alone,
// since a later snapshot or delta may materialize the record.
func (f *DataFlow) LeadsByRep(repID string) []types.Lead {
	queue := f.engine.RepQueue(repID)

	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]types.Lead, 0, len(queue))
	for _, id := range queue {
		if lead, ok := f.leads[id]; ok {
			out = append(out, lead.Clone())
		}
	}

	return out
}

// AssignLead assigns a stored lead to a rep within a campaign.
//
// On a fresh assignment the stored lead is overwritten with the engine's
// returned updated copy; this is the synchronization point that keeps lead
// status and assignment state consistent. The idempotent short-circuit
// (AlreadyAssigned) leaves the store untouched.
//
// Parameters:
//   - leadID: Lead to assign (must exist in the store)
//   - repID: Target rep
//   - campaignID: Campaign the assignment is made under
//
// Returns:
//   - types.AssignResult: Assignment, updated lead, AlreadyAssigned flag
//   - error: ErrLeadNotFound or ErrRepCapacityExceeded
func (f *DataFlow) AssignLead(leadID, repID, campaignID string) (types.AssignResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	lead, ok := f.leads[leadID]
	if !ok {
		return types.AssignResult{}, fmt.Errorf("%w: %s", types.ErrLeadNotFound, leadID)
	}

	res, err := f.engine.AssignLead(lead, repID, campaignID)
	if err != nil {
		return types.AssignResult{}, err
	}
	if !res.AlreadyAssigned {
		f.leads[leadID] = res.Lead.Clone()
	}

	return res, nil
}

// ImportAssignment mirrors an assignment fact received from a peer process.
//
// The lead must already be in the store (the assignment sync hook
// materializes a carried lead record first). The engine's unchecked import
// path is used, and the stored lead is overwritten with the returned updated
// copy, preserving the same status/queue consistency invariant as
// AssignLead.
//
// Parameters:
//   - leadID: Lead the peer assigned
//   - repID: Rep the peer assigned it to
//   - campaignID: Campaign the assignment was made under
//   - assignedAt: Peer's assignment timestamp
//
// Returns:
//   - types.Lead: The updated stored lead
//   - error: ErrLeadNotFound
func (f *DataFlow) ImportAssignment(leadID, repID, campaignID string, assignedAt time.Time) (types.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	lead, ok := f.leads[leadID]
	if !ok {
		return types.Lead{}, fmt.Errorf("%w: %s", types.ErrLeadNotFound, leadID)
	}

	asgn := types.Assignment{
		LeadID:     leadID,
		RepID:      repID,
		CampaignID: campaignID,
		AssignedAt: assignedAt,
		Status:     types.AssignmentPending,
	}

	updated, err := f.engine.ImportAssignment(lead, repID, campaignID, asgn)
	if err != nil {
		return types.Lead{}, err
	}
	f.leads[leadID] = updated.Clone()

	return updated, nil
}

// UpdateLeadStatus records a rep progressing a lead.
//
// The stored lead's status is updated, and a terminal status (Closed or
// Qualified) additionally completes the lead's assignment and removes it
// from its rep's queue.
//
// Parameters:
//   - leadID: Lead whose status changed
//   - status: The new status
//
// Returns:
//   - types.Lead: The updated stored lead
//   - error: ErrLeadNotFound
func (f *DataFlow) UpdateLeadStatus(leadID string, status types.LeadStatus) (types.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	lead, ok := f.leads[leadID]
	if !ok {
		return types.Lead{}, fmt.Errorf("%w: %s", types.ErrLeadNotFound, leadID)
	}

	f.engine.UpdateLeadStatus(leadID, status)

	lead.Status = status
	f.leads[leadID] = lead

	return lead.Clone(), nil
}

// ReassignLead moves a stored lead to a new rep.
//
// Parameters:
//   - leadID: Lead to move
//   - newRepID: Destination rep
//
// Returns:
//   - types.Assignment: The replacement assignment
//   - error: ErrLeadNotAssigned or ErrRepCapacityExceeded
func (f *DataFlow) ReassignLead(leadID, newRepID string) (types.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	asgn, err := f.engine.ReassignLead(leadID, newRepID)
	if err != nil {
		return types.Assignment{}, err
	}

	if lead, ok := f.leads[leadID]; ok {
		lead.AssignedTo = newRepID
		f.leads[leadID] = lead
	}

	return asgn, nil
}

// Stats returns the engine's aggregate assignment statistics.
func (f *DataFlow) Stats() types.AssignmentStats {
	return f.engine.Stats()
}

// CampaignAssignments returns every assignment made under a campaign,
// ordered by lead id.
func (f *DataFlow) CampaignAssignments(campaignID string) []types.Assignment {
	return f.engine.CampaignAssignments(campaignID)
}

// Snapshot captures the full replicated view of this process: every stored
// lead (ordered by id) plus current stats. This is the payload the
// shared-state hook caches and broadcasts.
func (f *DataFlow) Snapshot() types.Snapshot {
	return types.Snapshot{
		Leads: f.AllLeads(),
		Stats: f.Stats(),
	}
}

// DistributeLeads bulk-assigns a batch of leads across reps using a
// distribution strategy.
//
// The distributor only plans the split; every planned assignment then goes
// through the capacity-checked AssignLead path. Failures (unknown lead ids,
// capacity rejections) do not stop the batch: successful assignments are
// returned alongside the joined errors, and already-assigned leads come back
// with AlreadyAssigned set rather than as errors.
//
// Parameters:
//   - repIDs: Candidate reps
//   - leadIDs: Leads to distribute (must exist in the store to be assigned)
//   - campaignID: Campaign every assignment is made under
//   - dist: Distribution strategy (e.g., strategy.NewRoundRobin())
//
// Returns:
//   - []types.AssignResult: Results for the assignments that were applied
//   - error: Joined per-lead errors plus any distribution error, nil if all succeeded
func (f *DataFlow) DistributeLeads(repIDs, leadIDs []string, campaignID string, dist types.Distributor) ([]types.AssignResult, error) {
	var errs []error

	batch := make([]types.Lead, 0, len(leadIDs))
	for _, id := range leadIDs {
		lead, ok := f.Lead(id)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s", types.ErrLeadNotFound, id))
			continue
		}
		batch = append(batch, lead)
	}

	plan, err := dist.Distribute(repIDs, batch)
	if err != nil {
		errs = append(errs, err)
		return nil, errors.Join(errs...)
	}

	// Iterate reps in the caller's order so results are deterministic.
	results := make([]types.AssignResult, 0, len(batch))
	for _, repID := range repIDs {
		for _, lead := range plan[repID] {
			res, err := f.AssignLead(lead.ID, repID, campaignID)
			if err != nil {
				errs = append(errs, fmt.Errorf("lead %s → rep %s: %w", lead.ID, repID, err))
				continue
			}
			results = append(results, res)
		}
	}

	return results, errors.Join(errs...)
}
