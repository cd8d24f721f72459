package leadsync

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ofranc1208/leadsync/types"
)

// Assignment outcome labels recorded into EngineMetrics.
const (
	outcomeCreated          = "created"
	outcomeDuplicate        = "duplicate"
	outcomeCapacityRejected = "capacity_rejected"
	outcomeImported         = "imported"
)

// Engine is the single-process bookkeeping core for lead↔rep assignment.
//
// It holds at most one live assignment per lead id and keeps each rep's
// ordered queue of lead ids 1:1 with that rep's live assignments: a lead id
// appears in a rep's queue exactly when the engine holds a live
// (non-Completed) assignment mapping it to that rep, and never more than
// once.
//
// The engine never mutates a caller's lead value; operations that change a
// lead return an updated copy, and the caller (normally the DataFlow facade)
// replaces its stored copy with the returned one.
//
// All methods are safe for concurrent use. Within one process operations are
// strictly ordered by call sequence under the engine's lock; cross-process
// ordering is the replication layer's concern.
type Engine struct {
	mu          sync.RWMutex
	capacity    int
	assignments map[string]types.Assignment // lead id → most recent assignment
	queues      map[string][]string         // rep id → ordered live lead ids

	logger  Logger
	metrics MetricsCollector
}

// NewEngine creates an assignment engine.
//
// Parameters:
//   - cfg: Configuration (defaults applied, then validated)
//   - opts: Optional dependencies (WithLogger, WithMetrics)
//
// Returns:
//   - *Engine: A new engine with empty bookkeeping
//   - error: Configuration validation failure
func NewEngine(cfg *Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is required", types.ErrInvalidConfig)
	}
	SetDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := resolveOptions(opts)

	return &Engine{
		capacity:    cfg.RepCapacity,
		assignments: make(map[string]types.Assignment),
		queues:      make(map[string][]string),
		logger:      o.logger,
		metrics:     o.metrics,
	}, nil
}

// AssignLead binds a lead to a rep within a campaign.
//
// If the lead already holds a live assignment the call is an idempotent
// no-op: the existing assignment is returned with AlreadyAssigned set and
// the caller's lead unchanged, regardless of the requested rep or campaign.
// Otherwise the rep's capacity is checked, a Pending assignment is created,
// the lead id is appended to the rep's queue, and an updated copy of the
// lead (status Assigned, ownership set) is returned.
//
// Parameters:
//   - lead: Fully-formed lead value (must have an id)
//   - repID: Target rep
//   - campaignID: Campaign the assignment is made under
//
// Returns:
//   - types.AssignResult: Assignment, updated lead copy, AlreadyAssigned flag
//   - error: ErrInvalidLead or ErrRepCapacityExceeded
func (e *Engine) AssignLead(lead types.Lead, repID, campaignID string) (types.AssignResult, error) {
	if lead.ID == "" {
		return types.AssignResult{}, fmt.Errorf("%w: lead id is required", types.ErrInvalidLead)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if existing, ok := e.assignments[lead.ID]; ok && existing.Live() {
		e.metrics.RecordAssignment(outcomeDuplicate)
		e.logger.Debug("lead already assigned, returning existing assignment",
			"lead_id", lead.ID, "rep_id", existing.RepID, "requested_rep", repID)

		return types.AssignResult{Assignment: existing, Lead: lead.Clone(), AlreadyAssigned: true}, nil
	}

	if len(e.queues[repID]) >= e.capacity {
		e.metrics.RecordAssignment(outcomeCapacityRejected)

		return types.AssignResult{}, fmt.Errorf("%w: rep %s holds %d leads", types.ErrRepCapacityExceeded, repID, e.capacity)
	}

	asgn := types.Assignment{
		LeadID:     lead.ID,
		RepID:      repID,
		CampaignID: campaignID,
		AssignedAt: time.Now().UTC(),
		Status:     types.AssignmentPending,
	}
	e.assignments[lead.ID] = asgn
	e.enqueue(repID, lead.ID)

	updated := lead.Clone()
	updated.Status = types.LeadStatusAssigned
	updated.AssignedTo = repID
	updated.CampaignID = campaignID

	e.metrics.RecordAssignment(outcomeCreated)
	e.metrics.SetQueueDepth(repID, len(e.queues[repID]))
	e.logger.Info("lead assigned", "lead_id", lead.ID, "rep_id", repID, "campaign_id", campaignID)

	return types.AssignResult{Assignment: asgn, Lead: updated}, nil
}

// ImportAssignment applies an assignment fact that arrived from a peer
// process rather than a local action.
//
// The caller-supplied assignment is trusted as-is: no capacity check and no
// existing-assignment short-circuit. Once a peer claims an assignment
// happened, this process's job is to mirror it, not re-validate it. If a
// prior live assignment pointed the lead at a different rep, the lead is
// removed from that rep's queue so queue membership stays 1:1 with the live
// assignment.
//
// Parameters:
//   - lead: The lead being assigned (must have an id)
//   - repID: Rep the peer assigned the lead to
//   - campaignID: Campaign the assignment was made under
//   - asgn: The replicated assignment fact, stored verbatim
//
// Returns:
//   - types.Lead: Updated lead copy (status Assigned, ownership set)
//   - error: ErrInvalidLead
func (e *Engine) ImportAssignment(lead types.Lead, repID, campaignID string, asgn types.Assignment) (types.Lead, error) {
	if lead.ID == "" {
		return types.Lead{}, fmt.Errorf("%w: lead id is required", types.ErrInvalidLead)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if prior, ok := e.assignments[lead.ID]; ok && prior.Live() && prior.RepID != repID {
		e.dequeue(prior.RepID, lead.ID)
		e.metrics.SetQueueDepth(prior.RepID, len(e.queues[prior.RepID]))
	}

	e.assignments[lead.ID] = asgn
	e.enqueue(repID, lead.ID)

	updated := lead.Clone()
	updated.Status = types.LeadStatusAssigned
	updated.AssignedTo = repID
	updated.CampaignID = campaignID

	e.metrics.RecordAssignment(outcomeImported)
	e.metrics.SetQueueDepth(repID, len(e.queues[repID]))
	e.logger.Info("assignment imported", "lead_id", lead.ID, "rep_id", repID, "campaign_id", campaignID)

	return updated, nil
}

// ReassignLead moves a lead's live assignment to a new rep.
//
// The old assignment is retired implicitly by replacing the map entry; its
// history is not preserved. The replacement carries status Reassigned and a
// fresh timestamp. The destination rep's capacity is enforced the same way
// AssignLead enforces it, unless the destination is the rep that already
// holds the lead (a self-move frees the slot it fills).
//
// Parameters:
//   - leadID: Lead to move
//   - newRepID: Destination rep
//
// Returns:
//   - types.Assignment: The replacement assignment
//   - error: ErrLeadNotAssigned or ErrRepCapacityExceeded
func (e *Engine) ReassignLead(leadID, newRepID string) (types.Assignment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	existing, ok := e.assignments[leadID]
	if !ok || !existing.Live() {
		return types.Assignment{}, fmt.Errorf("%w: %s", types.ErrLeadNotAssigned, leadID)
	}

	if newRepID != existing.RepID && len(e.queues[newRepID]) >= e.capacity {
		return types.Assignment{}, fmt.Errorf("%w: rep %s holds %d leads", types.ErrRepCapacityExceeded, newRepID, e.capacity)
	}

	e.dequeue(existing.RepID, leadID)

	asgn := types.Assignment{
		LeadID:     leadID,
		RepID:      newRepID,
		CampaignID: existing.CampaignID,
		AssignedAt: time.Now().UTC(),
		Status:     types.AssignmentReassigned,
	}
	e.assignments[leadID] = asgn
	e.enqueue(newRepID, leadID)

	e.metrics.RecordReassignment()
	e.metrics.SetQueueDepth(existing.RepID, len(e.queues[existing.RepID]))
	e.metrics.SetQueueDepth(newRepID, len(e.queues[newRepID]))
	e.logger.Info("lead reassigned", "lead_id", leadID, "from_rep", existing.RepID, "to_rep", newRepID)

	return asgn, nil
}

// UpdateLeadStatus applies a lead status change to the assignment
// bookkeeping.
//
// A terminal status (Closed or Qualified) completes the lead's live
// assignment and removes the lead from its rep's queue. Any other status is
// accepted but has no bookkeeping side effect, and a terminal status for a
// lead without a live assignment is a no-op.
//
// Parameters:
//   - leadID: Lead whose status changed
//   - status: The new lead status
//
// Returns:
//   - bool: true when a live assignment was completed by this call
func (e *Engine) UpdateLeadStatus(leadID string, status types.LeadStatus) bool {
	if !status.Terminal() {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	asgn, ok := e.assignments[leadID]
	if !ok || !asgn.Live() {
		return false
	}

	asgn.Status = types.AssignmentCompleted
	e.assignments[leadID] = asgn
	e.dequeue(asgn.RepID, leadID)

	e.metrics.RecordCompletion()
	e.metrics.SetQueueDepth(asgn.RepID, len(e.queues[asgn.RepID]))
	e.logger.Info("assignment completed", "lead_id", leadID, "rep_id", asgn.RepID, "status", status)

	return true
}

// RepQueue returns the rep's live workload as an ordered list of lead ids.
//
// The result is a copy; mutating it does not affect the engine. An unknown
// rep yields an empty list.
func (e *Engine) RepQueue(repID string) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	queue := e.queues[repID]
	out := make([]string, len(queue))
	copy(out, queue)

	return out
}

// Assignment returns the most recent assignment for a lead, live or
// completed.
//
// Returns:
//   - types.Assignment: The assignment fact
//   - bool: false when the lead has never been assigned
func (e *Engine) Assignment(leadID string) (types.Assignment, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	asgn, ok := e.assignments[leadID]

	return asgn, ok
}

// Stats computes aggregate assignment statistics.
//
// The result is recomputed by scanning the assignment and queue maps on
// every call; O(total assignments), non-incremental.
func (e *Engine) Stats() types.AssignmentStats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	stats := types.AssignmentStats{
		RepWorkloads: make(map[string]int, len(e.queues)),
	}
	for _, asgn := range e.assignments {
		stats.TotalAssignments++
		if asgn.Live() {
			stats.ActiveAssignments++
		} else {
			stats.CompletedAssignments++
		}
	}
	for repID, queue := range e.queues {
		stats.RepWorkloads[repID] = len(queue)
	}

	return stats
}

// CampaignAssignments returns every assignment made under a campaign,
// ordered by lead id.
func (e *Engine) CampaignAssignments(campaignID string) []types.Assignment {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]types.Assignment, 0)
	for _, asgn := range e.assignments {
		if asgn.CampaignID == campaignID {
			out = append(out, asgn)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LeadID < out[j].LeadID })

	return out
}

// enqueue appends a lead id to a rep's queue unless it is already present.
func (e *Engine) enqueue(repID, leadID string) {
	for _, id := range e.queues[repID] {
		if id == leadID {
			return
		}
	}
	e.queues[repID] = append(e.queues[repID], leadID)
}

// dequeue removes a lead id from a rep's queue, preserving order.
func (e *Engine) dequeue(repID, leadID string) {
	queue := e.queues[repID]
	for i, id := range queue {
		if id == leadID {
			e.queues[repID] = append(queue[:i], queue[i+1:]...)
			return
		}
	}
}
