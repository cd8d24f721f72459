package types

import "time"

// AssignmentStatus describes the lifecycle of an assignment fact.
type AssignmentStatus string

// Assignment lifecycle statuses.
const (
	// AssignmentPending is the initial status of a locally created assignment.
	AssignmentPending AssignmentStatus = "Pending"

	// AssignmentActive marks an assignment the rep is actively working.
	AssignmentActive AssignmentStatus = "Active"

	// AssignmentCompleted marks an assignment whose lead reached a terminal
	// status (Closed or Qualified). Completed assignments no longer occupy a
	// slot in the rep's queue.
	AssignmentCompleted AssignmentStatus = "Completed"

	// AssignmentReassigned marks an assignment created by moving a lead from
	// one rep to another.
	AssignmentReassigned AssignmentStatus = "Reassigned"
)

// Assignment binds one lead to one rep within one campaign.
//
// The engine holds at most one live assignment per lead id at any time.
// Reassignment replaces the map entry for the lead; prior assignment history
// is not preserved.
type Assignment struct {
	// LeadID identifies the assigned lead.
	LeadID string `json:"leadId"`

	// RepID identifies the rep that owns the lead.
	RepID string `json:"repId"`

	// CampaignID identifies the campaign the assignment was made under.
	CampaignID string `json:"campaignId"`

	// AssignedAt is when the assignment fact was created.
	AssignedAt time.Time `json:"assignedAt"`

	// Status is the assignment lifecycle status.
	Status AssignmentStatus `json:"status"`
}

// Live reports whether the assignment still occupies a queue slot.
//
// Returns:
//   - bool: true unless the assignment is Completed
func (a Assignment) Live() bool {
	return a.Status != AssignmentCompleted
}

// AssignResult is the outcome of an AssignLead call.
//
// AlreadyAssigned distinguishes the idempotent short-circuit (the lead
// already held a live assignment, nothing changed) from a fresh assignment,
// so callers can surface a warning instead of silently succeeding twice.
type AssignResult struct {
	// Assignment is the live assignment for the lead: newly created when
	// AlreadyAssigned is false, the pre-existing one when true.
	Assignment Assignment

	// Lead is the engine's updated copy of the lead (status Assigned,
	// AssignedTo and CampaignID set) for a fresh assignment, or the caller's
	// lead unchanged on the short-circuit path. The engine never mutates the
	// caller's value in place.
	Lead Lead

	// AlreadyAssigned is true when the lead already had a live assignment
	// and the call was a no-op.
	AlreadyAssigned bool
}
