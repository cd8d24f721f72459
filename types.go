package leadsync

import "github.com/ofranc1208/leadsync/types"

// Re-export types from the types subpackage.
//
// This file provides a stable public API for the library's core types and
// interfaces via type aliases. Internal packages depend on the `types`
// subpackage directly, avoiding import cycles, while callers get the
// convenience of leadsync.Lead, leadsync.Assignment, and so on.
type (
	Lead             = types.Lead
	LeadStatus       = types.LeadStatus
	Assignment       = types.Assignment
	AssignmentStatus = types.AssignmentStatus
	AssignResult     = types.AssignResult
	AssignmentStats  = types.AssignmentStats
	Snapshot         = types.Snapshot
	Envelope         = types.Envelope
	MessageType      = types.MessageType
	SnapshotUpdate   = types.SnapshotUpdate
	AssignmentDelta  = types.AssignmentDelta
)

// Re-export interfaces from the types subpackage for convenience.
type (
	Logger           = types.Logger
	MetricsCollector = types.MetricsCollector
	Distributor      = types.Distributor
)

// Re-export lead status constants.
const (
	LeadStatusNew       = types.LeadStatusNew
	LeadStatusAssigned  = types.LeadStatusAssigned
	LeadStatusContacted = types.LeadStatusContacted
	LeadStatusResponded = types.LeadStatusResponded
	LeadStatusQualified = types.LeadStatusQualified
	LeadStatusClosed    = types.LeadStatusClosed
)

// Re-export assignment status constants.
const (
	AssignmentPending    = types.AssignmentPending
	AssignmentActive     = types.AssignmentActive
	AssignmentCompleted  = types.AssignmentCompleted
	AssignmentReassigned = types.AssignmentReassigned
)

// Re-export broadcast message types.
const (
	MessageDataUpdate       = types.MessageDataUpdate
	MessageAssignmentUpdate = types.MessageAssignmentUpdate
)
