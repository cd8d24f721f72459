package leadsync

import (
	"fmt"
	"time"

	"github.com/ofranc1208/leadsync/broadcast"
	"github.com/ofranc1208/leadsync/types"
)

// AssignmentSync replays single-assignment deltas between tabs so an
// assignment made in one tab appears in another without waiting for a full
// snapshot round-trip.
//
// Inbound: an ASSIGNMENT_UPDATE whose lead is unknown locally is first
// materialized from the delta's carried lead record, then replayed through
// the facade's ImportAssignment, then the supplied onApplied callback runs
// (typically "recompute and publish shared state"). A delta for an unknown
// lead that carries no record is dropped; this tab has no context to
// reconstruct it and the next full snapshot will fill the gap.
//
// Outbound: BroadcastAssignment embeds the full local lead record in the
// delta specifically so a receiving tab with an empty lead store (a freshly
// opened rep dashboard) can still reconstruct the assignment.
type AssignmentSync struct {
	flow      *DataFlow
	channel   broadcast.Channel
	onApplied func()

	logger  Logger
	metrics MetricsCollector

	sub broadcast.Subscription
}

// NewAssignmentSync wires a facade to a broadcast channel for delta
// replication.
//
// Parameters:
//   - flow: The facade deltas are replayed into
//   - channel: Broadcast channel shared with the session's other tabs
//   - onApplied: Callback invoked after each successfully applied delta (may be nil)
//   - opts: Optional dependencies (WithLogger, WithMetrics)
//
// Returns:
//   - *AssignmentSync: The sync hook, already subscribed
//   - error: Subscription failure
func NewAssignmentSync(flow *DataFlow, channel broadcast.Channel, onApplied func(), opts ...Option) (*AssignmentSync, error) {
	if flow == nil {
		return nil, fmt.Errorf("%w: data flow is required", types.ErrInvalidConfig)
	}

	o := resolveOptions(opts)

	a := &AssignmentSync{
		flow:      flow,
		channel:   channel,
		onApplied: onApplied,
		logger:    o.logger,
		metrics:   o.metrics,
	}

	sub, err := channel.Subscribe(types.MessageAssignmentUpdate, a.onAssignmentUpdate)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", types.MessageAssignmentUpdate, err)
	}
	a.sub = sub

	return a, nil
}

// onAssignmentUpdate applies one inbound delta from a peer tab.
func (a *AssignmentSync) onAssignmentUpdate(env types.Envelope) {
	delta, err := types.DecodeAssignmentDelta(env)
	if err != nil {
		a.metrics.RecordDecodeError(string(env.Type))
		a.logger.Warn("discarding undecodable assignment delta", "origin_tab", env.OriginTabID, "error", err)

		return
	}

	if _, ok := a.flow.Lead(delta.LeadID); !ok {
		if delta.Lead == nil {
			a.metrics.RecordDeltaDropped()
			a.logger.Warn("dropping delta for unknown lead without carried record",
				"lead_id", delta.LeadID, "origin_tab", env.OriginTabID)

			return
		}

		if err := a.flow.AddLead(*delta.Lead); err != nil {
			a.metrics.RecordDeltaDropped()
			a.logger.Warn("failed to materialize lead from delta", "lead_id", delta.LeadID, "error", err)

			return
		}
		a.metrics.RecordLeadMaterialized()
		a.logger.Debug("materialized lead from delta", "lead_id", delta.LeadID, "origin_tab", env.OriginTabID)
	}

	if _, err := a.flow.ImportAssignment(delta.LeadID, delta.RepID, delta.CampaignID, delta.AssignedAt); err != nil {
		a.metrics.RecordDeltaDropped()
		a.logger.Warn("failed to replay assignment delta", "lead_id", delta.LeadID, "rep_id", delta.RepID, "error", err)

		return
	}

	a.logger.Info("replayed assignment from peer tab",
		"lead_id", delta.LeadID, "rep_id", delta.RepID, "origin_tab", env.OriginTabID)

	if a.onApplied != nil {
		a.onApplied()
	}
}

// BroadcastAssignment publishes a delta for an assignment that just
// succeeded locally.
//
// The current full lead record is looked up and embedded so receivers that
// have never seen the lead can materialize it rather than dropping the
// delta. A lead missing from the local store is still broadcast, just
// without the record.
//
// Parameters:
//   - leadID: Assigned lead
//   - repID: Owning rep
//   - campaignID: Campaign the assignment was made under
//   - assignedAt: Assignment timestamp from the local AssignLead result
//
// Returns:
//   - error: Broadcast failure
func (a *AssignmentSync) BroadcastAssignment(leadID, repID, campaignID string, assignedAt time.Time) error {
	delta := types.AssignmentDelta{
		LeadID:     leadID,
		RepID:      repID,
		CampaignID: campaignID,
		AssignedAt: assignedAt,
	}
	if lead, ok := a.flow.Lead(leadID); ok {
		delta.Lead = &lead
	}

	return a.channel.Broadcast(types.MessageAssignmentUpdate, delta)
}

// Close detaches the hook from the broadcast channel.
func (a *AssignmentSync) Close() error {
	if a.sub != nil {
		a.sub.Unsubscribe()
	}

	return nil
}
