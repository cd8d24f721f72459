// Package leadsync provides the lead assignment and cross-tab state
// replication core of a structured-settlement sales dashboard.
//
// It keeps an in-memory lead store and an assignment engine with
// capacity-bounded per-rep queues, and mirrors that state across peer
// processes ("tabs") of one dashboard session over a same-named broadcast
// channel.
//
// # Quick Start
//
//	cfg := leadsync.DefaultConfig()
//
//	flow, err := leadsync.NewDataFlow(&cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ch, err := broadcast.NewNATS(nc, cfg.ChannelName)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ch.Close()
//
//	shared, _ := leadsync.NewSharedState(ch)
//	sync, _ := leadsync.NewAssignmentSync(flow, ch, func() {
//	    snap := flow.Snapshot()
//	    _ = shared.Update(snap.Leads, snap.Stats)
//	})
//
//	_ = flow.AddLead(lead)
//	res, err := flow.AssignLead(lead.ID, "rep-1", "campaign-1")
//	if err == nil && !res.AlreadyAssigned {
//	    _ = sync.BroadcastAssignment(res.Assignment.LeadID, res.Assignment.RepID,
//	        res.Assignment.CampaignID, res.Assignment.AssignedAt)
//	    snap := flow.Snapshot()
//	    _ = shared.Update(snap.Leads, snap.Stats)
//	}
//
// # Key Invariants
//
//   - At most one live assignment per lead id; a second AssignLead for an
//     already-assigned lead is an idempotent no-op reported through
//     AssignResult.AlreadyAssigned.
//   - A lead id appears in a rep's queue exactly when that rep holds a live
//     assignment for it, never twice.
//   - Rep queues are capacity-bounded; exceeding the cap is a rejected
//     operation, not a queued one.
//   - A tab never re-applies its own broadcasts: every envelope carries its
//     origin tab id and the dispatcher discards self-echoes.
//   - Inbound snapshots replace the shared-state cache wholesale (last write
//     wins), which makes their application idempotent regardless of arrival
//     order.
//
// # Architecture
//
// The components compose from the bottom up:
//
//	Engine → DataFlow facade → SharedState + AssignmentSync → broadcast.Channel
//
// Dashboard code talks to the DataFlow facade only. SharedState caches the
// facade's (leads, stats) snapshot for every component in the tab and
// replicates it as DATA_UPDATE messages; AssignmentSync replicates
// individual assignments as lighter ASSIGNMENT_UPDATE deltas that carry the
// full lead record, so a tab that missed every snapshot can still
// reconstruct an assignment.
//
// There is no persistence and no delivery guarantee: a tab that never
// receives an update shows stale state until the next broadcast. That is the
// documented contract of the transport, not a failure mode.
package leadsync
