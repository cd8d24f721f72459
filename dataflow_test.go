package leadsync

import (
	"testing"
	"time"

	"github.com/ofranc1208/leadsync/strategy"
	"github.com/ofranc1208/leadsync/types"
	"github.com/stretchr/testify/require"
)

func newTestFlow(t *testing.T, capacity int) *DataFlow {
	t.Helper()

	cfg := Config{RepCapacity: capacity, ChannelName: "flow-test"}
	flow, err := NewDataFlow(&cfg)
	require.NoError(t, err)

	return flow
}

func TestDataFlow_AddAndGetLead(t *testing.T) {
	flow := newTestFlow(t, 5)

	require.NoError(t, flow.AddLead(testLead("L1")))

	lead, ok := flow.Lead("L1")
	require.True(t, ok)
	require.Equal(t, "L1", lead.ID)
	require.Equal(t, "crm-L1", lead.CRMID)

	_, ok = flow.Lead("ghost")
	require.False(t, ok)

	require.ErrorIs(t, flow.AddLead(types.Lead{}), types.ErrInvalidLead)
}

func TestDataFlow_AddLead_Overwrites(t *testing.T) {
	flow := newTestFlow(t, 5)

	require.NoError(t, flow.AddLead(testLead("L1")))

	updated := testLead("L1")
	updated.ClientName = "Renamed Client"
	require.NoError(t, flow.AddLead(updated))

	lead, ok := flow.Lead("L1")
	require.True(t, ok)
	require.Equal(t, "Renamed Client", lead.ClientName)
	require.Len(t, flow.AllLeads(), 1)
}

func TestDataFlow_StoredLeadIsNotAliased(t *testing.T) {
	flow := newTestFlow(t, 5)

	lead := testLead("L1")
	require.NoError(t, flow.AddLead(lead))
	lead.PhoneNumbers[0] = "changed"

	stored, ok := flow.Lead("L1")
	require.True(t, ok)
	require.Equal(t, "555-0100", stored.PhoneNumbers[0])
}

func TestDataFlow_AssignLead_SyncsStore(t *testing.T) {
	flow := newTestFlow(t, 5)
	require.NoError(t, flow.AddLead(testLead("L1")))

	res, err := flow.AssignLead("L1", "rep-1", "campaign-1")
	require.NoError(t, err)
	require.False(t, res.AlreadyAssigned)

	// The store holds the engine's updated copy, and queue membership
	// agrees with it. These two facts must never diverge in-process.
	lead, ok := flow.Lead("L1")
	require.True(t, ok)
	require.Equal(t, types.LeadStatusAssigned, lead.Status)
	require.Equal(t, "rep-1", lead.AssignedTo)

	byRep := flow.LeadsByRep("rep-1")
	require.Len(t, byRep, 1)
	require.Equal(t, "L1", byRep[0].ID)
}

func TestDataFlow_AssignLead_Unknown(t *testing.T) {
	flow := newTestFlow(t, 5)

	_, err := flow.AssignLead("ghost", "rep-1", "campaign-1")
	require.ErrorIs(t, err, types.ErrLeadNotFound)
}

func TestDataFlow_AssignLead_Idempotent(t *testing.T) {
	flow := newTestFlow(t, 5)
	require.NoError(t, flow.AddLead(testLead("L1")))

	first, err := flow.AssignLead("L1", "rep-1", "campaign-1")
	require.NoError(t, err)
	second, err := flow.AssignLead("L1", "rep-2", "campaign-2")
	require.NoError(t, err)

	require.True(t, second.AlreadyAssigned)
	require.Equal(t, first.Assignment, second.Assignment)

	lead, _ := flow.Lead("L1")
	require.Equal(t, "rep-1", lead.AssignedTo)
	require.Empty(t, flow.LeadsByRep("rep-2"))
}

func TestDataFlow_LeadsByStatus(t *testing.T) {
	flow := newTestFlow(t, 5)
	for _, id := range []string{"L1", "L2", "L3"} {
		require.NoError(t, flow.AddLead(testLead(id)))
	}
	_, err := flow.AssignLead("L2", "rep-1", "campaign-1")
	require.NoError(t, err)

	fresh := flow.LeadsByStatus(types.LeadStatusNew)
	require.Len(t, fresh, 2)
	require.Equal(t, "L1", fresh[0].ID)
	require.Equal(t, "L3", fresh[1].ID)

	assigned := flow.LeadsByStatus(types.LeadStatusAssigned)
	require.Len(t, assigned, 1)
	require.Equal(t, "L2", assigned[0].ID)
}

func TestDataFlow_LeadsByRep_DropsMissingRecords(t *testing.T) {
	flow := newTestFlow(t, 5)
	require.NoError(t, flow.AddLead(testLead("L1")))
	_, err := flow.AssignLead("L1", "rep-1", "campaign-1")
	require.NoError(t, err)

	// Import a queue entry for a lead this store has never seen; it must be
	// dropped from the resolved list rather than panicking or zero-filling.
	_, err = flow.engine.ImportAssignment(testLead("phantom"), "rep-1", "campaign-1",
		types.Assignment{LeadID: "phantom", RepID: "rep-1", Status: types.AssignmentPending})
	require.NoError(t, err)

	byRep := flow.LeadsByRep("rep-1")
	require.Len(t, byRep, 1)
	require.Equal(t, "L1", byRep[0].ID)
}

func TestDataFlow_ImportAssignment(t *testing.T) {
	flow := newTestFlow(t, 5)
	require.NoError(t, flow.AddLead(testLead("L1")))

	assignedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	updated, err := flow.ImportAssignment("L1", "rep-2", "campaign-7", assignedAt)
	require.NoError(t, err)
	require.Equal(t, types.LeadStatusAssigned, updated.Status)
	require.Equal(t, "rep-2", updated.AssignedTo)

	lead, _ := flow.Lead("L1")
	require.Equal(t, types.LeadStatusAssigned, lead.Status)

	byRep := flow.LeadsByRep("rep-2")
	require.Len(t, byRep, 1)

	asgn, ok := flow.engine.Assignment("L1")
	require.True(t, ok)
	require.Equal(t, assignedAt, asgn.AssignedAt)

	_, err = flow.ImportAssignment("ghost", "rep-2", "campaign-7", assignedAt)
	require.ErrorIs(t, err, types.ErrLeadNotFound)
}

func TestDataFlow_UpdateLeadStatus(t *testing.T) {
	flow := newTestFlow(t, 5)
	require.NoError(t, flow.AddLead(testLead("L1")))
	_, err := flow.AssignLead("L1", "rep-1", "campaign-1")
	require.NoError(t, err)

	lead, err := flow.UpdateLeadStatus("L1", types.LeadStatusContacted)
	require.NoError(t, err)
	require.Equal(t, types.LeadStatusContacted, lead.Status)
	require.Len(t, flow.LeadsByRep("rep-1"), 1)

	lead, err = flow.UpdateLeadStatus("L1", types.LeadStatusClosed)
	require.NoError(t, err)
	require.Equal(t, types.LeadStatusClosed, lead.Status)
	require.Empty(t, flow.LeadsByRep("rep-1"))

	_, err = flow.UpdateLeadStatus("ghost", types.LeadStatusClosed)
	require.ErrorIs(t, err, types.ErrLeadNotFound)
}

func TestDataFlow_ReassignLead(t *testing.T) {
	flow := newTestFlow(t, 5)
	require.NoError(t, flow.AddLead(testLead("L1")))
	_, err := flow.AssignLead("L1", "rep-a", "campaign-1")
	require.NoError(t, err)

	asgn, err := flow.ReassignLead("L1", "rep-b")
	require.NoError(t, err)
	require.Equal(t, "rep-b", asgn.RepID)

	lead, _ := flow.Lead("L1")
	require.Equal(t, "rep-b", lead.AssignedTo)
	require.Empty(t, flow.LeadsByRep("rep-a"))
	require.Len(t, flow.LeadsByRep("rep-b"), 1)
}

func TestDataFlow_Snapshot(t *testing.T) {
	flow := newTestFlow(t, 5)
	for _, id := range []string{"L2", "L1"} {
		require.NoError(t, flow.AddLead(testLead(id)))
	}
	_, err := flow.AssignLead("L1", "rep-1", "campaign-1")
	require.NoError(t, err)

	snap := flow.Snapshot()
	require.Len(t, snap.Leads, 2)
	require.Equal(t, "L1", snap.Leads[0].ID)
	require.Equal(t, "L2", snap.Leads[1].ID)
	require.Equal(t, 1, snap.Stats.ActiveAssignments)
}

func TestDataFlow_DistributeLeads(t *testing.T) {
	flow := newTestFlow(t, 5)
	leadIDs := []string{"L1", "L2", "L3", "L4"}
	for _, id := range leadIDs {
		require.NoError(t, flow.AddLead(testLead(id)))
	}

	results, err := flow.DistributeLeads([]string{"rep-1", "rep-2"}, leadIDs, "campaign-1", strategy.NewRoundRobin())
	require.NoError(t, err)
	require.Len(t, results, 4)

	require.Len(t, flow.LeadsByRep("rep-1"), 2)
	require.Len(t, flow.LeadsByRep("rep-2"), 2)
	for _, id := range leadIDs {
		lead, _ := flow.Lead(id)
		require.Equal(t, types.LeadStatusAssigned, lead.Status)
	}
}

func TestDataFlow_DistributeLeads_PartialFailure(t *testing.T) {
	flow := newTestFlow(t, 1)
	for _, id := range []string{"L1", "L2", "L3"} {
		require.NoError(t, flow.AddLead(testLead(id)))
	}

	// One rep, capacity 1: the first lead lands, the rest are rejected, and
	// the unknown id surfaces as a not-found error alongside them.
	results, err := flow.DistributeLeads([]string{"rep-1"}, []string{"L1", "L2", "L3", "ghost"}, "campaign-1", strategy.NewRoundRobin())
	require.ErrorIs(t, err, types.ErrRepCapacityExceeded)
	require.ErrorIs(t, err, types.ErrLeadNotFound)
	require.Len(t, results, 1)
	require.Len(t, flow.LeadsByRep("rep-1"), 1)
}

func TestDataFlow_DistributeLeads_NoReps(t *testing.T) {
	flow := newTestFlow(t, 5)
	require.NoError(t, flow.AddLead(testLead("L1")))

	_, err := flow.DistributeLeads(nil, []string{"L1"}, "campaign-1", strategy.NewRoundRobin())
	require.ErrorIs(t, err, types.ErrNoRepsAvailable)
}
