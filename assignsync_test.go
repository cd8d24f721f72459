package leadsync

import (
	"testing"
	"time"

	"github.com/ofranc1208/leadsync/broadcast"
	"github.com/ofranc1208/leadsync/types"
	"github.com/stretchr/testify/require"
)

// newTabPair wires two independent "tabs" (flow + sync hook each) onto one
// in-process bus, mirroring a manager dashboard and a rep dashboard of the
// same session.
func newTabPair(t *testing.T) (*DataFlow, *AssignmentSync, *DataFlow, *AssignmentSync) {
	t.Helper()

	bus := broadcast.NewBus()

	flowA := newTestFlow(t, 10)
	syncA, err := NewAssignmentSync(flowA, bus.Connect(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { syncA.Close() })

	flowB := newTestFlow(t, 10)
	syncB, err := NewAssignmentSync(flowB, bus.Connect(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { syncB.Close() })

	return flowA, syncA, flowB, syncB
}

func TestAssignmentSync_FreshTabMaterialization(t *testing.T) {
	flowA, syncA, flowB, _ := newTabPair(t)

	// Tab B starts with an empty lead store.
	require.Empty(t, flowB.AllLeads())

	lead := types.Lead{ID: "L1", CRMID: "C1", ClientName: "Dana Whitfield", Status: types.LeadStatusNew}
	require.NoError(t, flowA.AddLead(lead))
	res, err := flowA.AssignLead("L1", "rep-1", "campaign-1")
	require.NoError(t, err)

	require.NoError(t, syncA.BroadcastAssignment(res.Assignment.LeadID, res.Assignment.RepID,
		res.Assignment.CampaignID, res.Assignment.AssignedAt))

	// The delta carried the full lead, so tab B materialized it and replayed
	// the assignment without ever seeing a snapshot.
	byRep := flowB.LeadsByRep("rep-1")
	require.Len(t, byRep, 1)
	require.Equal(t, "L1", byRep[0].ID)
	require.Equal(t, types.LeadStatusAssigned, byRep[0].Status)
	require.Equal(t, "C1", byRep[0].CRMID)
}

func TestAssignmentSync_KnownLeadNotOverwritten(t *testing.T) {
	flowA, syncA, flowB, _ := newTabPair(t)

	lead := testLead("L1")
	require.NoError(t, flowA.AddLead(lead))

	// Tab B already knows the lead under a different client name; the delta
	// must replay the assignment without clobbering B's record.
	known := testLead("L1")
	known.ClientName = "Locally Edited"
	require.NoError(t, flowB.AddLead(known))

	res, err := flowA.AssignLead("L1", "rep-1", "campaign-1")
	require.NoError(t, err)
	require.NoError(t, syncA.BroadcastAssignment(res.Assignment.LeadID, res.Assignment.RepID,
		res.Assignment.CampaignID, res.Assignment.AssignedAt))

	stored, ok := flowB.Lead("L1")
	require.True(t, ok)
	require.Equal(t, "Locally Edited", stored.ClientName)
	require.Equal(t, types.LeadStatusAssigned, stored.Status)
	require.Equal(t, "rep-1", stored.AssignedTo)
}

func TestAssignmentSync_OnAppliedCallback(t *testing.T) {
	bus := broadcast.NewBus()

	flowA := newTestFlow(t, 10)
	syncA, err := NewAssignmentSync(flowA, bus.Connect(), nil)
	require.NoError(t, err)
	defer syncA.Close()

	flowB := newTestFlow(t, 10)
	applied := 0
	syncB, err := NewAssignmentSync(flowB, bus.Connect(), func() { applied++ })
	require.NoError(t, err)
	defer syncB.Close()

	require.NoError(t, flowA.AddLead(testLead("L1")))
	res, err := flowA.AssignLead("L1", "rep-1", "campaign-1")
	require.NoError(t, err)
	require.NoError(t, syncA.BroadcastAssignment(res.Assignment.LeadID, res.Assignment.RepID,
		res.Assignment.CampaignID, res.Assignment.AssignedAt))

	require.Equal(t, 1, applied)

	// The sender's own callback never fires: its dispatcher drops the echo.
	require.Empty(t, flowA.LeadsByRep("rep-2"))
}

func TestAssignmentSync_PreservesPeerTimestamp(t *testing.T) {
	flowA, syncA, flowB, _ := newTabPair(t)

	require.NoError(t, flowA.AddLead(testLead("L1")))
	res, err := flowA.AssignLead("L1", "rep-1", "campaign-1")
	require.NoError(t, err)

	require.NoError(t, syncA.BroadcastAssignment(res.Assignment.LeadID, res.Assignment.RepID,
		res.Assignment.CampaignID, res.Assignment.AssignedAt))

	asgn, ok := flowB.engine.Assignment("L1")
	require.True(t, ok)
	require.True(t, asgn.AssignedAt.Equal(res.Assignment.AssignedAt))
}

func TestAssignmentSync_DropsDeltaWithoutRecord(t *testing.T) {
	bus := broadcast.NewBus()

	sender := bus.Connect()

	flowB := newTestFlow(t, 10)
	applied := 0
	syncB, err := NewAssignmentSync(flowB, bus.Connect(), func() { applied++ })
	require.NoError(t, err)
	defer syncB.Close()

	// A delta for an unknown lead with no carried record gives the receiver
	// nothing to materialize; it is dropped, not zero-filled.
	delta := types.AssignmentDelta{LeadID: "mystery", RepID: "rep-1", CampaignID: "campaign-1", AssignedAt: time.Now().UTC()}
	require.NoError(t, sender.Broadcast(types.MessageAssignmentUpdate, delta))

	require.Equal(t, 0, applied)
	require.Empty(t, flowB.AllLeads())
	require.Empty(t, flowB.LeadsByRep("rep-1"))
}

func TestAssignmentSync_BroadcastWithoutLocalRecord(t *testing.T) {
	flowA, syncA, flowB, _ := newTabPair(t)

	// Broadcasting an id the local store does not hold still publishes the
	// delta, just without the record; a receiver that also lacks the lead
	// drops it.
	require.NoError(t, syncA.BroadcastAssignment("unknown", "rep-1", "campaign-1", time.Now().UTC()))

	require.Empty(t, flowA.LeadsByRep("rep-1"))
	require.Empty(t, flowB.LeadsByRep("rep-1"))
}
