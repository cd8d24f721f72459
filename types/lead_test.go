package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLeadStatus_Terminal(t *testing.T) {
	terminal := map[LeadStatus]bool{
		LeadStatusNew:       false,
		LeadStatusAssigned:  false,
		LeadStatusContacted: false,
		LeadStatusResponded: false,
		LeadStatusQualified: true,
		LeadStatusClosed:    true,
	}

	for status, want := range terminal {
		require.Equal(t, want, status.Terminal(), "status %s", status)
	}
}

func TestLead_Clone_Independent(t *testing.T) {
	original := Lead{
		ID:           "L1",
		ClientName:   "Jane Prospect",
		PhoneNumbers: []string{"555-0100", "555-0101"},
		Status:       LeadStatusNew,
	}

	clone := original.Clone()
	clone.PhoneNumbers[0] = "555-9999"
	clone.Status = LeadStatusClosed

	require.Equal(t, "555-0100", original.PhoneNumbers[0])
	require.Equal(t, LeadStatusNew, original.Status)
}

func TestLead_Clone_NilPhones(t *testing.T) {
	clone := Lead{ID: "L1"}.Clone()
	require.Nil(t, clone.PhoneNumbers)
}

func TestLead_PrimaryPhone(t *testing.T) {
	require.Equal(t, "555-0100", Lead{PhoneNumbers: []string{"555-0100", "555-0101"}}.PrimaryPhone())
	require.Equal(t, "", Lead{}.PrimaryPhone())
}

func TestAssignment_Live(t *testing.T) {
	for _, status := range []AssignmentStatus{AssignmentPending, AssignmentActive, AssignmentReassigned} {
		require.True(t, Assignment{Status: status}.Live(), "status %s", status)
	}
	require.False(t, Assignment{Status: AssignmentCompleted}.Live())
}

func TestSnapshot_Clone_Independent(t *testing.T) {
	snap := Snapshot{
		Leads: []Lead{{ID: "L1", PhoneNumbers: []string{"555-0100"}}},
		Stats: AssignmentStats{RepWorkloads: map[string]int{"rep-1": 1}},
	}

	clone := snap.Clone()
	clone.Leads[0].PhoneNumbers[0] = "555-9999"
	clone.Stats.RepWorkloads["rep-1"] = 99

	require.Equal(t, "555-0100", snap.Leads[0].PhoneNumbers[0])
	require.Equal(t, 1, snap.Stats.RepWorkloads["rep-1"])
}
