package types

import "time"

// LeadStatus describes where a lead sits in the sales lifecycle.
//
// The lifecycle is ordered by convention (New → Assigned → Contacted →
// Responded → Qualified → Closed) but not enforced: any status can be set
// directly by the owning dashboard. Only Closed and Qualified have
// bookkeeping side effects (they complete the lead's assignment).
type LeadStatus string

// Lead lifecycle statuses.
const (
	LeadStatusNew       LeadStatus = "New"
	LeadStatusAssigned  LeadStatus = "Assigned"
	LeadStatusContacted LeadStatus = "Contacted"
	LeadStatusResponded LeadStatus = "Responded"
	LeadStatusQualified LeadStatus = "Qualified"
	LeadStatusClosed    LeadStatus = "Closed"
)

// Terminal reports whether the status completes a live assignment.
//
// Returns:
//   - bool: true for Closed and Qualified, false otherwise
func (s LeadStatus) Terminal() bool {
	return s == LeadStatusClosed || s == LeadStatusQualified
}

// Lead is a structured-settlement prospect record.
//
// A lead exists in the lead store independently of any assignment; assigning
// it attaches ownership metadata (AssignedTo, CampaignID, status) but never
// duplicates or moves the record. ID is unique and stable for the lead's
// lifetime. CRMID is an external reference and is not guaranteed unique
// across sources.
type Lead struct {
	// ID uniquely identifies the lead within the store.
	ID string `json:"id"`

	// CRMID is the external CRM reference for the lead.
	CRMID string `json:"crmId"`

	// ClientName is the prospect's display name.
	ClientName string `json:"clientName"`

	// PhoneNumbers is an ordered list; the first entry is treated as the
	// primary number at ingestion.
	PhoneNumbers []string `json:"phoneNumbers"`

	// InsuranceCompany is the issuer backing the settlement.
	InsuranceCompany string `json:"insuranceCompany"`

	// PaymentAmount is the periodic settlement payment in dollars.
	PaymentAmount float64 `json:"paymentAmount"`

	// SettlementStart and SettlementEnd bound the payment stream.
	SettlementStart time.Time `json:"settlementStart"`
	SettlementEnd   time.Time `json:"settlementEnd"`

	// Status is the current lifecycle status.
	Status LeadStatus `json:"status"`

	// AssignedTo is the owning rep id, empty when unassigned.
	AssignedTo string `json:"assignedTo,omitempty"`

	// CampaignID is the campaign the lead was assigned under, if any.
	CampaignID string `json:"campaignId,omitempty"`
}

// PrimaryPhone returns the first phone number, or "" when none are recorded.
func (l Lead) PrimaryPhone() string {
	if len(l.PhoneNumbers) == 0 {
		return ""
	}

	return l.PhoneNumbers[0]
}

// Clone returns a deep copy of the lead.
//
// The engine and facade hand out copies rather than aliasing stored values,
// so callers can mutate the result freely without affecting the store.
//
// Returns:
//   - Lead: An independent copy (PhoneNumbers slice included)
func (l Lead) Clone() Lead {
	out := l
	if l.PhoneNumbers != nil {
		out.PhoneNumbers = make([]string, len(l.PhoneNumbers))
		copy(out.PhoneNumbers, l.PhoneNumbers)
	}

	return out
}
