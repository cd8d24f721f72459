package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType discriminates broadcast envelope payloads.
type MessageType string

// Broadcast message types.
const (
	// MessageDataUpdate carries a SnapshotUpdate: the sender's full lead set
	// and stats. Receivers replace their cached snapshot wholesale.
	MessageDataUpdate MessageType = "DATA_UPDATE"

	// MessageAssignmentUpdate carries an AssignmentDelta: a single assignment
	// fact, optionally with the full lead record so a receiver that has never
	// seen the lead can materialize it.
	MessageAssignmentUpdate MessageType = "ASSIGNMENT_UPDATE"
)

// Envelope is the wire format for every broadcast message.
//
// Data's shape depends on Type; use DecodeSnapshotUpdate and
// DecodeAssignmentDelta to unpack it exhaustively at the receive boundary.
// OriginTabID identifies the sending process so dispatchers can discard
// self-echoed messages (the transport is a bus and delivers the sender's own
// messages back to it).
type Envelope struct {
	Type        MessageType     `json:"type"`
	Data        json.RawMessage `json:"data"`
	OriginTabID string          `json:"originTabId"`
}

// SnapshotUpdate is the payload of a MessageDataUpdate envelope.
type SnapshotUpdate struct {
	Leads []Lead          `json:"leads"`
	Stats AssignmentStats `json:"stats"`
}

// AssignmentDelta is the payload of a MessageAssignmentUpdate envelope.
//
// Lead is optional: when present it carries the full lead record so a
// receiving process with an empty lead store can reconstruct the assignment
// instead of dropping it for lack of context.
type AssignmentDelta struct {
	LeadID     string    `json:"leadId"`
	RepID      string    `json:"repId"`
	CampaignID string    `json:"campaignId"`
	AssignedAt time.Time `json:"assignedAt"`
	Lead       *Lead     `json:"lead,omitempty"`
}

// NewEnvelope builds an envelope of the given type around payload.
//
// Parameters:
//   - msgType: Message type tag for the envelope
//   - payload: Value marshaled into the Data field
//   - originTabID: Sending process's tab id
//
// Returns:
//   - Envelope: The assembled envelope
//   - error: Marshaling failure
func NewEnvelope(msgType MessageType, payload any, originTabID string) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to marshal %s payload: %w", msgType, err)
	}

	return Envelope{Type: msgType, Data: data, OriginTabID: originTabID}, nil
}

// DecodeSnapshotUpdate unpacks a MessageDataUpdate envelope.
//
// Returns ErrUnexpectedMessageType when the envelope carries a different
// type, so a receive path wired to the wrong subscription fails loudly
// instead of silently mishandling the payload.
func DecodeSnapshotUpdate(env Envelope) (SnapshotUpdate, error) {
	if env.Type != MessageDataUpdate {
		return SnapshotUpdate{}, fmt.Errorf("%w: got %q, want %q", ErrUnexpectedMessageType, env.Type, MessageDataUpdate)
	}

	var upd SnapshotUpdate
	if err := json.Unmarshal(env.Data, &upd); err != nil {
		return SnapshotUpdate{}, fmt.Errorf("failed to decode %s payload: %w", env.Type, err)
	}

	return upd, nil
}

// DecodeAssignmentDelta unpacks a MessageAssignmentUpdate envelope.
//
// Returns ErrUnexpectedMessageType when the envelope carries a different type.
func DecodeAssignmentDelta(env Envelope) (AssignmentDelta, error) {
	if env.Type != MessageAssignmentUpdate {
		return AssignmentDelta{}, fmt.Errorf("%w: got %q, want %q", ErrUnexpectedMessageType, env.Type, MessageAssignmentUpdate)
	}

	var delta AssignmentDelta
	if err := json.Unmarshal(env.Data, &delta); err != nil {
		return AssignmentDelta{}, fmt.Errorf("failed to decode %s payload: %w", env.Type, err)
	}

	return delta, nil
}
