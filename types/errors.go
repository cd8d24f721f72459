package types

import "errors"

// Sentinel errors for the leadsync library.
//
// These errors provide type-safe error checking using errors.Is() and
// errors.As(). All components use these sentinels for known error conditions
// and wrap external errors with context using fmt.Errorf("%s: %w", msg, err).

// Engine and facade errors.
var (
	// ErrRepCapacityExceeded is returned when an assignment would push a
	// rep's queue past its configured capacity. The operation is rejected
	// outright; nothing is queued or retried.
	ErrRepCapacityExceeded = errors.New("rep queue at capacity")

	// ErrLeadNotFound is returned when an operation references a lead id the
	// lead store does not hold.
	ErrLeadNotFound = errors.New("lead not found")

	// ErrLeadNotAssigned is returned by reassignment when the lead has no
	// current live assignment.
	ErrLeadNotAssigned = errors.New("lead not currently assigned")

	// ErrInvalidLead is returned when a caller passes a lead without an id.
	ErrInvalidLead = errors.New("invalid lead")

	// ErrNoRepsAvailable is returned by distribution strategies when the rep
	// list is empty.
	ErrNoRepsAvailable = errors.New("no reps available for distribution")
)

// Configuration errors.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Broadcast errors.
var (
	// ErrChannelClosed is returned when broadcasting or subscribing on a
	// closed channel.
	ErrChannelClosed = errors.New("broadcast channel closed")

	// ErrUnexpectedMessageType is returned when an envelope is decoded as a
	// payload type that does not match its type tag.
	ErrUnexpectedMessageType = errors.New("unexpected message type")
)
