package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// Methods may be called from transport callback goroutines and must be
// thread-safe.
//
// This interface composes smaller, domain-focused interfaces so components
// can depend on just the slice they record into.
type MetricsCollector interface {
	EngineMetrics
	BroadcastMetrics
	SyncMetrics
}

// EngineMetrics defines metrics for assignment engine operations.
type EngineMetrics interface {
	// RecordAssignment records the outcome of an assignment attempt.
	//
	// Parameters:
	//   - outcome: "created", "duplicate", "capacity_rejected", or "imported"
	RecordAssignment(outcome string)

	// RecordReassignment records a lead moving between reps.
	RecordReassignment()

	// RecordCompletion records an assignment completing via a terminal lead
	// status.
	RecordCompletion()

	// SetQueueDepth sets the current queue depth for a rep (gauge metric).
	SetQueueDepth(repID string, depth int)
}

// BroadcastMetrics defines metrics for the replication transport.
type BroadcastMetrics interface {
	// RecordMessageSent records an outbound broadcast.
	//
	// Parameters:
	//   - msgType: Message type string ("DATA_UPDATE", "ASSIGNMENT_UPDATE")
	//   - bytes: Encoded envelope size
	RecordMessageSent(msgType string, bytes int)

	// RecordMessageReceived records an inbound broadcast dispatched to
	// handlers.
	RecordMessageReceived(msgType string)

	// RecordSelfEchoDropped records a message discarded because it
	// originated from this process.
	RecordSelfEchoDropped()

	// RecordDecodeError records an inbound message that failed to decode.
	RecordDecodeError(msgType string)

	// RecordHandlerPanic records a subscriber callback panic caught by the
	// guarded dispatcher.
	RecordHandlerPanic(msgType string)
}

// SyncMetrics defines metrics for the shared-state and assignment sync hooks.
type SyncMetrics interface {
	// RecordSnapshotApplied records an inbound snapshot replacing the local
	// cache.
	//
	// Parameters:
	//   - leadCount: Number of leads in the applied snapshot
	RecordSnapshotApplied(leadCount int)

	// RecordLeadMaterialized records a lead added to the local store from an
	// assignment delta's carried record.
	RecordLeadMaterialized()

	// RecordDeltaDropped records an assignment delta that could not be
	// applied (unknown lead with no carried record).
	RecordDeltaDropped()
}
