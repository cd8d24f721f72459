// Package metrics provides types.MetricsCollector implementations.
package metrics

import "github.com/ofranc1208/leadsync/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external metrics
// collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A new no-op metrics collector instance
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// EngineMetrics implementation

// RecordAssignment discards the assignment outcome metric.
func (n *NopMetrics) RecordAssignment(_ /* outcome */ string) {
	// No-op
}

// RecordReassignment discards the reassignment metric.
func (n *NopMetrics) RecordReassignment() {
	// No-op
}

// RecordCompletion discards the completion metric.
func (n *NopMetrics) RecordCompletion() {
	// No-op
}

// SetQueueDepth discards the queue depth gauge.
func (n *NopMetrics) SetQueueDepth(_ /* repID */ string, _ /* depth */ int) {
	// No-op
}

// BroadcastMetrics implementation

// RecordMessageSent discards the outbound message metric.
func (n *NopMetrics) RecordMessageSent(_ /* msgType */ string, _ /* bytes */ int) {
	// No-op
}

// RecordMessageReceived discards the inbound message metric.
func (n *NopMetrics) RecordMessageReceived(_ /* msgType */ string) {
	// No-op
}

// RecordSelfEchoDropped discards the self-echo metric.
func (n *NopMetrics) RecordSelfEchoDropped() {
	// No-op
}

// RecordDecodeError discards the decode error metric.
func (n *NopMetrics) RecordDecodeError(_ /* msgType */ string) {
	// No-op
}

// RecordHandlerPanic discards the handler panic metric.
func (n *NopMetrics) RecordHandlerPanic(_ /* msgType */ string) {
	// No-op
}

// SyncMetrics implementation

// RecordSnapshotApplied discards the snapshot application metric.
func (n *NopMetrics) RecordSnapshotApplied(_ /* leadCount */ int) {
	// No-op
}

// RecordLeadMaterialized discards the lead materialization metric.
func (n *NopMetrics) RecordLeadMaterialized() {
	// No-op
}

// RecordDeltaDropped discards the dropped delta metric.
func (n *NopMetrics) RecordDeltaDropped() {
	// No-op
}
