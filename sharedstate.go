package leadsync

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ofranc1208/leadsync/broadcast"
	"github.com/ofranc1208/leadsync/types"
	"github.com/puzpuzpuz/xsync/v4"
)

// SharedState is the process-wide cache of (leads, stats) shared by every
// dashboard component in one tab.
//
// It is an explicit injectable object owned by the composition root, not a
// hidden package-level singleton: create one per process and hand it by
// pointer to whichever components need it. All mutation funnels through
// Update and the inbound broadcast path; everything else observes via
// Snapshot and Listen.
//
// An inbound DATA_UPDATE replaces the cache wholesale: last write wins, not
// a merge. If two tabs mutate concurrently, whichever snapshot arrives last
// at a given tab wins entirely, including for leads neither tab touched.
// That is an accepted trade-off for a single-operator session, and it makes
// snapshot application idempotent regardless of arrival order.
type SharedState struct {
	channel broadcast.Channel
	logger  Logger
	metrics MetricsCollector

	mu       sync.RWMutex
	snapshot types.Snapshot

	listeners      *xsync.Map[uint64, func(types.Snapshot)]
	nextListenerID atomic.Uint64

	sub broadcast.Subscription
}

// NewSharedState creates a shared-state cache bound to a broadcast channel.
//
// The cache subscribes to DATA_UPDATE messages immediately; snapshots
// broadcast before this call are not recoverable (the transport has no
// replay), so a fresh tab shows empty state until the next snapshot arrives.
//
// Parameters:
//   - channel: Broadcast channel shared with the session's other tabs
//   - opts: Optional dependencies (WithLogger, WithMetrics)
//
// Returns:
//   - *SharedState: The cache, initially empty
//   - error: Subscription failure
func NewSharedState(channel broadcast.Channel, opts ...Option) (*SharedState, error) {
	o := resolveOptions(opts)

	s := &SharedState{
		channel:   channel,
		logger:    o.logger,
		metrics:   o.metrics,
		listeners: xsync.NewMap[uint64, func(types.Snapshot)](),
	}

	sub, err := channel.Subscribe(types.MessageDataUpdate, s.onDataUpdate)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", types.MessageDataUpdate, err)
	}
	s.sub = sub

	return s, nil
}

// Update publishes a new local view of (leads, stats).
//
// The cache is written first, then the snapshot is broadcast to peer tabs,
// then local listeners are notified synchronously so components in this tab
// re-render without waiting for the broadcast round-trip. The returned error
// only concerns the broadcast; the local cache and listeners are always
// updated.
//
// Parameters:
//   - leads: Complete lead set for this process
//   - stats: Aggregate stats matching the lead set
//
// Returns:
//   - error: Broadcast failure (cache and listeners updated regardless)
func (s *SharedState) Update(leads []types.Lead, stats types.AssignmentStats) error {
	snap := types.Snapshot{Leads: leads, Stats: stats}.Clone()

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()

	err := s.channel.Broadcast(types.MessageDataUpdate, types.SnapshotUpdate{Leads: snap.Leads, Stats: snap.Stats})
	if err != nil {
		s.logger.Warn("failed to broadcast shared-state snapshot", "error", err)
	}

	s.notify(snap)

	return err
}

// onDataUpdate applies an inbound snapshot from a peer tab.
func (s *SharedState) onDataUpdate(env types.Envelope) {
	upd, err := types.DecodeSnapshotUpdate(env)
	if err != nil {
		s.metrics.RecordDecodeError(string(env.Type))
		s.logger.Warn("discarding undecodable snapshot", "origin_tab", env.OriginTabID, "error", err)

		return
	}

	snap := types.Snapshot{Leads: upd.Leads, Stats: upd.Stats}.Clone()

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()

	s.metrics.RecordSnapshotApplied(len(snap.Leads))
	s.logger.Debug("applied shared-state snapshot", "origin_tab", env.OriginTabID, "leads", len(snap.Leads))

	s.notify(snap)
}

// Snapshot returns a copy of the cached (leads, stats).
func (s *SharedState) Snapshot() types.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshot.Clone()
}

// Listen registers a callback invoked on every cache change, local or
// replicated.
//
// Callbacks run synchronously on the updating goroutine; keep them short. A
// panic in one listener is logged and does not prevent the others from
// running.
//
// Parameters:
//   - fn: Callback receiving the new snapshot
//
// Returns:
//   - func(): Cancel function removing the listener
func (s *SharedState) Listen(fn func(types.Snapshot)) func() {
	id := s.nextListenerID.Add(1)
	s.listeners.Store(id, fn)

	return func() {
		s.listeners.Delete(id)
	}
}

// notify fans a snapshot out to every registered listener with guarded
// dispatch.
func (s *SharedState) notify(snap types.Snapshot) {
	s.listeners.Range(func(id uint64, fn func(types.Snapshot)) bool {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("shared-state listener panicked", "listener_id", id, "panic", fmt.Sprintf("%v", r))
				}
			}()
			fn(snap)
		}()

		return true
	})
}

// Close detaches the cache from the broadcast channel. The cached snapshot
// remains readable.
func (s *SharedState) Close() error {
	if s.sub != nil {
		s.sub.Unsubscribe()
	}

	return nil
}
