// Package broadcast provides the cross-tab replication transport.
//
// A Channel fans state-changing messages out to every peer process ("tab")
// attached to the same named channel. The transport is a bus, not
// point-to-point: a sender's own messages loop back to it, and the
// dispatcher discards them by comparing the envelope's origin tab id against
// the channel's own id before invoking any subscriber.
//
// Two implementations are provided:
//
//   - Bus / BusChannel: an in-process loopback bus with synchronous
//     delivery. Used in tests and as a single-process transport.
//   - NATSChannel: core NATS publish/subscribe on a subject derived from the
//     channel name. Fire-and-forget: no delivery guarantee, no persistence,
//     and a subscriber attached after a message was published never sees it.
//
// Subscriptions are keyed by message type; multiple handlers per type are
// supported and invoked in registration order. Handler panics are caught and
// logged so one faulty subscriber cannot stop the rest of the dispatch.
package broadcast
