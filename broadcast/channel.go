package broadcast

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/ofranc1208/leadsync/internal/logging"
	"github.com/ofranc1208/leadsync/internal/metrics"
	"github.com/ofranc1208/leadsync/types"
)

// Handler processes one inbound envelope.
//
// Handlers run on the transport's delivery goroutine and should complete
// quickly; long-running work belongs in the subscriber's own goroutine.
type Handler func(env types.Envelope)

// Subscription represents one registered handler.
type Subscription interface {
	// Unsubscribe removes the handler. Safe to call more than once.
	Unsubscribe()
}

// Channel is the cross-tab transport contract.
//
// Broadcast wraps the payload in an Envelope tagged with this channel's tab
// id and sends it to every peer on the same named channel, including this
// one (the underlying primitive is a bus). The dispatcher behind Subscribe
// discards envelopes whose origin tab id equals this channel's own id, so
// subscribers never observe a local echo.
type Channel interface {
	// TabID returns this channel's origin tab identifier.
	TabID() string

	// Broadcast publishes a payload of the given message type.
	Broadcast(msgType types.MessageType, payload any) error

	// Subscribe registers a handler for one message type. Multiple handlers
	// per type are invoked in registration order.
	Subscribe(msgType types.MessageType, h Handler) (Subscription, error)

	// Close detaches the channel from the transport. Further Broadcast and
	// Subscribe calls return ErrChannelClosed.
	Close() error
}

// Option configures a channel.
type Option func(*channelOptions)

type channelOptions struct {
	tabID   string
	logger  types.Logger
	metrics types.BroadcastMetrics
}

// WithTabID overrides the generated origin tab id.
//
// Parameters:
//   - tabID: Identifier to stamp on outbound envelopes
//
// Returns:
//   - Option: Functional option for channel constructors
func WithTabID(tabID string) Option {
	return func(o *channelOptions) {
		o.tabID = tabID
	}
}

// WithLogger sets the channel's logger.
func WithLogger(logger types.Logger) Option {
	return func(o *channelOptions) {
		o.logger = logger
	}
}

// WithMetrics sets the channel's metrics collector.
func WithMetrics(m types.BroadcastMetrics) Option {
	return func(o *channelOptions) {
		o.metrics = m
	}
}

func applyOptions(opts []Option) channelOptions {
	o := channelOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tabID == "" {
		o.tabID = uuid.NewString()
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}
	if o.metrics == nil {
		o.metrics = metrics.NewNop()
	}

	return o
}

// dispatcher routes inbound envelopes to registered handlers.
//
// It owns self-echo suppression and guarded handler invocation; both channel
// implementations delegate their receive path to it.
type dispatcher struct {
	tabID   string
	logger  types.Logger
	metrics types.BroadcastMetrics

	mu       sync.RWMutex
	handlers map[types.MessageType][]*handlerEntry
	nextID   uint64
}

type handlerEntry struct {
	id uint64
	fn Handler
}

func newDispatcher(tabID string, logger types.Logger, m types.BroadcastMetrics) *dispatcher {
	return &dispatcher{
		tabID:    tabID,
		logger:   logger,
		metrics:  m,
		handlers: make(map[types.MessageType][]*handlerEntry),
	}
}

// add registers a handler and returns its entry id for later removal.
func (d *dispatcher) add(msgType types.MessageType, h Handler) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	d.handlers[msgType] = append(d.handlers[msgType], &handlerEntry{id: d.nextID, fn: h})

	return d.nextID
}

// remove unregisters a handler by entry id, preserving registration order of
// the remaining handlers.
func (d *dispatcher) remove(msgType types.MessageType, id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	entries := d.handlers[msgType]
	for i, e := range entries {
		if e.id == id {
			d.handlers[msgType] = append(entries[:i], entries[i+1:]...)
			break
		}
	}
}

// dispatch delivers an inbound envelope to every handler registered for its
// type, in registration order.
//
// Envelopes originating from this tab are discarded before any handler runs;
// without this filter every local mutation would be double-applied through
// the loopback. A panic in one handler is logged and does not prevent the
// remaining handlers from running.
func (d *dispatcher) dispatch(env types.Envelope) {
	if env.OriginTabID == d.tabID {
		d.metrics.RecordSelfEchoDropped()
		return
	}

	d.mu.RLock()
	entries := make([]*handlerEntry, len(d.handlers[env.Type]))
	copy(entries, d.handlers[env.Type])
	d.mu.RUnlock()

	if len(entries) == 0 {
		return
	}

	d.metrics.RecordMessageReceived(string(env.Type))
	for _, e := range entries {
		d.invoke(e, env)
	}
}

func (d *dispatcher) invoke(e *handlerEntry, env types.Envelope) {
	defer func() {
		if r := recover(); r != nil {
			d.metrics.RecordHandlerPanic(string(env.Type))
			d.logger.Error("broadcast handler panicked",
				"type", env.Type, "origin_tab", env.OriginTabID, "panic", fmt.Sprintf("%v", r))
		}
	}()

	e.fn(env)
}

// subscription implements Subscription for both channel implementations.
type subscription struct {
	once    sync.Once
	msgType types.MessageType
	id      uint64
	d       *dispatcher
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.d.remove(s.msgType, s.id)
	})
}
