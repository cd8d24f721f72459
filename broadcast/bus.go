package broadcast

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ofranc1208/leadsync/types"
)

// Bus is an in-process loopback transport.
//
// Every BusChannel connected to the same Bus receives every broadcast,
// including the sender (self-echo is then discarded by the receiving
// dispatcher). Delivery is synchronous in connection order, which makes the
// Bus deterministic enough to drive the replication tests and small enough
// to serve as a single-process transport.
type Bus struct {
	mu       sync.RWMutex
	channels map[uint64]*BusChannel
	nextID   uint64
}

// NewBus creates a new in-process bus.
//
// Returns:
//   - *Bus: An empty bus ready for Connect calls
func NewBus() *Bus {
	return &Bus{channels: make(map[uint64]*BusChannel)}
}

// Connect attaches a new channel ("tab") to the bus.
//
// Each call produces an independent channel with its own tab id, mirroring
// one browser tab opening the dashboard.
//
// Parameters:
//   - opts: Channel options (WithTabID, WithLogger, WithMetrics)
//
// Returns:
//   - *BusChannel: The connected channel
func (b *Bus) Connect(opts ...Option) *BusChannel {
	o := applyOptions(opts)

	ch := &BusChannel{
		bus:        b,
		tabID:      o.tabID,
		logger:     o.logger,
		metrics:    o.metrics,
		dispatcher: newDispatcher(o.tabID, o.logger, o.metrics),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	ch.id = b.nextID
	b.channels[ch.id] = ch

	return ch
}

// deliver fans an envelope out to every connected channel, sender included.
func (b *Bus) deliver(env types.Envelope) {
	b.mu.RLock()
	targets := make([]*BusChannel, 0, len(b.channels))
	for _, ch := range b.channels {
		targets = append(targets, ch)
	}
	b.mu.RUnlock()

	for _, ch := range targets {
		ch.dispatcher.dispatch(env)
	}
}

func (b *Bus) disconnect(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.channels, id)
}

// BusChannel is one tab's endpoint on a Bus.
type BusChannel struct {
	bus        *Bus
	id         uint64
	tabID      string
	logger     types.Logger
	metrics    types.BroadcastMetrics
	dispatcher *dispatcher

	mu     sync.Mutex
	closed bool
}

// Compile-time assertion that BusChannel implements Channel.
var _ Channel = (*BusChannel)(nil)

// TabID returns this channel's origin tab identifier.
func (c *BusChannel) TabID() string {
	return c.tabID
}

// Broadcast publishes a payload to every channel on the bus.
//
// The payload is JSON-encoded into the envelope so Bus and NATS transports
// carry byte-identical messages; a payload that does not round-trip through
// JSON fails here rather than differing between transports.
func (c *BusChannel) Broadcast(msgType types.MessageType, payload any) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return types.ErrChannelClosed
	}
	c.mu.Unlock()

	env, err := types.NewEnvelope(msgType, payload, c.tabID)
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to encode envelope: %w", err)
	}

	c.metrics.RecordMessageSent(string(msgType), len(encoded))
	c.logger.Debug("broadcasting message", "type", msgType, "bytes", len(encoded))
	c.bus.deliver(env)

	return nil
}

// Subscribe registers a handler for one message type.
func (c *BusChannel) Subscribe(msgType types.MessageType, h Handler) (Subscription, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, types.ErrChannelClosed
	}

	id := c.dispatcher.add(msgType, h)

	return &subscription{msgType: msgType, id: id, d: c.dispatcher}, nil
}

// Close detaches the channel from the bus.
func (c *BusChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.bus.disconnect(c.id)

	return nil
}
