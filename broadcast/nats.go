package broadcast

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/ofranc1208/leadsync/types"
)

// subjectPrefix namespaces dashboard channels within a shared NATS server.
const subjectPrefix = "leadsync.channel."

// NATSChannel implements Channel over core NATS publish/subscribe.
//
// Each channel maps to one subject derived from the channel name; every
// process attached to that subject sees every message, the sender included
// (connection echo is left on so the bus semantics match the in-process
// transport). Core NATS gives exactly the contract the replication layer
// assumes: FIFO per sender, no cross-sender ordering, no acknowledgment, no
// persistence. A subscriber attached after a publish never receives it.
type NATSChannel struct {
	conn       *nats.Conn
	subject    string
	tabID      string
	logger     types.Logger
	metrics    types.BroadcastMetrics
	dispatcher *dispatcher

	mu     sync.Mutex
	sub    *nats.Subscription
	closed bool
}

// Compile-time assertion that NATSChannel implements Channel.
var _ Channel = (*NATSChannel)(nil)

// NewNATS attaches to a named channel over an existing NATS connection.
//
// The subscription is created immediately so every NewNATS caller observes
// messages from the moment it returns; messages published before that are
// gone (the transport has no replay).
//
// Parameters:
//   - conn: Established NATS connection (not closed by the channel)
//   - channelName: Logical channel name shared by all participating tabs
//   - opts: Channel options (WithTabID, WithLogger, WithMetrics)
//
// Returns:
//   - *NATSChannel: The attached channel
//   - error: Invalid channel name or subscription failure
//
// Example:
//
//	nc, _ := nats.Connect(nats.DefaultURL)
//	ch, err := broadcast.NewNATS(nc, "lead-dashboard-sync")
func NewNATS(conn *nats.Conn, channelName string, opts ...Option) (*NATSChannel, error) {
	if conn == nil {
		return nil, fmt.Errorf("%w: NATS connection is required", types.ErrInvalidConfig)
	}
	if err := validateChannelName(channelName); err != nil {
		return nil, err
	}

	o := applyOptions(opts)

	c := &NATSChannel{
		conn:       conn,
		subject:    subjectPrefix + channelName,
		tabID:      o.tabID,
		logger:     o.logger,
		metrics:    o.metrics,
		dispatcher: newDispatcher(o.tabID, o.logger, o.metrics),
	}

	sub, err := conn.Subscribe(c.subject, c.onMessage)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", c.subject, err)
	}
	c.sub = sub

	c.logger.Debug("attached to broadcast channel", "subject", c.subject, "tab_id", c.tabID)

	return c, nil
}

// validateChannelName rejects names that would break subject mapping.
func validateChannelName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: channel name is required", types.ErrInvalidConfig)
	}
	if strings.ContainsAny(name, " .*>") {
		return fmt.Errorf("%w: channel name %q must not contain spaces or NATS subject tokens", types.ErrInvalidConfig, name)
	}

	return nil
}

// onMessage decodes an inbound wire message and hands it to the dispatcher.
func (c *NATSChannel) onMessage(msg *nats.Msg) {
	var env types.Envelope
	if err := json.Unmarshal(msg.Data, &env); err != nil {
		c.metrics.RecordDecodeError("envelope")
		c.logger.Warn("discarding malformed broadcast message", "subject", msg.Subject, "error", err)

		return
	}

	c.dispatcher.dispatch(env)
}

// TabID returns this channel's origin tab identifier.
func (c *NATSChannel) TabID() string {
	return c.tabID
}

// Broadcast publishes a payload to every tab on the channel.
//
// Delivery is fire-and-forget: a nil return means the message was handed to
// the NATS client, not that any peer received it.
func (c *NATSChannel) Broadcast(msgType types.MessageType, payload any) error {
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

	if err := c.conn.Publish(c.subject, encoded); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", c.subject, err)
	}

	c.metrics.RecordMessageSent(string(msgType), len(encoded))
	c.logger.Debug("broadcasting message", "type", msgType, "bytes", len(encoded))

	return nil
}

// Subscribe registers a handler for one message type.
func (c *NATSChannel) Subscribe(msgType types.MessageType, h Handler) (Subscription, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, types.ErrChannelClosed
	}

	id := c.dispatcher.add(msgType, h)

	return &subscription{msgType: msgType, id: id, d: c.dispatcher}, nil
}

// Close drains the NATS subscription and detaches the channel.
//
// The underlying connection is owned by the caller and stays open.
func (c *NATSChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	if err := c.sub.Unsubscribe(); err != nil {
		return fmt.Errorf("failed to unsubscribe from %s: %w", c.subject, err)
	}

	return nil
}
