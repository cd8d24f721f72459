package broadcast

import (
	"sync/atomic"
	"testing"
	"time"

	leadtest "github.com/ofranc1208/leadsync/testing"
	"github.com/ofranc1208/leadsync/types"
	"github.com/stretchr/testify/require"
)

func TestNATS_DeliversAcrossConnections(t *testing.T) {
	ns, ncA := leadtest.StartEmbeddedNATS(t)
	ncB, err := leadtest.Connect(t, ns)
	require.NoError(t, err)

	// One connection per tab, as in production.
	tabA, err := NewNATS(ncA, "nats-test")
	require.NoError(t, err)
	defer tabA.Close()

	tabB, err := NewNATS(ncB, "nats-test")
	require.NoError(t, err)
	defer tabB.Close()

	var got atomic.Pointer[types.Envelope]
	_, err = tabB.Subscribe(types.MessageAssignmentUpdate, func(env types.Envelope) {
		got.Store(&env)
	})
	require.NoError(t, err)

	// Core NATS has no replay: flush so the server registers tabB's
	// subscription before the one-shot broadcast below.
	require.NoError(t, ncB.Flush())

	delta := types.AssignmentDelta{LeadID: "L1", RepID: "rep-1", CampaignID: "campaign-1", AssignedAt: time.Now().UTC()}
	require.NoError(t, tabA.Broadcast(types.MessageAssignmentUpdate, delta))

	require.Eventually(t, func() bool { return got.Load() != nil }, 5*time.Second, 10*time.Millisecond)

	env := got.Load()
	require.Equal(t, tabA.TabID(), env.OriginTabID)

	decoded, err := types.DecodeAssignmentDelta(*env)
	require.NoError(t, err)
	require.Equal(t, "L1", decoded.LeadID)
	require.Equal(t, "rep-1", decoded.RepID)
}

func TestNATS_SelfEchoSuppression(t *testing.T) {
	_, nc := leadtest.StartEmbeddedNATS(t)

	ch, err := NewNATS(nc, "nats-echo-test")
	require.NoError(t, err)
	defer ch.Close()

	var received atomic.Int32
	_, err = ch.Subscribe(types.MessageDataUpdate, func(types.Envelope) {
		received.Add(1)
	})
	require.NoError(t, err)

	// NATS loops the message back on the same connection; the dispatcher
	// must drop it. Flush guarantees the server processed the publish
	// before we assert.
	require.NoError(t, ch.Broadcast(types.MessageDataUpdate, types.SnapshotUpdate{}))
	require.NoError(t, nc.Flush())
	time.Sleep(100 * time.Millisecond)

	require.Equal(t, int32(0), received.Load())
}

func TestNATS_ChannelsAreIsolated(t *testing.T) {
	ns, ncA := leadtest.StartEmbeddedNATS(t)
	ncB, err := leadtest.Connect(t, ns)
	require.NoError(t, err)

	tabA, err := NewNATS(ncA, "channel-one")
	require.NoError(t, err)
	defer tabA.Close()

	tabB, err := NewNATS(ncB, "channel-two")
	require.NoError(t, err)
	defer tabB.Close()

	var received atomic.Int32
	_, err = tabB.Subscribe(types.MessageDataUpdate, func(types.Envelope) {
		received.Add(1)
	})
	require.NoError(t, err)

	require.NoError(t, tabA.Broadcast(types.MessageDataUpdate, types.SnapshotUpdate{}))
	require.NoError(t, ncA.Flush())
	time.Sleep(100 * time.Millisecond)

	require.Equal(t, int32(0), received.Load())
}

func TestNATS_LateSubscriberMissesEarlierMessages(t *testing.T) {
	ns, ncA := leadtest.StartEmbeddedNATS(t)

	tabA, err := NewNATS(ncA, "late-test")
	require.NoError(t, err)
	defer tabA.Close()

	require.NoError(t, tabA.Broadcast(types.MessageDataUpdate, types.SnapshotUpdate{}))
	require.NoError(t, ncA.Flush())

	// A tab attached after the broadcast starts from nothing; there is no
	// replay.
	ncB, err := leadtest.Connect(t, ns)
	require.NoError(t, err)
	tabB, err := NewNATS(ncB, "late-test")
	require.NoError(t, err)
	defer tabB.Close()

	var received atomic.Int32
	_, err = tabB.Subscribe(types.MessageDataUpdate, func(types.Envelope) {
		received.Add(1)
	})
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	require.Equal(t, int32(0), received.Load())
}

func TestNATS_Close(t *testing.T) {
	_, nc := leadtest.StartEmbeddedNATS(t)

	ch, err := NewNATS(nc, "close-test")
	require.NoError(t, err)

	require.NoError(t, ch.Close())
	require.NoError(t, ch.Close()) // idempotent

	require.ErrorIs(t, ch.Broadcast(types.MessageDataUpdate, types.SnapshotUpdate{}), types.ErrChannelClosed)
	_, err = ch.Subscribe(types.MessageDataUpdate, func(types.Envelope) {})
	require.ErrorIs(t, err, types.ErrChannelClosed)

	// The caller's connection stays open.
	require.False(t, nc.IsClosed())
}

func TestNewNATS_Validation(t *testing.T) {
	_, nc := leadtest.StartEmbeddedNATS(t)

	_, err := NewNATS(nil, "ok")
	require.ErrorIs(t, err, types.ErrInvalidConfig)

	for _, name := range []string{"", "bad name", "bad.name", "bad*", "bad>"} {
		_, err := NewNATS(nc, name)
		require.ErrorIs(t, err, types.ErrInvalidConfig, "name %q", name)
	}
}

func TestNATS_MalformedMessageIgnored(t *testing.T) {
	ns, ncA := leadtest.StartEmbeddedNATS(t)
	ncB, err := leadtest.Connect(t, ns)
	require.NoError(t, err)

	ch, err := NewNATS(ncA, "malformed-test")
	require.NoError(t, err)
	defer ch.Close()

	var received atomic.Int32
	_, err = ch.Subscribe(types.MessageDataUpdate, func(types.Envelope) {
		received.Add(1)
	})
	require.NoError(t, err)

	// Raw garbage on the subject must be discarded without affecting later
	// well-formed messages.
	require.NoError(t, ncB.Publish("leadsync.channel.malformed-test", []byte("not json")))

	tabB, err := NewNATS(ncB, "malformed-test")
	require.NoError(t, err)
	defer tabB.Close()
	require.NoError(t, tabB.Broadcast(types.MessageDataUpdate, types.SnapshotUpdate{}))

	require.Eventually(t, func() bool { return received.Load() == 1 }, 5*time.Second, 10*time.Millisecond)
}
