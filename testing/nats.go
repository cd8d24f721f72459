package testing

import (
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// StartEmbeddedNATS starts an embedded NATS server for testing.
//
// The server runs in-process with a random available port, giving a fast,
// reliable way to test broadcast-dependent code without external
// dependencies. JetStream is left off: the broadcast layer uses core
// publish/subscribe only, and the tests should exercise exactly the
// no-persistence, no-replay semantics the replication design assumes.
//
// Benefits over testcontainers:
//   - Zero external dependencies (no Docker required)
//   - Fast startup (milliseconds vs seconds)
//   - Works everywhere Go works (CI/CD friendly)
//   - Safe for parallel test execution
//   - Automatic cleanup via t.Cleanup()
//
// Parameters:
//   - t: Testing context for logging and cleanup
//
// Returns:
//   - *server.Server: The embedded NATS server instance
//   - *nats.Conn: Connected NATS client (closed automatically on test completion)
//
// Example:
//
//	func TestMyComponent(t *testing.T) {
//	    _, nc := leadtest.StartEmbeddedNATS(t)
//	    // Use nc for your tests
//	}
func StartEmbeddedNATS(t *testing.T) (*server.Server, *nats.Conn) {
	t.Helper()

	opts := &server.Options{
		Host:  "127.0.0.1",
		Port:  -1, // Use random available port
		NoLog: true,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		t.Fatalf("Failed to create embedded NATS server: %v", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(5 * time.Second) {
		ns.Shutdown()
		t.Fatal("Embedded NATS server not ready within timeout")
	}

	nc, err := Connect(t, ns)
	if err != nil {
		ns.Shutdown()
		t.Fatalf("Failed to connect to embedded NATS server: %v", err)
	}

	t.Cleanup(func() {
		ns.Shutdown()
		ns.WaitForShutdown()
	})

	return ns, nc
}

// Connect opens an additional client connection to an embedded server.
//
// Each dashboard tab owns its own connection in production; tests that
// simulate multiple tabs call Connect once per simulated tab.
//
// Parameters:
//   - t: Testing context for cleanup
//   - ns: Server returned by StartEmbeddedNATS
//
// Returns:
//   - *nats.Conn: Connected client (closed automatically on test completion)
//   - error: Connection failure
func Connect(t *testing.T, ns *server.Server) (*nats.Conn, error) {
	t.Helper()

	nc, err := nats.Connect(ns.ClientURL(),
		nats.Timeout(2*time.Second),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(3),
	)
	if err != nil {
		return nil, err
	}

	t.Cleanup(nc.Close)

	return nc, nil
}
