// Package testing provides test utilities for the leadsync library.
//
// It offers helpers for setting up test environments, particularly an
// embedded NATS server for exercising the broadcast transport without
// external dependencies. It follows Go's convention of providing testing
// utilities in a dedicated package (similar to net/http/httptest).
//
// Example usage:
//
//	import (
//	    "testing"
//	    leadtest "github.com/ofranc1208/leadsync/testing"
//	)
//
//	func TestMyComponent(t *testing.T) {
//	    _, nc := leadtest.StartEmbeddedNATS(t)
//	    // Use nc for your tests
//	}
package testing
