// Package testing provides test utilities for the elector library.
//
// It follows Go's convention of providing testing utilities in a dedicated
// package (similar to net/http/httptest).
//
// Key utilities:
//   - StartEmbeddedNATS: Single NATS server with JetStream, for announcer tests
//   - CreateJetStreamKV: Convenience wrapper for KV bucket creation
//   - Recorder: Hooks that record every session notification for assertions
//   - NewTestLogger: Logger writing through t.Log
//
// Example usage:
//
//	import (
//	    "testing"
//	    electortest "github.com/arloliu/elector/testing"
//	)
//
//	func TestFailover(t *testing.T) {
//	    rec := electortest.NewRecorder()
//	    session, _ := elector.NewSession(&cfg, conn, elector.WithHooks(rec.Hooks()))
//	    require.NoError(t, session.Connect(t.Context()))
//	    rec.WaitFor(t, elector.EventLeader, time.Second)
//	}
package testing
