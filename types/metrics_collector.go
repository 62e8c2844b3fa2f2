package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// Methods are called from session goroutines and must be thread-safe.
//
// This interface composes smaller, domain-focused interfaces for better modularity.
type MetricsCollector interface {
	ElectionMetrics
	TreeMetrics
}

// ElectionMetrics defines metrics for the election protocol.
type ElectionMetrics interface {
	// RecordLeadershipChange records a leadership flip of one session.
	//
	// Parameters:
	//   - candidateID: The session's candidate identifier
	//   - leader: true if the session became leader, false if it became follower
	RecordLeadershipChange(candidateID string, leader bool)

	// RecordWatchFired records a fired watch that reached the session.
	//
	// Parameters:
	//   - eventType: Fired event type ("NodeDeleted", "NodeChildrenChanged", ...)
	//   - discarded: true if the event was ignored because the session is disconnecting
	RecordWatchFired(eventType string, discarded bool)

	// RecordRelist records a completed re-list/re-rank cycle.
	//
	// Parameters:
	//   - duration: Time taken in seconds
	//   - candidates: Number of live candidates observed
	RecordRelist(duration float64, candidates int)

	// RecordProtocolError records an error surfaced to the caller.
	//
	// Parameters:
	//   - kind: Error kind ("coordination", "sibling_vanished", "self_not_found")
	RecordProtocolError(kind string)

	// RecordEventDropped records a subscriber notification dropped because the subscriber was slow.
	RecordEventDropped()

	// RecordAnnounce records the outcome of an announcement.
	RecordAnnounce(success bool)
}

// TreeMetrics defines metrics for coordination tree operations.
type TreeMetrics interface {
	// RecordTreeOperation records the latency and outcome of a tree operation.
	//
	// Parameters:
	//   - operation: Operation ("mkdirp", "create", "children", "exists", "get", "delete")
	//   - duration: Time taken in seconds
	//   - success: true if the operation succeeded
	RecordTreeOperation(operation string, duration float64, success bool)
}
