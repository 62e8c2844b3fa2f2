package types

import "time"

// EventType identifies a session notification.
type EventType int

const (
	// EventCandidateID is emitted once, after registration.
	EventCandidateID EventType = iota + 1

	// EventLeader is emitted each time the session becomes leader.
	EventLeader

	// EventFollower is emitted each time the session becomes follower,
	// including the first determination.
	EventFollower

	// EventError is emitted on any unrecoverable protocol error.
	EventError
)

// String returns the string representation of the event type.
func (t EventType) String() string {
	switch t {
	case EventCandidateID:
		return "CandidateID"
	case EventLeader:
		return "Leader"
	case EventFollower:
		return "Follower"
	case EventError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Event is a notification delivered to session subscribers.
type Event struct {
	Type        EventType
	CandidateID string
	// Candidates is the sorted candidate list that produced a leader or follower event.
	Candidates []string
	// Err is set for EventError only.
	Err error
	At  time.Time
}
