package types

// Phase represents the lifecycle phase of an election session.
//
// Phases follow a defined progression during normal operation:
//
//	PhaseInit → PhaseConnecting → PhaseRegistering → PhaseListing → PhaseWatching → PhaseLeader/PhaseFollower
//
// Every fired watch runs the cycle again:
//
//	PhaseLeader/PhaseFollower → PhaseListing → PhaseWatching → PhaseLeader/PhaseFollower
//
// Teardown:
//
//	any → PhaseDisconnecting → PhaseDisconnected
//
// PhaseFailed is entered when an unrecoverable protocol error stops the watch loop.
// A failed session can only be disconnected.
type Phase int

const (
	// PhaseInit is the phase of a session that has not been connected.
	PhaseInit Phase = iota

	// PhaseConnecting indicates the coordination client is being established.
	PhaseConnecting

	// PhaseRegistering indicates the candidate node is being created.
	PhaseRegistering

	// PhaseListing indicates candidates are being listed and ranked.
	PhaseListing

	// PhaseWatching indicates the predecessor watch is being armed.
	PhaseWatching

	// PhaseLeader indicates the session holds leadership.
	PhaseLeader

	// PhaseFollower indicates the session is waiting behind its predecessor.
	PhaseFollower

	// PhaseDisconnecting indicates teardown has begun.
	PhaseDisconnecting

	// PhaseDisconnected indicates teardown completed.
	PhaseDisconnected

	// PhaseFailed indicates the watch loop stopped on an unrecoverable error.
	PhaseFailed
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "Init"
	case PhaseConnecting:
		return "Connecting"
	case PhaseRegistering:
		return "Registering"
	case PhaseListing:
		return "Listing"
	case PhaseWatching:
		return "Watching"
	case PhaseLeader:
		return "Leader"
	case PhaseFollower:
		return "Follower"
	case PhaseDisconnecting:
		return "Disconnecting"
	case PhaseDisconnected:
		return "Disconnected"
	case PhaseFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// IsTerminal reports whether no further transitions can happen except teardown.
func (p Phase) IsTerminal() bool {
	return p == PhaseDisconnected || p == PhaseFailed
}

// Leadership is the tri-state leadership flag of a session.
//
// It starts as LeadershipUnknown and is only ever changed by the leadership decider.
type Leadership int

const (
	// LeadershipUnknown means leadership has not been determined yet.
	LeadershipUnknown Leadership = iota

	// LeadershipLeader means the session's candidate sorts first.
	LeadershipLeader

	// LeadershipFollower means another candidate sorts first.
	LeadershipFollower
)

// String returns the string representation of the leadership state.
func (l Leadership) String() string {
	switch l {
	case LeadershipLeader:
		return "Leader"
	case LeadershipFollower:
		return "Follower"
	default:
		return "Unknown"
	}
}

// IsLeader reports whether the state is LeadershipLeader.
func (l Leadership) IsLeader() bool {
	return l == LeadershipLeader
}
